// internal/app/features/people/handler.go
//
// Package people serves the read-only directory chairmen use to find the
// accounts they propose as convener and members.
package people

import (
	"context"

	committeestore "github.com/dalemusser/committeehub/internal/app/store/committees"
	userstore "github.com/dalemusser/committeehub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ChairLookup answers whether a user currently chairs any committee.
type ChairLookup interface {
	ChairsAny(ctx context.Context, userID primitive.ObjectID) (bool, error)
}

type Handler struct {
	Users  *userstore.Store
	Chairs ChairLookup
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		Chairs: committeestore.New(db),
		Log:    logger,
	}
}
