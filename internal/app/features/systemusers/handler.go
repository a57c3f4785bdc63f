// internal/app/features/systemusers/handler.go
package systemusers

import (
	userstore "github.com/dalemusser/committeehub/internal/app/store/users"
	"github.com/dalemusser/committeehub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Log      *zap.Logger
	AuditLog *auditlog.Logger
}

// NewHandler constructs a System Users feature handler bound to
// the given Mongo database and logger.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Log:      logger,
		AuditLog: audit,
	}
}
