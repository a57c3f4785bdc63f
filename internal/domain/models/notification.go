// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is one stored message for one user.
// DispatchID groups the notifications written by a single workflow transition.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Message    string             `bson:"message" json:"message"`
	Link       string             `bson:"link" json:"link"`
	DispatchID string             `bson:"dispatch_id,omitempty" json:"dispatch_id,omitempty"`
	Read       bool               `bson:"read" json:"read"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
