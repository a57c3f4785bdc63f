// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Global account statuses. The auth layer owns these; committees only read
// them to decide whether a caller is an admin.
const (
	UserStatusAdmin = "admin"
	UserStatusUser  = "user"
)

// User is the account record committees snapshot into IdentityRefs.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"`
	Status     string             `bson:"status" json:"status"` // admin | user
	Disabled   bool               `bson:"disabled,omitempty" json:"disabled,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Ref snapshots u as an IdentityRef.
func (u User) Ref() IdentityRef {
	return IdentityRef{UserID: u.ID, Name: u.FullName, Email: u.Email}
}
