// internal/app/features/systemusers/types.go
package systemusers

import (
	"time"

	"github.com/dalemusser/committeehub/internal/app/system/paging"
	"github.com/dalemusser/committeehub/internal/domain/models"
)

type userRow struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
}

func toRow(u models.User) userRow {
	return userRow{
		ID:        u.ID.Hex(),
		FullName:  u.FullName,
		Email:     u.Email,
		Status:    u.Status,
		Disabled:  u.Disabled,
		CreatedAt: u.CreatedAt,
	}
}

type listResponse struct {
	Users  []userRow     `json:"users"`
	Paging paging.Result `json:"paging"`
}

// statusInput defines validation rules for changing a user's status.
type statusInput struct {
	Status string `json:"status" validate:"required,oneof=admin user" label:"Status"`
}

type disabledInput struct {
	Disabled *bool `json:"disabled" validate:"required" label:"Disabled"`
}
