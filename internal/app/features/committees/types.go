// internal/app/features/committees/types.go
package committees

import (
	"time"

	"github.com/dalemusser/committeehub/internal/app/workflow"
	"github.com/dalemusser/committeehub/internal/domain/models"
)

// createRequest is the body of POST /committees.
type createRequest struct {
	Name       string `json:"committee_name" validate:"required,max=200" label:"Committee name"`
	Purpose    string `json:"committee_purpose" validate:"required,max=2000" label:"Committee purpose"`
	ChairmanID string `json:"chairman_id" validate:"required,objectid" label:"Chairman"`
}

// memberRequest names one person by account id. Role defaults to member.
type memberRequest struct {
	UserID string `json:"user_id" validate:"required,objectid" label:"Member"`
	Role   string `json:"role" validate:"omitempty,rosterrole" label:"Role"`
}

// suggestRequest is the body of POST /committees/{id}/suggestions.
type suggestRequest struct {
	ConvenerID string          `json:"convener_id" validate:"required,objectid" label:"Convener"`
	Members    []memberRequest `json:"members" validate:"required,min=1,max=200,dive" label:"Members"`
}

// rejectRequest is the body of POST /committees/{id}/reject.
type rejectRequest struct {
	Reason string `json:"reason" validate:"required,max=2000" label:"Reason"`
}

// committeeResponse wraps a committee with the caller's roles on it.
type committeeResponse struct {
	Committee models.Committee `json:"committee"`
	Roles     []string         `json:"roles,omitempty"`
}

// listResponse is the body of the list endpoints.
type listResponse struct {
	Committees []models.Committee `json:"committees"`
	Count      int                `json:"count"`
}

// rosterRow is one line of GET /committees/{id}/users. The chairman and
// convener appear as rows keyed by their slot name so a client can pass
// Key straight to DELETE /committees/{id}/users/{key}.
type rosterRow struct {
	Key    string `json:"key"`
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type rosterResponse struct {
	CommitteeID string      `json:"committee_id"`
	Status      string      `json:"status"`
	Rows        []rosterRow `json:"rows"`
}

// historyEntry is one audit record as shown to committee participants.
type historyEntry struct {
	EventType     string            `json:"event_type"`
	ActorID       string            `json:"actor_id,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

type rolesResponse struct {
	CommitteeID string   `json:"committee_id"`
	Roles       []string `json:"roles"`
}

func buildRoster(c models.Committee) rosterResponse {
	rows := make([]rosterRow, 0, len(c.Members)+2)
	rows = append(rows, slotRow(workflow.SlotChairman, c.Chairman, models.RosterRoleChairman))
	if c.Convener != nil {
		rows = append(rows, slotRow(workflow.SlotConvener, *c.Convener, models.RosterRoleConvener))
	}
	for _, m := range c.Members {
		row := slotRow(m.ID.Hex(), m.IdentityRef, m.Role)
		rows = append(rows, row)
	}
	return rosterResponse{CommitteeID: c.ID.Hex(), Status: c.Status, Rows: rows}
}

func slotRow(key string, ref models.IdentityRef, role string) rosterRow {
	row := rosterRow{Key: key, Name: ref.Name, Email: ref.Email, Role: role}
	if !ref.UserID.IsZero() {
		row.UserID = ref.UserID.Hex()
	}
	return row
}
