// internal/domain/models/committee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Committee statuses.
//
// StatusDissolved is never stored: dissolving a committee deletes the
// document. It only appears on the in-memory result of the transition.
const (
	StatusPendingSuggestions = "pending_suggestions"
	StatusPendingApproval    = "pending_approval"
	StatusFormed             = "formed"
	StatusDissolved          = "dissolved"
)

// Roster roles carried on RosterEntry.Role.
const (
	RosterRoleMember   = "member"
	RosterRoleConvener = "convener"
	RosterRoleChairman = "chairman"
)

// RemovedLabel is the name and email written into a chairman or convener
// slot when that person is removed from the committee.
const RemovedLabel = "Removed"

// IdentityRef is a snapshot of a user's id, name and email taken at the time
// they were assigned to a committee. It is not refreshed when the user
// record changes.
type IdentityRef struct {
	UserID primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Name   string             `bson:"name" json:"name"`
	Email  string             `bson:"email" json:"email"`
}

// RemovedIdentity returns the placeholder used for a vacated chairman or
// convener slot. It has no user id.
func RemovedIdentity() IdentityRef {
	return IdentityRef{Name: RemovedLabel, Email: RemovedLabel}
}

// IsRemoved reports whether ref is the vacated-slot placeholder.
func (ref IdentityRef) IsRemoved() bool {
	return ref.UserID.IsZero() && ref.Name == RemovedLabel && ref.Email == RemovedLabel
}

// RosterEntry is one row of a committee's member list (or suggested list).
// ID addresses the row for removal and is assigned when the row is created.
type RosterEntry struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	IdentityRef `bson:",inline"`
	Role        string `bson:"role" json:"role"` // member | convener | chairman
}

// Committee is the aggregate root of the approval workflow.
//
// NOTE:
//   - Convener and Members are only written by an approval (or by roster
//     administration after formation).
//   - SuggestedConvener/SuggestedMembers are the chairman's staged proposal.
//   - Version is bumped on every successful save and guards concurrent writes.
type Committee struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	CommitteeName    string             `bson:"committee_name" json:"committee_name"`
	CommitteeNameCI  string             `bson:"committee_name_ci" json:"-"`
	CommitteePurpose string             `bson:"committee_purpose" json:"committee_purpose"`

	Chairman IdentityRef   `bson:"chairman" json:"chairman"`
	Convener *IdentityRef  `bson:"convener,omitempty" json:"convener,omitempty"`
	Members  []RosterEntry `bson:"members" json:"members"`

	SuggestedConvener *IdentityRef  `bson:"suggested_convener,omitempty" json:"suggested_convener,omitempty"`
	SuggestedMembers  []RosterEntry `bson:"suggested_members" json:"suggested_members"`

	Status       string  `bson:"status" json:"status"`
	AdminComment *string `bson:"admin_comment,omitempty" json:"admin_comment,omitempty"`

	CreatedBy IdentityRef `bson:"created_by" json:"created_by"`
	Version   int64       `bson:"version" json:"version"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate the result without
// touching the original's slices or pointers.
func (c Committee) Clone() Committee {
	out := c
	if c.Convener != nil {
		v := *c.Convener
		out.Convener = &v
	}
	if c.SuggestedConvener != nil {
		v := *c.SuggestedConvener
		out.SuggestedConvener = &v
	}
	if c.AdminComment != nil {
		v := *c.AdminComment
		out.AdminComment = &v
	}
	out.Members = append([]RosterEntry(nil), c.Members...)
	out.SuggestedMembers = append([]RosterEntry(nil), c.SuggestedMembers...)
	if out.Members == nil {
		out.Members = []RosterEntry{}
	}
	if out.SuggestedMembers == nil {
		out.SuggestedMembers = []RosterEntry{}
	}
	return out
}
