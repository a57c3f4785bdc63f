package workflow

import (
	"sort"

	"github.com/dalemusser/committeehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a caller's relationship to a committee.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleChairman Role = "chairman"
	RoleConvener Role = "convener"
	RoleMember   Role = "member"
)

// Caller is the externally authenticated identity acting on a committee.
// GlobalStatus comes from the account record ("admin" for administrators).
type Caller struct {
	UserID       primitive.ObjectID
	GlobalStatus string
	Name         string
	Email        string
}

// IsAdmin reports whether the caller's account status is admin.
func (c Caller) IsAdmin() bool {
	return c.GlobalStatus == models.UserStatusAdmin
}

// Ref snapshots the caller as an IdentityRef.
func (c Caller) Ref() models.IdentityRef {
	return models.IdentityRef{UserID: c.UserID, Name: c.Name, Email: c.Email}
}

// RoleSet is the set of roles a caller holds on one committee. Roles are
// independent: an admin can also be a member.
type RoleSet map[Role]struct{}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Any reports whether the set holds at least one role.
func (s RoleSet) Any() bool { return len(s) > 0 }

// Strings returns the roles in a stable order.
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

// ResolveRoles computes the caller's roles on c.
func ResolveRoles(c models.Committee, caller Caller) RoleSet {
	set := RoleSet{}
	if caller.IsAdmin() {
		set[RoleAdmin] = struct{}{}
	}
	if caller.UserID.IsZero() {
		return set
	}
	if c.Chairman.UserID == caller.UserID {
		set[RoleChairman] = struct{}{}
	}
	if c.Convener != nil && c.Convener.UserID == caller.UserID {
		set[RoleConvener] = struct{}{}
	}
	for _, m := range c.Members {
		if m.UserID == caller.UserID {
			set[RoleMember] = struct{}{}
			break
		}
	}
	return set
}
