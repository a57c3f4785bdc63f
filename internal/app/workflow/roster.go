package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/committeehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slot keys accepted by RemoveMember in place of a roster entry id.
const (
	SlotChairman = "chairman"
	SlotConvener = "convener"
)

// canAdministerRoster: admins and the committee's own chairman.
func canAdministerRoster(c models.Committee, caller Caller) bool {
	roles := ResolveRoles(c, caller)
	return roles.Has(RoleAdmin) || roles.Has(RoleChairman)
}

// AddMember appends a person to a formed committee's roster outside the
// suggest/approve cycle.
func AddMember(c models.Committee, caller Caller, in AddMemberInput, now time.Time) (Result, error) {
	if !canAdministerRoster(c, caller) {
		return Result{}, newErr(ErrForbidden, OpAddMember, "only an admin or the chairman can add members")
	}
	if c.Status != models.StatusFormed {
		return Result{}, newErr(ErrInvalidTransition, OpAddMember, "committee is %s", c.Status)
	}

	ref := normalizeRef(in.IdentityRef)
	if err := validateRef(OpAddMember, "member", ref); err != nil {
		return Result{}, err
	}
	role, ok := normalizeRole(in.Role)
	if !ok {
		return Result{}, newErr(ErrValidation, OpAddMember, "unknown role %q", in.Role)
	}
	for _, m := range c.Members {
		if m.UserID == ref.UserID {
			return Result{}, newErr(ErrValidation, OpAddMember, "user is already in the committee")
		}
	}

	next := c.Clone()
	next.Members = append(next.Members, models.RosterEntry{ID: primitive.NewObjectID(), IdentityRef: ref, Role: role})
	next.UpdatedAt = now
	if err := checkRoster(OpAddMember, next); err != nil {
		return Result{}, err
	}

	return Result{
		Committee: next,
		Events: []Event{{
			Kind:       EventMemberAdded,
			Recipients: []primitive.ObjectID{ref.UserID},
			Message:    fmt.Sprintf("You have been added to committee %q as %s.", c.CommitteeName, role),
			Link:       CommitteeLink(c.ID.Hex()),
		}},
	}, nil
}

// RemoveMember removes one roster entry, addressed by entry id or user id.
// The keys "chairman" and "convener" do not delete the slot; they replace
// the person in it with models.RemovedIdentity().
func RemoveMember(c models.Committee, caller Caller, key string, now time.Time) (Result, error) {
	if !canAdministerRoster(c, caller) {
		return Result{}, newErr(ErrForbidden, OpRemoveMember, "only an admin or the chairman can remove members")
	}
	if c.Status != models.StatusFormed {
		return Result{}, newErr(ErrInvalidTransition, OpRemoveMember, "committee is %s", c.Status)
	}

	next := c.Clone()
	next.UpdatedAt = now

	switch strings.ToLower(strings.TrimSpace(key)) {
	case SlotChairman:
		next.Chairman = models.RemovedIdentity()
		return Result{Committee: next}, nil
	case SlotConvener:
		removed := models.RemovedIdentity()
		next.Convener = &removed
		return Result{Committee: next}, nil
	}

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(key))
	if err != nil {
		return Result{}, newErr(ErrNotFound, OpRemoveMember, "member %q not found", key)
	}
	kept := make([]models.RosterEntry, 0, len(next.Members))
	for _, m := range next.Members {
		if m.ID == oid || m.UserID == oid {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == len(next.Members) {
		return Result{}, newErr(ErrNotFound, OpRemoveMember, "member %q not found", key)
	}
	next.Members = kept
	return Result{Committee: next}, nil
}
