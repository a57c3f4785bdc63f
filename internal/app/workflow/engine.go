// Package workflow holds the committee approval state machine.
//
// Every transition is a pure function: it takes the committee as loaded,
// the acting caller and a request, and returns either the next committee
// state with the notifications to raise, or an error. On error the input
// committee is untouched and no events are produced. Persistence and
// delivery belong to the caller.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/committeehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operation names, used in errors, audit records and metrics labels.
const (
	OpCreate       = "createCommittee"
	OpSuggest      = "suggestPeople"
	OpApprove      = "approveSuggestions"
	OpReject       = "rejectSuggestions"
	OpDissolve     = "dissolveCommittee"
	OpAddMember    = "addMember"
	OpRemoveMember = "removeMember"
)

// Result is the outcome of a legal transition.
type Result struct {
	Committee models.Committee
	Events    []Event
}

// Dissolved reports whether the transition ended the committee.
func (r Result) Dissolved() bool {
	return r.Committee.Status == models.StatusDissolved
}

// Create opens a committee with only its chairman assigned.
func Create(caller Caller, in CreateInput, now time.Time) (Result, error) {
	if !caller.IsAdmin() {
		return Result{}, newErr(ErrForbidden, OpCreate, "only an admin can create a committee")
	}

	name := strings.TrimSpace(in.Name)
	purpose := strings.TrimSpace(in.Purpose)
	chairman := normalizeRef(in.Chairman)
	switch {
	case name == "":
		return Result{}, newErr(ErrValidation, OpCreate, "committee name is required")
	case purpose == "":
		return Result{}, newErr(ErrValidation, OpCreate, "committee purpose is required")
	case chairman.UserID.IsZero():
		return Result{}, newErr(ErrValidation, OpCreate, "chairman is required")
	}

	c := models.Committee{
		ID:               primitive.NewObjectID(),
		CommitteeName:    name,
		CommitteeNameCI:  text.Fold(name),
		CommitteePurpose: purpose,
		Chairman:         chairman,
		Members:          []models.RosterEntry{},
		SuggestedMembers: []models.RosterEntry{},
		Status:           models.StatusPendingSuggestions,
		CreatedBy:        caller.Ref(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	return Result{
		Committee: c,
		Events: []Event{{
			Kind:       EventChairmanAppointed,
			Recipients: []primitive.ObjectID{chairman.UserID},
			Message:    fmt.Sprintf("You have been appointed as Chairman for the committee: %s. Please suggest a convener and members.", name),
			Link:       CommitteeLink(c.ID.Hex()),
		}},
	}, nil
}

// Suggest stages the chairman's convener and members for admin review.
// A resubmission after rejection replaces the previous proposal wholesale.
func Suggest(c models.Committee, caller Caller, in SuggestInput, now time.Time) (Result, error) {
	if !ResolveRoles(c, caller).Has(RoleChairman) {
		return Result{}, newErr(ErrForbidden, OpSuggest, "only the chairman can suggest members")
	}
	if c.Status != models.StatusPendingSuggestions {
		return Result{}, newErr(ErrInvalidTransition, OpSuggest, "committee is %s", c.Status)
	}

	convener := normalizeRef(in.Convener)
	if err := validateRef(OpSuggest, "convener", convener); err != nil {
		return Result{}, err
	}
	if len(in.Members) == 0 {
		return Result{}, newErr(ErrValidation, OpSuggest, "at least one member is required")
	}
	if isSamePerson(convener, c.Chairman) {
		return Result{}, newErr(ErrValidation, OpSuggest, "the chairman cannot be suggested as convener")
	}

	members := make([]models.RosterEntry, 0, len(in.Members))
	seenIDs := map[primitive.ObjectID]struct{}{convener.UserID: {}}
	for i, m := range in.Members {
		ref := normalizeRef(m.IdentityRef)
		if err := validateRef(OpSuggest, fmt.Sprintf("member %d", i+1), ref); err != nil {
			return Result{}, err
		}
		role, ok := normalizeRole(m.Role)
		if !ok {
			return Result{}, newErr(ErrValidation, OpSuggest, "member %d: unknown role %q", i+1, m.Role)
		}
		if isSamePerson(ref, c.Chairman) {
			return Result{}, newErr(ErrValidation, OpSuggest, "the chairman cannot be suggested as a member")
		}
		if _, dup := seenIDs[ref.UserID]; dup {
			return Result{}, newErr(ErrValidation, OpSuggest, "user %s is suggested more than once", ref.Email)
		}
		seenIDs[ref.UserID] = struct{}{}
		members = append(members, models.RosterEntry{ID: primitive.NewObjectID(), IdentityRef: ref, Role: role})
	}

	next := c.Clone()
	next.SuggestedConvener = &convener
	next.SuggestedMembers = members
	next.Status = models.StatusPendingApproval
	next.AdminComment = nil
	next.UpdatedAt = now
	if err := checkStaging(OpSuggest, next); err != nil {
		return Result{}, err
	}

	return Result{
		Committee: next,
		Events: []Event{{
			Kind:     EventSuggestionsReady,
			ToAdmins: true,
			Message:  fmt.Sprintf("The chairman of committee %q has suggested members for approval.", c.CommitteeName),
			Link:     CommitteeLink(c.ID.Hex()),
		}},
	}, nil
}

// Approve commits the staged proposal to the roster and forms the committee.
func Approve(c models.Committee, caller Caller, now time.Time) (Result, error) {
	if !caller.IsAdmin() {
		return Result{}, newErr(ErrForbidden, OpApprove, "only an admin can approve suggestions")
	}
	if c.Status != models.StatusPendingApproval {
		return Result{}, newErr(ErrInvalidTransition, OpApprove, "committee is %s", c.Status)
	}
	if c.SuggestedConvener == nil || len(c.SuggestedMembers) == 0 {
		return Result{}, newErr(ErrValidation, OpApprove, "committee has no staged suggestions")
	}

	next := c.Clone()
	convener := *next.SuggestedConvener
	next.Convener = &convener
	next.Members = next.SuggestedMembers
	next.SuggestedConvener = nil
	next.SuggestedMembers = []models.RosterEntry{}
	next.Status = models.StatusFormed
	next.AdminComment = nil
	next.UpdatedAt = now
	if err := checkRoster(OpApprove, next); err != nil {
		return Result{}, err
	}

	link := CommitteeLink(c.ID.Hex())
	events := make([]Event, 0, 2+len(next.Members))
	events = append(events,
		Event{
			Kind:       EventSuggestionsApproved,
			Recipients: []primitive.ObjectID{c.Chairman.UserID},
			Message:    fmt.Sprintf("The members you suggested for committee %q have been approved.", c.CommitteeName),
			Link:       link,
		},
		Event{
			Kind:       EventConvenerAssigned,
			Recipients: []primitive.ObjectID{convener.UserID},
			Message:    fmt.Sprintf("You have been assigned as Convener of committee %q.", c.CommitteeName),
			Link:       link,
		},
	)
	for _, m := range next.Members {
		events = append(events, Event{
			Kind:       EventMemberAssigned,
			Recipients: []primitive.ObjectID{m.UserID},
			Message:    fmt.Sprintf("You have been assigned as a %s of committee %q.", m.Role, c.CommitteeName),
			Link:       link,
		})
	}
	return Result{Committee: next, Events: events}, nil
}

// Reject sends the proposal back to the chairman with a reason. The staged
// convener and members are kept so the chairman can edit and resubmit.
func Reject(c models.Committee, caller Caller, in RejectInput, now time.Time) (Result, error) {
	if !caller.IsAdmin() {
		return Result{}, newErr(ErrForbidden, OpReject, "only an admin can reject suggestions")
	}
	if c.Status != models.StatusPendingApproval {
		return Result{}, newErr(ErrInvalidTransition, OpReject, "committee is %s", c.Status)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return Result{}, newErr(ErrValidation, OpReject, "a rejection reason is required")
	}

	next := c.Clone()
	next.Status = models.StatusPendingSuggestions
	next.AdminComment = &reason
	next.UpdatedAt = now

	return Result{
		Committee: next,
		Events: []Event{{
			Kind:       EventSuggestionsRejected,
			Recipients: []primitive.ObjectID{c.Chairman.UserID},
			Message:    fmt.Sprintf("The members you suggested for committee %q were rejected: %s", c.CommitteeName, reason),
			Link:       CommitteeLink(c.ID.Hex()),
		}},
	}, nil
}

// Dissolve ends the committee. The caller is expected to delete it.
func Dissolve(c models.Committee, caller Caller) (Result, error) {
	if !ResolveRoles(c, caller).Has(RoleChairman) {
		return Result{}, newErr(ErrForbidden, OpDissolve, "only the chairman can dissolve the committee")
	}
	if c.Status == models.StatusDissolved {
		return Result{}, newErr(ErrInvalidTransition, OpDissolve, "committee is already dissolved")
	}

	next := c.Clone()
	next.Status = models.StatusDissolved
	return Result{
		Committee: next,
		Events: []Event{{
			Kind:     EventCommitteeDissolved,
			ToAdmins: true,
			Message:  fmt.Sprintf("Committee %q was dissolved by its chairman.", c.CommitteeName),
			Link:     "/committees",
		}},
	}, nil
}

// isSamePerson matches by user id, or by email when either id is missing.
func isSamePerson(a, b models.IdentityRef) bool {
	if b.IsRemoved() {
		return false
	}
	if !a.UserID.IsZero() && a.UserID == b.UserID {
		return true
	}
	return a.Email != "" && text.Fold(a.Email) == text.Fold(b.Email)
}
