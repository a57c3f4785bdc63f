package workflow

import (
	"strings"

	"github.com/dalemusser/committeehub/internal/app/system/inputval"
	"github.com/dalemusser/committeehub/internal/domain/models"
)

// CreateInput is the admin's request to open a committee.
type CreateInput struct {
	Name     string
	Purpose  string
	Chairman models.IdentityRef
}

// MemberInput is one proposed or added roster row. Role defaults to member.
type MemberInput struct {
	models.IdentityRef
	Role string
}

// SuggestInput is the chairman's proposal. Both fields are required.
type SuggestInput struct {
	Convener models.IdentityRef
	Members  []MemberInput
}

// RejectInput carries the admin's reason, which becomes the committee's
// admin comment.
type RejectInput struct {
	Reason string
}

// AddMemberInput is a direct roster addition after formation.
type AddMemberInput = MemberInput

func normalizeRef(ref models.IdentityRef) models.IdentityRef {
	return models.IdentityRef{
		UserID: ref.UserID,
		Name:   strings.TrimSpace(ref.Name),
		Email:  strings.TrimSpace(ref.Email),
	}
}

func normalizeRole(role string) (string, bool) {
	role = strings.ToLower(strings.TrimSpace(role))
	switch role {
	case "":
		return models.RosterRoleMember, true
	case models.RosterRoleMember, models.RosterRoleConvener, models.RosterRoleChairman:
		return role, true
	}
	return "", false
}

// validateRef checks that a person reference is complete. what names the
// field in the error message.
func validateRef(op, what string, ref models.IdentityRef) error {
	if ref.UserID.IsZero() {
		return newErr(ErrValidation, op, "%s: user id is required", what)
	}
	if ref.Email == "" {
		return newErr(ErrValidation, op, "%s: email is required", what)
	}
	if !inputval.IsValidEmail(ref.Email) {
		return newErr(ErrValidation, op, "%s: email %q is not valid", what, ref.Email)
	}
	if ref.Name == "" {
		return newErr(ErrValidation, op, "%s: name is required", what)
	}
	return nil
}
