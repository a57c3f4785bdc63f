package workflow

import (
	"github.com/dalemusser/committeehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// emailSet tracks folded emails and reports the first repeat.
type emailSet map[string]struct{}

func (s emailSet) add(email string) bool {
	key := text.Fold(email)
	if key == "" {
		return true
	}
	if _, dup := s[key]; dup {
		return false
	}
	s[key] = struct{}{}
	return true
}

func (s emailSet) addRef(ref *models.IdentityRef) bool {
	if ref == nil || ref.IsRemoved() {
		return true
	}
	return s.add(ref.Email)
}

// checkRoster enforces that nobody on the committed roster shares an email
// with anyone else on it, chairman and convener included.
func checkRoster(op string, c models.Committee) error {
	seen := emailSet{}
	seen.addRef(&c.Chairman)
	if !seen.addRef(c.Convener) {
		return newErr(ErrValidation, op, "convener %s duplicates another roster email", c.Convener.Email)
	}
	for _, m := range c.Members {
		if !seen.add(m.Email) {
			return newErr(ErrValidation, op, "duplicate email %s", m.Email)
		}
	}
	return nil
}

// checkStaging applies the same rule to the chairman's proposal.
func checkStaging(op string, c models.Committee) error {
	seen := emailSet{}
	seen.addRef(&c.Chairman)
	if !seen.addRef(c.SuggestedConvener) {
		return newErr(ErrValidation, op, "suggested convener %s duplicates another email", c.SuggestedConvener.Email)
	}
	for _, m := range c.SuggestedMembers {
		if !seen.add(m.Email) {
			return newErr(ErrValidation, op, "duplicate email %s", m.Email)
		}
	}
	return nil
}
