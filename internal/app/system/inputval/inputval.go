// Package inputval validates request input: struct-tag validation for
// decoded JSON bodies plus a few standalone predicates the workflow engine
// applies to identity references.
package inputval

import (
	"net/mail"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsValidEmail reports whether s is a bare address (no display name) with a
// non-empty local part and domain and no stray dots or whitespace.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	return dotsOK(local) && dotsOK(domain)
}

func dotsOK(part string) bool {
	return !strings.HasPrefix(part, ".") &&
		!strings.HasSuffix(part, ".") &&
		!strings.Contains(part, "..")
}

// IsValidObjectID reports whether s (trimmed) is a 24-char hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsValidRosterRole reports whether role names a roster position. Empty is
// accepted because it defaults to member.
func IsValidRosterRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "", "member", "convener", "chairman":
		return true
	}
	return false
}
