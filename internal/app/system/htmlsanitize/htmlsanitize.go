// Package htmlsanitize cleans free text submitted through the API.
//
// Committee names, purposes, admin comments and display names are stored
// as plain text and later echoed into notification messages, so any markup
// is removed on the way in.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// StripTags removes every HTML element from s and trims the result.
// Entities bluemonday escapes (&, quotes) are turned back into text so
// "R&D" round-trips unchanged.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(strict().Sanitize(s)))
}

// IsPlainText reports whether s contains no tag-like sequences.
func IsPlainText(s string) bool {
	lt := strings.IndexByte(s, '<')
	return lt < 0 || strings.IndexByte(s[lt:], '>') < 0
}
