// internal/app/system/search/search.go
package search

import (
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailPivotOK reports whether it's safe & useful to pivot a paged user
// search from name-based sorting to email-based sorting.
//
// We consider it safe to pivot when the caller is clearly searching by
// email (the query contains '@') and the result set is constrained to one
// global status, keeping the indexed path selective.
//
//	sortField := "full_name_ci"
//	if search.EmailPivotOK(q, status) {
//	    sortField = "email_ci"
//	}
func EmailPivotOK(q, status string) bool {
	qHasAt := strings.Contains(q, "@")
	statusFixed := equalsAnyFold(status, "admin", "user")
	return qHasAt && statusFixed
}

// PrefixFilter returns a case-insensitive prefix match of q on field,
// which must hold text.Fold output. Empty q returns nil.
func PrefixFilter(field, q string) bson.M {
	folded := text.Fold(strings.TrimSpace(q))
	if folded == "" {
		return nil
	}
	return bson.M{field: primitive.Regex{Pattern: "^" + regexp.QuoteMeta(folded)}}
}

func equalsAnyFold(s string, vals ...string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, v := range vals {
		if s == strings.ToLower(v) {
			return true
		}
	}
	return false
}
