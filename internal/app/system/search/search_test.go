package search

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEmailPivotOK(t *testing.T) {
	tests := []struct {
		name   string
		search string
		status string
		want   bool
	}{
		{"email search with admin status", "user@example.com", "admin", true},
		{"partial email with user status", "@domain", "user", true},
		{"case insensitive status", "user@", "ADMIN", true},

		// Should NOT pivot - missing @
		{"name search", "john doe", "user", false},
		{"empty search", "", "user", false},

		// Should NOT pivot - status not constrained
		{"email search with empty status", "user@example.com", "", false},
		{"email search with all status", "user@example.com", "all", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmailPivotOK(tt.search, tt.status); got != tt.want {
				t.Errorf("EmailPivotOK(%q, %q) = %v, want %v", tt.search, tt.status, got, tt.want)
			}
		})
	}
}

func TestPrefixFilter(t *testing.T) {
	if PrefixFilter("full_name_ci", "   ") != nil {
		t.Error("blank query should produce no filter")
	}

	f := PrefixFilter("full_name_ci", " Ada ")
	re, ok := f["full_name_ci"].(primitive.Regex)
	if !ok {
		t.Fatalf("filter = %#v, want regex", f)
	}
	if re.Pattern != "^ada" {
		t.Errorf("pattern = %q", re.Pattern)
	}
}
