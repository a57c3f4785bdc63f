package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"github.com/dalemusser/committeehub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx(t *testing.T) {
	id := primitive.NewObjectID()
	tests := []struct {
		name       string
		user       *auth.SessionUser
		wantStatus string
		wantOK     bool
	}{
		{"anonymous", nil, "visitor", false},
		{"malformed id", &auth.SessionUser{ID: "garbage", Status: "admin"}, "visitor", false},
		{"admin upper", &auth.SessionUser{ID: id.Hex(), Status: "ADMIN"}, "admin", true},
		{"user", &auth.SessionUser{ID: id.Hex(), Status: "user"}, "user", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			status, _, uid, ok := authz.UserCtx(req)
			if status != tt.wantStatus || ok != tt.wantOK {
				t.Errorf("UserCtx = (%q, %v), want (%q, %v)", status, ok, tt.wantStatus, tt.wantOK)
			}
			if ok && uid != id {
				t.Errorf("userID = %s, want %s", uid.Hex(), id.Hex())
			}
		})
	}
}

func TestCallerFrom(t *testing.T) {
	id := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID: id.Hex(), Name: "Ada", Email: "ada@example.com", Status: "admin",
	})

	c, ok := authz.CallerFrom(req)
	if !ok {
		t.Fatal("expected caller")
	}
	if c.UserID != id || c.Name != "Ada" || c.Email != "ada@example.com" || !c.IsAdmin() {
		t.Errorf("unexpected caller: %+v", c)
	}
	if !authz.IsAdmin(req) {
		t.Error("IsAdmin = false, want true")
	}

	if _, ok := authz.CallerFrom(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("anonymous request should have no caller")
	}
}
