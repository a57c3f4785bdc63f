package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminUser returns a session user with admin status that does not exist in
// any database.
func AdminUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:     primitive.NewObjectID().Hex(),
		Name:   "Test Admin",
		Email:  "admin@test.com",
		Status: models.UserStatusAdmin,
	}
}

// SessionUserFor returns the session user for a stored account.
func SessionUserFor(u models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:     u.ID.Hex(),
		Name:   u.FullName,
		Email:  u.Email,
		Status: u.Status,
	}
}

// NewJSONRequest builds a request with body marshalled as JSON. A nil body
// sends no payload.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

// NewAuthenticatedRequest is NewJSONRequest with user placed in context.
func NewAuthenticatedRequest(t *testing.T, method, target string, body any, user *auth.SessionUser) *http.Request {
	t.Helper()
	return auth.WithTestUser(NewJSONRequest(t, method, target, body), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with assertion helpers.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t *testing.T, expected int) {
	t.Helper()
	if r.Code != expected {
		t.Errorf("expected status %d, got %d; body: %s", expected, r.Code, r.Body.String())
	}
}

// AssertContains checks that the body contains expected.
func (r *ResponseRecorder) AssertContains(t *testing.T, expected string) {
	t.Helper()
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("expected body to contain %q, got %s", expected, r.Body.String())
	}
}

// DecodeJSON unmarshals the body into v.
func (r *ResponseRecorder) DecodeJSON(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v; body: %s", err, r.Body.String())
	}
}

// ErrorCode returns the "error" field of a JSON error body.
func (r *ResponseRecorder) ErrorCode(t *testing.T) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	r.DecodeJSON(t, &body)
	return body.Error
}
