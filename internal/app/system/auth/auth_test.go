package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-test-jwt-secret!"

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	sm.SetTokenVerifier(auth.NewTokenVerifier(testSecret))
	return sm
}

// echoUser reports the user LoadSessionUser placed in context.
func echoUser(t *testing.T, sm *auth.SessionManager, r *http.Request) (*auth.SessionUser, bool) {
	t.Helper()
	var got *auth.SessionUser
	var ok bool
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = auth.CurrentUser(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), r)
	return got, ok
}

type fakeFetcher map[string]*auth.SessionUser

func (f fakeFetcher) FetchUser(_ context.Context, id string) *auth.SessionUser { return f[id] }

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "x", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestDevSessionKey(t *testing.T) {
	a, b := auth.DevSessionKey(), auth.DevSessionKey()
	if len(a) != 64 || a == b {
		t.Errorf("DevSessionKey() = %q, %q; want two distinct 64-char keys", a, b)
	}
}

func TestRequireSignedIn(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/committees", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no user: status %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/committees", nil), &auth.SessionUser{ID: "x"})
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("with user: status %d, want 200", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		user *auth.SessionUser
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"plain user", &auth.SessionUser{ID: "u", Status: "user"}, http.StatusForbidden},
		{"admin", &auth.SessionUser{ID: "a", Status: "admin"}, http.StatusOK},
		{"admin mixed case", &auth.SessionUser{ID: "a", Status: "Admin"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLoadSessionUser_BearerHeaderAndCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	id := primitive.NewObjectID().Hex()
	tok, err := sm.Tokens().Issue(auth.SessionUser{ID: id, Name: "Ada", Status: "user"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	u, ok := echoUser(t, sm, req)
	if !ok || u.ID != id || u.Name != "Ada" {
		t.Errorf("header: got %+v, %v", u, ok)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.TokenCookie, Value: tok})
	if u, ok := echoUser(t, sm, req); !ok || u.ID != id {
		t.Errorf("cookie: got %+v, %v", u, ok)
	}
}

func TestLoadSessionUser_RejectsBadToken(t *testing.T) {
	sm := newTestSessionManager(t)
	other := auth.NewTokenVerifier("some-other-secret-some-other-secret")
	tok, _ := other.Issue(auth.SessionUser{ID: "x"}, time.Hour)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	if _, ok := echoUser(t, sm, req); ok {
		t.Error("token signed with another secret should be rejected")
	}
}

func TestLoadSessionUser_FetcherRefreshesStatus(t *testing.T) {
	sm := newTestSessionManager(t)
	id := primitive.NewObjectID().Hex()
	sm.SetUserFetcher(fakeFetcher{id: {ID: id, Name: "Fresh", Status: "admin"}})

	tok, _ := sm.Tokens().Issue(auth.SessionUser{ID: id, Status: "user"}, time.Hour)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	u, ok := echoUser(t, sm, req)
	if !ok || !u.IsAdmin() || u.Name != "Fresh" {
		t.Errorf("expected fetched admin, got %+v", u)
	}

	// Unknown to the fetcher: signed out.
	tok2, _ := sm.Tokens().Issue(auth.SessionUser{ID: primitive.NewObjectID().Hex()}, time.Hour)
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok2)
	if _, ok := echoUser(t, sm, req); ok {
		t.Error("user missing from fetcher should not be signed in")
	}
}

func TestLoginLogout_SessionCookieRoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)
	user := &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Name: "Grace", Email: "g@example.com", Status: "admin"}

	rec := httptest.NewRecorder()
	if err := sm.Login(rec, httptest.NewRequest("POST", "/session", nil), user); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie")
	}

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	got, ok := echoUser(t, sm, req)
	if !ok || *got != *user {
		t.Errorf("session user = %+v, want %+v", got, user)
	}

	rec = httptest.NewRecorder()
	if err := sm.Logout(rec, req); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge >= 0 {
			t.Errorf("expected expired cookie, got MaxAge %d", c.MaxAge)
		}
	}
}

func TestLoadSessionUser_GarbageCookieIgnored(t *testing.T) {
	sm := newTestSessionManager(t)
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-valid-cookie"})
	if _, ok := echoUser(t, sm, req); ok {
		t.Error("garbage cookie should not authenticate")
	}
}

func TestTokenVerifier(t *testing.T) {
	v := auth.NewTokenVerifier(testSecret)

	expired, _ := v.Issue(auth.SessionUser{ID: "x"}, -time.Minute)
	if _, err := v.Verify(expired); !errors.Is(err, auth.ErrTokenInvalid) {
		t.Errorf("expired: expected ErrTokenInvalid, got %v", err)
	}

	noID, _ := v.Issue(auth.SessionUser{}, time.Hour)
	if _, err := v.Verify(noID); !errors.Is(err, auth.ErrTokenNoSubject) {
		t.Errorf("no id: expected ErrTokenNoSubject, got %v", err)
	}

	if _, err := v.Verify("garbage"); !errors.Is(err, auth.ErrTokenInvalid) {
		t.Errorf("garbage: expected ErrTokenInvalid, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "bearer abc")
	req.AddCookie(&http.Cookie{Name: auth.TokenCookie, Value: "cookie"})
	if got := auth.BearerToken(req); got != "abc" {
		t.Errorf("BearerToken = %q, want header value", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic xyz")
	if got := auth.BearerToken(req); got != "" {
		t.Errorf("BearerToken with Basic = %q, want empty", got)
	}
}
