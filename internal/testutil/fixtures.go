package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/committeehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data. Documents are
// written straight to the collections so store packages can use fixtures
// in their own tests.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) createUser(ctx context.Context, fullName, email, status string, disabled bool) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		Status:     status,
		Disabled:   disabled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateUser creates an ordinary (non-admin) account.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, models.UserStatusUser, false)
}

// CreateAdmin creates an admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, models.UserStatusAdmin, false)
}

// CreateDisabledUser creates an account the user fetcher refuses.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, models.UserStatusUser, true)
}

// CreateCommittee inserts a committee chaired by chair in the given status
// with empty roster and staging fields. Fill in what a test needs and save
// it through the committee store.
func (f *Fixtures) CreateCommittee(ctx context.Context, name string, chair models.User, status string) models.Committee {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Committee{
		ID:               primitive.NewObjectID(),
		CommitteeName:    name,
		CommitteeNameCI:  text.Fold(name),
		CommitteePurpose: name + " purpose",
		Chairman:         chair.Ref(),
		Members:          []models.RosterEntry{},
		SuggestedMembers: []models.RosterEntry{},
		Status:           status,
		CreatedBy:        chair.Ref(),
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("committees").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test committee: %v", err)
	}
	return c
}

// CreateNotification inserts one unread notification for userID.
func (f *Fixtures) CreateNotification(ctx context.Context, userID primitive.ObjectID, message string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Message:   message,
		Link:      "/committees",
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
