package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/committeehub/internal/app/features/auditlog"
	"github.com/dalemusser/committeehub/internal/app/store/audit"
	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"github.com/dalemusser/committeehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listBody struct {
	Events     []audit.Event `json:"events"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

func seed(t *testing.T, store *audit.Store, events ...audit.Event) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("seed audit event: %v", err)
		}
	}
}

func TestServeList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := auditlog.NewHandler(db, zap.NewNop())

	committeeID := primitive.NewObjectID()
	seed(t, h.Events,
		audit.Event{Category: audit.CategoryAuth, EventType: audit.EventSessionStarted, Success: true},
		audit.Event{Category: audit.CategoryWorkflow, EventType: audit.EventCommitteeCreated, CommitteeID: &committeeID, Success: true},
		audit.Event{Category: audit.CategoryWorkflow, EventType: audit.EventSuggestionsSubmitted, CommitteeID: &committeeID, Success: true},
		audit.Event{Category: audit.CategoryWorkflow, EventType: audit.EventCommitteeCreated, Success: true,
			Timestamp: time.Date(2020, 1, 2, 12, 0, 0, 0, time.UTC)},
	)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTotal  int64
	}{
		{"all", "", http.StatusOK, 4},
		{"by category", "?category=workflow", http.StatusOK, 3},
		{"by event type", "?category=workflow&event_type=committee_created", http.StatusOK, 2},
		{"by committee", "?committee_id=" + committeeID.Hex(), http.StatusOK, 2},
		{"date range", "?start_date=2020-01-02&end_date=2020-01-02", http.StatusOK, 1},
		{"unknown category", "?category=billing", http.StatusBadRequest, 0},
		{"event outside category", "?category=auth&event_type=committee_created", http.StatusBadRequest, 0},
		{"bad committee id", "?committee_id=nope", http.StatusBadRequest, 0},
		{"bad date", "?start_date=01/02/2020", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := auth.WithTestUser(httptest.NewRequest(http.MethodGet, "/audit"+tt.query, nil), testutil.AdminUser())
			rec := testutil.NewRecorder()
			h.ServeList(rec, req)

			rec.AssertStatus(t, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				if code := rec.ErrorCode(t); code != "validation" {
					t.Errorf("error code = %q, want validation", code)
				}
				return
			}
			var body listBody
			rec.DecodeJSON(t, &body)
			if body.Total != tt.wantTotal || int64(len(body.Events)) != tt.wantTotal {
				t.Errorf("total = %d (%d events), want %d", body.Total, len(body.Events), tt.wantTotal)
			}
			if body.TotalPages != 1 {
				t.Errorf("total_pages = %d, want 1", body.TotalPages)
			}
		})
	}
}

func TestRoutes_RequireAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := auditlog.NewHandler(db, zap.NewNop())
	sm, err := auth.NewSessionManager(auth.DevSessionKey(), "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	router := auditlog.Routes(h, sm)

	user := &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Name: "Pat", Status: "user"}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, auth.WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil), user))
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}
}
