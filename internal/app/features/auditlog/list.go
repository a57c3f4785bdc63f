// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	"github.com/dalemusser/committeehub/internal/app/store/audit"
	"github.com/dalemusser/committeehub/internal/app/system/inputval"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

// ServeList handles GET /audit.
//
// Query parameters (all optional): category, event_type, committee_id,
// start_date and end_date (YYYY-MM-DD, end inclusive), page.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	res := &inputval.Result{}
	if category != "" && eventTypesForCategory(category) == nil {
		res.Add("category", "category must be auth, workflow or admin.")
	}
	if eventType != "" && !slices.Contains(eventTypesForCategory(category), eventType) {
		res.Add("event_type", "event_type is not a known event for this category.")
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}

	if cid := strings.TrimSpace(q.Get("committee_id")); cid != "" {
		oid, err := primitive.ObjectIDFromHex(cid)
		if err != nil {
			res.Add("committee_id", "committee_id must be a valid id.")
		} else {
			filter.CommitteeID = &oid
		}
	}
	if s := strings.TrimSpace(q.Get("start_date")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			res.Add("start_date", "start_date must be YYYY-MM-DD.")
		} else {
			filter.StartTime = &t
		}
	}
	if s := strings.TrimSpace(q.Get("end_date")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			res.Add("end_date", "end_date must be YYYY-MM-DD.")
		} else {
			// End of day
			endOfDay := t.Add(24*time.Hour - time.Nanosecond)
			filter.EndTime = &endOfDay
		}
	}
	if res.HasErrors() {
		apierrors.WriteValidation(w, res)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("failed to query audit events", zap.Error(err))
		apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "a database error occurred")
		return
	}

	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("failed to count audit events", zap.Error(err))
		apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "a database error occurred")
		return
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	apierrors.WriteJSON(w, http.StatusOK, listResponse{
		Events:     events,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	})
}
