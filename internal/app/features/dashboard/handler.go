// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	committeestore "github.com/dalemusser/committeehub/internal/app/store/committees"
	metricsstore "github.com/dalemusser/committeehub/internal/app/store/metrics"
	notificationstore "github.com/dalemusser/committeehub/internal/app/store/notifications"
	"github.com/dalemusser/committeehub/internal/app/system/authz"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/app/workflow"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB            *mongo.Database
	Committees    *committeestore.Store
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Committees:    committeestore.New(db),
		Notifications: notificationstore.New(db),
		Log:           logger,
	}
}

// item is a committee that needs the caller's attention.
type item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type dashboardResponse struct {
	Status string `json:"status"`

	// Roles held across committees, counted once per committee.
	Chairing  int `json:"chairing"`
	Convening int `json:"convening"`
	MemberOf  int `json:"member_of"`

	// Chairman work: committees still waiting for suggestions.
	AwaitingSuggestions []item `json:"awaiting_suggestions"`
	// Admin work: committees waiting for approval.
	AwaitingApproval []item `json:"awaiting_approval,omitempty"`

	Unread int64                `json:"unread_notifications"`
	Totals *metricsstore.Counts `json:"totals,omitempty"`
}

func toItem(c models.Committee) item {
	return item{ID: c.ID.Hex(), Name: c.CommitteeName, Status: c.Status}
}

// ServeDashboard handles GET /dashboard. Everyone sees their own work
// queue; admins also get the approval queue and system-wide totals.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	caller, ok := authz.CallerFrom(r)
	if !ok {
		apierrors.Write(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard")
	defer cancel()

	mine, err := h.Committees.FindByRole(ctx, caller.UserID)
	if err != nil {
		h.internal(w, "list committees by role", err)
		return
	}

	resp := dashboardResponse{
		Status:              caller.GlobalStatus,
		AwaitingSuggestions: []item{},
	}
	for _, c := range mine {
		roles := workflow.ResolveRoles(c, caller)
		if roles.Has(workflow.RoleChairman) {
			resp.Chairing++
			if c.Status == models.StatusPendingSuggestions {
				resp.AwaitingSuggestions = append(resp.AwaitingSuggestions, toItem(c))
			}
		}
		if roles.Has(workflow.RoleConvener) {
			resp.Convening++
		}
		if roles.Has(workflow.RoleMember) {
			resp.MemberOf++
		}
	}

	resp.Unread, err = h.Notifications.CountUnread(ctx, caller.UserID)
	if err != nil {
		h.internal(w, "count unread notifications", err)
		return
	}

	if caller.IsAdmin() {
		pending, err := h.Committees.List(ctx, models.StatusPendingApproval)
		if err != nil {
			h.internal(w, "list pending approval", err)
			return
		}
		resp.AwaitingApproval = make([]item, 0, len(pending))
		for _, c := range pending {
			resp.AwaitingApproval = append(resp.AwaitingApproval, toItem(c))
		}
		counts := metricsstore.FetchDashboardCounts(ctx, h.DB)
		resp.Totals = &counts
	}

	h.Log.Debug("dashboard served", zap.String("user_id", caller.UserID.Hex()))
	apierrors.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) internal(w http.ResponseWriter, what string, err error) {
	h.Log.Error("dashboard: "+what, zap.Error(err))
	apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "a database error occurred")
}
