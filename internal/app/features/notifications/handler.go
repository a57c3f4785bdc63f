// internal/app/features/notifications/handler.go
package notifications

import (
	"errors"
	"net/http"
	"strconv"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	notificationstore "github.com/dalemusser/committeehub/internal/app/store/notifications"
	"github.com/dalemusser/committeehub/internal/app/system/authz"
	"github.com/dalemusser/committeehub/internal/app/system/limits"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's notification inbox.
type Handler struct {
	Store *notificationstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a notifications Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Store: notificationstore.New(db),
		Log:   logger,
	}
}

type listResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int64                 `json:"unread"`
}

// ServeList handles GET /notifications?unread=true&limit=N.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		apierrors.Write(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	q := r.URL.Query()
	unreadOnly := q.Get("unread") == "true"
	limit := int64(50)
	if s := q.Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			apierrors.Write(w, http.StatusBadRequest, apierrors.CodeValidation, "limit must be a positive number")
			return
		}
		limit = min(n, limits.MaxListLimit)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list notifications")
	defer cancel()

	list, err := h.Store.ListForUser(ctx, uid, unreadOnly, limit)
	if err != nil {
		h.internal(w, "list notifications", uid, err)
		return
	}
	unread, err := h.Store.CountUnread(ctx, uid)
	if err != nil {
		h.internal(w, "count unread notifications", uid, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{Notifications: list, Unread: unread})
}

// HandleMarkRead handles POST /notifications/{id}/read. Another user's
// notification is reported as not found.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		apierrors.Write(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, "notification not found")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mark notification read")
	defer cancel()

	if err := h.Store.MarkRead(ctx, uid, id); err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, "notification not found")
			return
		}
		h.internal(w, "mark notification read", uid, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkAllRead handles POST /notifications/read-all.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		apierrors.Write(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mark all notifications read")
	defer cancel()

	n, err := h.Store.MarkAllRead(ctx, uid)
	if err != nil {
		h.internal(w, "mark all notifications read", uid, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]int64{"marked": n})
}

func (h *Handler) internal(w http.ResponseWriter, what string, uid primitive.ObjectID, err error) {
	h.Log.Error(what, zap.String("user_id", uid.Hex()), zap.Error(err))
	apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "something went wrong, please try again")
}
