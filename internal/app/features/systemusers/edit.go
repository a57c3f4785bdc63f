// internal/app/features/systemusers/edit.go
package systemusers

import (
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	userstore "github.com/dalemusser/committeehub/internal/app/store/users"
	"github.com/dalemusser/committeehub/internal/app/system/authz"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// loadTarget parses {id} and loads the user, writing 404 on any miss.
func (h *Handler) loadTarget(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, "user not found")
		return models.User{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load system user")
	defer cancel()

	u, err := h.Users.GetByID(ctx, oid)
	if errors.Is(err, userstore.ErrNotFound) {
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, "user not found")
		return models.User{}, false
	}
	if err != nil {
		h.Log.Error("load user failed", zap.String("user_id", oid.Hex()), zap.Error(err))
		apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "a database error occurred")
		return models.User{}, false
	}
	return u, true
}

// ServeView handles GET /system-users/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadTarget(w, r)
	if !ok {
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, toRow(u))
}

// HandleStatus handles PUT /system-users/{id}/status. Admins cannot
// demote themselves, so the last admin cannot lock everyone out by
// accident.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	var in statusInput
	if !apierrors.DecodeJSON(w, r, &in) {
		return
	}
	u, ok := h.loadTarget(w, r)
	if !ok {
		return
	}
	if u.ID == actorID && in.Status != models.UserStatusAdmin {
		apierrors.Write(w, http.StatusConflict, "self_demotion", "you cannot remove your own admin status")
		return
	}
	if u.Status == in.Status {
		apierrors.WriteJSON(w, http.StatusOK, toRow(u))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set user status")
	defer cancel()

	if err := h.Users.SetStatus(ctx, u.ID, in.Status); err != nil {
		h.writeStoreErr(w, u.ID, err)
		return
	}
	h.AuditLog.UserStatusChanged(r.Context(), r, actorID, u.ID, u.Status, in.Status)
	h.Log.Info("user status changed",
		zap.String("user_id", u.ID.Hex()),
		zap.String("from", u.Status),
		zap.String("to", in.Status))

	u.Status = in.Status
	apierrors.WriteJSON(w, http.StatusOK, toRow(u))
}

// HandleDisabled handles PUT /system-users/{id}/disabled.
func (h *Handler) HandleDisabled(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	var in disabledInput
	if !apierrors.DecodeJSON(w, r, &in) {
		return
	}
	u, ok := h.loadTarget(w, r)
	if !ok {
		return
	}
	disabled := *in.Disabled
	if u.ID == actorID && disabled {
		apierrors.Write(w, http.StatusConflict, "self_disable", "you cannot disable your own account")
		return
	}
	if u.Disabled == disabled {
		apierrors.WriteJSON(w, http.StatusOK, toRow(u))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set user disabled")
	defer cancel()

	if err := h.Users.SetDisabled(ctx, u.ID, disabled); err != nil {
		h.writeStoreErr(w, u.ID, err)
		return
	}
	h.AuditLog.UserDisabledChanged(r.Context(), r, actorID, u.ID, disabled)
	h.Log.Info("user disabled flag changed",
		zap.String("user_id", u.ID.Hex()),
		zap.Bool("disabled", disabled))

	u.Disabled = disabled
	apierrors.WriteJSON(w, http.StatusOK, toRow(u))
}

func (h *Handler) writeStoreErr(w http.ResponseWriter, id primitive.ObjectID, err error) {
	if errors.Is(err, userstore.ErrNotFound) {
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, "user not found")
		return
	}
	h.Log.Error("update user failed", zap.String("user_id", id.Hex()), zap.Error(err))
	apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "a database error occurred")
}
