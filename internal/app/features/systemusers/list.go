// internal/app/features/systemusers/list.go
package systemusers

import (
	"net/http"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	userstore "github.com/dalemusser/committeehub/internal/app/store/users"
	"github.com/dalemusser/committeehub/internal/app/system/paging"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// ServeList handles GET /system-users.
//
// Query parameters: status (admin|user), q (name prefix, or email prefix
// when it contains '@'), and the keyset paging params after/before/limit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter := userstore.ListFilter{
		Status: query.Get(r, "status"),
		Query:  query.Get(r, "q"),
	}
	if filter.Status != "" && filter.Status != models.UserStatusAdmin && filter.Status != models.UserStatusUser {
		apierrors.Write(w, http.StatusBadRequest, apierrors.CodeValidation, "status must be admin or user")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list system users")
	defer cancel()

	users, page, err := h.Users.List(ctx, filter, paging.FromRequest(r))
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "a database error occurred")
		return
	}

	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, toRow(u))
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{Users: rows, Paging: page})
}
