// internal/app/features/people/list.go
package people

import (
	"net/http"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	userstore "github.com/dalemusser/committeehub/internal/app/store/users"
	"github.com/dalemusser/committeehub/internal/app/system/authz"
	"github.com/dalemusser/committeehub/internal/app/system/paging"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type personRow struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type listResponse struct {
	People []personRow   `json:"people"`
	Paging paging.Result `json:"paging"`
}

// ServeList handles GET /people?q=&after=&before=&limit=.
//
// Admins and anyone chairing a committee may search enabled accounts by
// name prefix, or by email prefix when q contains '@'.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.CallerFrom(r)
	if !ok {
		apierrors.Write(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list people")
	defer cancel()

	if !actor.IsAdmin() {
		chairs, err := h.Chairs.ChairsAny(ctx, actor.UserID)
		if err != nil {
			h.Log.Error("chairman lookup failed", zap.String("user_id", actor.UserID.Hex()), zap.Error(err))
			apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "a database error occurred")
			return
		}
		if !chairs {
			apierrors.Write(w, http.StatusForbidden, apierrors.CodeForbidden, "only admins and committee chairmen can search people")
			return
		}
	}

	users, page, err := h.Users.List(ctx, userstore.ListFilter{
		Query:       query.Get(r, "q"),
		EnabledOnly: true,
	}, paging.FromRequest(r))
	if err != nil {
		h.Log.Error("list people failed", zap.Error(err))
		apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "a database error occurred")
		return
	}

	rows := make([]personRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, toRow(u))
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{People: rows, Paging: page})
}

func toRow(u models.User) personRow {
	return personRow{ID: u.ID.Hex(), FullName: u.FullName, Email: u.Email}
}
