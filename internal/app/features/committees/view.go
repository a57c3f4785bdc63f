// internal/app/features/committees/view.go
package committees

import (
	"net/http"
	"strconv"
	"strings"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	"github.com/dalemusser/committeehub/internal/app/system/limits"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeList handles GET /committees?status=… (admin).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list committees")
	defer cancel()

	list, err := h.Svc.List(ctx, actor, status)
	if err != nil {
		apierrors.FromWorkflow(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{Committees: list, Count: len(list)})
}

// ServeMine handles GET /committees/mine: every committee where the caller
// is chairman, convener or a member.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list my committees")
	defer cancel()

	list, err := h.Svc.Mine(ctx, actor)
	if err != nil {
		apierrors.FromWorkflow(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{Committees: list, Count: len(list)})
}

// ServeCommittee handles GET /committees/{id}.
func (h *Handler) ServeCommittee(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := committeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load committee")
	defer cancel()

	c, roles, err := h.Svc.Get(ctx, actor, id)
	if err != nil {
		apierrors.FromWorkflow(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, committeeResponse{Committee: c, Roles: roles.Strings()})
}

// ServeRoles handles GET /committees/{id}/roles. Any signed-in user may
// ask; the answer may be an empty list.
func (h *Handler) ServeRoles(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := committeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "resolve roles")
	defer cancel()

	roles, err := h.Svc.Roles(ctx, actor, id)
	if err != nil {
		apierrors.FromWorkflow(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, rolesResponse{CommitteeID: id.Hex(), Roles: roles.Strings()})
}

// ServeHistory handles GET /committees/{id}/history?limit=N: the audit
// trail of a committee, visible to anyone who can view the committee.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := committeeID(w, r)
	if !ok {
		return
	}
	if h.History == nil {
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, "history is not available")
		return
	}

	limit := int64(50)
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			apierrors.Write(w, http.StatusBadRequest, apierrors.CodeValidation, "limit must be a positive number")
			return
		}
		limit = min(n, limits.MaxListLimit)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "committee history")
	defer cancel()

	// Admins may read the history of a dissolved committee; the Get check
	// only applies while the committee exists.
	if !actor.IsAdmin() {
		if _, _, err := h.Svc.Get(ctx, actor, id); err != nil {
			apierrors.FromWorkflow(w, r, h.Log, err)
			return
		}
	}

	events, err := h.History.GetByCommittee(ctx, id, limit)
	if err != nil {
		h.Log.Error("load committee history", zap.String("committee_id", id.Hex()), zap.Error(err))
		apierrors.Write(w, http.StatusInternalServerError, apierrors.CodeInternal, "could not load history")
		return
	}

	out := make([]historyEntry, 0, len(events))
	for _, e := range events {
		entry := historyEntry{
			EventType:     e.EventType,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
			Timestamp:     e.Timestamp,
		}
		if e.ActorID != nil {
			entry.ActorID = e.ActorID.Hex()
		}
		out = append(out, entry)
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"committee_id": id.Hex(),
		"events":       out,
	})
}
