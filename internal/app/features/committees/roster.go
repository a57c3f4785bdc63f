// internal/app/features/committees/roster.go
package committees

import (
	"net/http"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/app/workflow"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ServeRoster handles GET /committees/{id}/users: chairman, convener and
// members as addressable rows.
func (h *Handler) ServeRoster(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := committeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load roster")
	defer cancel()

	c, _, err := h.Svc.Get(ctx, actor, id)
	if err != nil {
		apierrors.FromWorkflow(w, r, h.Log, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, buildRoster(c))
}

// HandleAddMember handles POST /committees/{id}/users.
//
// Body: {"user_id","role"}. Admin or the committee's chairman, formed
// committees only.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := committeeID(w, r)
	if !ok {
		return
	}

	if !h.authorize(w, r, actor, id, workflow.OpAddMember, "only an admin or the chairman can add members", workflow.RoleAdmin, workflow.RoleChairman) {
		return
	}

	var req memberRequest
	if !apierrors.DecodeJSON(w, r, &req) {
		return
	}
	refs, err := h.resolveRefs(r, req.UserID)
	if err != nil {
		h.fail(w, r, actor, &id, workflow.OpAddMember, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, workflow.OpAddMember)
	defer cancel()

	res, err := h.Svc.AddMember(ctx, actor, id, workflow.AddMemberInput{IdentityRef: refs[req.UserID], Role: req.Role})
	if err != nil {
		h.fail(w, r, actor, &id, workflow.OpAddMember, err)
		return
	}

	var added models.RosterEntry
	if n := len(res.Committee.Members); n > 0 {
		added = res.Committee.Members[n-1]
	}
	h.Audit.MemberAdded(r.Context(), r, actor.UserID, res.Committee, added)
	apierrors.WriteJSON(w, http.StatusCreated, buildRoster(res.Committee))
}

// HandleRemoveMember handles DELETE /committees/{id}/users/{key}. key is
// "chairman", "convener", a roster entry id or a member's user id.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := committeeID(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, workflow.OpRemoveMember)
	defer cancel()

	res, err := h.Svc.RemoveMember(ctx, actor, id, key)
	if err != nil {
		h.fail(w, r, actor, &id, workflow.OpRemoveMember, err)
		return
	}

	h.Audit.MemberRemoved(r.Context(), r, actor.UserID, res.Committee, key)
	apierrors.WriteJSON(w, http.StatusOK, buildRoster(res.Committee))
}
