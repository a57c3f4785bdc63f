// internal/app/features/committees/transitions.go
package committees

import (
	"net/http"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	"github.com/dalemusser/committeehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/app/workflow"
)

// HandleSuggest handles POST /committees/{id}/suggestions (chairman).
//
// Body: {"convener_id", "members":[{"user_id","role"}]}.
func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := committeeID(w, r)
	if !ok {
		return
	}

	if !h.authorize(w, r, actor, id, workflow.OpSuggest, "only the chairman can suggest members", workflow.RoleChairman) {
		return
	}

	var req suggestRequest
	if !apierrors.DecodeJSON(w, r, &req) {
		return
	}

	ids := make([]string, 0, len(req.Members)+1)
	ids = append(ids, req.ConvenerID)
	for _, m := range req.Members {
		ids = append(ids, m.UserID)
	}
	refs, err := h.resolveRefs(r, ids...)
	if err != nil {
		h.fail(w, r, actor, &id, workflow.OpSuggest, err)
		return
	}

	in := workflow.SuggestInput{Convener: refs[req.ConvenerID]}
	for _, m := range req.Members {
		in.Members = append(in.Members, workflow.MemberInput{IdentityRef: refs[m.UserID], Role: m.Role})
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, workflow.OpSuggest)
	defer cancel()

	res, err := h.Svc.Suggest(ctx, actor, id, in)
	if err != nil {
		h.fail(w, r, actor, &id, workflow.OpSuggest, err)
		return
	}

	h.Audit.SuggestionsSubmitted(r.Context(), r, actor.UserID, res.Committee)
	h.writeCommittee(w, res, actor)
}

// HandleApprove handles POST /committees/{id}/approve (admin).
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := committeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, workflow.OpApprove)
	defer cancel()

	res, err := h.Svc.Approve(ctx, actor, id)
	if err != nil {
		h.fail(w, r, actor, &id, workflow.OpApprove, err)
		return
	}

	h.Audit.SuggestionsApproved(r.Context(), r, actor.UserID, res.Committee)
	h.writeCommittee(w, res, actor)
}

// HandleReject handles POST /committees/{id}/reject (admin).
//
// Body: {"reason"}. The reason becomes the committee's admin comment and is
// sent to the chairman.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := committeeID(w, r)
	if !ok {
		return
	}

	var req rejectRequest
	if !apierrors.DecodeJSON(w, r, &req) {
		return
	}
	reason := htmlsanitize.StripTags(req.Reason)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, workflow.OpReject)
	defer cancel()

	res, err := h.Svc.Reject(ctx, actor, id, workflow.RejectInput{Reason: reason})
	if err != nil {
		h.fail(w, r, actor, &id, workflow.OpReject, err)
		return
	}

	h.Audit.SuggestionsRejected(r.Context(), r, actor.UserID, res.Committee, reason)
	h.writeCommittee(w, res, actor)
}

// HandleDissolve handles DELETE /committees/{id} (chairman). The committee
// document is deleted.
func (h *Handler) HandleDissolve(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := committeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, workflow.OpDissolve)
	defer cancel()

	res, err := h.Svc.Dissolve(ctx, actor, id)
	if err != nil {
		h.fail(w, r, actor, &id, workflow.OpDissolve, err)
		return
	}

	h.Audit.CommitteeDissolved(r.Context(), r, actor.UserID, res.Committee)
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"committee_id": id.Hex(),
		"status":       res.Committee.Status,
	})
}

func (h *Handler) writeCommittee(w http.ResponseWriter, res workflow.Result, actor workflow.Caller) {
	apierrors.WriteJSON(w, http.StatusOK, committeeResponse{
		Committee: res.Committee,
		Roles:     workflow.ResolveRoles(res.Committee, actor).Strings(),
	})
}
