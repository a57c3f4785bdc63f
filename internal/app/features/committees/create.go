// internal/app/features/committees/create.go
package committees

import (
	"net/http"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	"github.com/dalemusser/committeehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/app/workflow"
)

// HandleCreate handles POST /committees.
//
// Body: {"committee_name","committee_purpose","chairman_id"}. The chairman
// is resolved from the users collection and snapshotted into the committee.
// Responds 201 with the new committee.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	// Checked here as well so non-admins cannot learn which user ids exist.
	if !actor.IsAdmin() {
		h.fail(w, r, actor, nil, workflow.OpCreate, &workflow.Error{
			Kind: workflow.ErrForbidden, Op: workflow.OpCreate, Msg: "only an admin can create a committee",
		})
		return
	}

	var req createRequest
	if !apierrors.DecodeJSON(w, r, &req) {
		return
	}

	refs, err := h.resolveRefs(r, req.ChairmanID)
	if err != nil {
		h.fail(w, r, actor, nil, workflow.OpCreate, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, workflow.OpCreate)
	defer cancel()

	res, err := h.Svc.Create(ctx, actor, workflow.CreateInput{
		Name:     htmlsanitize.StripTags(req.Name),
		Purpose:  htmlsanitize.StripTags(req.Purpose),
		Chairman: refs[req.ChairmanID],
	})
	if err != nil {
		h.fail(w, r, actor, nil, workflow.OpCreate, err)
		return
	}

	h.Audit.CommitteeCreated(r.Context(), r, actor.UserID, res.Committee)
	apierrors.WriteJSON(w, http.StatusCreated, committeeResponse{
		Committee: res.Committee,
		Roles:     workflow.ResolveRoles(res.Committee, actor).Strings(),
	})
}
