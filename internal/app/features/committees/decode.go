// internal/app/features/committees/decode.go
package committees

import (
	"errors"
	"fmt"
	"net/http"

	apierrors "github.com/dalemusser/committeehub/internal/app/features/errors"
	"github.com/dalemusser/committeehub/internal/app/system/authz"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/app/workflow"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// committeeID parses the {id} URL param, writing a 404 when it is not an
// ObjectID.
func committeeID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, "committee not found")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// caller returns the workflow caller, writing a 401 when there is none.
func caller(w http.ResponseWriter, r *http.Request) (workflow.Caller, bool) {
	c, ok := authz.CallerFrom(r)
	if !ok {
		apierrors.Write(w, http.StatusUnauthorized, "unauthorized", "sign in required")
	}
	return c, ok
}

// resolveRefs turns account ids into IdentityRef snapshots. Unknown or
// disabled accounts are a validation error naming the offending id.
func (h *Handler) resolveRefs(r *http.Request, hexIDs ...string) (map[string]models.IdentityRef, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, s := range hexIDs {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, &workflow.Error{Kind: workflow.ErrValidation, Op: "resolveUsers", Msg: fmt.Sprintf("%q is not a valid user id", s)}
		}
		ids = append(ids, oid)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "resolve committee users")
	defer cancel()
	users, err := h.Users.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}

	out := make(map[string]models.IdentityRef, len(ids))
	for _, oid := range ids {
		u, ok := users[oid]
		if !ok || u.Disabled {
			return nil, &workflow.Error{Kind: workflow.ErrValidation, Op: "resolveUsers", Msg: fmt.Sprintf("user %s does not exist", oid.Hex())}
		}
		out[oid.Hex()] = u.Ref()
	}
	return out, nil
}

// fail writes err and records a denial in the audit log when the caller
// lacked the role for op.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, actor workflow.Caller, committeeID *primitive.ObjectID, op string, err error) {
	if errors.Is(err, workflow.ErrForbidden) {
		h.Audit.TransitionDenied(r.Context(), r, actor.UserID, committeeID, op, workflow.Message(err))
		h.Log.Info("workflow call denied",
			zap.String("op", op),
			zap.String("user_id", actor.UserID.Hex()),
			zap.String("reason", workflow.Message(err)))
	}
	apierrors.FromWorkflow(w, r, h.Log, err)
}

// authorize writes a 403, recorded as a denial, unless the caller holds
// one of allowed on the committee. It runs before the body is read so a
// caller without the role learns nothing about the user ids it sends.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, actor workflow.Caller, id primitive.ObjectID, op, msg string, allowed ...workflow.Role) bool {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, op+" roles")
	defer cancel()

	roles, err := h.Svc.Roles(ctx, actor, id)
	if err != nil {
		h.fail(w, r, actor, &id, op, err)
		return false
	}
	for _, role := range allowed {
		if roles.Has(role) {
			return true
		}
	}
	h.fail(w, r, actor, &id, op, &workflow.Error{Kind: workflow.ErrForbidden, Op: op, Msg: msg})
	return false
}
