// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"github.com/dalemusser/committeehub/internal/app/workflow"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's global status (lowercased), name, Mongo
// ObjectID, and a found flag. If no user is present or the id is
// malformed it returns "visitor", "", NilObjectID, false, so ok=true
// always means a valid ObjectID.
func UserCtx(r *http.Request) (status string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Fail closed on a corrupted session.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Status), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	status, _, _, ok := UserCtx(r)
	return ok && status == auth.StatusAdmin
}

// CallerFrom builds the workflow caller for the signed-in user.
func CallerFrom(r *http.Request) (workflow.Caller, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return workflow.Caller{}, false
	}
	status, _, id, ok := UserCtx(r)
	if !ok {
		return workflow.Caller{}, false
	}
	return workflow.Caller{
		UserID:       id,
		GlobalStatus: status,
		Name:         user.Name,
		Email:        user.Email,
	}, true
}
