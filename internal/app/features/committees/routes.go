// internal/app/features/committees/routes.go
package committees

import (
	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the committee API. Role checks beyond "signed in" happen
// in the workflow, which knows the committee.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST
		pr.Get("/", h.ServeList)
		pr.Get("/mine", h.ServeMine)

		// CREATE
		pr.Post("/", h.HandleCreate)

		// VIEW
		pr.Get("/{id}", h.ServeCommittee)
		pr.Get("/{id}/roles", h.ServeRoles)
		pr.Get("/{id}/history", h.ServeHistory)

		// WORKFLOW
		pr.Post("/{id}/suggestions", h.HandleSuggest)
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
		pr.Delete("/{id}", h.HandleDissolve)

		// ROSTER
		pr.Get("/{id}/users", h.ServeRoster)
		pr.Post("/{id}/users", h.HandleAddMember)
		pr.Delete("/{id}/users/{key}", h.HandleRemoveMember)
	})

	return r
}
