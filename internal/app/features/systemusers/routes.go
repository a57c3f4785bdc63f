// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin user directory. Accounts are provisioned by the
// identity service; this only reads them and changes status flags.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireAdmin)

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
		pr.Put("/{id}/status", h.HandleStatus)
		pr.Put("/{id}/disabled", h.HandleDisabled)
	})

	return r
}
