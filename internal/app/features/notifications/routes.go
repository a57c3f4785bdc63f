// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the notification inbox.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/read-all", h.HandleMarkAllRead)
	r.Post("/{id}/read", h.HandleMarkRead)

	return r
}
