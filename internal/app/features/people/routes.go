// internal/app/features/people/routes.go
package people

import (
	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the people directory. The chairman check needs the
// committees collection, so it lives in the handler.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeList)
	return r
}
