// internal/app/features/session/routes.go
package session

import (
	"github.com/dalemusser/committeehub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /session. Token exchange is rate limited
// per client IP.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeCurrent)
	r.With(limiter.Middleware).Post("/", h.HandleStart)
	r.Delete("/", h.HandleEnd)

	return r
}
