package dashboard

import (
	"github.com/dalemusser/tenanthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves /dashboard to signed-in users only; anonymous visitors are
// sent to /login with a return target.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeDashboard)
	return r
}
