// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	return r
}

// MountRecovery registers the password recovery pages at their top-level
// paths.
func MountRecovery(r chi.Router, h *Handler) {
	r.Get("/forgot-password", h.ServeForgotPassword)
	r.Get("/reset-password/{token}", h.ServeResetPassword)
}
