// internal/app/features/errors/routes.go
package errors

import "github.com/go-chi/chi/v5"

// Mount registers the status pages on r at their top-level paths.
func Mount(r chi.Router, h *Handler) {
	r.Get("/suspended", h.Suspended)
	r.Get("/not-found", h.NotFound)
	r.Get("/unauthorized", h.Unauthorized)
	r.Get("/forbidden", h.Forbidden)
}
