// internal/app/features/errors/errors.go
package errors

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dalemusser/tenanthub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

//go:embed templates/*.gohtml
var FS embed.FS

var statusPage = template.Must(template.ParseFS(FS, "templates/status.gohtml"))

// pageData is the view model for status pages.
type pageData struct {
	viewdata.BaseVM
	Message  string
	LinkURL  string
	LinkText string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs an errors Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// page describes one status page.
type page struct {
	status   int
	title    string
	message  string
	linkURL  string
	linkText string
}

var (
	suspended = page{http.StatusForbidden, "Account suspended",
		"This organization's account is suspended. Contact your administrator to restore access.",
		"/login", "Back to sign in"}
	notFound = page{http.StatusNotFound, "Organization not found",
		"There is no active organization at this address.",
		"/", "Go home"}
	unauthorized = page{http.StatusUnauthorized, "Sign in required",
		"Please sign in to continue.",
		"/login", "Sign in"}
	forbidden = page{http.StatusForbidden, "Access denied",
		"You don't have permission to view this page.",
		"/", "Go home"}
)

func (h *Handler) render(w http.ResponseWriter, r *http.Request, p page) {
	data := pageData{
		BaseVM:   viewdata.NewBaseVM(r, p.title, p.linkURL),
		Message:  p.message,
		LinkURL:  p.linkURL,
		LinkText: p.linkText,
	}
	viewdata.Render(w, h.Log, statusPage, p.status, data)
}

// Suspended renders the page suspended tenants are redirected to.
// GET /suspended
func (h *Handler) Suspended(w http.ResponseWriter, r *http.Request) { h.render(w, r, suspended) }

// NotFound renders the page unknown or inactive tenants are redirected to.
// GET /not-found
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) { h.render(w, r, notFound) }

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) { h.render(w, r, unauthorized) }

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) { h.render(w, r, forbidden) }
