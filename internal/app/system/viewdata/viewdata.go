// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/dalemusser/tenanthub/internal/app/system/auth"
	"github.com/dalemusser/tenanthub/internal/app/system/reqctx"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"go.uber.org/zap"
)

// SiteName is shown in page titles.
const SiteName = "TenantHub"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Tenancy context (from the gate)
	IsPlatform bool
	TenantName string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.UserName = u.Name
	}

	rc := reqctx.FromRequest(r)
	vm.IsPlatform = rc.IsPlatform()
	if t := rc.Tenant(); t != nil {
		vm.TenantName = t.Name
	}
	return vm
}

// Render executes tmpl into a buffer first so a template error never
// produces a half-written page.
func Render(w http.ResponseWriter, logger *zap.Logger, tmpl *template.Template, status int, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger.Error("render page", zap.String("template", tmpl.Name()), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
