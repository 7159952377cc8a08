package home

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dalemusser/tenanthub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

//go:embed templates/*.gohtml
var FS embed.FS

var homePage = template.Must(template.ParseFS(FS, "templates/home.gohtml"))

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	title := "Welcome"
	vm := viewdata.NewBaseVM(r, title, "/")
	if !vm.IsPlatform && vm.TenantName != "" {
		vm.Title = vm.TenantName
	}
	viewdata.Render(w, h.Log, homePage, http.StatusOK, vm)
}
