// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/auth"
	"github.com/dalemusser/tenanthub/internal/app/system/reqctx"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/app/system/viewdata"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"go.uber.org/zap"
)

//go:embed templates/*.gohtml
var FS embed.FS

var dashboardPage = template.Must(template.ParseFS(FS, "templates/dashboard.gohtml"))

// Handler serves the signed-in landing page: the tenant directory on the
// platform host, the member's own view on a tenant host.
type Handler struct {
	Tenants store.Tenants
	Members store.Members
	Log     *zap.Logger
}

func NewHandler(set store.Set, logger *zap.Logger) *Handler {
	return &Handler{
		Tenants: set.Tenants,
		Members: set.Members,
		Log:     logger,
	}
}

type dashboardData struct {
	viewdata.BaseVM

	// platform
	Tenants []models.TenantWithCounts

	// tenant
	MemberRole string
	IsAdmin    bool
	Members    []models.TenantMemberView
}

// ServeDashboard handles GET /dashboard. It runs behind RequireSignedIn,
// and the gate has already checked that the user may be on this host.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	rc := reqctx.FromRequest(r)
	data := dashboardData{BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/")}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if rc.IsPlatform() {
		if !u.IsSuperAdmin() {
			http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
			return
		}
		tenants, err := h.Tenants.ListWithCounts(ctx)
		if err != nil {
			h.fail(w, "list tenants", err)
			return
		}
		data.Tenants = tenants
		viewdata.Render(w, h.Log, dashboardPage, http.StatusOK, data)
		return
	}

	m, err := h.Members.Get(ctx, rc.TenantID(), u.ID)
	if err != nil {
		h.fail(w, "load membership", err)
		return
	}
	data.MemberRole = m.Role
	data.IsAdmin = m.Role == models.MemberRoleAdmin
	if data.IsAdmin {
		if data.Members, err = h.Members.ListByTenant(ctx, rc.TenantID()); err != nil {
			h.fail(w, "list members", err)
			return
		}
	}
	viewdata.Render(w, h.Log, dashboardPage, http.StatusOK, data)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.Log.Error("dashboard: "+op, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
