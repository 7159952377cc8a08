// internal/app/features/tenants/handler.go
package tenants

import (
	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/hostname"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"go.uber.org/zap"
)

// Handler serves the superadmin tenant directory (platform.tenants.*).
type Handler struct {
	Tenants store.Tenants
	Domains store.Domains
	Members store.Members
	Users   store.Users

	// Hosts supplies the base domain for each tenant's default hostname.
	Hosts hostname.Config
	Log   *zap.Logger
}

// NewHandler constructs a tenants Handler.
func NewHandler(set store.Set, hosts hostname.Config, logger *zap.Logger) *Handler {
	return &Handler{
		Tenants: set.Tenants,
		Domains: set.Domains,
		Members: set.Members,
		Users:   set.Users,
		Hosts:   hosts,
		Log:     logger,
	}
}

// Register adds the platform.tenants.* procedures.
func (h *Handler) Register(rt *rpc.Router) {
	rt.Query("platform.tenants.list", authz.PlatformSuperAdmin, h.list)
	rt.Query("platform.tenants.get", authz.PlatformSuperAdmin, h.get)
	rt.Mutation("platform.tenants.create", authz.PlatformSuperAdmin, h.create)
	rt.Mutation("platform.tenants.update", authz.PlatformSuperAdmin, h.update)
	rt.Mutation("platform.tenants.delete", authz.PlatformSuperAdmin, h.delete)
}
