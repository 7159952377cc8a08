// internal/app/features/members/handler.go
package members

import (
	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for tenant memberships
// (platform.members.*).
type Handler struct {
	Tenants store.Tenants
	Members store.Members
	Users   store.Users
	Log     *zap.Logger
}

func NewHandler(set store.Set, logger *zap.Logger) *Handler {
	return &Handler{
		Tenants: set.Tenants,
		Members: set.Members,
		Users:   set.Users,
		Log:     logger,
	}
}

// Register adds the platform.members.* procedures.
func (h *Handler) Register(rt *rpc.Router) {
	rt.Query("platform.members.list", authz.PlatformSuperAdmin, h.list)
	rt.Mutation("platform.members.add", authz.PlatformSuperAdmin, h.add)
	rt.Mutation("platform.members.update", authz.PlatformSuperAdmin, h.update)
	rt.Mutation("platform.members.remove", authz.PlatformSuperAdmin, h.remove)
	rt.Mutation("platform.members.createUserAndAdd", authz.PlatformSuperAdmin, h.createUserAndAdd)
}
