package userinfo

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
)

// Register adds the user.* procedures.
func (h *Handler) Register(rt *rpc.Router) {
	rt.Query("user.getCurrentRole", authz.Authenticated, h.getCurrentRole)
	rt.Query("user.hasRole", authz.Authenticated, h.hasRole)
}

// getCurrentRole returns the platform role on the platform host and the
// member role on a tenant host, or null.
func (h *Handler) getCurrentRole(ctx context.Context, call *rpc.Call) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	role, err := h.Checker.CurrentRole(ctx, call.RC)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, nil
	}
	return role, nil
}

type hasRoleInput struct {
	Role string `json:"role" validate:"required,anyrole" label:"Role"`
}

func (h *Handler) hasRole(ctx context.Context, call *rpc.Call) (any, error) {
	var in hasRoleInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	return h.Checker.HasRole(ctx, call.RC, in.Role)
}
