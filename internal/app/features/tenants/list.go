// internal/app/features/tenants/list.go
package tenants

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/domain/models"
)

// list returns every tenant, newest first, with member and domain counts.
func (h *Handler) list(ctx context.Context, _ *rpc.Call) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	return h.Tenants.ListWithCounts(ctx)
}

// get returns one tenant with its domains and members.
func (h *Handler) get(ctx context.Context, call *rpc.Call) (any, error) {
	var in idInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	t, err := h.Tenants.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return h.detail(ctx, t)
}

func (h *Handler) detail(ctx context.Context, t models.Tenant) (models.TenantDetail, error) {
	domains, err := h.Domains.ListByTenant(ctx, t.ID)
	if err != nil {
		return models.TenantDetail{}, err
	}
	members, err := h.Members.ListByTenant(ctx, t.ID)
	if err != nil {
		return models.TenantDetail{}, err
	}
	return models.TenantDetail{Tenant: t, Domains: domains, Members: members}, nil
}
