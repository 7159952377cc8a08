package members

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/domain/models"
)

// list returns a tenant's members with each user's name and email.
func (h *Handler) list(ctx context.Context, call *rpc.Call) (any, error) {
	var in tenantInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if _, err := h.Tenants.GetByID(ctx, in.TenantID); err != nil {
		return nil, err
	}
	return h.Members.ListByTenant(ctx, in.TenantID)
}

func view(m models.TenantMember, u models.User) models.TenantMemberView {
	return models.TenantMemberView{
		TenantMember: m,
		User:         models.MemberUser{ID: u.ID, Name: u.Name, Email: u.Email},
	}
}
