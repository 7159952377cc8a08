// internal/app/features/tenants/update.go
package tenants

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// update changes name, slug and/or status. Changing the slug moves the
// tenant's subdomain; bound domains are left as they are.
func (h *Handler) update(ctx context.Context, call *rpc.Call) (any, error) {
	var in updateInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}

	var upd store.TenantUpdate
	if in.Name != nil {
		name := normalize.Name(htmlsanitize.StripTags(*in.Name))
		if name == "" {
			return nil, rpc.BadRequest("Name cannot be empty.")
		}
		upd.Name = &name
	}
	if in.Slug != nil {
		slug := normalize.Slug(*in.Slug)
		if !normalize.IsValidSlug(slug) {
			return nil, rpc.BadRequest("Slug may contain only lowercase letters, numbers and hyphens, and cannot start or end with a hyphen.")
		}
		if isReservedSlug(slug, h.Hosts) {
			return nil, rpc.BadRequest("This slug is reserved and cannot be used.")
		}
		upd.Slug = &slug
	}
	if in.Status != nil {
		st := status.Normalize(*in.Status)
		if !status.IsValid(st) {
			return nil, rpc.BadRequest("Status must be one of ACTIVE, TRIAL, SUSPENDED or INACTIVE.")
		}
		upd.Status = &st
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if upd.Name == nil && upd.Slug == nil && upd.Status == nil {
		return h.Tenants.GetByID(ctx, in.ID)
	}
	t, err := h.Tenants.Update(ctx, in.ID, upd)
	if err != nil {
		return nil, err
	}

	h.Log.Info("tenant updated",
		zap.String("tenant_id", t.ID),
		zap.String("slug", t.Slug),
		zap.String("status", t.Status),
		zap.String("updated_by", call.RC.UserID()))
	return t, nil
}
