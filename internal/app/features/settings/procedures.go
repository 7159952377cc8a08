package settings

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Register adds the tenant.* procedures.
func (h *Handler) Register(rt *rpc.Router) {
	rt.Query("tenant.get", authz.TenantMember, h.get)
	rt.Mutation("tenant.update", authz.TenantAdmin, h.update)
	rt.Query("tenant.recentLogins", authz.TenantAdmin, h.recentLogins)
}

// get returns the current tenant as stored, not the copy resolved at the
// start of the request.
func (h *Handler) get(ctx context.Context, call *rpc.Call) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	return h.Tenants.GetByID(ctx, call.RC.TenantID())
}

type updateInput struct {
	Name   *string `json:"name" validate:"omitempty,max=100" label:"Name"`
	Status *string `json:"status"`
}

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
	if in.Status != nil {
		st := status.Normalize(*in.Status)
		if !status.IsValid(st) {
			return nil, rpc.BadRequest("Status must be one of ACTIVE, TRIAL, SUSPENDED or INACTIVE.")
		}
		upd.Status = &st
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	tenantID := call.RC.TenantID()
	if upd.Name == nil && upd.Status == nil {
		return h.Tenants.GetByID(ctx, tenantID)
	}
	t, err := h.Tenants.Update(ctx, tenantID, upd)
	if err != nil {
		return nil, err
	}

	h.Log.Info("tenant updated by admin",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", call.RC.UserID()),
		zap.String("status", t.Status))
	return t, nil
}

type recentLoginsInput struct {
	Limit int64 `json:"limit" validate:"omitempty,min=1,max=200" label:"Limit"`
}

func (h *Handler) recentLogins(ctx context.Context, call *rpc.Call) (any, error) {
	var in recentLoginsInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	return h.Logins.RecentByTenant(ctx, call.RC.TenantID(), in.Limit)
}
