// internal/app/features/domains/handler.go
package domains

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/hostname"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves hostname bindings (platform.domains.*).
type Handler struct {
	Tenants store.Tenants
	Domains store.Domains

	// Hosts is used to keep the admin host from being bound to a tenant.
	Hosts hostname.Config
	Log   *zap.Logger
}

func NewHandler(set store.Set, hosts hostname.Config, logger *zap.Logger) *Handler {
	return &Handler{
		Tenants: set.Tenants,
		Domains: set.Domains,
		Hosts:   hosts,
		Log:     logger,
	}
}

// Register adds the platform.domains.* procedures.
func (h *Handler) Register(rt *rpc.Router) {
	rt.Query("platform.domains.list", authz.PlatformSuperAdmin, h.list)
	rt.Mutation("platform.domains.add", authz.PlatformSuperAdmin, h.add)
	rt.Mutation("platform.domains.remove", authz.PlatformSuperAdmin, h.remove)
}

type tenantInput struct {
	TenantID string `json:"tenantId" validate:"required,uuid" label:"Tenant ID"`
}

type addInput struct {
	TenantID string `json:"tenantId" validate:"required,uuid" label:"Tenant ID"`
	Hostname string `json:"hostname" validate:"required,max=253,domainhost" label:"Hostname"`
}

type removeInput struct {
	ID string `json:"id" validate:"required,uuid" label:"Domain ID"`
}

func (h *Handler) list(ctx context.Context, call *rpc.Call) (any, error) {
	var in tenantInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	if _, err := h.Tenants.GetByID(ctx, in.TenantID); err != nil {
		return nil, err
	}
	return h.Domains.ListByTenant(ctx, in.TenantID)
}

// add binds a hostname to a tenant. The hostname is stored normalized so it
// matches what the resolver looks up.
func (h *Handler) add(ctx context.Context, call *rpc.Call) (any, error) {
	var in addInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	host := hostname.Normalize(in.Hostname)
	if admin := h.Hosts.AdminHost(); admin != "" && host == admin {
		return nil, rpc.BadRequest("The platform admin host cannot be bound to a tenant.")
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	if _, err := h.Tenants.GetByID(ctx, in.TenantID); err != nil {
		return nil, err
	}
	d, err := h.Domains.Create(ctx, models.Domain{TenantID: in.TenantID, Hostname: host})
	if err != nil {
		return nil, err
	}
	h.Log.Info("domain bound",
		zap.String("tenant_id", d.TenantID),
		zap.String("hostname", d.Hostname),
		zap.String("by", call.RC.UserID()))
	return d, nil
}

func (h *Handler) remove(ctx context.Context, call *rpc.Call) (any, error) {
	var in removeInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	d, err := h.Domains.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := h.Domains.Delete(ctx, d.ID); err != nil {
		return nil, err
	}
	h.Log.Info("domain unbound",
		zap.String("tenant_id", d.TenantID),
		zap.String("hostname", d.Hostname),
		zap.String("by", call.RC.UserID()))
	return true, nil
}
