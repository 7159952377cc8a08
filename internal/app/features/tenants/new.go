// internal/app/features/tenants/new.go
package tenants

import (
	"context"
	"strings"

	"github.com/dalemusser/tenanthub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// create provisions a tenant: the tenant row, its default domain
// <slug>.<base_domain>, an admin user and the admin membership. A failure
// after the tenant row exists removes what was created.
func (h *Handler) create(ctx context.Context, call *rpc.Call) (any, error) {
	var in createInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}

	name := normalize.Name(htmlsanitize.StripTags(in.Name))
	if name == "" {
		return nil, rpc.BadRequest("Name is required.")
	}
	slug := normalize.Slug(in.Slug)
	if isReservedSlug(slug, h.Hosts) {
		return nil, rpc.BadRequest("This slug is reserved and cannot be used.")
	}
	adminName := normalize.Name(htmlsanitize.StripTags(in.AdminName))
	if adminName == "" {
		adminName = strings.SplitN(normalize.Email(in.Email), "@", 2)[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, rpc.Wrap(rpc.CodeInternal, "could not hash password", err)
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), h.Log, "tenant create")
	defer cancel()

	t, err := h.Tenants.Create(ctx, models.Tenant{Name: name, Slug: slug, Status: status.Normalize(in.Status)})
	if err != nil {
		return nil, err
	}

	if host := h.Hosts.TenantHost(t.Slug); host != "" {
		if _, err := h.Domains.Create(ctx, models.Domain{TenantID: t.ID, Hostname: host}); err != nil {
			h.rollback(ctx, t.ID, "")
			return nil, err
		}
	}

	u, err := h.Users.Create(ctx, models.User{
		Name:         adminName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Status:       status.UserActive,
	})
	if err != nil {
		h.rollback(ctx, t.ID, "")
		return nil, err
	}

	if _, err := h.Members.Create(ctx, models.TenantMember{TenantID: t.ID, UserID: u.ID, Role: models.MemberRoleAdmin}); err != nil {
		h.rollback(ctx, t.ID, u.ID)
		return nil, err
	}

	h.Log.Info("tenant created",
		zap.String("tenant_id", t.ID),
		zap.String("slug", t.Slug),
		zap.String("admin_user_id", u.ID),
		zap.String("created_by", call.RC.UserID()))

	return h.detail(ctx, t)
}

// rollback removes a partially provisioned tenant (and the admin user, when
// one was created). It runs even if ctx is already cancelled.
func (h *Handler) rollback(ctx context.Context, tenantID, userID string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()
	if userID != "" {
		if err := h.Users.Delete(rctx, userID); err != nil {
			h.Log.Error("rollback: delete admin user", zap.String("user_id", userID), zap.Error(err))
		}
	}
	if err := h.Tenants.Delete(rctx, tenantID); err != nil {
		h.Log.Error("rollback: delete tenant", zap.String("tenant_id", tenantID), zap.Error(err))
		return
	}
	h.Log.Warn("tenant creation rolled back", zap.String("tenant_id", tenantID))
}
