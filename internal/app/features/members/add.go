package members

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// errSuperAdmin is returned when a platform superadmin would be added to a
// tenant; superadmins sign in on the admin host only.
var errSuperAdmin = rpc.BadRequest("Superadmin accounts cannot be tenant members.")

func memberRole(r string) string {
	if r = normalize.Role(r); r == "" {
		return models.MemberRoleMember
	}
	return r
}

// add gives an existing user a role in a tenant.
func (h *Handler) add(ctx context.Context, call *rpc.Call) (any, error) {
	var in addInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if _, err := h.Tenants.GetByID(ctx, in.TenantID); err != nil {
		return nil, err
	}
	u, err := h.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if u.Role == models.RoleSuperAdmin {
		return nil, errSuperAdmin
	}

	m, err := h.Members.Create(ctx, models.TenantMember{TenantID: in.TenantID, UserID: u.ID, Role: memberRole(in.Role)})
	if err != nil {
		return nil, err
	}
	h.Log.Info("member added",
		zap.String("tenant_id", m.TenantID),
		zap.String("user_id", m.UserID),
		zap.String("role", m.Role),
		zap.String("by", call.RC.UserID()))
	return view(m, u), nil
}

// createUserAndAdd creates a user and adds it to a tenant in one step. The
// user is removed again if the membership cannot be created.
func (h *Handler) createUserAndAdd(ctx context.Context, call *rpc.Call) (any, error) {
	var in createUserInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	name := normalize.Name(htmlsanitize.StripTags(in.Name))
	if name == "" {
		return nil, rpc.BadRequest("Name is required.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, rpc.Wrap(rpc.CodeInternal, "could not hash password", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if _, err := h.Tenants.GetByID(ctx, in.TenantID); err != nil {
		return nil, err
	}
	u, err := h.Users.Create(ctx, models.User{
		Name:         name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Status:       status.UserActive,
	})
	if err != nil {
		return nil, err
	}

	m, err := h.Members.Create(ctx, models.TenantMember{TenantID: in.TenantID, UserID: u.ID, Role: memberRole(in.Role)})
	if err != nil {
		rctx, rcancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
		defer rcancel()
		if derr := h.Users.Delete(rctx, u.ID); derr != nil {
			h.Log.Error("rollback: delete user", zap.String("user_id", u.ID), zap.Error(derr))
		}
		return nil, err
	}
	h.Log.Info("member created",
		zap.String("tenant_id", m.TenantID),
		zap.String("user_id", u.ID),
		zap.String("role", m.Role),
		zap.String("by", call.RC.UserID()))
	return view(m, u), nil
}
