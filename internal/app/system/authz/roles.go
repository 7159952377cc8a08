package authz

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/tenanthub/internal/app/system/reqctx"
	"github.com/dalemusser/tenanthub/internal/domain/models"
)

// IsKnownRole reports whether role is a platform or tenant role.
func IsKnownRole(role string) bool {
	r := strings.ToLower(strings.TrimSpace(role))
	return r == models.RoleSuperAdmin || models.IsMemberRole(r)
}

// CurrentRole returns the role the signed-in user holds in the current
// context: the platform role on the platform host, the member role on a
// tenant host. It returns "" when the user holds none.
func (c *Checker) CurrentRole(ctx context.Context, rc reqctx.Context) (string, error) {
	if !rc.IsAuthenticated() {
		return "", nil
	}
	if rc.IsPlatform() {
		u, err := c.users.GetByID(ctx, rc.UserID())
		if errors.Is(err, models.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return u.Role, nil
	}
	m, err := c.members.Get(ctx, rc.TenantID(), rc.UserID())
	if errors.Is(err, models.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.Role, nil
}

// HasRole reports whether the user's current role equals role.
func (c *Checker) HasRole(ctx context.Context, rc reqctx.Context, role string) (bool, error) {
	cur, err := c.CurrentRole(ctx, rc)
	if err != nil {
		return false, err
	}
	return cur != "" && cur == strings.ToLower(strings.TrimSpace(role)), nil
}
