// Package reqctx holds the per-request tenant and user context handed to
// handlers and RPC procedures once the gate has allowed a request.
package reqctx

import (
	"context"
	"net/http"

	"github.com/dalemusser/tenanthub/internal/app/system/tenancy"
	"github.com/dalemusser/tenanthub/internal/domain/models"
)

// Context is immutable after Build. It is never persisted.
type Context struct {
	tenantID  string
	mode      tenancy.Mode
	tenant    *models.Tenant
	userID    string
	subdomain string
}

// Build combines a resolution with the authenticated user ID ("" when
// anonymous).
func Build(res tenancy.Resolution, userID string) Context {
	mode := res.Mode
	if mode == "" {
		mode = tenancy.ModePlatform
	}
	var t *models.Tenant
	if res.Tenant != nil {
		cp := *res.Tenant
		t = &cp
	}
	return Context{
		tenantID:  res.TenantID,
		mode:      mode,
		tenant:    t,
		userID:    userID,
		subdomain: res.Subdomain,
	}
}

// TenantID returns the resolved tenant ID or "".
func (c Context) TenantID() string { return c.tenantID }

// Mode returns platform or tenant.
func (c Context) Mode() tenancy.Mode {
	if c.mode == "" {
		return tenancy.ModePlatform
	}
	return c.mode
}

// IsPlatform reports platform mode.
func (c Context) IsPlatform() bool { return c.Mode() == tenancy.ModePlatform }

// IsTenant reports tenant mode.
func (c Context) IsTenant() bool { return c.Mode() == tenancy.ModeTenant }

// Tenant returns a copy of the resolved tenant, or nil.
func (c Context) Tenant() *models.Tenant {
	if c.tenant == nil {
		return nil
	}
	cp := *c.tenant
	return &cp
}

// UserID returns the authenticated user ID or "".
func (c Context) UserID() string { return c.userID }

// IsAuthenticated reports whether a user is signed in.
func (c Context) IsAuthenticated() bool { return c.userID != "" }

// Subdomain returns the parsed subdomain or "".
func (c Context) Subdomain() string { return c.subdomain }

type ctxKey string

const reqCtxKey ctxKey = "reqctx"

// With returns a copy of ctx carrying rc.
func With(ctx context.Context, rc Context) context.Context {
	return context.WithValue(ctx, reqCtxKey, rc)
}

// From returns the request context. Requests that never passed the gate
// get an anonymous platform-mode context.
func From(ctx context.Context) Context {
	if rc, ok := ctx.Value(reqCtxKey).(Context); ok {
		return rc
	}
	return Context{mode: tenancy.ModePlatform}
}

// FromRequest is From for an *http.Request.
func FromRequest(r *http.Request) Context {
	return From(r.Context())
}

// WithTest returns r carrying a context built from res and userID.
func WithTest(r *http.Request, res tenancy.Resolution, userID string) *http.Request {
	return r.WithContext(With(r.Context(), Build(res, userID)))
}
