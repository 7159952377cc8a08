// Package tenancy resolves the tenant addressed by a request and validates
// that it may be served.
package tenancy

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/tenanthub/internal/app/system/hostname"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"go.uber.org/zap"
)

// Mode tells whether a request addresses the platform or a tenant.
type Mode string

const (
	ModePlatform Mode = "platform"
	ModeTenant   Mode = "tenant"
)

// Resolution is the outcome of resolving a parsed host.
//
// Mode is ModeTenant whenever a subdomain candidate was present, even if no
// tenant was found; a nil Tenant in tenant mode is the not-found signal.
type Resolution struct {
	TenantID  string
	Tenant    *models.Tenant
	Mode      Mode
	Subdomain string
}

// IsPlatform reports whether the resolution is in platform mode.
func (r Resolution) IsPlatform() bool { return r.Mode == ModePlatform }

// IsTenant reports whether the resolution is in tenant mode.
func (r Resolution) IsTenant() bool { return r.Mode == ModeTenant }

// Directory looks tenants up by bound hostname or by slug.
// Both return models.ErrNotFound when there is no match.
type Directory interface {
	TenantByHostname(ctx context.Context, host string) (models.Tenant, error)
	TenantBySlug(ctx context.Context, slug string) (models.Tenant, error)
}

// Resolver maps parsed hosts to tenants.
type Resolver struct {
	dir    Directory
	logger *zap.Logger
}

// NewResolver returns a Resolver backed by dir.
func NewResolver(dir Directory, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{dir: dir, logger: logger}
}

// Resolve performs at most two directory lookups: the exact host, then the
// slug. Any storage error degrades to platform mode with no tenant so a
// directory outage never fails the request; the error is logged at WARN.
func (res *Resolver) Resolve(ctx context.Context, p hostname.Parsed) Resolution {
	if p.IsAdmin {
		return Resolution{Mode: ModePlatform}
	}
	if p.Host == "" {
		return Resolution{Mode: ModePlatform}
	}

	lctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	t, err := res.dir.TenantByHostname(lctx, p.Host)
	cancel()
	switch {
	case err == nil:
		return tenantResolution(t, p.Subdomain)
	case !errors.Is(err, models.ErrNotFound):
		res.logger.Warn("tenant directory unavailable; falling back to platform mode",
			zap.String("host", p.Host),
			zap.Error(err))
		return Resolution{Mode: ModePlatform}
	}

	if !p.HasSubdomain() {
		return Resolution{Mode: ModePlatform}
	}

	lctx, cancel = context.WithTimeout(ctx, timeouts.Short())
	t, err = res.dir.TenantBySlug(lctx, p.Subdomain)
	cancel()
	switch {
	case err == nil:
		return tenantResolution(t, p.Subdomain)
	case errors.Is(err, models.ErrNotFound):
		return Resolution{Mode: ModeTenant, Subdomain: p.Subdomain}
	default:
		res.logger.Warn("tenant directory unavailable; falling back to platform mode",
			zap.String("host", p.Host),
			zap.String("subdomain", p.Subdomain),
			zap.Error(err))
		return Resolution{Mode: ModePlatform}
	}
}

func tenantResolution(t models.Tenant, subdomain string) Resolution {
	tt := t
	return Resolution{
		TenantID:  t.ID,
		Tenant:    &tt,
		Mode:      ModeTenant,
		Subdomain: subdomain,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Status validation                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ErrorKind classifies why a resolved tenant cannot be served.
type ErrorKind string

const (
	KindNotFound  ErrorKind = "NOT_FOUND"
	KindSuspended ErrorKind = "SUSPENDED"
	KindInactive  ErrorKind = "INACTIVE"
)

// ResolutionError reports a tenant that cannot be served.
type ResolutionError struct {
	Kind    ErrorKind
	Message string
}

func (e *ResolutionError) Error() string { return string(e.Kind) + ": " + e.Message }

// Validate checks a resolution without any I/O. It returns nil for platform
// mode and for ACTIVE or TRIAL tenants.
func Validate(r Resolution) *ResolutionError {
	if r.Mode != ModeTenant {
		return nil
	}
	if r.Tenant == nil {
		return &ResolutionError{Kind: KindNotFound, Message: "tenant not found"}
	}
	switch status.Normalize(r.Tenant.Status) {
	case status.Suspended:
		return &ResolutionError{Kind: KindSuspended, Message: "tenant is suspended"}
	case status.Inactive:
		return &ResolutionError{Kind: KindInactive, Message: "tenant is inactive"}
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Context helpers                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const resolutionKey ctxKey = "tenancy"

// WithResolution returns a copy of ctx carrying r.
func WithResolution(ctx context.Context, r Resolution) context.Context {
	return context.WithValue(ctx, resolutionKey, r)
}

// FromContext returns the resolution stored by the gate middleware.
func FromContext(ctx context.Context) (Resolution, bool) {
	r, ok := ctx.Value(resolutionKey).(Resolution)
	return r, ok
}

// FromRequest is FromContext for an *http.Request.
func FromRequest(r *http.Request) (Resolution, bool) {
	return FromContext(r.Context())
}

// WithTestTenant returns a request in tenant mode for t.
func WithTestTenant(r *http.Request, t models.Tenant) *http.Request {
	return r.WithContext(WithResolution(r.Context(), tenantResolution(t, t.Slug)))
}

// WithTestPlatform returns a request in platform mode.
func WithTestPlatform(r *http.Request) *http.Request {
	return r.WithContext(WithResolution(r.Context(), Resolution{Mode: ModePlatform}))
}
