package gate

import (
	"net/http"
	"strings"

	"github.com/dalemusser/tenanthub/internal/app/system/hostname"
	"github.com/dalemusser/tenanthub/internal/app/system/reqctx"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/tenancy"
	"go.uber.org/zap"
)

// Headers injected on allowed requests (and echoed on the response).
const (
	HeaderTenantMode = "X-Tenant-Mode"
	HeaderTenantID   = "X-Tenant-Id"
	HeaderSubdomain  = "X-Subdomain"
)

// Config configures the middleware.
type Config struct {
	Hosts hostname.Config

	// TrustForwardedHost makes the gate read X-Forwarded-Host instead of
	// Host. Enable only behind a proxy that sets it.
	TrustForwardedHost bool

	// UserID returns the signed-in user's ID for r, or "".
	UserID func(r *http.Request) string
}

// Middleware gates every request. Allowed requests carry the tenancy
// resolution and a reqctx.Context on their context plus the X-Tenant-*
// headers. Redirects use HX-Redirect for HTMX requests and 303 otherwise;
// rejected /rpc calls get the procedure error envelope instead.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// never trust client-supplied tenant headers
		r.Header.Del(HeaderTenantMode)
		r.Header.Del(HeaderTenantID)
		r.Header.Del(HeaderSubdomain)

		p := hostname.Parse(g.requestHost(r), g.cfg.Hosts)
		res := g.resolver.Resolve(r.Context(), p)
		verr := tenancy.Validate(res)

		userID := ""
		if g.cfg.UserID != nil {
			userID = g.cfg.UserID(r)
		}

		d := g.Decide(r.Context(), res, verr, userID, r.URL.Path)
		if d.Action != Allow {
			g.logger.Debug("gate redirect",
				zap.String("host", p.Host),
				zap.String("path", r.URL.Path),
				zap.String("action", d.Action.String()),
				zap.String("target", d.Target))
			if IsRPCPath(r.URL.Path) {
				rpc.WriteError(w, rpcError(d))
				return
			}
			redirect(w, r, d.Target)
			return
		}

		// the platform admin area is not reachable from tenant hosts
		if res.IsTenant() && (r.URL.Path == "/admin" || strings.HasPrefix(r.URL.Path, "/admin/")) {
			redirect(w, r, "/")
			return
		}

		setHeaders(r.Header, res)
		setHeaders(w.Header(), res)

		ctx := tenancy.WithResolution(r.Context(), res)
		ctx = reqctx.With(ctx, reqctx.Build(res, userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Gate) requestHost(r *http.Request) string {
	if g.cfg.TrustForwardedHost {
		if fh := r.Header.Get("X-Forwarded-Host"); fh != "" {
			// proxies may append; the first entry is the client-facing host
			if i := strings.Index(fh, ","); i >= 0 {
				fh = fh[:i]
			}
			return strings.TrimSpace(fh)
		}
	}
	return r.Host
}

func setHeaders(h http.Header, res tenancy.Resolution) {
	h.Set(HeaderTenantMode, string(res.Mode))
	if res.TenantID != "" {
		h.Set(HeaderTenantID, res.TenantID)
	}
	if res.Subdomain != "" {
		h.Set(HeaderSubdomain, res.Subdomain)
	}
}

// rpcError is the procedure-facing form of a non-Allow decision.
func rpcError(d Decision) *rpc.Error {
	switch d.Target {
	case PathSuspended:
		return rpc.Forbidden("this organization is suspended")
	case PathNotFound:
		return rpc.NotFound("organization not found")
	}
	return rpc.Unauthorized("sign in to this organization to continue")
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
