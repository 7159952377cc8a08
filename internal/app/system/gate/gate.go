// Package gate decides, before any page or RPC handler runs, whether a
// request may proceed on the tenant (or platform) its host resolves to.
//
// The gate is deliberately coarse: it checks tenant validity and tenant
// affiliation only. Anonymous users pass through to protected handlers,
// which enforce sign-in themselves (auth.SessionManager.RequireSignedIn and
// the authz tiers used by RPC procedures).
package gate

import (
	"context"
	"strings"

	"github.com/dalemusser/tenanthub/internal/app/system/tenancy"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Redirect targets.
const (
	PathLogin     = "/login"
	PathSuspended = "/suspended"
	PathNotFound  = "/not-found"
)

// publicPrefixes are always allowed, whatever the tenant or user state.
// Each entry matches itself and anything below it.
var publicPrefixes = []string{
	"/login",
	"/logout",
	"/forgot-password",
	"/reset-password",
	"/suspended",
	"/not-found",
	"/unauthorized",
	"/forbidden",
	"/health",
	"/static",
}

// PathRPC prefixes the typed procedure endpoints.
const PathRPC = "/rpc"

// sessionProcedures manage the caller's own session. They are exempt from
// the membership rules so a user signed in elsewhere can switch accounts,
// but they still honour tenant status.
var sessionProcedures = []string{
	"auth.login",
	"auth.logout",
	"auth.session",
	"auth.forgotPassword",
	"auth.resetPassword",
}

// IsSessionPath reports whether path calls one of the session procedures.
func IsSessionPath(path string) bool {
	name, ok := strings.CutPrefix(path, PathRPC+"/")
	if !ok {
		return false
	}
	for _, p := range sessionProcedures {
		if name == p {
			return true
		}
	}
	return false
}

// IsRPCPath reports whether path addresses a procedure.
func IsRPCPath(path string) bool {
	return path == PathRPC || strings.HasPrefix(path, PathRPC+"/")
}

// IsPublicPath reports whether path is on the public allowlist. The root
// page "/" is public; paths below it are not.
func IsPublicPath(path string) bool {
	if path == "" || path == "/" {
		return true
	}
	for _, p := range publicPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Action is the gate's verdict.
type Action int

const (
	Allow Action = iota
	Redirect
	Deny
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Deny:
		return "deny"
	}
	return "unknown"
}

// Decision is returned by Decide. Target is set for Redirect and Deny.
type Decision struct {
	Action Action
	Target string
}

func allow() Decision                 { return Decision{Action: Allow} }
func redirectTo(path string) Decision { return Decision{Action: Redirect, Target: path} }
func deny() Decision                  { return Decision{Action: Deny, Target: PathLogin} }

// Memberships answers the two membership questions the gate asks.
type Memberships interface {
	HasAnyMembership(ctx context.Context, userID string) (bool, error)
	IsMember(ctx context.Context, tenantID, userID string) (bool, error)
}

// Gate runs the tenant pipeline for every request: parse the host,
// resolve the tenant, validate it, and decide.
type Gate struct {
	cfg      Config
	resolver *tenancy.Resolver
	members  Memberships
	logger   *zap.Logger
}

// New returns a Gate. cfg.UserID may be nil, in which case every request is
// treated as anonymous.
func New(cfg Config, resolver *tenancy.Resolver, members Memberships, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{cfg: cfg, resolver: resolver, members: members, logger: logger}
}

// Decide applies the access rules in order:
//
//  1. public paths are allowed
//  2. suspended tenants redirect to /suspended
//  3. unknown or inactive tenants redirect to /not-found
//  4. anonymous users and session procedures are allowed (handlers
//     enforce sign-in and membership themselves)
//  5. platform mode allows only users with no tenant membership
//  6. tenant mode allows only members of the tenant
//
// A membership lookup error denies. Decide performs at most one
// membership lookup and has no side effects besides logging.
func (g *Gate) Decide(ctx context.Context, res tenancy.Resolution, verr *tenancy.ResolutionError, userID, path string) Decision {
	if IsPublicPath(path) {
		return allow()
	}

	if verr != nil {
		switch verr.Kind {
		case tenancy.KindSuspended:
			return redirectTo(PathSuspended)
		case tenancy.KindNotFound, tenancy.KindInactive:
			if res.IsTenant() {
				return redirectTo(PathNotFound)
			}
		}
	}

	if userID == "" || IsSessionPath(path) {
		return allow()
	}

	lctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	if res.IsPlatform() {
		has, err := g.members.HasAnyMembership(lctx, userID)
		if err != nil {
			g.logger.Error("membership lookup failed; denying",
				zap.String("user_id", userID),
				zap.Error(err))
			return deny()
		}
		if has {
			g.logger.Info("tenant user denied on platform host",
				zap.String("user_id", userID),
				zap.String("path", path))
			return deny()
		}
		return allow()
	}

	ok, err := g.members.IsMember(lctx, res.TenantID, userID)
	if err != nil {
		g.logger.Error("membership lookup failed; denying",
			zap.String("tenant_id", res.TenantID),
			zap.String("user_id", userID),
			zap.Error(err))
		return deny()
	}
	if !ok {
		g.logger.Info("non-member denied on tenant host",
			zap.String("tenant_id", res.TenantID),
			zap.String("user_id", userID),
			zap.String("path", path))
		return deny()
	}
	return allow()
}
