// Package authz implements the authorization tiers that RPC procedures
// declare. Each tier is an ordered list of named predicates over the request
// context; one function, Check, evaluates them.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/tenanthub/internal/app/system/reqctx"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/domain/models"
)

// Tier names an authorization level.
type Tier int

const (
	Public Tier = iota
	Authenticated
	TenantMember
	TenantAdmin
	PlatformSuperAdmin
)

func (t Tier) String() string {
	switch t {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case TenantMember:
		return "tenant-member"
	case TenantAdmin:
		return "tenant-admin"
	case PlatformSuperAdmin:
		return "platform-superadmin"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Code categorizes a rejection.
type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
)

// Error is returned when a predicate rejects the request.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

func unauthorized(msg string) *Error { return &Error{Code: CodeUnauthorized, Message: msg} }
func forbidden(msg string) *Error    { return &Error{Code: CodeForbidden, Message: msg} }

// Members loads a single membership. It returns models.ErrNotFound when
// the user is not a member.
type Members interface {
	Get(ctx context.Context, tenantID, userID string) (models.TenantMember, error)
}

// Users loads a user by ID. It returns models.ErrNotFound when missing.
type Users interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Result carries the records loaded while checking, so procedures do not
// fetch them twice. Fields are nil when the tier did not need them.
type Result struct {
	Member *models.TenantMember
	User   *models.User
}

// Checker evaluates tiers against a request context.
type Checker struct {
	members Members
	users   Users
}

// New returns a Checker.
func New(members Members, users Users) *Checker {
	return &Checker{members: members, users: users}
}

type predicate struct {
	name  string
	check func(ctx context.Context, c *Checker, rc reqctx.Context, out *Result) error
}

var (
	signedIn = predicate{"signed-in", func(_ context.Context, _ *Checker, rc reqctx.Context, _ *Result) error {
		if !rc.IsAuthenticated() {
			return unauthorized("sign in required")
		}
		return nil
	}}

	tenantScoped = predicate{"tenant-scoped", func(_ context.Context, _ *Checker, rc reqctx.Context, _ *Result) error {
		if !rc.IsTenant() || rc.TenantID() == "" {
			return forbidden("a tenant context is required")
		}
		return nil
	}}

	memberOfTenant = predicate{"member-of-tenant", func(ctx context.Context, c *Checker, rc reqctx.Context, out *Result) error {
		m, err := c.members.Get(ctx, rc.TenantID(), rc.UserID())
		if errors.Is(err, models.ErrNotFound) {
			return forbidden("not a member of this tenant")
		}
		if err != nil {
			return fmt.Errorf("load membership: %w", err)
		}
		out.Member = &m
		return nil
	}}

	tenantAdminRole = predicate{"tenant-admin-role", func(_ context.Context, _ *Checker, _ reqctx.Context, out *Result) error {
		if out.Member == nil || out.Member.Role != models.MemberRoleAdmin {
			return forbidden("tenant admin role required")
		}
		return nil
	}}

	platformScoped = predicate{"platform-scoped", func(_ context.Context, _ *Checker, rc reqctx.Context, _ *Result) error {
		if !rc.IsPlatform() || rc.TenantID() != "" {
			return forbidden("only available on the platform host")
		}
		return nil
	}}

	superAdminRole = predicate{"superadmin-role", func(ctx context.Context, c *Checker, rc reqctx.Context, out *Result) error {
		u, err := c.users.GetByID(ctx, rc.UserID())
		if errors.Is(err, models.ErrNotFound) {
			return unauthorized("sign in required")
		}
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if !u.IsSuperAdmin() {
			return forbidden("superadmin role required")
		}
		out.User = &u
		return nil
	}}
)

var tiers = map[Tier][]predicate{
	Public:             nil,
	Authenticated:      {signedIn},
	TenantMember:       {signedIn, tenantScoped, memberOfTenant},
	TenantAdmin:        {signedIn, tenantScoped, memberOfTenant, tenantAdminRole},
	PlatformSuperAdmin: {signedIn, platformScoped, superAdminRole},
}

// Predicates returns the predicate names a tier evaluates, in order.
func Predicates(t Tier) []string {
	ps := tiers[t]
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.name
	}
	return names
}

// Check evaluates tier against rc. A rejection is an *Error; any other
// error is a storage failure.
func (c *Checker) Check(ctx context.Context, rc reqctx.Context, tier Tier) (Result, error) {
	ps, ok := tiers[tier]
	if !ok {
		return Result{}, fmt.Errorf("authz: unknown tier %s", tier)
	}

	lctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var out Result
	for _, p := range ps {
		if err := p.check(lctx, c, rc, &out); err != nil {
			return Result{}, err
		}
	}
	return out, nil
}
