// Package store declares the storage contracts the features depend on.
// Two backends implement them: the MongoDB stores in the sibling packages
// and the PostgreSQL store in pgstore.
package store

import (
	"context"
	"time"

	"github.com/dalemusser/tenanthub/internal/domain/models"
)

// TenantUpdate carries optional tenant changes; nil fields are left alone.
type TenantUpdate struct {
	Name   *string
	Slug   *string
	Status *string
}

// Tenants stores tenants. It satisfies tenancy.Directory: TenantByHostname
// resolves a bound hostname to its owning tenant in a single round trip.
// Delete cascades to the tenant's domains and memberships.
type Tenants interface {
	Create(ctx context.Context, t models.Tenant) (models.Tenant, error)
	GetByID(ctx context.Context, id string) (models.Tenant, error)
	TenantBySlug(ctx context.Context, slug string) (models.Tenant, error)
	TenantByHostname(ctx context.Context, hostname string) (models.Tenant, error)
	ListWithCounts(ctx context.Context) ([]models.TenantWithCounts, error)
	Update(ctx context.Context, id string, upd TenantUpdate) (models.Tenant, error)
	Delete(ctx context.Context, id string) error
}

// Domains stores hostname bindings.
type Domains interface {
	Create(ctx context.Context, d models.Domain) (models.Domain, error)
	GetByID(ctx context.Context, id string) (models.Domain, error)
	ListByTenant(ctx context.Context, tenantID string) ([]models.Domain, error)
	Delete(ctx context.Context, id string) error
}

// Members stores tenant memberships.
type Members interface {
	Create(ctx context.Context, m models.TenantMember) (models.TenantMember, error)
	GetByID(ctx context.Context, id string) (models.TenantMember, error)
	Get(ctx context.Context, tenantID, userID string) (models.TenantMember, error)
	ListByTenant(ctx context.Context, tenantID string) ([]models.TenantMemberView, error)
	UpdateRole(ctx context.Context, id, role string) (models.TenantMember, error)
	Delete(ctx context.Context, id string) error
	HasAnyMembership(ctx context.Context, userID string) (bool, error)
	IsMember(ctx context.Context, tenantID, userID string) (bool, error)
}

// Users stores global identities.
type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	SetRole(ctx context.Context, id, role string) error
	SetPasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

// Logins records successful sign-ins.
type Logins interface {
	Create(ctx context.Context, rec models.LoginRecord) error
	RecentByTenant(ctx context.Context, tenantID string, limit int64) ([]models.LoginRecord, error)
}

// PasswordResets stores password recovery grants. Consume marks an unused,
// unexpired grant as used and returns it; any other grant reports
// models.ErrNotFound. DeleteByUser revokes a user's outstanding grants.
type PasswordResets interface {
	Create(ctx context.Context, pr models.PasswordReset) error
	Consume(ctx context.Context, tokenHash string, now time.Time) (models.PasswordReset, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// Set bundles one backend's stores.
type Set struct {
	Tenants Tenants
	Domains Domains
	Members Members
	Users   Users
	Logins  Logins
	Resets  PasswordResets

	// Ping checks backend connectivity for /health.
	Ping func(ctx context.Context) error
	// Driver names the backend ("mongo" or "postgres").
	Driver string
}
