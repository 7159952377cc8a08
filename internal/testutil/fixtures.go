package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestPassword is the plaintext password of every user created by fixtures.
const TestPassword = "correct-horse-battery"

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateTenant creates a tenant with the given slug and status.
func (f *Fixtures) CreateTenant(ctx context.Context, name, slug, st string) models.Tenant {
	f.t.Helper()

	now := time.Now().UTC()
	tn := models.Tenant{
		ID:        uuid.NewString(),
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      slug,
		Status:    st,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("tenants").InsertOne(ctx, tn); err != nil {
		f.t.Fatalf("failed to create test tenant: %v", err)
	}
	return tn
}

// CreateActiveTenant creates an ACTIVE tenant.
func (f *Fixtures) CreateActiveTenant(ctx context.Context, name, slug string) models.Tenant {
	f.t.Helper()
	return f.CreateTenant(ctx, name, slug, status.Active)
}

// CreateDomain binds hostname to the tenant.
func (f *Fixtures) CreateDomain(ctx context.Context, tenantID, hostname string) models.Domain {
	f.t.Helper()

	d := models.Domain{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Hostname:  hostname,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("domains").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test domain: %v", err)
	}
	return d
}

// CreateUser creates an active user whose password is TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()
	return f.createUser(ctx, name, email, role, status.UserActive)
}

// CreateSuperAdmin creates an active platform superadmin.
func (f *Fixtures) CreateSuperAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, name, email, models.RoleSuperAdmin, status.UserActive)
}

// CreateDisabledUser creates a disabled user.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, name, email, "", status.UserDisabled)
}

func (f *Fixtures) createUser(ctx context.Context, name, email, role, st string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       st,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateMember adds the user to the tenant with the given role.
func (f *Fixtures) CreateMember(ctx context.Context, tenantID, userID, role string) models.TenantMember {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.TenantMember{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("tenant_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}
