package tenantstore_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/tenanthub/internal/app/store"
	tenantstore "github.com/dalemusser/tenanthub/internal/app/store/tenants"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/dalemusser/tenanthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := tenantstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := s.Create(ctx, models.Tenant{Name: "  Acme Corp ", Slug: "Acme"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if created.Name != "Acme Corp" {
		t.Errorf("Name: got %q, want %q", created.Name, "Acme Corp")
	}
	if created.Slug != "acme" {
		t.Errorf("Slug: got %q, want %q", created.Slug, "acme")
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.Status != status.Trial {
		t.Errorf("Status: got %q, want %q", created.Status, status.Trial)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := tenantstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Note: indexes are already created by SetupTestDB
	if _, err := s.Create(ctx, models.Tenant{Name: "One", Slug: "dup"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := s.Create(ctx, models.Tenant{Name: "Two", Slug: "dup"})
	if !errors.Is(err, models.ErrDuplicateSlug) {
		t.Errorf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := tenantstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_TenantBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := tenantstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tn := fx.CreateActiveTenant(ctx, "Acme", "acme")

	found, err := s.TenantBySlug(ctx, "ACME ")
	if err != nil {
		t.Fatalf("TenantBySlug failed: %v", err)
	}
	if found.ID != tn.ID {
		t.Errorf("ID: got %q, want %q", found.ID, tn.ID)
	}

	if _, err := s.TenantBySlug(ctx, "nobody"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_TenantByHostname(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := tenantstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tn := fx.CreateActiveTenant(ctx, "Acme", "acme")
	fx.CreateDomain(ctx, tn.ID, "portal.acme.io")

	found, err := s.TenantByHostname(ctx, "portal.acme.io")
	if err != nil {
		t.Fatalf("TenantByHostname failed: %v", err)
	}
	if found.ID != tn.ID || found.Slug != "acme" {
		t.Errorf("got tenant %+v, want id %q", found, tn.ID)
	}

	if _, err := s.TenantByHostname(ctx, "unknown.acme.io"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_TenantByHostname_OrphanDomain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := tenantstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateDomain(ctx, "gone", "orphan.example.com")

	if _, err := s.TenantByHostname(ctx, "orphan.example.com"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListWithCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := tenantstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := s.Create(ctx, models.Tenant{Name: "Alpha", Slug: "alpha"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b, err := s.Create(ctx, models.Tenant{Name: "Beta", Slug: "beta"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	u1 := fx.CreateUser(ctx, "One", "one@test.com", "")
	u2 := fx.CreateUser(ctx, "Two", "two@test.com", "")
	fx.CreateMember(ctx, a.ID, u1.ID, models.MemberRoleAdmin)
	fx.CreateMember(ctx, a.ID, u2.ID, models.MemberRoleMember)
	fx.CreateDomain(ctx, a.ID, "alpha.example.com")

	rows, err := s.ListWithCounts(ctx)
	if err != nil {
		t.Fatalf("ListWithCounts failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	byID := map[string]models.TenantWithCounts{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	if got := byID[a.ID]; got.MemberCount != 2 || got.DomainCount != 1 {
		t.Errorf("alpha counts: got members=%d domains=%d, want 2 and 1", got.MemberCount, got.DomainCount)
	}
	if got := byID[b.ID]; got.MemberCount != 0 || got.DomainCount != 0 {
		t.Errorf("beta counts: got members=%d domains=%d, want 0 and 0", got.MemberCount, got.DomainCount)
	}
	if got := byID[b.ID]; got.Name != "Beta" {
		t.Errorf("beta name: got %q", got.Name)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := tenantstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tn, err := s.Create(ctx, models.Tenant{Name: "Acme", Slug: "acme"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	name := "Acme Holdings"
	st := "suspended"
	updated, err := s.Update(ctx, tn.ID, store.TenantUpdate{Name: &name, Status: &st})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != name {
		t.Errorf("Name: got %q, want %q", updated.Name, name)
	}
	if updated.Status != status.Suspended {
		t.Errorf("Status: got %q, want %q", updated.Status, status.Suspended)
	}
	if updated.Slug != "acme" {
		t.Errorf("Slug should be untouched, got %q", updated.Slug)
	}

	if _, err := s.Update(ctx, "missing", store.TenantUpdate{Name: &name}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Update_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := tenantstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := s.Create(ctx, models.Tenant{Name: "A", Slug: "taken"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b, err := s.Create(ctx, models.Tenant{Name: "B", Slug: "free"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	slug := "taken"
	if _, err := s.Update(ctx, b.ID, store.TenantUpdate{Slug: &slug}); !errors.Is(err, models.ErrDuplicateSlug) {
		t.Errorf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestStore_Delete_Cascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := tenantstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tn := fx.CreateActiveTenant(ctx, "Acme", "acme")
	other := fx.CreateActiveTenant(ctx, "Other", "other")
	u := fx.CreateUser(ctx, "User", "user@test.com", "")
	fx.CreateDomain(ctx, tn.ID, "acme.example.com")
	fx.CreateDomain(ctx, other.ID, "other.example.com")
	fx.CreateMember(ctx, tn.ID, u.ID, models.MemberRoleAdmin)
	fx.CreateMember(ctx, other.ID, u.ID, models.MemberRoleMember)

	if err := s.Delete(ctx, tn.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if n, _ := db.Collection("domains").CountDocuments(ctx, bson.M{"tenant_id": tn.ID}); n != 0 {
		t.Errorf("expected domains removed, %d remain", n)
	}
	if n, _ := db.Collection("tenant_members").CountDocuments(ctx, bson.M{"tenant_id": tn.ID}); n != 0 {
		t.Errorf("expected memberships removed, %d remain", n)
	}
	if n, _ := db.Collection("domains").CountDocuments(ctx, bson.M{"tenant_id": other.ID}); n != 1 {
		t.Errorf("other tenant's domains touched: %d remain", n)
	}
	if n, _ := db.Collection("users").CountDocuments(ctx, bson.M{"_id": u.ID}); n != 1 {
		t.Error("user must survive tenant deletion")
	}

	if err := s.Delete(ctx, tn.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}
