package indexes_test

import (
	"context"
	"testing"

	"github.com/dalemusser/tenanthub/internal/app/system/indexes"
	"github.com/dalemusser/tenanthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func indexNames(ctx context.Context, t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"tenants":         {"uniq_tenants_slug", "idx_tenants_created", "idx_tenants_nameci"},
		"domains":         {"uniq_domains_hostname", "idx_domains_tenant"},
		"tenant_members":  {"uniq_tm_tenant_user", "idx_tm_user"},
		"users":           {"uniq_users_email", "idx_users_role"},
		"login_records":   {"idx_logins_user_created", "idx_logins_tenant_created", "idx_logins_created"},
		"password_resets": {"uniq_resets_token", "idx_resets_user", "idx_resets_expires_ttl"},
	}
	for coll, want := range expected {
		names := indexNames(ctx, t, db, coll)
		for _, name := range want {
			if !names[name] {
				t.Errorf("expected index %q to exist on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_RenamesMisnamedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := db.Collection("domains").Indexes().DropAll(ctx); err != nil {
		t.Fatalf("drop indexes: %v", err)
	}
	// Same keys, legacy name.
	_, err := db.Collection("domains").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(ctx, t, db, "domains")
	if !names["idx_domains_tenant"] {
		t.Error("expected idx_domains_tenant after reconcile")
	}
	if names["tenant_id_1_created_at_1"] {
		t.Error("expected legacy index name to be replaced")
	}
}
