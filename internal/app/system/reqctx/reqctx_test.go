package reqctx

import (
	"context"
	"testing"

	"github.com/dalemusser/tenanthub/internal/app/system/tenancy"
	"github.com/dalemusser/tenanthub/internal/domain/models"
)

func TestBuild_Tenant(t *testing.T) {
	tenant := &models.Tenant{ID: "t1", Name: "Acme", Slug: "acme", Status: "ACTIVE"}
	rc := Build(tenancy.Resolution{
		TenantID:  "t1",
		Tenant:    tenant,
		Mode:      tenancy.ModeTenant,
		Subdomain: "acme",
	}, "u1")

	if rc.TenantID() != "t1" || !rc.IsTenant() || rc.UserID() != "u1" || rc.Subdomain() != "acme" {
		t.Errorf("unexpected context: %+v", rc)
	}
	if !rc.IsAuthenticated() {
		t.Error("expected authenticated")
	}

	// mutating the source or a returned copy must not change the context
	tenant.Name = "Changed"
	got := rc.Tenant()
	if got == nil || got.Name != "Acme" {
		t.Fatalf("expected tenant copy named Acme, got %+v", got)
	}
	got.Name = "Changed again"
	if rc.Tenant().Name != "Acme" {
		t.Error("Tenant() leaked internal state")
	}
}

func TestBuild_PlatformAnonymous(t *testing.T) {
	rc := Build(tenancy.Resolution{Mode: tenancy.ModePlatform}, "")

	if !rc.IsPlatform() || rc.IsAuthenticated() || rc.Tenant() != nil || rc.TenantID() != "" {
		t.Errorf("unexpected context: %+v", rc)
	}
}

func TestBuild_EmptyModeDefaultsToPlatform(t *testing.T) {
	if rc := Build(tenancy.Resolution{}, ""); rc.Mode() != tenancy.ModePlatform {
		t.Errorf("Mode = %q, want platform", rc.Mode())
	}
}

func TestFrom(t *testing.T) {
	if rc := From(context.Background()); !rc.IsPlatform() || rc.IsAuthenticated() {
		t.Errorf("expected anonymous platform context, got %+v", rc)
	}

	ctx := With(context.Background(), Build(tenancy.Resolution{Mode: tenancy.ModeTenant, TenantID: "t1"}, "u1"))
	rc := From(ctx)
	if rc.TenantID() != "t1" || rc.UserID() != "u1" {
		t.Errorf("unexpected context: %+v", rc)
	}
}
