package settings_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/tenanthub/internal/app/features/settings"
	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/dalemusser/tenanthub/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	mem    *testutil.MemStore
	rt     *rpc.Router
	tenant models.Tenant
	admin  models.User
	member models.User
}

func setup(t *testing.T) fixture {
	t.Helper()
	mem := testutil.NewMemStore()
	set := mem.Set()
	rt := rpc.NewRouter(authz.New(set.Members, set.Users), zap.NewNop())
	settings.NewHandler(set, zap.NewNop()).Register(rt)

	f := fixture{mem: mem, rt: rt}
	f.tenant = mem.SeedTenant(t, "Acme", "acme", status.Active)
	f.admin = mem.SeedUser(t, "Ada", "ada@example.com", "", status.UserActive)
	f.member = mem.SeedUser(t, "Max", "max@example.com", "", status.UserActive)
	mem.SeedMember(t, f.tenant.ID, f.admin.ID, models.MemberRoleAdmin)
	mem.SeedMember(t, f.tenant.ID, f.member.ID, models.MemberRoleMember)
	return f
}

func (f fixture) call(t *testing.T, name string, input any, userID string) testutil.RPCResponse {
	t.Helper()
	req := testutil.OnTenant(testutil.RPCRequest(t, name, input), f.tenant, userID)
	return testutil.CallRPC(t, f.rt, req)
}

func TestTenantGet(t *testing.T) {
	f := setup(t)

	res := f.call(t, "tenant.get", nil, f.member.ID)

	if res.Status != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.Status, res.Message)
	}
	var got models.Tenant
	res.Decode(t, &got)
	if got.ID != f.tenant.ID || got.Slug != "acme" {
		t.Errorf("tenant = %+v", got)
	}
}

func TestTenantGet_Denials(t *testing.T) {
	f := setup(t)
	outsider := f.mem.SeedUser(t, "Olga", "olga@example.com", "", status.UserActive)

	if res := f.call(t, "tenant.get", nil, ""); res.Status != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", res.Status)
	}
	if res := f.call(t, "tenant.get", nil, outsider.ID); res.Status != http.StatusForbidden {
		t.Errorf("outsider: status = %d, want 403", res.Status)
	}

	req := testutil.OnPlatform(testutil.RPCRequest(t, "tenant.get", nil), f.admin.ID)
	if res := testutil.CallRPC(t, f.rt, req); res.Status != http.StatusForbidden {
		t.Errorf("platform host: status = %d, want 403", res.Status)
	}
}

func TestTenantUpdate(t *testing.T) {
	f := setup(t)

	res := f.call(t, "tenant.update", map[string]string{
		"name":   "  Acme <b>Labs</b> ",
		"status": "trial",
	}, f.admin.ID)

	if res.Status != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.Status, res.Message)
	}
	var got models.Tenant
	res.Decode(t, &got)
	if got.Name != "Acme Labs" {
		t.Errorf("name = %q, want %q", got.Name, "Acme Labs")
	}
	if got.Status != status.Trial {
		t.Errorf("status = %q, want %q", got.Status, status.Trial)
	}
}

func TestTenantUpdate_Validation(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name  string
		input map[string]string
	}{
		{"unknown status", map[string]string{"status": "PAUSED"}},
		{"empty name", map[string]string{"name": "<i></i>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.call(t, "tenant.update", tt.input, f.admin.ID)
			if res.Status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", res.Status)
			}
		})
	}
}

func TestTenantUpdate_RequiresAdmin(t *testing.T) {
	f := setup(t)

	res := f.call(t, "tenant.update", map[string]string{"name": "Hijacked"}, f.member.ID)

	if res.Status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", res.Status)
	}
}

func TestTenantRecentLogins(t *testing.T) {
	f := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	for _, u := range []models.User{f.member, f.admin} {
		if err := f.mem.Set().Logins.Create(ctx, models.LoginRecord{UserID: u.ID, TenantID: f.tenant.ID, Mode: "tenant"}); err != nil {
			t.Fatalf("seed login: %v", err)
		}
	}

	res := f.call(t, "tenant.recentLogins", map[string]int{"limit": 1}, f.admin.ID)

	if res.Status != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.Status, res.Message)
	}
	var got []models.LoginRecord
	res.Decode(t, &got)
	if len(got) != 1 || got[0].UserID != f.admin.ID {
		t.Errorf("recent logins = %+v, want the admin's login only", got)
	}
}
