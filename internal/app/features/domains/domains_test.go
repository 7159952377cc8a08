package domains_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/tenanthub/internal/app/features/domains"
	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/hostname"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/dalemusser/tenanthub/internal/testutil"
	"go.uber.org/zap"
)

const missingID = "0b9d4a2c-6a1e-4f7e-9f3a-2d8c1b7e5a44"

func setup(t *testing.T) (*testutil.MemStore, func(name string, input any) testutil.RPCResponse) {
	t.Helper()
	mem := testutil.NewMemStore()
	set := mem.Set()
	rt := rpc.NewRouter(authz.New(set.Members, set.Users), zap.NewNop())
	domains.NewHandler(set, hostname.Config{BaseDomain: "example.com"}, zap.NewNop()).Register(rt)
	root := mem.SeedUser(t, "Root", "root@example.com", models.RoleSuperAdmin, status.UserActive)
	call := func(name string, input any) testutil.RPCResponse {
		return testutil.CallRPC(t, rt, testutil.OnPlatform(testutil.RPCRequest(t, name, input), root.ID))
	}
	return mem, call
}

func TestAdd_NormalizesHostname(t *testing.T) {
	mem, call := setup(t)
	tn := mem.SeedTenant(t, "Acme", "acme", status.Active)

	res := call("platform.domains.add", map[string]string{"tenantId": tn.ID, "hostname": "WWW.Portal.Acme.org:443"})

	if res.Status != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.Status, res.Message)
	}
	var d models.Domain
	res.Decode(t, &d)
	if d.Hostname != "portal.acme.org" || d.TenantID != tn.ID {
		t.Errorf("domain = %+v", d)
	}
}

func TestAdd_Rejects(t *testing.T) {
	mem, call := setup(t)
	tn := mem.SeedTenant(t, "Acme", "acme", status.Active)
	other := mem.SeedTenant(t, "Other", "other", status.Active)
	mem.SeedDomain(t, other.ID, "other.example.com")

	tests := []struct {
		name     string
		tenantID string
		host     string
		want     int
	}{
		{"malformed", tn.ID, "not a host", http.StatusBadRequest},
		{"single label", tn.ID, "intranet", http.StatusBadRequest},
		{"admin host", tn.ID, "app.example.com", http.StatusBadRequest},
		{"bound elsewhere", tn.ID, "Other.Example.com", http.StatusConflict},
		{"unknown tenant", missingID, "acme.org", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call("platform.domains.add", map[string]string{"tenantId": tt.tenantID, "hostname": tt.host})
			if res.Status != tt.want {
				t.Errorf("status = %d (%s), want %d", res.Status, res.Message, tt.want)
			}
		})
	}
}

func TestListAndRemove(t *testing.T) {
	mem, call := setup(t)
	tn := mem.SeedTenant(t, "Acme", "acme", status.Active)
	a := mem.SeedDomain(t, tn.ID, "acme.example.com")
	mem.SeedDomain(t, tn.ID, "acme.org")

	var list []models.Domain
	call("platform.domains.list", map[string]string{"tenantId": tn.ID}).Decode(t, &list)
	if len(list) != 2 {
		t.Fatalf("list = %+v, want 2 domains", list)
	}

	res := call("platform.domains.remove", map[string]string{"id": a.ID})
	if res.Status != http.StatusOK {
		t.Fatalf("remove status = %d (%s)", res.Status, res.Message)
	}
	call("platform.domains.list", map[string]string{"tenantId": tn.ID}).Decode(t, &list)
	if len(list) != 1 || list[0].Hostname != "acme.org" {
		t.Errorf("after remove = %+v", list)
	}

	if res := call("platform.domains.remove", map[string]string{"id": a.ID}); res.Status != http.StatusNotFound {
		t.Errorf("second remove status = %d, want 404", res.Status)
	}
	if res := call("platform.domains.list", map[string]string{"tenantId": missingID}); res.Status != http.StatusNotFound {
		t.Errorf("list unknown tenant status = %d, want 404", res.Status)
	}
}
