package bootstrap

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/dalemusser/tenanthub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func buildTestHandler(t *testing.T) (http.Handler, *testutil.MemStore) {
	t.Helper()
	mem := testutil.NewMemStore()
	appCfg := AppConfig{
		SessionKey:    "test-session-key-0123456789ABCDEFGHIJ",
		SessionName:   "tenanthub-test",
		SessionDomain: ".example.com",
		SessionMaxAge: time.Hour,
		BaseDomain:    "example.com",
	}
	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, appCfg, DBDeps{Store: mem.Set()}, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	return h, mem
}

func serve(h http.Handler, method, url string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBuildHandler_GateRedirects(t *testing.T) {
	h, mem := buildTestHandler(t)
	mem.SeedTenant(t, "Frozen", "frozen", status.Suspended)
	mem.SeedTenant(t, "Gone", "gone", status.Inactive)

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"unknown tenant", "http://ghost.example.com/api/user", "/not-found"},
		{"suspended tenant", "http://frozen.example.com/api/user", "/suspended"},
		{"inactive tenant", "http://gone.example.com/api/user", "/not-found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tt.url, nil, nil)
			if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != tt.want {
				t.Errorf("got %d -> %q, want 303 -> %q", rec.Code, rec.Header().Get("Location"), tt.want)
			}
		})
	}

	// status pages stay reachable on a suspended tenant's host
	if rec := serve(h, http.MethodGet, "http://frozen.example.com/suspended", nil, nil); rec.Code != http.StatusForbidden {
		t.Errorf("/suspended status = %d, want 403", rec.Code)
	}
}

func TestBuildHandler_Health(t *testing.T) {
	h, _ := buildTestHandler(t)

	rec := serve(h, http.MethodGet, "http://app.example.com/health", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"driver":"memory"`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestBuildHandler_TenantMemberFlow(t *testing.T) {
	h, mem := buildTestHandler(t)
	tn := mem.SeedTenant(t, "Acme", "acme", status.Active)
	mem.SeedDomain(t, tn.ID, "acme.example.com")
	u := mem.SeedUser(t, "Alice", "alice@acme.test", "", status.UserActive)
	mem.SeedMember(t, tn.ID, u.ID, models.MemberRoleMember)

	rec := serve(h, http.MethodGet, "http://acme.example.com/", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Acme") {
		t.Fatalf("home = %d, body should name the tenant", rec.Code)
	}
	if got := rec.Header().Get("X-Tenant-Id"); got != tn.ID {
		t.Errorf("X-Tenant-Id = %q, want %q", got, tn.ID)
	}

	login := serve(h, http.MethodPost, "http://acme.example.com/rpc/auth.login",
		map[string]string{"email": "alice@acme.test", "password": testutil.TestPassword}, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login = %d %s", login.Code, login.Body.String())
	}
	cookies := login.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login should set a session cookie")
	}

	rec = serve(h, http.MethodGet, "http://acme.example.com/rpc/tenant.get", nil, cookies)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"slug":"acme"`) {
		t.Errorf("tenant.get = %d %s", rec.Code, rec.Body.String())
	}

	// the member is not an admin
	rec = serve(h, http.MethodPost, "http://acme.example.com/rpc/tenant.update", map[string]string{"name": "Hacked"}, cookies)
	if rec.Code != http.StatusForbidden {
		t.Errorf("tenant.update as member = %d, want 403", rec.Code)
	}

	// a tenant member is redirected away from the platform host
	rec = serve(h, http.MethodGet, "http://app.example.com/api/user", nil, cookies)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("platform host as member = %d -> %q, want 303 -> /login", rec.Code, rec.Header().Get("Location"))
	}

	// procedures on the platform host answer with the error envelope
	rec = serve(h, http.MethodGet, "http://app.example.com/rpc/platform.tenants.list", nil, cookies)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), `"code":"UNAUTHORIZED"`) {
		t.Errorf("platform rpc as member = %d %s, want 401 envelope", rec.Code, rec.Body.String())
	}

	// but the member can still sign out there
	rec = serve(h, http.MethodPost, "http://app.example.com/rpc/auth.logout", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Errorf("auth.logout on platform host = %d %s", rec.Code, rec.Body.String())
	}
}

func TestBuildHandler_SuperAdminFlow(t *testing.T) {
	h, mem := buildTestHandler(t)
	mem.SeedUser(t, "Root", "root@example.com", models.RoleSuperAdmin, status.UserActive)

	login := serve(h, http.MethodPost, "http://app.example.com/rpc/auth.login",
		map[string]string{"email": "root@example.com", "password": testutil.TestPassword}, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login = %d %s", login.Code, login.Body.String())
	}
	cookies := login.Result().Cookies()

	rec := serve(h, http.MethodPost, "http://app.example.com/rpc/platform.tenants.create", map[string]string{
		"name": "Beta", "slug": "beta", "email": "owner@beta.test", "password": "s3cret!",
	}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}

	// the new default host resolves straight away
	rec = serve(h, http.MethodGet, "http://beta.example.com/", nil, nil)
	if rec.Code != http.StatusOK || rec.Header().Get("X-Tenant-Mode") != "tenant" {
		t.Errorf("beta home = %d mode=%q", rec.Code, rec.Header().Get("X-Tenant-Mode"))
	}
}

func TestBuildHandler_DashboardRequiresSignIn(t *testing.T) {
	h, mem := buildTestHandler(t)
	tn := mem.SeedTenant(t, "Acme", "acme", status.Active)
	mem.SeedDomain(t, tn.ID, "acme.example.com")
	u := mem.SeedUser(t, "Alice", "alice@acme.test", "", status.UserActive)
	mem.SeedMember(t, tn.ID, u.ID, models.MemberRoleMember)

	req := httptest.NewRequest(http.MethodGet, "http://acme.example.com/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login?return=%2Fdashboard" {
		t.Fatalf("anonymous dashboard = %d -> %q, want 303 -> /login?return=%%2Fdashboard",
			rec.Code, rec.Header().Get("Location"))
	}

	login := serve(h, http.MethodPost, "http://acme.example.com/rpc/auth.login",
		map[string]string{"email": "alice@acme.test", "password": testutil.TestPassword}, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login = %d %s", login.Code, login.Body.String())
	}

	rec = serve(h, http.MethodGet, "http://acme.example.com/dashboard", nil, login.Result().Cookies())
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "signed in as Alice (member)") {
		t.Errorf("member dashboard = %d %s", rec.Code, rec.Body.String())
	}
}

func TestBuildHandler_PasswordRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mem := testutil.NewMemStore()
	appCfg := AppConfig{
		SessionKey:       "test-session-key-0123456789ABCDEFGHIJ",
		SessionName:      "tenanthub-test",
		SessionMaxAge:    time.Hour,
		BaseDomain:       "example.com",
		PasswordResetTTL: 30 * time.Minute,
	}
	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, appCfg, DBDeps{Store: mem.Set()}, zap.New(core))
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	tn := mem.SeedTenant(t, "Acme", "acme", status.Active)
	mem.SeedDomain(t, tn.ID, "acme.example.com")
	u := mem.SeedUser(t, "Alice", "alice@acme.test", "", status.UserActive)
	mem.SeedMember(t, tn.ID, u.ID, models.MemberRoleMember)

	if rec := serve(h, http.MethodGet, "http://acme.example.com/forgot-password", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("forgot page = %d", rec.Code)
	}

	rec := serve(h, http.MethodPost, "http://acme.example.com/rpc/auth.forgotPassword",
		map[string]string{"email": "alice@acme.test"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("forgotPassword = %d %s", rec.Code, rec.Body.String())
	}

	// the log mailer records the message it would have sent
	mails := logs.FilterMessage("email not delivered (log mailer)").All()
	if len(mails) != 1 {
		t.Fatalf("logged mails = %d, want 1", len(mails))
	}
	body, _ := mails[0].ContextMap()["text_body"].(string)
	if !strings.Contains(body, "30 minutes") {
		t.Errorf("configured lifetime not in mail:\n%s", body)
	}
	const prefix = "http://acme.example.com/reset-password/"
	i := strings.Index(body, prefix)
	if i < 0 {
		t.Fatalf("no tenant reset link in mail:\n%s", body)
	}
	token := strings.Fields(body[i+len(prefix):])[0]

	if rec := serve(h, http.MethodGet, prefix+token, nil, nil); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), token) {
		t.Fatalf("reset page = %d", rec.Code)
	}
	rec = serve(h, http.MethodPost, "http://acme.example.com/rpc/auth.resetPassword",
		map[string]string{"token": token, "newPassword": "n3w-password"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("resetPassword = %d %s", rec.Code, rec.Body.String())
	}

	login := serve(h, http.MethodPost, "http://acme.example.com/rpc/auth.login",
		map[string]string{"email": "alice@acme.test", "password": "n3w-password"}, nil)
	if login.Code != http.StatusOK {
		t.Errorf("login with new password = %d %s", login.Code, login.Body.String())
	}
}
