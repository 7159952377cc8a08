package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestRequireSignedIn(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("dashboard"))
	}))

	tests := []struct {
		name       string
		signedIn   bool
		headers    map[string]string
		wantStatus int
		wantHeader string // header that must carry the login target
	}{
		{"browser", false, map[string]string{"Accept": "text/html"}, http.StatusSeeOther, "Location"},
		{"htmx", false, map[string]string{"HX-Request": "true"}, http.StatusUnauthorized, "HX-Redirect"},
		{"json client", false, map[string]string{"Accept": "application/json"}, http.StatusUnauthorized, ""},
		{"signed in", true, map[string]string{"Accept": "text/html"}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/dashboard?tab=members", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.signedIn {
				req = withTestUser(req, "")
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantHeader != "" {
				want := "/login?return=" + url.QueryEscape("/dashboard?tab=members")
				if got := rec.Header().Get(tt.wantHeader); got != want {
					t.Errorf("%s = %q, want %q", tt.wantHeader, got, want)
				}
			}
			if tt.signedIn && rec.Body.String() != "dashboard" {
				t.Errorf("body = %q, want the wrapped handler's output", rec.Body.String())
			}
		})
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)

	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}

func TestCurrentUser_WithUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = withTestUser(req, "superadmin")

	user, ok := auth.CurrentUser(req)

	if !ok {
		t.Error("expected ok to be true when user in context")
	}
	if user == nil {
		t.Fatal("expected user to not be nil")
	}
	if user.Role != "superadmin" {
		t.Errorf("expected role 'superadmin', got %q", user.Role)
	}
}

// withTestUser injects a SessionUser into the request context for testing.
// This simulates what LoadSessionUser middleware does.
func withTestUser(r *http.Request, role string) *http.Request {
	user := &auth.SessionUser{
		ID:    "0b9c4c1e-6a3f-4d5e-9b8a-1f2e3d4c5b6a",
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
	}
	return auth.WithTestUser(r, user)
}

type fakeFetcher struct {
	users map[string]*auth.SessionUser
}

func (f fakeFetcher) FetchUser(_ context.Context, userID string) *auth.SessionUser {
	return f.users[userID]
}

// loginCookies signs userID in and returns the cookies the response set.
func loginCookies(t *testing.T, sm *auth.SessionManager, userID string) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/rpc/auth.login", nil)
	if err := sm.Login(rec, req, userID); err != nil {
		t.Fatalf("Login: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}
	return cookies
}

func TestLoadSessionUser_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(fakeFetcher{users: map[string]*auth.SessionUser{
		"u1": {ID: "u1", Name: "Ada", Email: "ada@example.com"},
	}})
	cookies := loginCookies(t, sm, "u1")

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != "u1" || got.Name != "Ada" {
		t.Errorf("expected user u1 in context, got %+v", got)
	}
	if auth.UserID(req) != "" {
		t.Error("original request should not carry the user")
	}
}

func TestLoadSessionUser_DisabledUserIsSignedOut(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(fakeFetcher{users: map[string]*auth.SessionUser{}})
	cookies := loginCookies(t, sm, "u-gone")

	called := false
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user in context")
		}
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected handler to be called")
	}
	expired := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("expected the session cookie to be expired")
	}
}

func TestLoadSessionUser_TamperedCookieIgnored(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(fakeFetcher{})

	called := false
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user for a tampered cookie")
		}
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-valid-cookie"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("expected handler to be called")
	}
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestSessionUser_IsSuperAdmin(t *testing.T) {
	var nilUser *auth.SessionUser
	if nilUser.IsSuperAdmin() {
		t.Error("nil user should not be superadmin")
	}
	if !(&auth.SessionUser{Role: "superadmin"}).IsSuperAdmin() {
		t.Error("expected superadmin")
	}
}
