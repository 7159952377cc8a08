package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/tenanthub/internal/app/system/auth"
	"github.com/dalemusser/tenanthub/internal/app/system/reqctx"
	"github.com/dalemusser/tenanthub/internal/app/system/tenancy"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/google/uuid"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// SuperAdminUser returns a TestUser with the platform superadmin role.
func SuperAdminUser() TestUser {
	return TestUser{
		ID:    uuid.NewString(),
		Name:  "Test Superadmin",
		Email: "root@test.com",
		Role:  models.RoleSuperAdmin,
	}
}

// PlainUser returns a TestUser without a platform role.
func PlainUser() TestUser {
	return TestUser{
		ID:    uuid.NewString(),
		Name:  "Test User",
		Email: "user@test.com",
	}
}

// FromModel converts a stored user into a TestUser.
func FromModel(u models.User) TestUser {
	return TestUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	return auth.WithTestUser(r, sessionUser)
}

// OnTenant places the request on the tenant host of t, with the request
// context the gate middleware would have built for userID.
func OnTenant(r *http.Request, t models.Tenant, userID string) *http.Request {
	r = tenancy.WithTestTenant(r, t)
	res, _ := tenancy.FromRequest(r)
	return reqctx.WithTest(r, res, userID)
}

// OnPlatform places the request on the platform admin host for userID.
func OnPlatform(r *http.Request, userID string) *http.Request {
	r = tenancy.WithTestPlatform(r)
	res, _ := tenancy.FromRequest(r)
	return reqctx.WithTest(r, res, userID)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	location := r.Header().Get("Location")
	if location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	body := r.Body.String()
	if !strings.Contains(body, expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
