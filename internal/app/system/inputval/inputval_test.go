package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"user123@example.co.uk", true},
		{"a@b.co", true},
		{"user@localhost", true},   // single-label domains are allowed
		{"admin@mailserver", true}, // useful for dev/test environments

		// Invalid emails - empty/whitespace
		{"", false},
		{"   ", false},

		// Invalid emails - missing parts
		{"user", false},
		{"user@", false},
		{"@example.com", false},

		// Invalid emails - bad format
		{".user@example.com", false},      // leading dot in local
		{"user.@example.com", false},      // trailing dot in local
		{"user..name@example.com", false}, // consecutive dots
		{"user@.example.com", false},      // leading dot in domain
		{"user@example..com", false},      // consecutive dots in domain

		// Invalid emails - display name format (should be rejected)
		{"User Name <user@example.com>", false},

		// Invalid emails - other malformed
		{"user @example.com", false}, // space in local
		{"user@ example.com", false}, // space after @
		{"user@exam ple.com", false}, // space in domain
		{"user@exa_mple.com", false}, // underscore in domain
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name  string `validate:"required,max=10" label:"Full name"`
		Email string `validate:"required,email" label:"Email address"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      TestInput{Name: "John", Email: "john@example.com"},
			wantErrors: false,
		},
		{
			name:       "missing name",
			input:      TestInput{Name: "", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
		{
			name:       "name too long",
			input:      TestInput{Name: "VeryLongNameThatExceedsLimit", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name must be at most 10 characters.",
		},
		{
			name:       "invalid email",
			input:      TestInput{Name: "John", Email: "not-an-email"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
		},
		{
			name:       "missing both",
			input:      TestInput{Name: "", Email: ""},
			wantErrors: true,
			wantFirst:  "Full name is required.", // First error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)

			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}

			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_JSONNameFallback(t *testing.T) {
	type in struct {
		TenantID string `json:"tenantId" validate:"required"`
	}
	r := Validate(in{})
	if r.First() != "tenantId is required." {
		t.Errorf("First() = %q", r.First())
	}
}

func TestResult_All(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.All() != "" {
			t.Errorf("All() = %q, want empty", r.All())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "Error 1"},
				{Message: "Error 2"},
			},
		}
		want := "Error 1; Error 2"
		if r.All() != want {
			t.Errorf("All() = %q, want %q", r.All(), want)
		}
	})
}

func TestResult_First(t *testing.T) {
	r := &Result{}
	if r.First() != "" {
		t.Errorf("First() = %q, want empty", r.First())
	}
	r.Errors = []FieldError{{Message: "First error"}, {Message: "Second error"}}
	if r.First() != "First error" {
		t.Errorf("First() = %q, want %q", r.First(), "First error")
	}
}

func TestValidate_CustomRules(t *testing.T) {
	type SlugInput struct {
		Slug string `validate:"required,slug" label:"Slug"`
	}
	type StatusInput struct {
		Status string `validate:"omitempty,tenantstatus" label:"Status"`
	}
	type RoleInput struct {
		Role string `validate:"required,memberrole" label:"Role"`
	}
	type AnyRoleInput struct {
		Role string `validate:"required,anyrole" label:"Role"`
	}
	type IDInput struct {
		ID string `validate:"required,uuid" label:"Tenant ID"`
	}
	type HostInput struct {
		Hostname string `validate:"required,domainhost" label:"Hostname"`
	}

	tests := []struct {
		name  string
		input any
		ok    bool
	}{
		{"valid slug", SlugInput{Slug: "acme-co"}, true},
		{"slug with uppercase", SlugInput{Slug: "Acme"}, false},
		{"slug leading hyphen", SlugInput{Slug: "-acme"}, false},
		{"status lower case", StatusInput{Status: "suspended"}, true},
		{"status empty", StatusInput{}, true},
		{"status unknown", StatusInput{Status: "PAUSED"}, false},
		{"member role", RoleInput{Role: "admin"}, true},
		{"superadmin is not a member role", RoleInput{Role: "superadmin"}, false},
		{"any role superadmin", AnyRoleInput{Role: "superadmin"}, true},
		{"any role unknown", AnyRoleInput{Role: "owner"}, false},
		{"uuid", IDInput{ID: "0b9d4a2c-6a1e-4f7e-9f3a-2d8c1b7e5a44"}, true},
		{"not a uuid", IDInput{ID: "507f1f77bcf86cd799439011"}, false},
		{"hostname", HostInput{Hostname: "portal.acme.org"}, true},
		{"hostname with port and case", HostInput{Hostname: "Portal.Acme.org:8443"}, true},
		{"single label host", HostInput{Hostname: "localhost"}, false},
		{"hostname with space", HostInput{Hostname: "acme .org"}, false},
		{"hostname with scheme", HostInput{Hostname: "https://acme.org"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(tt.input)
			if r.HasErrors() == tt.ok {
				t.Errorf("Validate(%+v) errors=%v, want ok=%v", tt.input, r.Errors, tt.ok)
			}
		})
	}
}

func TestValidate_NumericBounds(t *testing.T) {
	type in struct {
		Limit int64 `validate:"omitempty,min=1,max=200" label:"Limit"`
	}
	if r := Validate(in{Limit: 500}); r.First() != "Limit must be at most 200." {
		t.Errorf("First() = %q", r.First())
	}
	if r := Validate(in{}); r.HasErrors() {
		t.Errorf("zero limit should be skipped, got %v", r.Errors)
	}
}
