// Package status defines the lifecycle statuses used by tenants and users.
package status

import "strings"

// Tenant lifecycle statuses.
const (
	Active    = "ACTIVE"
	Trial     = "TRIAL"
	Suspended = "SUSPENDED"
	Inactive  = "INACTIVE"
)

// DefaultTenant is assigned to new tenants when no status is given.
const DefaultTenant = Trial

// User account statuses.
const (
	UserActive   = "active"
	UserDisabled = "disabled"
)

// IsValid reports whether s is a known tenant status.
func IsValid(s string) bool {
	switch s {
	case Active, Trial, Suspended, Inactive:
		return true
	}
	return false
}

// Normalize upper-cases and trims a tenant status. Unknown values are
// returned as-is so callers can reject them with IsValid.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsServing reports whether a tenant in status s may serve requests.
func IsServing(s string) bool {
	return s == Active || s == Trial
}
