// Package normalize cleans user-supplied identifiers before they are stored
// or compared.
package normalize

import (
	"regexp"
	"strings"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status trims and lowercases a user status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a role name.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Slug trims and lowercases a tenant slug.
func Slug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var slugRE = regexp.MustCompile(`^[a-z0-9-]+$`)

// IsValidSlug reports whether s is usable as a subdomain label.
// Slugs are lowercase letters, digits and hyphens, at most 63 characters,
// and may not start or end with a hyphen.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > 63 || !slugRE.MatchString(s) {
		return false
	}
	return !strings.HasPrefix(s, "-") && !strings.HasSuffix(s, "-")
}
