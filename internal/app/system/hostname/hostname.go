// Package hostname turns the Host of an inbound request into the lookup key
// and subdomain candidate used for tenant resolution.
package hostname

import (
	"net"
	"strings"
)

// Defaults applied by Config.withDefaults.
const (
	DefaultAdminLabel       = "app"
	DefaultPreviewSeparator = "---"
	DefaultLocalSuffix      = "localhost"
)

// Config describes the deployment's domain layout. It is built once at
// startup and passed to Parse; nothing here reads the environment.
type Config struct {
	BaseDomain       string // e.g. "example.com"; a port is ignored
	AdminLabel       string // admin host is AdminLabel + "." + BaseDomain
	PreviewSuffix    string // e.g. "vercel.app"; empty disables preview parsing
	PreviewSeparator string // separates subdomain from the rest of a preview host
	LocalSuffix      string // e.g. "localhost" for acme.localhost
}

// Parsed is the result of parsing a host.
type Parsed struct {
	// Host is the normalized host: lowercase, no port, no leading "www.".
	// It is always the key for the exact-match domain lookup.
	Host string
	// Subdomain is the tenant slug candidate, or "" when the host shape
	// carries none.
	Subdomain string
	// IsAdmin is true for the platform admin host.
	IsAdmin bool
}

// HasSubdomain reports whether a subdomain candidate was found.
func (p Parsed) HasSubdomain() bool { return p.Subdomain != "" }

// AdminHost returns the normalized admin host for cfg, or "" when no base
// domain is configured.
func (cfg Config) AdminHost() string {
	c := cfg.withDefaults()
	if c.BaseDomain == "" {
		return ""
	}
	return c.AdminLabel + "." + c.BaseDomain
}

// TenantHost returns the default host for a tenant slug ("acme.example.com").
func (cfg Config) TenantHost(slug string) string {
	c := cfg.withDefaults()
	if c.BaseDomain == "" {
		return ""
	}
	return strings.ToLower(slug) + "." + c.BaseDomain
}

func (cfg Config) withDefaults() Config {
	c := cfg
	c.BaseDomain = Normalize(c.BaseDomain)
	c.AdminLabel = strings.ToLower(strings.TrimSpace(c.AdminLabel))
	if c.AdminLabel == "" {
		c.AdminLabel = DefaultAdminLabel
	}
	c.PreviewSuffix = strings.Trim(strings.ToLower(strings.TrimSpace(c.PreviewSuffix)), ".")
	if c.PreviewSeparator == "" {
		c.PreviewSeparator = DefaultPreviewSeparator
	}
	c.LocalSuffix = strings.Trim(strings.ToLower(strings.TrimSpace(c.LocalSuffix)), ".")
	if c.LocalSuffix == "" {
		c.LocalSuffix = DefaultLocalSuffix
	}
	return c
}

// Normalize lowercases host, strips any port, a trailing dot and a leading
// "www.". It is used both on request hosts and on hostnames before they are
// stored, so lookups compare like with like.
func Normalize(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return ""
	}
	if hp, _, err := net.SplitHostPort(h); err == nil {
		h = hp
	} else if !strings.Contains(h, "]") && strings.Count(h, ":") == 1 {
		h = h[:strings.Index(h, ":")]
	}
	h = strings.TrimPrefix(strings.TrimSuffix(h, "]"), "[")
	h = strings.TrimSuffix(h, ".")
	h = strings.TrimPrefix(h, "www.")
	return h
}

// Parse extracts the lookup key and subdomain candidate from host.
// It never fails: unrecognized shapes yield no subdomain.
func Parse(host string, cfg Config) Parsed {
	c := cfg.withDefaults()
	h := Normalize(host)
	p := Parsed{Host: h}
	if h == "" {
		return p
	}

	if admin := c.AdminHost(); admin != "" && h == admin {
		p.IsAdmin = true
		return p
	}

	if ip := net.ParseIP(h); ip != nil {
		return p
	}

	p.Subdomain = c.subdomain(h)
	if p.Subdomain == c.AdminLabel {
		p.IsAdmin = true
		p.Subdomain = ""
	}
	return p
}

// subdomain returns the leading label for preview, local and base-domain
// hosts, or "" for any other shape.
func (c Config) subdomain(h string) string {
	// preview deployments: "<sub>---<branch>.vercel.app"
	if c.PreviewSuffix != "" && strings.HasSuffix(h, "."+c.PreviewSuffix) {
		rest := strings.TrimSuffix(h, "."+c.PreviewSuffix)
		if i := strings.Index(rest, c.PreviewSeparator); i > 0 {
			return rest[:i]
		}
		return ""
	}
	if strings.HasSuffix(h, "."+c.LocalSuffix) {
		return firstLabel(strings.TrimSuffix(h, "."+c.LocalSuffix))
	}
	if c.BaseDomain != "" && strings.HasSuffix(h, "."+c.BaseDomain) {
		return firstLabel(strings.TrimSuffix(h, "."+c.BaseDomain))
	}
	return ""
}

func firstLabel(s string) string {
	if i := strings.Index(s, "."); i >= 0 {
		return s[:i]
	}
	return s
}
