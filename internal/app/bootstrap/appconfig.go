// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and CORS; everything below is TenantHub's own.
type AppConfig struct {
	// Storage backend: "mongo" or "postgres"
	StoreDriver string

	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// PostgreSQL connection configuration (store_driver=postgres)
	PostgresDSN     string
	PostgresMaxOpen int
	PostgresMaxIdle int

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: tenanthub-session)
	SessionDomain string        // Cookie domain (derived from BaseDomain when blank)
	SessionMaxAge time.Duration // Cookie lifetime

	// PasswordResetTTL bounds how long an emailed reset link works.
	PasswordResetTTL time.Duration

	// Host layout used for tenant resolution
	BaseDomain       string // e.g. "example.com"
	AdminLabel       string // admin host is AdminLabel + "." + BaseDomain
	PreviewSuffix    string // e.g. "vercel.app"; blank disables preview hosts
	PreviewSeparator string // between subdomain and branch in a preview host
	LocalSuffix      string // e.g. "localhost" for acme.localhost:3000

	// TrustForwardedHost reads X-Forwarded-Host; enable only behind a proxy.
	TrustForwardedHost bool

	// TrustProxyHeaders reads the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxyHeaders bool

	// Database operation timeouts (zero keeps the defaults)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration

	// SuperAdmin bootstrap
	SuperAdminEmail    string
	SuperAdminPassword string
}
