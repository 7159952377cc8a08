// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store/mongostore"
	"github.com/dalemusser/tenanthub/internal/app/store/pgstore"
	"github.com/dalemusser/tenanthub/internal/app/system/hostname"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for TenantHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, base_domain, etc.
//   - Environment variables: TENANTHUB_MONGO_URI, TENANTHUB_BASE_DOMAIN, etc.
//   - Command-line flags: --mongo_uri, --base_domain, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_driver", Default: mongostore.Driver, Desc: "Storage backend: 'mongo' or 'postgres'"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "tenant_hub", Desc: "MongoDB database name"},

	{Name: "postgres_dsn", Default: "", Desc: "PostgreSQL DSN (store_driver=postgres)"},
	{Name: "postgres_max_open", Default: 25, Desc: "PostgreSQL max open connections"},
	{Name: "postgres_max_idle", Default: 5, Desc: "PostgreSQL max idle connections"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "tenanthub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank derives .<base_domain>)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},
	{Name: "password_reset_ttl", Default: "1h", Desc: "Lifetime of emailed password reset links"},

	// Host layout
	{Name: "base_domain", Default: "", Desc: "Base domain tenants are served under (e.g., example.com)"},
	{Name: "admin_label", Default: hostname.DefaultAdminLabel, Desc: "Subdomain of the platform admin host"},
	{Name: "preview_suffix", Default: "", Desc: "Preview deployment suffix (e.g., vercel.app); blank disables"},
	{Name: "preview_separator", Default: hostname.DefaultPreviewSeparator, Desc: "Separator between subdomain and branch in preview hosts"},
	{Name: "local_suffix", Default: hostname.DefaultLocalSuffix, Desc: "Local development suffix (acme.localhost)"},
	{Name: "trust_forwarded_host", Default: false, Desc: "Resolve tenants from X-Forwarded-Host (behind a trusted proxy only)"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Take the client IP from X-Forwarded-For/X-Real-IP (behind a trusted proxy only)"},

	// Timeouts
	{Name: "timeout_short", Default: "", Desc: "Timeout for single-document operations (e.g., 5s)"},
	{Name: "timeout_medium", Default: "", Desc: "Timeout for list and multi-step operations (e.g., 10s)"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin user (promotes/creates on startup)"},
	{Name: "superadmin_password", Default: "", Desc: "Initial password when the superadmin is created"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, TENANTHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TENANTHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreDriver: strings.ToLower(strings.TrimSpace(appValues.String("store_driver"))),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		PostgresDSN:     appValues.String("postgres_dsn"),
		PostgresMaxOpen: appValues.Int("postgres_max_open"),
		PostgresMaxIdle: appValues.Int("postgres_max_idle"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		PasswordResetTTL: appValues.Duration("password_reset_ttl", time.Hour),

		BaseDomain:         hostname.Normalize(appValues.String("base_domain")),
		AdminLabel:         appValues.String("admin_label"),
		PreviewSuffix:      appValues.String("preview_suffix"),
		PreviewSeparator:   appValues.String("preview_separator"),
		LocalSuffix:        appValues.String("local_suffix"),
		TrustForwardedHost: appValues.Bool("trust_forwarded_host"),
		TrustProxyHeaders:  appValues.Bool("trust_proxy_headers"),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),

		SuperAdminEmail:    appValues.String("superadmin_email"),
		SuperAdminPassword: appValues.String("superadmin_password"),
	}

	// The session cookie must span every tenant subdomain.
	if appCfg.SessionDomain == "" && appCfg.BaseDomain != "" {
		appCfg.SessionDomain = "." + appCfg.BaseDomain
		logger.Info("auto-derived session domain from base domain",
			zap.String("session_domain", appCfg.SessionDomain))
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreDriver {
	case mongostore.Driver:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	case pgstore.Driver:
		if appCfg.PostgresDSN == "" {
			return fmt.Errorf("store_driver=postgres requires postgres_dsn to be set")
		}
	default:
		return fmt.Errorf("unknown store_driver %q (want %q or %q)", appCfg.StoreDriver, mongostore.Driver, pgstore.Driver)
	}

	if appCfg.BaseDomain == "" {
		return fmt.Errorf("base_domain is required (e.g., 'example.com')")
	}
	if appCfg.SuperAdminPassword != "" && appCfg.SuperAdminEmail == "" {
		return fmt.Errorf("superadmin_password is set but superadmin_email is not")
	}

	return nil
}

// hostConfig is the host layout shared by the gate and the admin features.
func hostConfig(appCfg AppConfig) hostname.Config {
	return hostname.Config{
		BaseDomain:       appCfg.BaseDomain,
		AdminLabel:       appCfg.AdminLabel,
		PreviewSuffix:    appCfg.PreviewSuffix,
		PreviewSeparator: appCfg.PreviewSeparator,
		LocalSuffix:      appCfg.LocalSuffix,
	}
}
