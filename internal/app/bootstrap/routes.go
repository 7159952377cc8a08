// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	dashboardfeature "github.com/dalemusser/tenanthub/internal/app/features/dashboard"
	domainsfeature "github.com/dalemusser/tenanthub/internal/app/features/domains"
	errorsfeature "github.com/dalemusser/tenanthub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/tenanthub/internal/app/features/health"
	homefeature "github.com/dalemusser/tenanthub/internal/app/features/home"
	loginfeature "github.com/dalemusser/tenanthub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/tenanthub/internal/app/features/logout"
	membersfeature "github.com/dalemusser/tenanthub/internal/app/features/members"
	settingsfeature "github.com/dalemusser/tenanthub/internal/app/features/settings"
	tenantsfeature "github.com/dalemusser/tenanthub/internal/app/features/tenants"
	userinfofeature "github.com/dalemusser/tenanthub/internal/app/features/userinfo"
	userstore "github.com/dalemusser/tenanthub/internal/app/store/users"
	"github.com/dalemusser/tenanthub/internal/app/system/auth"
	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/gate"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/tenancy"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Every request first loads the session user, then passes the tenant gate,
// which resolves the host to a tenant (or the platform) and decides whether
// the request may proceed. Pages and the /rpc procedures run behind both.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	set := deps.Store
	hosts := hostConfig(appCfg)

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request: role changes and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(set.Users))

	tenantGate := gate.New(gate.Config{
		Hosts:              hosts,
		TrustForwardedHost: appCfg.TrustForwardedHost,
		UserID:             auth.UserID,
	}, tenancy.NewResolver(set.Tenants, logger), set.Members, logger)

	r := chi.NewRouter()
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(tenantGate.Middleware)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(set.Ping, set.Driver, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(set, sessionMgr, logger)
	loginHandler.TrustProxy = appCfg.TrustProxyHeaders
	loginHandler.ResetTTL = appCfg.PasswordResetTTL
	r.Mount("/login", loginfeature.Routes(loginHandler))
	loginfeature.MountRecovery(r, loginHandler)

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Signed-in landing page
	dashboardHandler := dashboardfeature.NewHandler(set, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Gate redirect targets and error pages
	errorsfeature.Mount(r, errorsfeature.NewHandler(logger))

	checker := authz.New(set.Members, set.Users)

	userInfoHandler := userinfofeature.NewHandler(checker, logger)
	userinfofeature.MountRoutes(r, userInfoHandler)

	// Typed procedures
	procs := rpc.NewRouter(checker, logger)
	loginHandler.Register(procs)
	userInfoHandler.Register(procs)
	settingsfeature.NewHandler(set, logger).Register(procs)
	tenantsfeature.NewHandler(set, hosts, logger).Register(procs)
	domainsfeature.NewHandler(set, hosts, logger).Register(procs)
	membersfeature.NewHandler(set, logger).Register(procs)
	r.Mount("/rpc", procs.Routes())

	logger.Info("procedures registered", zap.Strings("names", procs.Names()))

	return r, nil
}
