// internal/app/features/login/handler.go
package login

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/auth"
	"github.com/dalemusser/tenanthub/internal/app/system/mailer"
	"github.com/dalemusser/tenanthub/internal/app/system/navigation"
	"github.com/dalemusser/tenanthub/internal/app/system/ratelimit"
	"github.com/dalemusser/tenanthub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

//go:embed templates/*.gohtml
var FS embed.FS

var (
	loginPage  = template.Must(template.ParseFS(FS, "templates/login.gohtml"))
	forgotPage = template.Must(template.ParseFS(FS, "templates/forgot_password.gohtml"))
	resetPage  = template.Must(template.ParseFS(FS, "templates/reset_password.gohtml"))
)

type Handler struct {
	Users      store.Users
	Members    store.Members
	Logins     store.Logins
	Resets     store.PasswordResets
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Mailer     mailer.Sender
	Log        *zap.Logger

	// RecoveryLimiter throttles reset requests separately so they cannot
	// lock an account out of signing in.
	RecoveryLimiter *ratelimit.LoginLimiter
	// ResetTTL is the reset link lifetime; zero means DefaultResetTTL.
	ResetTTL time.Duration

	// TrustProxy keys throttling and login history on X-Forwarded-For /
	// X-Real-IP instead of the socket address.
	TrustProxy bool
}

func NewHandler(set store.Set, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:           set.Users,
		Members:         set.Members,
		Logins:          set.Logins,
		Resets:          set.Resets,
		SessionMgr:      sessionMgr,
		Limiter:         ratelimit.NewLoginLimiter(),
		RecoveryLimiter: ratelimit.NewLoginLimiterWithConfig(10, time.Minute, 3, 15*time.Minute),
		Mailer:          mailer.NewLogSender(logger),
		Log:             logger,
	}
}

type loginData struct {
	viewdata.BaseVM
	ReturnURL string
}

// ServeLogin renders the sign-in page. Signed-in users go straight to the
// return target.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := navigation.SafeBackURL(r, navigation.LoginReturn)
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, ret, http.StatusSeeOther)
		return
	}
	data := loginData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: ret,
	}
	viewdata.Render(w, h.Log, loginPage, http.StatusOK, data)
}
