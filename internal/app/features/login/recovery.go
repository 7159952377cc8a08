// internal/app/features/login/recovery.go
package login

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	loginstore "github.com/dalemusser/tenanthub/internal/app/store/logins"
	"github.com/dalemusser/tenanthub/internal/app/system/mailer"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/app/system/viewdata"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultResetTTL is how long an emailed reset link stays valid.
const DefaultResetTTL = time.Hour

const resetTokenBytes = 32

type forgotInput struct {
	Email string `json:"email" validate:"required,email,max=254" label:"Email"`
}

type resetInput struct {
	Token       string `json:"token" validate:"required,max=200" label:"Token"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=200" label:"Password"`
}

type recoveryResult struct {
	Success bool `json:"success"`
}

var errInvalidReset = rpc.BadRequest("this reset link is invalid or has expired")

// forgotPassword emails a reset link when the address belongs to an active
// account. The answer is the same either way.
func (h *Handler) forgotPassword(ctx context.Context, call *rpc.Call) (any, error) {
	var in forgotInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}

	ip := loginstore.ClientIP(call.R, h.TrustProxy)
	if h.RecoveryLimiter != nil {
		if ok, _ := h.RecoveryLimiter.Check(ip, in.Email); !ok {
			h.Log.Info("password reset throttled", zap.String("ip", ip))
			return nil, &rpc.Error{Code: rpc.CodeTooManyRequests, Message: "Too many reset requests. Please wait a few minutes."}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	accepted := recoveryResult{Success: true}

	u, err := h.Users.GetByEmail(ctx, normalize.Email(in.Email))
	if errors.Is(err, models.ErrNotFound) {
		h.Log.Info("password reset requested for unknown email", zap.String("ip", ip))
		return accepted, nil
	}
	if err != nil {
		return nil, err
	}
	if u.Status == status.UserDisabled {
		h.Log.Info("password reset requested for disabled user", zap.String("user_id", u.ID))
		return accepted, nil
	}

	token, hash, err := newResetToken()
	if err != nil {
		return nil, rpc.Wrap(rpc.CodeInternal, "could not create reset link", err)
	}

	// one outstanding link per user
	if err := h.Resets.DeleteByUser(ctx, u.ID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := h.Resets.Create(ctx, models.PasswordReset{
		UserID:    u.ID,
		TokenHash: hash,
		ExpiresAt: now.Add(h.resetTTL()),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	msg := mailer.BuildPasswordResetEmail(mailer.PasswordResetEmailData{
		SiteName:  viewdata.SiteName,
		Link:      resetLink(call.R, h.TrustProxy, token),
		ExpiresIn: formatExpiry(h.resetTTL()),
	})
	msg.To = u.Email
	if err := h.Mailer.Send(ctx, msg); err != nil {
		// still accepted: an error here would reveal that the account exists
		h.Log.Error("password reset email failed", zap.String("user_id", u.ID), zap.Error(err))
		return accepted, nil
	}

	h.Log.Info("password reset email sent", zap.String("user_id", u.ID))
	return accepted, nil
}

// resetPassword spends a reset token and replaces the user's password.
func (h *Handler) resetPassword(ctx context.Context, call *rpc.Call) (any, error) {
	var in resetInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	pr, err := h.Resets.Consume(ctx, hashResetToken(in.Token), time.Now().UTC())
	if errors.Is(err, models.ErrNotFound) {
		return nil, errInvalidReset
	}
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, rpc.Wrap(rpc.CodeInternal, "could not set password", err)
	}
	if err := h.Users.SetPasswordHash(ctx, pr.UserID, string(hash)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, errInvalidReset
		}
		return nil, err
	}

	// a fresh password clears the account's sign-in throttle
	if u, err := h.Users.GetByID(ctx, pr.UserID); err == nil && h.Limiter != nil {
		h.Limiter.ResetEmail(u.Email)
	}

	h.Log.Info("password reset", zap.String("user_id", pr.UserID))
	return recoveryResult{Success: true}, nil
}

func (h *Handler) resetTTL() time.Duration {
	if h.ResetTTL > 0 {
		return h.ResetTTL
	}
	return DefaultResetTTL
}

// newResetToken returns the token to email and the hash to store.
func newResetToken() (token, hash string, err error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(b)
	return token, hashResetToken(token), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// resetLink points at the reset page on the host the request came in on,
// which the gate has already resolved to the platform or an active tenant.
func resetLink(r *http.Request, trustProxy bool, token string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	if trustProxy {
		if p := r.Header.Get("X-Forwarded-Proto"); p == "https" || p == "http" {
			scheme = p
		}
		if fh := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Host"), ",")[0]); fh != "" {
			host = fh
		}
	}
	return (&url.URL{Scheme: scheme, Host: host, Path: "/reset-password/" + token}).String()
}

func formatExpiry(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		if n := int(d / time.Hour); n > 1 {
			return fmt.Sprintf("%d hours", n)
		}
		return "1 hour"
	}
	if n := int(d / time.Minute); n > 1 {
		return fmt.Sprintf("%d minutes", n)
	}
	return "1 minute"
}

/*─────────────────────────────────────────────────────────────────────────────*
| Pages                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type resetPageData struct {
	viewdata.BaseVM
	Token string
}

// ServeForgotPassword renders the request-a-link form.
func (h *Handler) ServeForgotPassword(w http.ResponseWriter, r *http.Request) {
	data := resetPageData{BaseVM: viewdata.NewBaseVM(r, "Forgot password", "/login")}
	viewdata.Render(w, h.Log, forgotPage, http.StatusOK, data)
}

// ServeResetPassword renders the choose-a-password form for the token in
// the URL. The token is checked when the form is submitted.
func (h *Handler) ServeResetPassword(w http.ResponseWriter, r *http.Request) {
	data := resetPageData{
		BaseVM: viewdata.NewBaseVM(r, "Choose a new password", "/login"),
		Token:  chi.URLParam(r, "token"),
	}
	viewdata.Render(w, h.Log, resetPage, http.StatusOK, data)
}
