package login

import (
	"context"
	"errors"

	loginstore "github.com/dalemusser/tenanthub/internal/app/store/logins"
	"github.com/dalemusser/tenanthub/internal/app/system/auth"
	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register adds the auth.* procedures.
func (h *Handler) Register(rt *rpc.Router) {
	rt.Mutation("auth.login", authz.Public, h.login)
	rt.Mutation("auth.logout", authz.Public, h.logout)
	rt.Query("auth.session", authz.Public, h.session)
	rt.Mutation("auth.forgotPassword", authz.Public, h.forgotPassword)
	rt.Mutation("auth.resetPassword", authz.Public, h.resetPassword)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required,max=200" label:"Password"`
}

// sessionView is the signed-in identity returned to the browser.
type sessionView struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

var errBadCredentials = rpc.Unauthorized("invalid credentials")

// login verifies the password and the user's right to sign in on this
// host: platform hosts admit only users without memberships, tenant hosts
// only members of the tenant.
func (h *Handler) login(ctx context.Context, call *rpc.Call) (any, error) {
	var in loginInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}

	ip := loginstore.ClientIP(call.R, h.TrustProxy)
	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(ip, in.Email); !ok {
			h.Log.Info("login throttled", zap.String("ip", ip))
			return nil, &rpc.Error{Code: rpc.CodeTooManyRequests, Message: reason}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, normalize.Email(in.Email))
	if errors.Is(err, models.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		h.Log.Info("login failed: bad password", zap.String("user_id", u.ID))
		return nil, errBadCredentials
	}
	if u.Status == status.UserDisabled {
		return nil, rpc.Forbidden("account is disabled")
	}

	rc := call.RC
	if rc.IsPlatform() {
		has, err := h.Members.HasAnyMembership(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if has {
			return nil, rpc.Forbidden("tenant users must sign in on their organization's domain")
		}
	} else {
		ok, err := h.Members.IsMember(ctx, rc.TenantID(), u.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, rpc.Forbidden("you are not a member of this organization")
		}
	}

	if err := h.SessionMgr.Login(call.W, call.R, u.ID); err != nil {
		return nil, rpc.Wrap(rpc.CodeInternal, "could not start session", err)
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(in.Email)
	}

	rec := loginstore.NewRecord(call.R, ip, u.ID, rc.TenantID(), string(rc.Mode()), call.R.Host)
	if err := h.Logins.Create(ctx, rec); err != nil {
		h.Log.Warn("login record not saved", zap.String("user_id", u.ID), zap.Error(err))
	}

	h.Log.Info("user signed in",
		zap.String("user_id", u.ID),
		zap.String("mode", string(rc.Mode())),
		zap.String("tenant_id", rc.TenantID()))

	return sessionView{UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (h *Handler) logout(_ context.Context, call *rpc.Call) (any, error) {
	if err := h.SessionMgr.Logout(call.W, call.R); err != nil {
		return nil, rpc.Wrap(rpc.CodeInternal, "could not end session", err)
	}
	return true, nil
}

// session returns the signed-in user, or null.
func (h *Handler) session(ctx context.Context, _ *rpc.Call) (any, error) {
	u, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, nil
	}
	return sessionView{UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}
