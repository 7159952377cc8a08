// internal/app/features/userinfo/handler.go
package userinfo

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/tenanthub/internal/app/system/auth"
	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/reqctx"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves user information for authenticated sessions.
type Handler struct {
	Checker *authz.Checker
	Log     *zap.Logger
}

// NewHandler creates a new userinfo handler.
func NewHandler(checker *authz.Checker, logger *zap.Logger) *Handler {
	return &Handler{Checker: checker, Log: logger}
}

type userInfo struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Mode            string `json:"mode"`
	TenantID        string `json:"tenantId,omitempty"`
	Role            string `json:"role"`
}

// ServeUserInfo returns JSON with the current user's identity and the role
// they hold on this host.
//
// Response format:
//
//	{ "isAuthenticated": bool, "name": "...", "email": "...", "mode": "tenant", "tenantId": "...", "role": "admin" }
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rc := reqctx.FromRequest(r)
	info := userInfo{Mode: string(rc.Mode()), TenantID: rc.TenantID()}

	user, ok := auth.CurrentUser(r)
	if !ok {
		_ = json.NewEncoder(w).Encode(info)
		return
	}
	info.IsAuthenticated = true
	info.Name = user.Name
	info.Email = user.Email

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	role, err := h.Checker.CurrentRole(ctx, rc)
	if err != nil {
		h.Log.Error("userinfo: role lookup failed", zap.String("user_id", user.ID), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
		return
	}
	info.Role = role

	_ = json.NewEncoder(w).Encode(info)
}
