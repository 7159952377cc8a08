// internal/app/features/settings/handler.go
package settings

import (
	"github.com/dalemusser/tenanthub/internal/app/store"
	"go.uber.org/zap"
)

// Handler owns the tenant-facing settings procedures: the current tenant's
// profile and its recent sign-ins.
type Handler struct {
	Tenants store.Tenants
	Logins  store.Logins
	Log     *zap.Logger
}

// NewHandler constructs a Handler bound to the given stores and logger.
func NewHandler(set store.Set, logger *zap.Logger) *Handler {
	return &Handler{
		Tenants: set.Tenants,
		Logins:  set.Logins,
		Log:     logger,
	}
}
