// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})
	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long))

	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps.Store, appCfg.SuperAdminEmail, appCfg.SuperAdminPassword, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureSuperAdmin makes sure the configured email belongs to a platform
// superadmin. An existing user is promoted; otherwise the user is created
// when a password is configured. Superadmins sign in on the admin host, so
// any tenant memberships the user holds are reported.
func ensureSuperAdmin(ctx context.Context, set store.Set, email, password string, logger *zap.Logger) error {
	email = normalize.Email(email)
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	u, err := set.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role != models.RoleSuperAdmin {
			if err := set.Users.SetRole(ctx, u.ID, models.RoleSuperAdmin); err != nil {
				return fmt.Errorf("promote superadmin: %w", err)
			}
			logger.Info("promoted user to superadmin", zap.String("email", email))
		}
		if u.PasswordHash == "" && password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash superadmin password: %w", err)
			}
			if err := set.Users.SetPasswordHash(ctx, u.ID, string(hash)); err != nil {
				return fmt.Errorf("set superadmin password: %w", err)
			}
		}
		if has, err := set.Members.HasAnyMembership(ctx, u.ID); err == nil && has {
			logger.Warn("superadmin holds tenant memberships and cannot sign in on the admin host until they are removed",
				zap.String("email", email))
		}
		return nil

	case errors.Is(err, models.ErrNotFound):
		if password == "" {
			logger.Warn("superadmin not created: superadmin_password is not set", zap.String("email", email))
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash superadmin password: %w", err)
		}
		if _, err := set.Users.Create(ctx, models.User{
			Name:         "Super Admin",
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleSuperAdmin,
			Status:       status.UserActive,
		}); err != nil {
			return fmt.Errorf("create superadmin: %w", err)
		}
		logger.Info("created superadmin", zap.String("email", email))
		return nil

	default:
		return fmt.Errorf("look up superadmin: %w", err)
	}
}
