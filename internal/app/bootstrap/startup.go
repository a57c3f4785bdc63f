// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	notificationstore "github.com/dalemusser/committeehub/internal/app/store/notifications"
	userstore "github.com/dalemusser/committeehub/internal/app/store/users"
	"github.com/dalemusser/committeehub/internal/app/system/ratelimit"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/committeehub/internal/app/system/workers"
	"github.com/dalemusser/committeehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// background holds the long-lived pieces started here and stopped in
// Shutdown. BuildHandler fills in the limiter.
var background struct {
	mu      sync.Mutex
	cleanup *workers.NotificationCleanup
	limiter *ratelimit.Limiter
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:     appCfg.TimeoutPing,
		Short:    appCfg.TimeoutShort,
		Medium:   appCfg.TimeoutMedium,
		Long:     appCfg.TimeoutLong,
		Dispatch: appCfg.TimeoutDispatch,
	})
	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long),
		zap.Duration("dispatch", cur.Dispatch))

	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminEmail, appCfg.SuperAdminName, logger); err != nil {
			return fmt.Errorf("ensure superadmin: %w", err)
		}
	}

	w := workers.NewNotificationCleanup(
		notificationstore.New(deps.MongoDatabase),
		logger,
		appCfg.NotificationCleanupInterval,
		appCfg.NotificationRetention,
	)
	w.Start()

	background.mu.Lock()
	background.cleanup = w
	background.mu.Unlock()
	return nil
}

// ensureSuperAdmin makes sure the configured account exists, holds admin
// status and is enabled. It never demotes anyone.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, email, name string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	email = strings.TrimSpace(email)

	u, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		if strings.TrimSpace(name) == "" {
			name = email
		}
		created, err := users.Create(ctx, models.User{
			FullName: name,
			Email:    email,
			Status:   models.UserStatusAdmin,
		})
		if err != nil {
			return err
		}
		logger.Info("superadmin created", zap.String("user_id", created.ID.Hex()), zap.String("email", email))
		return nil
	case err != nil:
		return err
	}

	if u.Status != models.UserStatusAdmin {
		if err := users.SetStatus(ctx, u.ID, models.UserStatusAdmin); err != nil {
			return err
		}
		logger.Info("superadmin promoted", zap.String("user_id", u.ID.Hex()), zap.String("from", u.Status))
	}
	if u.Disabled {
		if err := users.SetDisabled(ctx, u.ID, false); err != nil {
			return err
		}
		logger.Info("superadmin re-enabled", zap.String("user_id", u.ID.Hex()))
	}
	return nil
}
