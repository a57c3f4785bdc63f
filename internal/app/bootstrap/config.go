// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/committeehub/internal/app/system/auditlog"
	"github.com/dalemusser/committeehub/internal/app/system/inputval"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devSessionKey is the shipped default. Production refuses to start with it.
const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for committeehub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: COMMITTEEHUB_MONGO_URI, COMMITTEEHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "committeehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "MongoDB connect and ping timeout"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "committeehub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime"},

	{Name: "jwt_secret", Default: "", Desc: "HS256 secret for identity-service bearer tokens (blank disables token sign-in)"},

	// Base URL for notification links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for notification links"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Session event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_workflow", Default: "all", Desc: "Committee workflow event logging: 'all', 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Account administration event logging: 'all', 'db', 'log', or 'off'"},

	// Timeouts (0 keeps the built-in default)
	{Name: "timeout_ping", Default: "0s", Desc: "Health check timeout"},
	{Name: "timeout_short", Default: "0s", Desc: "Single-document operation timeout"},
	{Name: "timeout_medium", Default: "0s", Desc: "List and transition timeout"},
	{Name: "timeout_long", Default: "0s", Desc: "Bulk operation timeout"},
	{Name: "timeout_dispatch", Default: "0s", Desc: "Notification delivery timeout per transition"},

	// Notifications
	{Name: "notification_retention", Default: "720h", Desc: "How long read notifications are kept"},
	{Name: "notification_cleanup_interval", Default: "1h", Desc: "How often read notifications are pruned"},

	// Rate limiting for POST /session
	{Name: "session_rate_limit", Default: 20, Desc: "Token exchanges allowed per client IP per window"},
	{Name: "session_rate_window", Default: "1m", Desc: "Token exchange rate limit window"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin user (promotes/creates on startup)"},
	{Name: "superadmin_name", Default: "Administrator", Desc: "Display name used when the superadmin account is created"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, COMMITTEEHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COMMITTEEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		JWTSecret: appValues.String("jwt_secret"),
		BaseURL:   appValues.String("base_url"),

		AuditLogAuth:     appValues.String("audit_log_auth"),
		AuditLogWorkflow: appValues.String("audit_log_workflow"),
		AuditLogAdmin:    appValues.String("audit_log_admin"),

		TimeoutPing:     appValues.Duration("timeout_ping", 0),
		TimeoutShort:    appValues.Duration("timeout_short", 0),
		TimeoutMedium:   appValues.Duration("timeout_medium", 0),
		TimeoutLong:     appValues.Duration("timeout_long", 0),
		TimeoutDispatch: appValues.Duration("timeout_dispatch", 0),

		NotificationRetention:       appValues.Duration("notification_retention", 30*24*time.Hour),
		NotificationCleanupInterval: appValues.Duration("notification_cleanup_interval", time.Hour),

		SessionRateLimit:  appValues.Int("session_rate_limit"),
		SessionRateWindow: appValues.Duration("session_rate_window", time.Minute),

		SuperAdminEmail: appValues.String("superadmin_email"),
		SuperAdminName:  appValues.String("superadmin_name"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}

	for key, v := range map[string]string{
		"audit_log_auth":     appCfg.AuditLogAuth,
		"audit_log_workflow": appCfg.AuditLogWorkflow,
		"audit_log_admin":    appCfg.AuditLogAdmin,
	} {
		switch v {
		case auditlog.SettingAll, auditlog.SettingDB, auditlog.SettingLog, auditlog.SettingOff:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, v)
		}
	}

	if appCfg.SuperAdminEmail != "" && !inputval.IsValidEmail(appCfg.SuperAdminEmail) {
		return fmt.Errorf("superadmin_email %q is not a valid email address", appCfg.SuperAdminEmail)
	}
	if appCfg.NotificationRetention <= 0 || appCfg.NotificationCleanupInterval <= 0 {
		return fmt.Errorf("notification_retention and notification_cleanup_interval must be positive")
	}
	if appCfg.SessionRateLimit <= 0 || appCfg.SessionRateWindow <= 0 {
		return fmt.Errorf("session_rate_limit and session_rate_window must be positive")
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == devSessionKey || len(appCfg.SessionKey) < 32 {
			return fmt.Errorf("session_key must be set to 32+ random characters in production")
		}
		if appCfg.JWTSecret == "" {
			logger.Warn("jwt_secret is empty; bearer-token sign-in is disabled")
		}
	}

	return nil
}
