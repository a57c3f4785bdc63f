// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries everything specific to committeehub: the MongoDB
// connection, session cookie and bearer-token settings, audit and
// notification retention policy, and operation timeouts.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase       string        // Database name within MongoDB
	MongoMaxPoolSize    uint64        // Max connections in the driver pool
	MongoMinPoolSize    uint64        // Min idle connections kept open
	MongoConnectTimeout time.Duration // Connect + initial ping budget

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: committeehub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Bearer tokens issued by the identity service
	JWTSecret string // HS256 signing secret; blank disables token sign-in

	// Base URL used in notification links
	BaseURL string // e.g., "https://committees.example.org"

	// Audit logging destinations: all | db | log | off
	AuditLogAuth     string
	AuditLogWorkflow string
	AuditLogAdmin    string

	// Operation timeouts (zero keeps the default)
	TimeoutPing     time.Duration
	TimeoutShort    time.Duration
	TimeoutMedium   time.Duration
	TimeoutLong     time.Duration
	TimeoutDispatch time.Duration

	// Notification retention
	NotificationRetention       time.Duration // read notifications older than this are pruned
	NotificationCleanupInterval time.Duration // how often the pruner runs

	// Token exchange rate limit, per client IP
	SessionRateLimit  int
	SessionRateWindow time.Duration

	// SuperAdmin bootstrap
	SuperAdminEmail string
	SuperAdminName  string
}
