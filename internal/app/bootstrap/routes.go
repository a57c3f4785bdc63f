// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/committeehub/internal/app/committeesvc"
	auditlogfeature "github.com/dalemusser/committeehub/internal/app/features/auditlog"
	committeesfeature "github.com/dalemusser/committeehub/internal/app/features/committees"
	dashboardfeature "github.com/dalemusser/committeehub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/committeehub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/committeehub/internal/app/features/health"
	notificationsfeature "github.com/dalemusser/committeehub/internal/app/features/notifications"
	peoplefeature "github.com/dalemusser/committeehub/internal/app/features/people"
	sessionfeature "github.com/dalemusser/committeehub/internal/app/features/session"
	systemusersfeature "github.com/dalemusser/committeehub/internal/app/features/systemusers"
	"github.com/dalemusser/committeehub/internal/app/store/audit"
	committeestore "github.com/dalemusser/committeehub/internal/app/store/committees"
	metricsstore "github.com/dalemusser/committeehub/internal/app/store/metrics"
	notificationstore "github.com/dalemusser/committeehub/internal/app/store/notifications"
	userstore "github.com/dalemusser/committeehub/internal/app/store/users"
	"github.com/dalemusser/committeehub/internal/app/system/auditlog"
	"github.com/dalemusser/committeehub/internal/app/system/auth"
	"github.com/dalemusser/committeehub/internal/app/system/metrics"
	"github.com/dalemusser/committeehub/internal/app/system/notify"
	"github.com/dalemusser/committeehub/internal/app/system/ratelimit"
	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Version is reported by /health. Release builds set it with
// -ldflags "-X github.com/dalemusser/committeehub/internal/app/bootstrap.Version=…".
var Version = "dev"

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// committeehub applies session middleware globally and mounts the JSON
// feature routers: committees, notifications, session, dashboard, people,
// audit, system-users, health and the Prometheus scrape endpoint.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request, so status changes and disabled
	// accounts take effect immediately.
	users := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	sessionMgr.SetUserFetcher(fetcher)
	if appCfg.JWTSecret != "" {
		sessionMgr.SetTokenVerifier(auth.NewTokenVerifier(appCfg.JWTSecret))
	}

	auditStore := audit.New(db)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:     appCfg.AuditLogAuth,
		Workflow: appCfg.AuditLogWorkflow,
		Admin:    appCfg.AuditLogAdmin,
	})

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New()
	m.Register(reg)
	reg.MustRegister(metrics.NewStatusCollector(func(ctx context.Context) metricsstore.Counts {
		return metricsstore.FetchDashboardCounts(ctx, db)
	}, timeouts.Short()))

	notifier := notify.New(notificationstore.New(db), logger)
	notifier.SetBaseURL(appCfg.BaseURL)
	svc := committeesvc.New(committeestore.New(db), notifier, users, m, logger)

	limiter := ratelimit.New(appCfg.SessionRateLimit, appCfg.SessionRateWindow)
	background.mu.Lock()
	background.limiter = limiter
	background.mu.Unlock()

	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Global auth middleware: loads SessionUser into context from the
	// session cookie or a bearer token.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, Version, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Authentication
	sessionHandler := sessionfeature.NewHandler(sessionMgr, fetcher, auditLog, logger)
	r.Mount("/session", sessionfeature.Routes(sessionHandler, limiter))

	// Committee workflow
	committeesHandler := committeesfeature.NewHandler(svc, users, auditStore, auditLog, logger)
	r.Mount("/committees", committeesfeature.Routes(committeesHandler, sessionMgr))

	notificationsHandler := notificationsfeature.NewHandler(db, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

	dashboardHandler := dashboardfeature.NewHandler(db, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	peopleHandler := peoplefeature.NewHandler(db, logger)
	r.Mount("/people", peoplefeature.Routes(peopleHandler, sessionMgr))

	// Administration
	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	sysUsersHandler := systemusersfeature.NewHandler(db, auditLog, logger)
	r.Mount("/system-users", systemusersfeature.Routes(sysUsersHandler, sessionMgr))

	return r, nil
}
