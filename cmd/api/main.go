package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/inventra/docs/swagger"
	"github.com/ghuser/inventra/pkg/app"
	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/cache"
	"github.com/ghuser/inventra/pkg/config"
	"github.com/ghuser/inventra/pkg/database"
	"github.com/ghuser/inventra/pkg/events"
	"github.com/ghuser/inventra/pkg/httpx"
	"github.com/ghuser/inventra/pkg/logger"
	"github.com/ghuser/inventra/pkg/telemetry"
	itemApi "github.com/ghuser/inventra/services/item/application/api"
	salesOrderApi "github.com/ghuser/inventra/services/salesorder/application/api"
)

// @title					Inventra API
// @version				1.0
// @description			Sales orders with transactional inventory stock reconciliation.
// @contact.name			Inventra Maintainers
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg, logger.WithContextAttrs(auth.LogAttrs))

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log, database.WithMaxRetries(cfg.TxMaxRetries))
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.New(cfg, log, events.WithOutbox())
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	if err := eventBus.StartForwarder(ctx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	sessionStore := auth.NewSessionStore(redisClient.Client(), cfg)
	log.Info("session store initialized", "backend", "redis")

	appConfig := &app.Application{
		Config:       cfg,
		Db:           pool,
		Logger:       log,
		EventBus:     eventBus,
		Redis:        redisClient,
		SessionStore: sessionStore,
	}

	orgMiddleware, err := tenantMiddleware(cfg, sessionStore, log)
	if err != nil {
		log.Error("invalid tenant configuration", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		},
		httpx.Middlewares{
			Recovery: logger.Recovery(log),
			Sentry:   telemetry.SentryMiddleware(),
			Tracing:  otelhttp.NewMiddleware(cfg.ServiceName),
			Logging:  logger.Middleware(log),
		},
	)

	r.Get("/health", httpx.HealthHandler(httpx.HealthChecks{
		"database":  pool,
		"redis":     redisClient,
		"event_bus": eventBus,
	}))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		r.Use(orgMiddleware)
		registerRoutes(r, appConfig)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application) {
	itemApi.ItemRoutes(r, a)
	salesOrderApi.SalesOrderRoutes(r, a)
}

// tenantMiddleware resolves the org of each request from the session, or
// pins every request to DEV_ORG_ID when AUTH_REQUIRED=false.
func tenantMiddleware(cfg *config.Config, store sessions.Store, log logger.Logger) (func(http.Handler) http.Handler, error) {
	if cfg.AuthRequired {
		return auth.RequireAuth(store, log), nil
	}
	orgID, err := uuid.Parse(cfg.DevOrgID)
	if err != nil {
		return nil, fmt.Errorf("DEV_ORG_ID: %w", err)
	}
	log.Warn("authentication disabled, all requests use the dev org", "org_id", orgID)
	return auth.StaticOrg(orgID), nil
}
