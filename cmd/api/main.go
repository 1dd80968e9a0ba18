package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.temporal.io/sdk/worker"

	_ "github.com/ghuser/marketledger/docs/swagger"
	"github.com/ghuser/marketledger/pkg/app"
	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/cache"
	"github.com/ghuser/marketledger/pkg/config"
	"github.com/ghuser/marketledger/pkg/database"
	"github.com/ghuser/marketledger/pkg/events"
	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/pkg/telemetry"
	"github.com/ghuser/marketledger/pkg/workflows"
	marketApi "github.com/ghuser/marketledger/services/market/application/api"
	"github.com/ghuser/marketledger/services/market/domain/models"
	marketWorkflows "github.com/ghuser/marketledger/services/market/workflows"
	"github.com/ghuser/marketledger/services/market/infrastructure/ledger"
	"github.com/ghuser/marketledger/services/market/infrastructure/token"
)

// @title					Market Ledger API
// @version				1.0
// @description			Item marketplace ledger with token-settled purchases and per-item transaction history.
// @contact.name			API Support
// @contact.email			support@marketledger.dev
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

	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional — log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	db, err := database.New(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer db.Close()

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	var temporalClient *workflows.TemporalClient
	if cfg.TemporalEnabled {
		temporalClient, err = workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure
		}
		defer temporalClient.Close()
	}

	sessionStore := auth.NewSessionStore(
		redisClient.Client(),
		[]byte(cfg.SessionAuthKey),
		[]byte(cfg.SessionEncryptionKey),
		cfg.Environment == config.EnvProduction,
	)
	log.Info("session store initialized", "backend", "redis")

	ledgerAccount, ok := models.NewAccount(cfg.LedgerAccount)
	if !ok {
		log.Error("invalid LEDGER_ACCOUNT", "value", cfg.LedgerAccount)
		os.Exit(1) //nolint:gocritic
	}
	feeRecipient, ok := models.NewAccount(cfg.FeeRecipient())
	if !ok {
		log.Error("invalid ADMIN_ACCOUNTS", "value", cfg.AdminAccounts)
		os.Exit(1) //nolint:gocritic
	}

	tok := token.NewMemory(cfg.TokenUnit)
	marketLedger, err := ledger.New(tok, auth.NewAdminSet(cfg.Admins()), ledgerAccount, feeRecipient, cfg.FeePercentage)
	if err != nil {
		log.Error("failed to initialize ledger", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	log.Info("ledger initialized",
		"account", ledgerAccount,
		"fee_recipient", feeRecipient,
		"fee_percentage", cfg.FeePercentage,
	)

	// Settlement reconciliation runs in-process: the activities need the same
	// token store the ledger settles against.
	if temporalClient != nil {
		w := worker.New(temporalClient.Client, marketWorkflows.TaskQueue, worker.Options{})
		w.RegisterWorkflow(marketWorkflows.ReconcileSettlementWorkflow)
		w.RegisterActivity(&marketWorkflows.SettlementActivities{
			Token:   tok,
			Spender: ledgerAccount,
			Log:     log,
		})
		if err := w.Start(); err != nil {
			log.Error("failed to start settlement worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer w.Stop()
		log.Info("settlement worker started", "task_queue", marketWorkflows.TaskQueue)
	}

	appConfig := &app.Application{
		Config:         cfg,
		Db:             db,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
		SessionStore:   sessionStore,
		Ledger:         marketLedger,
		Token:          tok,
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(httpx.HealthChecks{
		Database: db,
		Redis:    redisClient,
		EventBus: eventBus,
	}))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
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
	marketApi.MarketRoutes(r, a)
}
