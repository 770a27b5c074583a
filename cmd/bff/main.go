package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raajp10/ai-expense-tracker/internal/config"
	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/handler"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/cache"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/prefs"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/resilience"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/upstream"
	"github.com/Raajp10/ai-expense-tracker/internal/service"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = godotenv.Load()

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Duration("user_cache_ttl", cfg.UserCacheTTL),
		zap.String("prefs_db_path", cfg.PrefsDBPath),
		zap.Bool("tracing_enabled", cfg.TracingEnabled),
	)

	// --- Tracing ---
	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "expense-tracker-bff")
		if err != nil {
			logger.Fatal("failed to init tracer", zap.Error(err))
		}
		defer shutdown(context.Background())
	}

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Preferences (theme) store ---
	prefStore, err := prefs.NewSQLiteStore(cfg.PrefsDBPath)
	if err != nil {
		logger.Fatal("failed to open preference store", zap.Error(err))
	}
	defer prefStore.Close()

	// --- Session state ---
	stateMgr := state.NewManager(prefStore, cfg.SessionTTL, logger)

	// --- Upstream gateway ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	cb := resilience.NewCircuitBreaker("analytics-api")
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)
	gateway := upstream.NewClient(httpClient, cfg.APIBaseURL, cb, bulkhead, logger)

	// --- Services ---
	snaps := service.NewSnapshots()
	userCache := cache.New[*domain.User](cfg.UserCacheTTL)

	svcs := handler.Services{
		State:        stateMgr,
		Dashboard:    service.NewDashboardService(gateway, stateMgr, snaps, metrics, logger),
		Transactions: service.NewTransactionsService(gateway, stateMgr, snaps, metrics, logger),
		Budgets:      service.NewBudgetsService(gateway, stateMgr, snaps, metrics, logger),
		Anomalies:    service.NewAnomaliesService(gateway, stateMgr, snaps, metrics, logger),
		Profile:      service.NewProfileService(gateway, stateMgr, snaps, metrics, logger),
		Users:        service.NewUserService(gateway, userCache, metrics, logger),
		Assistant:    service.NewAssistantService(gateway, stateMgr, metrics, logger),
	}

	// Pruned sessions release their snapshots and conversations too.
	stateMgr.OnPrune(snaps, svcs.Assistant)

	// --- Router ---
	router := handler.NewRouter(svcs, cfg.SessionSecret, cfg.SessionTTL, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
