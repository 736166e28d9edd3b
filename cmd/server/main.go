package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goonline/platform/internal/adapter/api"
	"github.com/goonline/platform/internal/adapter/metrics"
	pgrepo "github.com/goonline/platform/internal/adapter/repository/postgres"
	"github.com/goonline/platform/internal/adapter/supabase"
	"github.com/goonline/platform/internal/domain"
	"github.com/goonline/platform/internal/pkg/config"
	"github.com/goonline/platform/internal/pkg/logger"
	"github.com/goonline/platform/internal/usecase"

	_ "github.com/lib/pq" // postgres driver for self-hosted mode
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewViewMetrics()

	// --- Admin and Metrics Server ---
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: adminMux,
	}

	go func() {
		logger.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- External data/auth collaborator ---
	client, err := supabase.New(supabase.Config{
		URL:     cfg.SupabaseURL,
		AnonKey: cfg.SupabaseAnonKey,
		Timeout: cfg.RequestTimeout,
		RPS:     cfg.UpstreamRPS,
	}, logger)
	if err != nil {
		logger.Error("failed to create data service client", "error", err)
		os.Exit(1)
	}

	auth := supabase.NewAuthClient(client, logger)

	var (
		businessRepo domain.BusinessRepository
		profileRepo  domain.ProfileRepository
	)
	switch cfg.Backend {
	case "postgres":
		// Self-hosted mode: the data collections are reached directly;
		// auth stays on the hosted auth API.
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		businessRepo = pgrepo.NewBusinessRepository(db)
		profileRepo = pgrepo.NewProfileRepository(db)
	default:
		businessRepo = supabase.NewBusinessRepository(client)
		profileRepo = supabase.NewProfileRepository(client)
	}

	// --- Session Store ---
	sessions := usecase.NewSessionService(auth, profileRepo, logger, m)
	client.SetTokenSource(sessions.AccessToken)
	sessions.Resolve(ctx, cfg.AccessToken)

	// --- View Controllers ---
	controllers := api.Controllers{
		Sessions:    sessions,
		Marketplace: usecase.NewMarketplaceController(businessRepo, logger, m),
		Dashboard:   usecase.NewDashboardController(businessRepo, sessions, logger, m),
		Analytics:   usecase.NewAnalyticsController(businessRepo, sessions, logger, m),
	}

	// --- API Server ---
	// No WriteTimeout: /session/events holds its stream open indefinitely.
	apiServer := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     api.NewRouter(controllers, logger),
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("starting api server", "addr", apiServer.Addr, "backend", cfg.Backend)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api server failed", "error", err)
			stop()
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", "error", err)
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}
