package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"brandscope/internal/analyzer"
	"brandscope/internal/api"
	"brandscope/internal/brand"
	"brandscope/internal/config"
	"brandscope/internal/monitoring"
	"brandscope/internal/repository"
	"brandscope/internal/signals"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Create config
	cfg, err := config.New()
	if err != nil {
		setupLogger(slog.LevelInfo).Error("Failed to create config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log.Level)
	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	repo, err := newRepository(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("Failed to create repository", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer repo.Close(context.Background())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(registry)

	// Outbound clients
	client := &http.Client{Timeout: cfg.Analyzer.RequestTimeout}
	fetcher := signals.NewPageFetcher(cfg.Analyzer, logger)
	llm := signals.NewOpenAIClient(cfg.LLM, &http.Client{Timeout: 3 * cfg.Analyzer.RequestTimeout}, logger)
	search := signals.NewGoogleSearch(cfg.Search, client, logger)
	if !search.Configured() {
		logger.Warn("Search is not configured, competition signals will be empty")
	}

	scanner := analyzer.NewDeepScanner(cfg.Analyzer, analyzer.New(fetcher, logger), llm, logger)

	service := brand.NewService(brand.Dependencies{
		Domains:   signals.NewRegistrar(cfg.Registrar, client, logger),
		Search:    search,
		Social:    signals.NewSocialProbe(logger),
		Scanner:   scanner,
		Cache:     repo,
		Analytics: repo,
		Metrics:   metrics,
	}, logger)

	// Initialize and start the API server
	server := api.NewServer(cfg, service, metrics, registry, logger)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			shutdown <- syscall.SIGTERM
		}
	}()

	logger.Info("Server started", "port", cfg.Server.Port, "storage", cfg.Storage.Backend)

	// Wait for shutdown signal
	<-shutdown
	logger.Info("Shutting down server...")

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited properly")
}

func newRepository(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (repository.Repository, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoDB.Timeout)
		defer cancel()
		return repository.NewMongoRepository(connectCtx, cfg.MongoDB, cfg.CacheTTL)
	case config.BackendRedis:
		return repository.NewRedisRepository(ctx, cfg.Redis, cfg.CacheTTL)
	case config.BackendMemory, "":
		logger.Info("Using in-memory storage, cache and analytics are lost on restart")
		return repository.NewMemoryRepository(cfg.CacheTTL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func setupLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
