package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rickgao/market-pipeline/internal/batch"
	"github.com/rickgao/market-pipeline/internal/config"
	"github.com/rickgao/market-pipeline/internal/fundamental"
	"github.com/rickgao/market-pipeline/internal/identity"
	"github.com/rickgao/market-pipeline/internal/ingest"
	"github.com/rickgao/market-pipeline/internal/loader"
	"github.com/rickgao/market-pipeline/internal/ratelimit"
	"github.com/rickgao/market-pipeline/internal/rollup"
	"github.com/rickgao/market-pipeline/internal/schema"
	"github.com/rickgao/market-pipeline/internal/store"
	"github.com/rickgao/market-pipeline/internal/version"
	"github.com/rickgao/market-pipeline/internal/yahoo"
)

func main() {
	configPath := flag.String("config", "configs/pipeline.local.yaml", "path to config file")
	backfill := flag.Bool("backfill", false, "ignore cursors and re-fetch full history")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ingester",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"backfill", *backfill,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateIngestion(); err != nil {
		logger.Error("invalid ingestion config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"symbols", len(cfg.Ingestion.Symbols),
		"concurrency", cfg.Ingestion.Concurrency,
		"fundamentals", cfg.Ingestion.Fundamentals,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to the store
	logger.Info("connecting to store",
		"host", cfg.Store.Host,
		"port", cfg.Store.Port,
		"database", cfg.Store.Database,
	)

	st, err := store.Connect(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to connect to store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := schema.EnsureAll(ctx, st); err != nil {
		logger.Error("failed to provision schema", "error", err)
		os.Exit(1)
	}
	logger.Info("store ready")

	// One shared limiter throttles every call to the chart provider.
	limiter := ratelimit.NewLimiter(cfg.Chart.MinDelay)
	chart := yahoo.NewClient(cfg.Chart.BaseURL, limiter,
		yahoo.WithTimeout(cfg.Chart.Timeout),
		yahoo.WithRetries(cfg.Chart.MaxRetries, cfg.Chart.BackoffBase),
		yahoo.WithLogger(logger),
	)

	ld := loader.New(st, logger)
	resolver := identity.NewResolver(st, logger)

	opts := []ingest.WorkerOption{
		ingest.WithRollups(rollup.NewDeriver(st, ld, logger)),
	}
	if cfg.Ingestion.Fundamentals {
		opts = append(opts, ingest.WithFundamentals(
			fundamental.NewIngestor(chart, ld, cfg.Ingestion.Source, logger)))
	}

	worker := ingest.NewWorker(chart, resolver, ld, batch.UUIDGenerator{},
		cfg.Ingestion.Source, *backfill, logger, opts...)
	runner := ingest.NewRunner(worker, cfg.Ingestion.Concurrency, logger)

	report := runner.Run(ctx, cfg.Ingestion.Symbols)

	if report.Failed > 0 {
		os.Exit(1)
	}
}
