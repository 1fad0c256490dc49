package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/market-pipeline/internal/config"
	"github.com/rickgao/market-pipeline/internal/fred"
	"github.com/rickgao/market-pipeline/internal/loader"
	"github.com/rickgao/market-pipeline/internal/macro"
	"github.com/rickgao/market-pipeline/internal/ratelimit"
	"github.com/rickgao/market-pipeline/internal/schema"
	"github.com/rickgao/market-pipeline/internal/store"
	"github.com/rickgao/market-pipeline/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pipeline.local.yaml", "path to config file")
	metaOnly := flag.Bool("meta-only", false, "refresh series metadata without pulling observations")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting macro ingestion",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateMacro(); err != nil {
		logger.Error("invalid macro config", "error", err)
		os.Exit(1)
	}

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

	// One shared limiter throttles every call to the macro API.
	limiter := ratelimit.NewLimiter(cfg.FRED.MinDelay)
	client := fred.NewClient(cfg.FRED.BaseURL, cfg.FRED.APIKey, limiter,
		fred.WithTimeout(cfg.FRED.Timeout),
		fred.WithRetries(cfg.FRED.MaxRetries, cfg.FRED.BackoffBase),
		fred.WithLogger(logger),
	)

	ing := macro.NewIngestor(client, loader.New(st, logger),
		cfg.Macro.Source, cfg.FRED.PageLimit, logger)

	// The universe table drives which series to pull; fall back to the
	// configured list when it is empty.
	series, err := macro.ListActiveSeries(ctx, st)
	if err != nil {
		logger.Error("failed to list series universe", "error", err)
		os.Exit(1)
	}
	if len(series) == 0 {
		logger.Info("series universe empty, using configured series",
			"series", len(cfg.Macro.Series))
		series = cfg.Macro.Series
	}
	if len(series) == 0 {
		logger.Error("no series to ingest")
		os.Exit(1)
	}

	if _, err := ing.IngestMeta(ctx, series); err != nil {
		logger.Error("metadata run failed", "error", err)
		os.Exit(1)
	}
	if *metaOnly {
		return
	}

	start, _ := time.Parse("2006-01-02", cfg.Macro.ObservationStart)

	failed := 0
	totalRows := 0
	for _, id := range series {
		if ctx.Err() != nil {
			break
		}

		n, err := ing.IngestSeries(ctx, id, start, time.Time{})
		if err != nil {
			logger.Error("series failed", "series_id", id, "error", err)
			failed++
			continue
		}
		totalRows += n
	}

	logger.Info("macro run complete",
		"series", len(series),
		"failed", failed,
		"rows", totalRows,
	)
	if failed > 0 {
		os.Exit(1)
	}
}
