package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rickgao/market-pipeline/internal/config"
	"github.com/rickgao/market-pipeline/internal/loader"
	"github.com/rickgao/market-pipeline/internal/rollup"
	"github.com/rickgao/market-pipeline/internal/schema"
	"github.com/rickgao/market-pipeline/internal/store"
	"github.com/rickgao/market-pipeline/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pipeline.local.yaml", "path to config file")
	interval := flag.String("interval", "", "limit the backfill to one grain: week, quarter, or year")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting rollup backfill",
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

	intervals := rollup.Intervals
	if *interval != "" {
		intervals = []rollup.Interval{rollup.Interval(*interval)}
		if intervals[0].Table() == "" {
			logger.Error("unknown interval", "interval", *interval)
			os.Exit(1)
		}
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

	deriver := rollup.NewDeriver(st, loader.New(st, logger), logger)

	total := 0
	for _, iv := range intervals {
		n, err := deriver.Backfill(ctx, iv, cfg.Rollup.MinYear, cfg.Rollup.MaxYear)
		total += n
		if err != nil {
			logger.Error("backfill failed", "interval", iv, "error", err)
			os.Exit(1)
		}
		logger.Info("interval backfilled", "interval", iv, "rows", n)
	}

	logger.Info("rollup backfill complete",
		"min_year", cfg.Rollup.MinYear,
		"max_year", cfg.Rollup.MaxYear,
		"rows", total,
	)
}
