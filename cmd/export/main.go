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
	"github.com/rickgao/market-pipeline/internal/export"
	"github.com/rickgao/market-pipeline/internal/model"
	"github.com/rickgao/market-pipeline/internal/store"
	"github.com/rickgao/market-pipeline/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pipeline.local.yaml", "path to config file")
	fromFlag := flag.String("from", "", "start date YYYY-MM-DD (default: earliest accepted date)")
	toFlag := flag.String("to", "", "end date YYYY-MM-DD inclusive (default: today)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting export",
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

	from := model.MinDate
	if *fromFlag != "" {
		from, err = time.Parse("2006-01-02", *fromFlag)
		if err != nil {
			logger.Error("invalid -from date", "error", err)
			os.Exit(1)
		}
	}
	to := model.Day(time.Now())
	if *toFlag != "" {
		to, err = time.Parse("2006-01-02", *toFlag)
		if err != nil {
			logger.Error("invalid -to date", "error", err)
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

	exporter := export.NewExporter(st, cfg.Export.Dir, logger)

	files, rows, err := exporter.Export(ctx, from, to)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}

	logger.Info("export complete",
		"dir", cfg.Export.Dir,
		"files", files,
		"rows", rows,
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
	)
}
