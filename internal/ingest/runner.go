package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// SymbolIngestor is one symbol's unit of work.
type SymbolIngestor interface {
	IngestSymbol(ctx context.Context, symbol string) (int, error)
}

// Report summarizes one ingestion run.
type Report struct {
	Succeeded int
	Skipped   int // Symbols with no provider data
	Failed    int
	Rows      int
}

// Runner fans symbols out over a bounded worker pool.
type Runner struct {
	worker      SymbolIngestor
	concurrency int
	logger      *slog.Logger
}

// NewRunner creates a Runner. Concurrency below 1 is treated as 1.
func NewRunner(worker SymbolIngestor, concurrency int, logger *slog.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{worker: worker, concurrency: concurrency, logger: logger}
}

// Run ingests every symbol and aggregates the outcome. A symbol failure
// never stops the run; cancellation does.
func (r *Runner) Run(ctx context.Context, symbols []string) Report {
	var (
		mu     sync.Mutex
		report Report
		wg     sync.WaitGroup
	)

	sem := make(chan struct{}, r.concurrency)

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			n, err := r.worker.IngestSymbol(ctx, symbol)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case errors.Is(err, ErrNoData):
				r.logger.Warn("no data for symbol", "symbol", symbol)
				report.Skipped++
			case err != nil:
				r.logger.Error("symbol failed", "symbol", symbol, "error", err)
				report.Failed++
			default:
				report.Succeeded++
				report.Rows += n
			}
		}()
	}

	wg.Wait()

	r.logger.Info("ingestion run complete",
		"succeeded", report.Succeeded,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"rows", report.Rows,
	)
	return report
}
