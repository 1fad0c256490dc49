package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-pipeline/internal/batch"
	"github.com/rickgao/market-pipeline/internal/loader"
	"github.com/rickgao/market-pipeline/internal/model"
	"github.com/rickgao/market-pipeline/internal/venue"
	"github.com/rickgao/market-pipeline/internal/yahoo"
)

const dailyPricesTable = "market_data.daily_prices"

var dailyPriceColumns = []string{
	"instrument_id", "date", "open", "high", "low", "close", "adj_close",
	"volume", "source", "ingested_at", "batch_id",
}

// ErrNoData reports that the provider returned an empty history for a
// symbol. The runner counts such symbols as skipped, not failed.
var ErrNoData = errors.New("provider returned no data")

// MarketData is the slice of the provider API a worker consumes.
type MarketData interface {
	GetDailyBars(ctx context.Context, symbol string, start time.Time) ([]yahoo.Bar, error)
	GetSummary(ctx context.Context, symbol string) (*yahoo.Summary, error)
}

// Identities resolves instrument identity, metadata, and cursors.
type Identities interface {
	GetOrCreateInstrumentID(ctx context.Context, assetClass model.AssetClass, symbol, mic, exchange, shortName, source string) (uuid.UUID, error)
	UpsertMetadata(ctx context.Context, meta model.InstrumentMeta) error
	MaxLoadedDate(ctx context.Context, instrumentID uuid.UUID, source string) (time.Time, bool, error)
}

// RollupApplier recomputes rollup buckets touched by new daily bars.
type RollupApplier interface {
	Apply(ctx context.Context, bars []model.DailyBar) (int, error)
}

// StatementIngestor pulls financial statements for one symbol.
type StatementIngestor interface {
	IngestSymbol(ctx context.Context, symbol, currency string) (int, error)
}

// Worker ingests one symbol at a time.
type Worker struct {
	market   MarketData
	ids      Identities
	loader   *loader.Loader
	gen      batch.Generator
	source   string
	backfill bool
	logger   *slog.Logger

	rollups      RollupApplier
	fundamentals StatementIngestor

	now func() time.Time
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithRollups makes the worker recompute rollups for every bar it loads.
func WithRollups(applier RollupApplier) WorkerOption {
	return func(w *Worker) {
		w.rollups = applier
	}
}

// WithFundamentals makes the worker also ingest financial statements.
func WithFundamentals(ing StatementIngestor) WorkerOption {
	return func(w *Worker) {
		w.fundamentals = ing
	}
}

// NewWorker creates a Worker. When backfill is true the cursor is ignored
// and full history is always fetched.
func NewWorker(market MarketData, ids Identities, ld *loader.Loader, gen batch.Generator, source string, backfill bool, logger *slog.Logger, opts ...WorkerOption) *Worker {
	if gen == nil {
		gen = batch.UUIDGenerator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &Worker{
		market:   market,
		ids:      ids,
		loader:   ld,
		gen:      gen,
		source:   source,
		backfill: backfill,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// IngestSymbol runs the full unit of work for one symbol and returns the
// number of daily bars written. Zero with a nil error means the symbol was
// already up to date.
func (w *Worker) IngestSymbol(ctx context.Context, symbol string) (int, error) {
	ven := venue.Resolve(symbol)
	assetClass := model.AssetEquity
	shortName := ""

	// Metadata enriches identity but its absence never blocks price
	// ingestion.
	sum, err := w.market.GetSummary(ctx, symbol)
	if err != nil {
		w.logger.Warn("summary fetch failed, using symbol-derived venue",
			"symbol", symbol, "error", err)
	} else {
		// The provider's exchange code ranks below an override or suffix
		// match; it only refines the home-market placeholder.
		if ven == venue.DefaultUS {
			ven = venue.FromProviderExchange(ven, sum.Exchange)
		}
		assetClass = model.ClassifyAsset(sum.QuoteType)
		shortName = sum.ShortName
	}

	id, err := w.ids.GetOrCreateInstrumentID(ctx, assetClass, symbol, ven.MIC, ven.Exchange, shortName, w.source)
	if err != nil {
		return 0, fmt.Errorf("resolve identity %s: %w", symbol, err)
	}

	if sum != nil {
		meta := model.InstrumentMeta{
			InstrumentID: id,
			ISIN:         sum.ISIN,
			FIGI:         sum.FIGI,
			Currency:     sum.Currency,
			Country:      sum.Country,
			Sector:       sum.Sector,
			Industry:     sum.Industry,
			Source:       w.source,
		}
		if err := w.ids.UpsertMetadata(ctx, meta); err != nil {
			w.logger.Warn("metadata upsert failed", "symbol", symbol, "error", err)
		}
	}

	start, skip, err := w.fetchWindow(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("read cursor %s: %w", symbol, err)
	}
	if skip {
		w.logger.Info("symbol up to date", "symbol", symbol)
		return 0, nil
	}

	bars, err := w.market.GetDailyBars(ctx, symbol, start)
	if err != nil {
		return 0, fmt.Errorf("fetch bars %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("symbol %s: %w", symbol, ErrNoData)
	}

	ingestedAt := w.now().UTC()
	batchID := w.gen.NewID()
	cleaned := CleanBars(id, w.source, batchID, ingestedAt, bars)
	if len(cleaned) == 0 {
		return 0, fmt.Errorf("symbol %s: all rows dropped in cleaning: %w", symbol, ErrNoData)
	}

	rows := make([]loader.Row, len(cleaned))
	for i, bar := range cleaned {
		rows[i] = loader.Row{
			Key:        bar.InstrumentID.String() + "|" + bar.Date.Format("2006-01-02") + "|" + bar.Source,
			Date:       bar.Date,
			IngestedAt: bar.IngestedAt,
			Values: []any{
				bar.InstrumentID, bar.Date, bar.Open, bar.High, bar.Low,
				bar.Close, bar.AdjClose, bar.Volume, bar.Source,
				bar.IngestedAt, bar.BatchID,
			},
		}
	}

	written, err := w.loader.Load(ctx, dailyPricesTable, dailyPriceColumns, rows)
	if err != nil {
		return written, fmt.Errorf("load bars %s: %w", symbol, err)
	}

	if w.rollups != nil {
		if _, err := w.rollups.Apply(ctx, cleaned); err != nil {
			return written, fmt.Errorf("derive rollups %s: %w", symbol, err)
		}
	}

	if w.fundamentals != nil {
		currency := ""
		if sum != nil {
			currency = sum.Currency
		}
		if _, err := w.fundamentals.IngestSymbol(ctx, symbol, currency); err != nil {
			w.logger.Warn("fundamentals ingestion failed", "symbol", symbol, "error", err)
		}
	}

	w.logger.Info("symbol ingested",
		"symbol", symbol,
		"instrument_id", id,
		"rows", written,
		"since", start,
		"batch_id", batchID,
	)
	return written, nil
}

// fetchWindow decides the fetch start date. Zero start means full history.
// skip=true means the cursor already covers today.
func (w *Worker) fetchWindow(ctx context.Context, instrumentID uuid.UUID) (start time.Time, skip bool, err error) {
	if w.backfill {
		return time.Time{}, false, nil
	}

	cursor, ok, err := w.ids.MaxLoadedDate(ctx, instrumentID, w.source)
	if err != nil {
		return time.Time{}, false, err
	}
	if !ok {
		return time.Time{}, false, nil
	}

	start = cursor.AddDate(0, 0, 1)
	today := model.Day(w.now())
	if start.After(today) {
		return time.Time{}, true, nil
	}
	return start, false, nil
}
