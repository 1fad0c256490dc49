package macro

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/rickgao/market-pipeline/internal/batch"
	"github.com/rickgao/market-pipeline/internal/fred"
	"github.com/rickgao/market-pipeline/internal/loader"
	"github.com/rickgao/market-pipeline/internal/model"
)

const (
	observationsTable = "economic_data.fred_observations"
	seriesMetaTable   = "economic_data.fred_series_meta"

	// DefaultPageLimit is the provider's maximum observations page size.
	DefaultPageLimit = 100000
)

var observationColumns = []string{
	"series_id", "date", "value", "is_missing",
	"realtime_start", "realtime_end",
	"source", "ingested_at", "batch_id",
}

var seriesMetaColumns = []string{
	"series_id", "title", "units", "units_short",
	"frequency", "frequency_short",
	"seasonal_adjustment", "seasonal_adjustment_short",
	"observation_start", "observation_end",
	"last_updated", "popularity", "notes",
	"source", "built_at", "batch_id",
}

// Provider is the slice of the macro API the ingestor consumes.
type Provider interface {
	GetSeries(ctx context.Context, seriesID string) (*fred.APISeries, error)
	GetObservations(ctx context.Context, seriesID string, opts fred.ObservationsOptions) (*fred.ObservationsResponse, error)
}

// Ingestor pulls series metadata and observations into the store.
type Ingestor struct {
	provider  Provider
	loader    *loader.Loader
	source    string
	pageLimit int
	logger    *slog.Logger

	now func() time.Time
}

// NewIngestor creates an Ingestor. Source tags every written row.
func NewIngestor(provider Provider, ld *loader.Loader, source string, pageLimit int, logger *slog.Logger) *Ingestor {
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		provider:  provider,
		loader:    ld,
		source:    source,
		pageLimit: pageLimit,
		logger:    logger,
		now:       time.Now,
	}
}

// IngestSeries pulls every observation of one series in [start, end] and
// writes the cleaned rows. A zero end leaves the upper bound open. Returns
// the number of rows written.
func (ing *Ingestor) IngestSeries(ctx context.Context, seriesID string, start, end time.Time) (int, error) {
	runAt := ing.now().UTC()
	batchID := batch.SeriesID("fred_obs", seriesID, runAt)

	opts := fred.ObservationsOptions{
		Limit:     ing.pageLimit,
		SortOrder: "asc",
	}
	if !start.IsZero() {
		opts.Start = start.UTC().Format("2006-01-02")
	}
	if !end.IsZero() {
		opts.End = end.UTC().Format("2006-01-02")
	}

	var (
		rows    []loader.Row
		dropped int
		pages   int
	)

	for {
		page, err := ing.provider.GetObservations(ctx, seriesID, opts)
		if err != nil {
			return 0, fmt.Errorf("fetch observations %s: %w", seriesID, err)
		}
		pages++

		if len(page.Observations) == 0 {
			break
		}

		cleaned, skipped := ing.cleanObservations(seriesID, batchID, runAt, page.Observations)
		rows = append(rows, cleaned...)
		dropped += skipped

		// Advance by the page size the server actually applied.
		step := page.Limit
		if step <= 0 {
			step = ing.pageLimit
		}
		opts.Offset += step

		if opts.Offset >= page.Count {
			break
		}
	}

	written, err := ing.loader.Load(ctx, observationsTable, observationColumns, rows)
	if err != nil {
		return written, fmt.Errorf("load observations %s: %w", seriesID, err)
	}

	ing.logger.Info("series ingested",
		"series_id", seriesID,
		"pages", pages,
		"rows", written,
		"dropped", dropped,
		"batch_id", batchID,
	)
	return written, nil
}

// cleanObservations converts raw API observations into loadable rows,
// dropping sentinel values and unparseable dates.
func (ing *Ingestor) cleanObservations(seriesID, batchID string, runAt time.Time, obs []fred.APIObservation) ([]loader.Row, int) {
	rows := make([]loader.Row, 0, len(obs))
	dropped := 0

	for _, o := range obs {
		date, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			dropped++
			continue
		}
		if o.Value == "." || o.Value == "" {
			dropped++
			continue
		}
		value, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			dropped++
			continue
		}

		date = model.Day(date)
		rtStart := parseDateOr(o.RealtimeStart, date)
		rtEnd := parseDateOr(o.RealtimeEnd, date)

		rows = append(rows, loader.Row{
			Key:        seriesID + "|" + o.Date + "|" + ing.source,
			Date:       date,
			IngestedAt: runAt,
			Values: []any{
				seriesID, date, value, uint8(0),
				rtStart, rtEnd,
				ing.source, runAt, batchID,
			},
		})
	}

	return rows, dropped
}

// IngestMeta fetches metadata for each series and writes one versioned row
// per series. Per-series failures are logged and skipped; the error return is
// reserved for the load itself.
func (ing *Ingestor) IngestMeta(ctx context.Context, seriesIDs []string) (int, error) {
	runAt := ing.now().UTC()
	batchID := batch.RunID("fred_meta", runAt)

	rows := make([]loader.Row, 0, len(seriesIDs))
	for _, id := range seriesIDs {
		s, err := ing.provider.GetSeries(ctx, id)
		if err != nil {
			ing.logger.Warn("series metadata fetch failed", "series_id", id, "error", err)
			continue
		}

		meta := toSeriesMeta(s, ing.source, runAt, batchID)
		rows = append(rows, loader.Row{
			Key:        meta.SeriesID + "|" + ing.source,
			Date:       runAt,
			IngestedAt: runAt,
			Values: []any{
				meta.SeriesID, meta.Title, meta.Units, meta.UnitsShort,
				meta.Frequency, meta.FrequencyShort,
				meta.SeasonalAdjustment, meta.SeasonalAdjShort,
				nullableDate(meta.ObservationStart), nullableDate(meta.ObservationEnd),
				meta.LastUpdated, meta.Popularity, meta.Notes,
				meta.Source, meta.BuiltAt, meta.BatchID,
			},
		})
	}

	written, err := ing.loader.Load(ctx, seriesMetaTable, seriesMetaColumns, rows)
	if err != nil {
		return written, fmt.Errorf("load series metadata: %w", err)
	}

	ing.logger.Info("series metadata ingested",
		"requested", len(seriesIDs),
		"rows", written,
		"batch_id", batchID,
	)
	return written, nil
}

func toSeriesMeta(s *fred.APISeries, source string, runAt time.Time, batchID string) model.SeriesMeta {
	meta := model.SeriesMeta{
		SeriesID:           s.ID,
		Title:              s.Title,
		Units:              s.Units,
		UnitsShort:         s.UnitsShort,
		Frequency:          s.Frequency,
		FrequencyShort:     s.FrequencyShort,
		SeasonalAdjustment: s.SeasonalAdjustment,
		SeasonalAdjShort:   s.SeasonalAdjustmentShort,
		Popularity:         s.Popularity,
		Notes:              s.Notes,
		Source:             source,
		BuiltAt:            runAt,
		BatchID:            batchID,
	}

	if d, err := time.Parse("2006-01-02", s.ObservationStart); err == nil {
		meta.ObservationStart = d
	}
	if d, err := time.Parse("2006-01-02", s.ObservationEnd); err == nil {
		meta.ObservationEnd = d
	}
	if ts, err := time.Parse("2006-01-02 15:04:05-07", s.LastUpdated); err == nil {
		meta.LastUpdated = ts.UTC()
	} else {
		meta.LastUpdated = runAt
	}

	return meta
}

func parseDateOr(s string, fallback time.Time) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fallback
	}
	return model.Day(d)
}

// nullableDate maps the zero time to NULL for Nullable(Date32) columns.
func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
