package rollup

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-pipeline/internal/loader"
	"github.com/rickgao/market-pipeline/internal/model"
	"github.com/rickgao/market-pipeline/internal/store"
)

var rollupColumns = []string{
	"instrument_id", "source", "bucket_start", "bucket_end",
	"open", "close", "high", "low", "adj_close", "volume", "built_at",
}

type barRow struct {
	InstrumentID uuid.UUID `ch:"instrument_id"`
	Date         time.Time `ch:"date"`
	Open         float64   `ch:"open"`
	High         float64   `ch:"high"`
	Low          float64   `ch:"low"`
	Close        float64   `ch:"close"`
	AdjClose     float64   `ch:"adj_close"`
	Volume       uint64    `ch:"volume"`
	Source       string    `ch:"source"`
}

type seriesKey struct {
	id     uuid.UUID
	source string
}

// Deriver recomputes rollup buckets from canonical daily prices.
type Deriver struct {
	st     store.Store
	loader *loader.Loader
	logger *slog.Logger

	now func() time.Time
}

// NewDeriver creates a Deriver.
func NewDeriver(st store.Store, ld *loader.Loader, logger *slog.Logger) *Deriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{st: st, loader: ld, logger: logger, now: time.Now}
}

// Apply recomputes, for every grain, each bucket touched by the given daily
// bars. Buckets are rebuilt in full from the daily table so a late or
// corrected bar supersedes the previous rollup cleanly. Returns the number
// of rollup rows written.
func (d *Deriver) Apply(ctx context.Context, bars []model.DailyBar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}
	builtAt := d.now().UTC()
	total := 0

	for _, interval := range Intervals {
		touched := make(map[seriesKey]map[time.Time]bool)
		for _, bar := range bars {
			key := seriesKey{id: bar.InstrumentID, source: bar.Source}
			if touched[key] == nil {
				touched[key] = make(map[time.Time]bool)
			}
			touched[key][BucketStart(interval, bar.Date)] = true
		}

		for key, buckets := range touched {
			starts := make([]time.Time, 0, len(buckets))
			for s := range buckets {
				starts = append(starts, s)
			}
			sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

			from := starts[0]
			to := NextBucketStart(interval, starts[len(starts)-1])

			daily, err := d.queryDaily(ctx, key, from, to)
			if err != nil {
				return total, fmt.Errorf("apply %s rollup for %s: %w", interval, key.id, err)
			}

			states := buildStates(interval, daily, buckets)
			n, err := d.writeStates(ctx, interval, key, states, builtAt)
			total += n
			if err != nil {
				return total, fmt.Errorf("apply %s rollup for %s: %w", interval, key.id, err)
			}
		}
	}

	return total, nil
}

// Backfill sweeps calendar years [minYear, maxYear] and rebuilds every
// bucket of one grain from the daily table. The query range is widened to
// whole buckets so a week straddling a year boundary is always rebuilt from
// its complete daily data.
func (d *Deriver) Backfill(ctx context.Context, interval Interval, minYear, maxYear int) (int, error) {
	if minYear > maxYear {
		return 0, fmt.Errorf("backfill %s: min year %d after max year %d", interval, minYear, maxYear)
	}
	builtAt := d.now().UTC()
	total := 0

	for year := minYear; year <= maxYear; year++ {
		start, end := YearRange(year)
		from := BucketStart(interval, start)
		to := NextBucketStart(interval, BucketStart(interval, end.AddDate(0, 0, -1)))

		daily, err := d.queryDailyAll(ctx, from, to)
		if err != nil {
			return total, fmt.Errorf("backfill %s year %d: %w", interval, year, err)
		}

		bySeries := make(map[seriesKey][]model.DailyBar)
		for _, bar := range daily {
			key := seriesKey{id: bar.InstrumentID, source: bar.Source}
			bySeries[key] = append(bySeries[key], bar)
		}

		written := 0
		for key, bars := range bySeries {
			states := buildStates(interval, bars, nil)
			n, err := d.writeStates(ctx, interval, key, states, builtAt)
			written += n
			if err != nil {
				return total + written, fmt.Errorf("backfill %s year %d: %w", interval, year, err)
			}
		}
		total += written

		d.logger.Info("year backfilled",
			"interval", interval,
			"year", year,
			"series", len(bySeries),
			"rows", written,
		)
	}

	return total, nil
}

func (d *Deriver) queryDaily(ctx context.Context, key seriesKey, from, to time.Time) ([]model.DailyBar, error) {
	var rows []barRow
	err := d.st.Select(ctx, &rows, `
		SELECT instrument_id, date, open, high, low, close, adj_close, volume, source
		FROM market_data.daily_prices FINAL
		WHERE instrument_id = ? AND source = ? AND date >= ? AND date < ?`,
		key.id, key.source, from, to,
	)
	if err != nil {
		return nil, err
	}
	return toDailyBars(rows), nil
}

func (d *Deriver) queryDailyAll(ctx context.Context, from, to time.Time) ([]model.DailyBar, error) {
	var rows []barRow
	err := d.st.Select(ctx, &rows, `
		SELECT instrument_id, date, open, high, low, close, adj_close, volume, source
		FROM market_data.daily_prices FINAL
		WHERE date >= ? AND date < ?`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	return toDailyBars(rows), nil
}

func toDailyBars(rows []barRow) []model.DailyBar {
	bars := make([]model.DailyBar, len(rows))
	for i, r := range rows {
		bars[i] = model.DailyBar{
			InstrumentID: r.InstrumentID,
			Date:         model.Day(r.Date),
			Open:         r.Open,
			High:         r.High,
			Low:          r.Low,
			Close:        r.Close,
			AdjClose:     r.AdjClose,
			Volume:       r.Volume,
			Source:       r.Source,
		}
	}
	return bars
}

// buildStates folds daily bars into per-bucket states. With a non-nil
// filter, bars outside the listed buckets are ignored.
func buildStates(interval Interval, bars []model.DailyBar, filter map[time.Time]bool) map[time.Time]*State {
	states := make(map[time.Time]*State)
	for _, bar := range bars {
		start := BucketStart(interval, bar.Date)
		if filter != nil && !filter[start] {
			continue
		}
		if states[start] == nil {
			states[start] = &State{}
		}
		states[start].Add(bar)
	}
	return states
}

func (d *Deriver) writeStates(ctx context.Context, interval Interval, key seriesKey, states map[time.Time]*State, builtAt time.Time) (int, error) {
	rows := make([]loader.Row, 0, len(states))
	for start, state := range states {
		if state.Empty() {
			continue
		}
		bar := state.Bar(key.id, key.source, start, builtAt)
		rows = append(rows, loader.Row{
			Key:        bar.InstrumentID.String() + "|" + bar.Source + "|" + bar.BucketStart.Format("2006-01-02"),
			Date:       bar.BucketStart,
			IngestedAt: bar.BuiltAt,
			Values: []any{
				bar.InstrumentID, bar.Source, bar.BucketStart, bar.BucketEnd,
				bar.Open, bar.Close, bar.High, bar.Low, bar.AdjClose,
				bar.Volume, bar.BuiltAt,
			},
		})
	}

	return d.loader.Load(ctx, interval.Table(), rollupColumns, rows)
}
