package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/rickgao/market-pipeline/internal/store"
)

// BarRecord is the parquet row schema for exported daily bars.
type BarRecord struct {
	InstrumentID string    `parquet:"instrument_id"`
	Date         time.Time `parquet:"date,timestamp"`
	Open         float64   `parquet:"open"`
	High         float64   `parquet:"high"`
	Low          float64   `parquet:"low"`
	Close        float64   `parquet:"close"`
	AdjClose     float64   `parquet:"adj_close"`
	Volume       int64     `parquet:"volume"`
	Source       string    `parquet:"source"`
}

type exportRow struct {
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

// Exporter reads canonical daily bars and writes parquet files.
type Exporter struct {
	st     store.Store
	dir    string
	logger *slog.Logger
}

// NewExporter creates an Exporter writing into dir.
func NewExporter(st store.Store, dir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{st: st, dir: dir, logger: logger}
}

// Export writes every instrument's daily bars in [from, to] to its own
// parquet file. Returns the number of files and rows written.
func (e *Exporter) Export(ctx context.Context, from, to time.Time) (files, rows int, err error) {
	var all []exportRow
	err = e.st.Select(ctx, &all, `
		SELECT instrument_id, date, open, high, low, close, adj_close, volume, source
		FROM market_data.daily_prices FINAL
		WHERE date >= ? AND date <= ?
		ORDER BY instrument_id, date`,
		from, to,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("query daily bars: %w", err)
	}
	if len(all) == 0 {
		return 0, 0, nil
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("create export dir: %w", err)
	}

	byInstrument := make(map[uuid.UUID][]BarRecord)
	for _, r := range all {
		byInstrument[r.InstrumentID] = append(byInstrument[r.InstrumentID], BarRecord{
			InstrumentID: r.InstrumentID.String(),
			Date:         r.Date.UTC(),
			Open:         r.Open,
			High:         r.High,
			Low:          r.Low,
			Close:        r.Close,
			AdjClose:     r.AdjClose,
			Volume:       int64(r.Volume),
			Source:       r.Source,
		})
	}

	for id, records := range byInstrument {
		path := e.filePath(id, from, to)
		if err := writeParquet(path, records); err != nil {
			return files, rows, fmt.Errorf("export %s: %w", id, err)
		}
		files++
		rows += len(records)

		e.logger.Info("instrument exported",
			"instrument_id", id,
			"rows", len(records),
			"path", path,
		)
	}

	return files, rows, nil
}

func (e *Exporter) filePath(id uuid.UUID, from, to time.Time) string {
	name := fmt.Sprintf("daily_%s_%s_%s.parquet",
		id, from.UTC().Format("20060102"), to.UTC().Format("20060102"))
	return filepath.Join(e.dir, name)
}

func writeParquet(path string, records []BarRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	w := parquet.NewGenericWriter[BarRecord](f, parquet.Compression(&parquet.Snappy))
	if _, err := w.Write(records); err != nil {
		f.Close()
		return fmt.Errorf("write records: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close writer: %w", err)
	}

	return f.Close()
}
