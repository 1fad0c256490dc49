package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Reference Types
// -----------------------------------------------------------------------------

// AssetClass classifies an instrument.
type AssetClass string

const (
	AssetEquity AssetClass = "equity"
	AssetETF    AssetClass = "etf"
)

// ClassifyAsset maps a provider quote type to an asset class.
// Anything that is not an ETF is treated as equity.
func ClassifyAsset(quoteType string) AssetClass {
	if quoteType == "ETF" || quoteType == "etf" {
		return AssetETF
	}
	return AssetEquity
}

// Instrument is an internally identified tradable entity, distinct from its
// raw provider symbol. Rows are append-only; the newest updated_at version of
// a (asset_class, mic, symbol) key is the current one.
type Instrument struct {
	ID         uuid.UUID  // Stable internal identifier (generated by the store)
	AssetClass AssetClass // equity | etf
	Symbol     string     // Raw provider symbol (e.g., "NESN.SW")
	MIC        string     // ISO 10383 market identifier code (e.g., "XSWX")
	Exchange   string     // Human exchange label (e.g., "SIX")
	ShortName  string     // Display name
	IsActive   bool       // Soft-delete flag; instruments are never removed
	UpdatedAt  time.Time  // Version column
	Source     string     // Provenance (e.g., "yfinance")
}

// InstrumentMeta holds sparse, provider-reported reference data for an
// instrument. A fresh version row is inserted on every ingestion run.
type InstrumentMeta struct {
	InstrumentID uuid.UUID
	ISIN         string
	FIGI         string
	Currency     string
	Country      string
	Sector       string
	Industry     string
	UpdatedAt    time.Time // Version column
	Source       string
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// Date bounds accepted by the store's Date column. Bars outside this window
// are dropped during cleaning.
var (
	MinDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	MaxDate = time.Date(2149, 6, 6, 0, 0, 0, 0, time.UTC)
)

// DailyBar is one canonical daily OHLCV row for an instrument.
// Identity key: (instrument_id, date, source); newest ingested_at wins.
type DailyBar struct {
	InstrumentID uuid.UUID
	Date         time.Time // UTC midnight
	Open         float64
	High         float64
	Low          float64
	Close        float64
	AdjClose     float64
	Volume       uint64 // Non-negative after cleaning
	Source       string
	IngestedAt   time.Time
	BatchID      string
}

// Observation is one macro series data point.
// Identity key: (series_id, date, source); newest ingested_at wins.
// Missing/sentinel raw values are dropped before this type is built, never
// stored as zero.
type Observation struct {
	SeriesID      string
	Date          time.Time
	Value         float64
	IsMissing     bool
	RealtimeStart time.Time // Realtime validity window start
	RealtimeEnd   time.Time // Realtime validity window end
	Source        string
	IngestedAt    time.Time
	BatchID       string
}

// SeriesMeta is versioned metadata for one macro series.
type SeriesMeta struct {
	SeriesID           string
	Title              string
	Units              string
	UnitsShort         string
	Frequency          string
	FrequencyShort     string
	SeasonalAdjustment string
	SeasonalAdjShort   string
	ObservationStart   time.Time // Zero when the provider omits it
	ObservationEnd     time.Time
	LastUpdated        time.Time
	Popularity         int32
	Notes              string
	Source             string
	BuiltAt            time.Time
	BatchID            string
}

// -----------------------------------------------------------------------------
// Fundamental Types
// -----------------------------------------------------------------------------

// StatementKind selects a financial statement.
type StatementKind string

const (
	StatementIncome   StatementKind = "income_statement"
	StatementBalance  StatementKind = "balance_sheet"
	StatementCashflow StatementKind = "cashflow_statement"
)

// PeriodKind selects the reporting cadence of a statement.
type PeriodKind string

const (
	PeriodAnnual    PeriodKind = "annual"
	PeriodQuarterly PeriodKind = "quarterly"
)

// LineItem is one financial-statement metric in long form.
// Identity key: (ticker, fiscal_date, period, metric); newest loaded_at wins.
type LineItem struct {
	Ticker     string
	FiscalDate time.Time
	Period     PeriodKind
	Metric     string
	Value      float64
	Currency   string
	Source     string
	LoadedAt   time.Time
	BatchID    string
}

// -----------------------------------------------------------------------------
// Derived Types
// -----------------------------------------------------------------------------

// RollupBar is a coarser-grained aggregate derived purely from DailyBar rows
// within one bucket. Identity key: (instrument_id, source, bucket_start);
// newest built_at wins, so re-derivation supersedes cleanly.
type RollupBar struct {
	InstrumentID uuid.UUID
	Source       string
	BucketStart  time.Time // Week Monday / quarter first day / Jan 1
	BucketEnd    time.Time // Max observed date in the bucket, not the calendar boundary
	Open         float64   // Value at earliest date in bucket
	Close        float64   // Value at latest date in bucket
	High         float64
	Low          float64
	AdjClose     float64 // Value at latest date in bucket
	Volume       uint64
	BuiltAt      time.Time // Derivation timestamp (version column)
}

// Day returns t truncated to UTC midnight. All Date columns go through this
// before storage so identity keys compare reliably.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
