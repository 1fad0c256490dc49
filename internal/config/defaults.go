package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultStorePort        = 9000
	DefaultStoreDialTimeout = 10 * time.Second
	DefaultStoreMaxConns    = 5

	DefaultChartURL         = "https://query1.finance.yahoo.com"
	DefaultChartTimeout     = 30 * time.Second
	DefaultChartMinDelay    = 500 * time.Millisecond
	DefaultChartMaxRetries  = 3
	DefaultChartBackoffBase = time.Second

	DefaultFREDURL         = "https://api.stlouisfed.org/fred"
	DefaultFREDTimeout     = 30 * time.Second
	DefaultFREDMinDelay    = 250 * time.Millisecond
	DefaultFREDMaxRetries  = 6
	DefaultFREDBackoffBase = 700 * time.Millisecond
	DefaultFREDPageLimit   = 100000

	DefaultIngestionSource      = "yfinance"
	DefaultIngestionConcurrency = 4

	DefaultMacroSource           = "fred_api"
	DefaultObservationStart      = "1970-01-01"
	DefaultRollupMinYear         = 1970
	DefaultRollupMaxYearsForward = 1 // MaxYear defaults to current year + this

	DefaultExportDir = "export"
)

func (c *Config) applyDefaults() {
	// Store defaults
	if c.Store.Port == 0 {
		c.Store.Port = DefaultStorePort
	}
	if c.Store.DialTimeout == 0 {
		c.Store.DialTimeout = DefaultStoreDialTimeout
	}
	if c.Store.MaxConns == 0 {
		c.Store.MaxConns = DefaultStoreMaxConns
	}

	// Chart provider defaults
	if c.Chart.BaseURL == "" {
		c.Chart.BaseURL = DefaultChartURL
	}
	if c.Chart.Timeout == 0 {
		c.Chart.Timeout = DefaultChartTimeout
	}
	if c.Chart.MinDelay == 0 {
		c.Chart.MinDelay = DefaultChartMinDelay
	}
	if c.Chart.MaxRetries == 0 {
		c.Chart.MaxRetries = DefaultChartMaxRetries
	}
	if c.Chart.BackoffBase == 0 {
		c.Chart.BackoffBase = DefaultChartBackoffBase
	}

	// Macro API defaults
	if c.FRED.BaseURL == "" {
		c.FRED.BaseURL = DefaultFREDURL
	}
	if c.FRED.Timeout == 0 {
		c.FRED.Timeout = DefaultFREDTimeout
	}
	if c.FRED.MinDelay == 0 {
		c.FRED.MinDelay = DefaultFREDMinDelay
	}
	if c.FRED.MaxRetries == 0 {
		c.FRED.MaxRetries = DefaultFREDMaxRetries
	}
	if c.FRED.BackoffBase == 0 {
		c.FRED.BackoffBase = DefaultFREDBackoffBase
	}
	if c.FRED.PageLimit == 0 {
		c.FRED.PageLimit = DefaultFREDPageLimit
	}

	// Ingestion defaults
	if c.Ingestion.Source == "" {
		c.Ingestion.Source = DefaultIngestionSource
	}
	if c.Ingestion.Concurrency == 0 {
		c.Ingestion.Concurrency = DefaultIngestionConcurrency
	}

	// Macro run defaults
	if c.Macro.Source == "" {
		c.Macro.Source = DefaultMacroSource
	}
	if c.Macro.ObservationStart == "" {
		c.Macro.ObservationStart = DefaultObservationStart
	}

	// Rollup defaults
	if c.Rollup.MinYear == 0 {
		c.Rollup.MinYear = DefaultRollupMinYear
	}
	if c.Rollup.MaxYear == 0 {
		c.Rollup.MaxYear = time.Now().UTC().Year() + DefaultRollupMaxYearsForward
	}

	// Export defaults
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
}
