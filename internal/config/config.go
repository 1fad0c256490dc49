package config

import "time"

// Config is the root configuration for all pipeline binaries.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Chart     ProviderConfig  `yaml:"chart"`
	FRED      FREDConfig      `yaml:"fred"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Macro     MacroConfig     `yaml:"macro"`
	Rollup    RollupConfig    `yaml:"rollup"`
	Export    ExportConfig    `yaml:"export"`
}

// StoreConfig holds the column-store connection.
type StoreConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Database    string        `yaml:"database"`
	User        string        `yaml:"user"`
	Password    string        `yaml:"password"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	MaxConns    int           `yaml:"max_conns"`
}

// ProviderConfig holds transport settings for a throttled HTTP provider.
type ProviderConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	MinDelay    time.Duration `yaml:"min_delay"`    // Minimum spacing between calls
	MaxRetries  int           `yaml:"max_retries"`  // Retries after the first attempt
	BackoffBase time.Duration `yaml:"backoff_base"` // Exponential backoff base
}

// FREDConfig holds the macro data API settings.
type FREDConfig struct {
	ProviderConfig `yaml:",inline"`
	APIKey         string `yaml:"api_key"`
	PageLimit      int    `yaml:"page_limit"` // Observations per page
}

// IngestionConfig drives the daily price ingestion run.
type IngestionConfig struct {
	Source       string   `yaml:"source"`       // Provenance tag on written rows
	Symbols      []string `yaml:"symbols"`      // Symbols to ingest
	Concurrency  int      `yaml:"concurrency"`  // Parallel units of work
	Fundamentals bool     `yaml:"fundamentals"` // Also ingest financial statements
}

// MacroConfig drives the macro series ingestion run.
type MacroConfig struct {
	Source           string   `yaml:"source"`            // Provenance tag (e.g., "fred_api")
	Series           []string `yaml:"series"`            // Fallback when the universe table is empty
	ObservationStart string   `yaml:"observation_start"` // YYYY-MM-DD lower bound for full pulls
}

// RollupConfig drives rollup backfills.
type RollupConfig struct {
	MinYear int `yaml:"min_year"`
	MaxYear int `yaml:"max_year"`
}

// ExportConfig drives the parquet archival export.
type ExportConfig struct {
	Dir string `yaml:"dir"` // Output directory
}
