package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks fields every binary depends on. Provider-specific
// requirements are validated by the command that needs them (see
// ValidateIngestion and ValidateMacro).
func (c *Config) Validate() error {
	if c.Store.Host == "" {
		return errors.New("store.host is required")
	}
	if c.Store.Port < 1 || c.Store.Port > 65535 {
		return fmt.Errorf("store.port must be between 1 and 65535, got %d", c.Store.Port)
	}
	if c.Store.User == "" {
		return errors.New("store.user is required")
	}
	if c.Store.MaxConns < 1 {
		return errors.New("store.max_conns must be >= 1")
	}

	if err := c.Chart.validate("chart"); err != nil {
		return err
	}
	if err := c.FRED.ProviderConfig.validate("fred"); err != nil {
		return err
	}
	if c.FRED.PageLimit < 1 {
		return errors.New("fred.page_limit must be >= 1")
	}

	if c.Ingestion.Concurrency < 1 {
		return errors.New("ingestion.concurrency must be >= 1")
	}

	if c.Rollup.MinYear > c.Rollup.MaxYear {
		return fmt.Errorf("rollup.min_year (%d) cannot exceed rollup.max_year (%d)",
			c.Rollup.MinYear, c.Rollup.MaxYear)
	}

	return nil
}

// ValidateIngestion checks the fields the ingester run requires.
func (c *Config) ValidateIngestion() error {
	if len(c.Ingestion.Symbols) == 0 {
		return errors.New("ingestion.symbols must not be empty")
	}
	return nil
}

// ValidateMacro checks the fields the macro run requires.
func (c *Config) ValidateMacro() error {
	if c.FRED.APIKey == "" {
		return errors.New("fred.api_key is required")
	}
	if _, err := time.Parse("2006-01-02", c.Macro.ObservationStart); err != nil {
		return fmt.Errorf("macro.observation_start must be YYYY-MM-DD: %w", err)
	}
	return nil
}

func (p *ProviderConfig) validate(prefix string) error {
	if p.BaseURL == "" {
		return fmt.Errorf("%s.base_url is required", prefix)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("%s.max_retries must be >= 0", prefix)
	}
	if p.MinDelay < 0 {
		return fmt.Errorf("%s.min_delay must be >= 0", prefix)
	}
	if p.BackoffBase <= 0 {
		return fmt.Errorf("%s.backoff_base must be > 0", prefix)
	}
	return nil
}
