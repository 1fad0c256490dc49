package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Generator produces batch identifiers.
type Generator interface {
	// NewID returns a fresh opaque batch identifier.
	NewID() string
}

// UUIDGenerator produces random UUIDv4 batch ids. The zero value is ready to use.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// FixedGenerator returns the same id on every call. Test helper.
type FixedGenerator string

func (g FixedGenerator) NewID() string { return string(g) }

// SeriesID builds the human-readable batch id used for macro series runs,
// e.g. "fred_obs_GDP_20240115T120000Z". One id covers every page of one
// series run.
func SeriesID(prefix, seriesID string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", prefix, seriesID, now.UTC().Format("20060102T150405Z"))
}

// RunID builds the batch id for runs not tied to a single series,
// e.g. "fred_meta_20240115T120000Z".
func RunID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s", prefix, now.UTC().Format("20060102T150405Z"))
}
