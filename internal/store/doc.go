// Package store wraps the column-store connection.
//
// The destination store is ClickHouse: tables are ReplacingMergeTree keyed on
// each row's logical identity and versioned by its ingestion timestamp, so the
// store deduplicates on merge with last-write-wins semantics, and tables are
// partitioned by toYYYYMM(date) for date-range pruning. Business packages
// depend on the narrow Store interface, not on the driver, so they can be
// tested against in-memory fakes.
package store
