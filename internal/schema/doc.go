// Package schema provisions the column-store tables the pipeline writes to.
//
// Every table is a ReplacingMergeTree keyed on the row's logical identity and
// versioned by its ingestion (or derivation) timestamp: among rows sharing a
// key, only the newest version survives compaction, which is what makes
// repeated ingestion runs idempotent at query time. Time-series tables are
// partitioned by toYYYYMM of their date column, matching the partition key the
// batch loader groups writes by.
//
// DDL is embedded and applied with CREATE ... IF NOT EXISTS, so Ensure is safe
// to run before every ingestion.
package schema
