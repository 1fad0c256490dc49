// Package export dumps canonical daily bars to parquet files for archival,
// one file per instrument per requested date range.
package export
