// Package ingest runs daily price ingestion.
//
// Each symbol is one independent unit of work: resolve its venue and
// identity, read the incremental cursor, fetch the missing window from the
// provider, clean, and load. Per-symbol failures are logged and counted but
// never abort the run; a bounded worker pool fans the symbols out.
package ingest
