// Package loader writes cleaned rows to the column store in
// partition-aligned, deduplicated batches.
//
// Rows are grouped by the year-month of their date column so one bulk insert
// touches one physical partition, which keeps merge pressure on the store
// bounded. Within a group, rows sharing a logical identity key are collapsed
// to the one with the newest ingestion timestamp. That pre-write dedup is an
// optimization: the store's merge-time last-write-wins dedup on the same key
// is the correctness mechanism, so loading the same logical row twice never
// yields two live copies at query time.
package loader
