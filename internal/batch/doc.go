// Package batch generates batch identifiers for ingestion runs.
//
// A batch id tags every row written by one unit of work (one symbol or one
// series run) so rows can be traced back to the run that produced them. Batch
// ids exist purely for traceability and play no role in correctness.
//
// Callers take a Generator rather than calling uuid directly so tests can
// inject deterministic ids.
package batch
