// Package model defines shared data types used across the market data pipeline.
//
// All types mirror the column-store schema defined in internal/schema.
//
// Conventions:
//   - Dates: time.Time at UTC midnight (stored as Date columns)
//   - Timestamps: time.Time in UTC (stored as DateTime64(3) columns)
//   - IDs: uuid.UUID for instruments, string for macro series ids
//   - Every stored row carries (source, ingestion timestamp, batch id) provenance
package model
