// Package fundamental ingests financial statements.
//
// The provider reports each statement as a sparse per-period metric bag.
// Those bags are flattened into long-form line items keyed by
// (ticker, fiscal_date, period, metric) and loaded partitioned by fiscal
// year-month. A failed statement module is logged and skipped; the other
// modules of the same symbol still load.
package fundamental
