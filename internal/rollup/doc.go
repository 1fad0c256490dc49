// Package rollup derives weekly, quarterly, and yearly bars from canonical
// daily prices.
//
// Derivation is recompute-and-supersede: a bucket touched by new daily data
// is rebuilt in full from the daily table and written with a fresh built_at,
// which the store's merge keeps as the current version. The continuous path
// (Apply) and the year-sweep backfill path (Backfill) share one aggregation
// core and produce identical logical values for the same daily data.
package rollup
