// Package identity resolves provider symbols to stable internal instrument
// identifiers and tracks how much history is already loaded per identity.
//
// Instruments are append-only: creation inserts one row whose id the store
// generates, and every later change inserts a newer version of the same
// (asset_class, mic, symbol) key. Readers always take the most recently
// updated version, so "current" is a read-side decision and repeated
// resolution of an existing symbol performs no writes.
//
// Two workers racing to create the same brand-new symbol can each insert a
// row; the store's merge-time dedup on the versioned key collapses them, and
// reads are deterministic in the meantime because they order by updated_at.
package identity
