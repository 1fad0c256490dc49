// Package macro ingests economic time series: versioned series metadata and
// paginated observation pulls.
//
// Observation pages are fetched until the provider reports no further data
// (empty page, or offset past the reported count). Sentinel values ("." /
// empty / non-numeric) and unparseable dates are dropped during cleaning and
// never stored as zero. Every page of one series run shares a single batch id
// so a run can be traced end to end.
package macro
