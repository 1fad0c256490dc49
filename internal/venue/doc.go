// Package venue maps raw provider symbols to trading venues.
//
// Resolution runs a fixed-priority rule list: exact symbol overrides first,
// then the longest matching known symbol suffix, then the provider-reported
// exchange code, and finally a home-market placeholder. The placeholder MIC
// "US__" marks US symbols whose precise venue (XNYS vs XNAS) is only known
// once provider metadata arrives.
package venue
