// Package yahoo provides access to the market-data provider's chart and
// quote-summary endpoints.
//
// Transport discipline mirrors the macro client: every request waits on the
// shared per-provider rate limiter, retries transient failures (429 and the
// 5xx family, plus transport errors) with exponential backoff and jitter, and
// fails immediately on any other non-2xx status.
package yahoo
