// Package ratelimit enforces minimum spacing between outbound provider calls.
//
// Each remote provider gets exactly one Limiter, shared by every caller that
// targets that provider. The limiter is passed into client constructors
// explicitly; there is no package-level singleton. Under concurrent workers
// the mutex serializes the last-call timestamp, so the minimum delay holds
// jointly across all of them.
package ratelimit
