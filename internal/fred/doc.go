// Package fred provides access to the FRED REST API.
//
// The client is the single throttling point for the provider: every request
// first waits on the shared rate limiter, then runs with bounded retries.
// HTTP 429 and the transient 5xx statuses (500, 502, 503, 504), along with
// transport errors, back off exponentially with jitter; any other non-2xx
// status fails immediately. Responses are JSON (file_type=json is appended to
// every request along with the API key).
package fred
