package fred

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/market-pipeline/internal/ratelimit"
)

// Client provides access to the FRED REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger

	maxRetries  int
	backoffBase time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. The limiter must be the one shared
// by every caller targeting this provider; pass nil only when throttling is
// handled elsewhere (tests).
func NewClient(baseURL, apiKey string, limiter *ratelimit.Limiter, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: limiter,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:      slog.Default(),
		maxRetries:  6,
		backoffBase: 700 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry budget and backoff base.
func WithRetries(max int, backoffBase time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.backoffBase = backoffBase
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
