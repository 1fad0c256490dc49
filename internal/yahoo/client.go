package yahoo

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/market-pipeline/internal/ratelimit"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

// Client provides access to the market-data provider API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
	userAgent  string

	maxRetries  int
	backoffBase time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new chart API client. The limiter must be the one
// shared by every caller targeting this provider.
func NewClient(baseURL string, limiter *ratelimit.Limiter, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		limiter: limiter,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:      slog.Default(),
		userAgent:   defaultUserAgent,
		maxRetries:  3,
		backoffBase: 500 * time.Millisecond,
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
