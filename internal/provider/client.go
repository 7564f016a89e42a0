package provider

import (
	"log/slog"
	"net/http"
	"time"
)

// Client downloads daily OHLCV history from the upstream market-data provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries    int
	retryBackoff  time.Duration
	backoffFactor float64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a provider client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:        slog.Default(),
		maxRetries:    6,
		retryBackoff:  time.Second,
		backoffFactor: 1.5,
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

// WithRetries sets the retry count, initial backoff, and backoff factor.
func WithRetries(max int, backoff time.Duration, factor float64) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
		if factor >= 1 {
			c.backoffFactor = factor
		}
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
