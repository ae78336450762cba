package connectors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxResponseBytes bounds a single response body.
	maxResponseBytes = 32 << 20
)

// RateLimitConfig holds rate limiting configuration for a remote API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimit is conservative for both Dataverse and Graph service
// protection limits.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 5, BurstSize: 10}

// Client performs authenticated GET requests against one remote API.
type Client struct {
	service string
	scope   string
	tokens  driven.TokenProvider
	http    *http.Client
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit replaces DefaultRateLimit.
func WithRateLimit(cfg RateLimitConfig) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
	}
}

// NewClient creates a client for service, authenticating with tokens for scope.
func NewClient(service, scope string, tokens driven.TokenProvider, opts ...ClientOption) *Client {
	c := &Client{
		service: service,
		scope:   scope,
		tokens:  tokens,
		http:    &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit.RequestsPerSecond), DefaultRateLimit.BurstSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the API name used in errors.
func (c *Client) Service() string {
	return c.service
}

// Get fetches url and returns the response body of a 2xx answer.
// A 401 invalidates the cached token for the client's scope.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	token, err := c.tokens.GetToken(ctx, c.scope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.service, err)
	}

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	logger.Debug("%s: GET %s", c.service, url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", c.service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", c.service, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		c.tokens.Invalidate(c.scope)
		logger.Warn("%s: 401, invalidated %s token", c.service, c.scope)
	case resp.StatusCode == http.StatusTooManyRequests:
		c.backoff(resp.Header.Get("Retry-After"))
		return nil, fmt.Errorf("%w: %w", domain.ErrRateLimited,
			domain.NewUpstreamError(c.service, resp.StatusCode, string(body)))
	}
	return nil, domain.NewUpstreamError(c.service, resp.StatusCode, string(body))
}

// wait respects any Retry-After backoff, then the token bucket.
func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	retryAt := c.retryAt
	c.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return c.limiter.Wait(ctx)
}

// backoff records a Retry-After answer from a 429 response.
func (c *Client) backoff(retryAfter string) {
	secs, err := strconv.Atoi(retryAfter)
	if err != nil || secs <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retryAt = time.Now().Add(time.Duration(secs) * time.Second)
}

// IsAuthError reports whether err came from a rejected token.
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrAuthInvalid)
}
