package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/logger"
)

// DefaultRefreshBuffer is how long before expiry a cached token is
// considered stale.
const DefaultRefreshBuffer = 5 * time.Minute

// defaultLifetime applies to tokens that carry no expiry.
const defaultLifetime = time.Hour

// Ensure TokenCache implements the TokenProvider interface.
var _ driven.TokenProvider = (*TokenCache)(nil)

// Fetcher obtains a fresh token for one scope.
type Fetcher interface {
	Fetch(ctx context.Context) (*oauth2.Token, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (*oauth2.Token, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) (*oauth2.Token, error) {
	return f(ctx)
}

// TokenCache serves bearer tokens per scope, fetching a new one when the
// cached token is within the refresh buffer of its expiry.
type TokenCache struct {
	fetchers      map[string]Fetcher
	refreshBuffer time.Duration
	now           func() time.Time

	mu     sync.Mutex
	scopes map[string]*scopeToken
}

// scopeToken guards one scope so a slow fetch does not block the others.
type scopeToken struct {
	mu        sync.RWMutex
	token     string
	refreshAt time.Time
}

// Option configures a TokenCache.
type Option func(*TokenCache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCache) { c.now = now }
}

// WithRefreshBuffer overrides DefaultRefreshBuffer.
func WithRefreshBuffer(d time.Duration) Option {
	return func(c *TokenCache) { c.refreshBuffer = d }
}

// NewTokenCache creates a cache over the given per-scope fetchers.
func NewTokenCache(fetchers map[string]Fetcher, opts ...Option) *TokenCache {
	c := &TokenCache{
		fetchers:      make(map[string]Fetcher, len(fetchers)),
		refreshBuffer: DefaultRefreshBuffer,
		now:           time.Now,
		scopes:        make(map[string]*scopeToken),
	}
	for scope, f := range fetchers {
		if f != nil {
			c.fetchers[scope] = f
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether scope has a fetcher.
func (c *TokenCache) Configured(scope string) bool {
	_, ok := c.fetchers[scope]
	return ok
}

// GetToken returns a valid access token for scope, fetching if necessary.
func (c *TokenCache) GetToken(ctx context.Context, scope string) (string, error) {
	fetcher, ok := c.fetchers[scope]
	if !ok {
		return "", fmt.Errorf("%w: no credentials for %q", domain.ErrNotConfigured, scope)
	}
	st := c.scope(scope)

	// Fast path: check cache with read lock
	st.mu.RLock()
	if st.token != "" && c.now().Before(st.refreshAt) {
		token := st.token
		st.mu.RUnlock()
		return token, nil
	}
	st.mu.RUnlock()

	// Slow path: need refresh, acquire write lock
	st.mu.Lock()
	defer st.mu.Unlock()

	// Double-check after acquiring write lock
	if st.token != "" && c.now().Before(st.refreshAt) {
		return st.token, nil
	}

	fetchedAt := c.now()
	tok, err := fetcher.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrTokenRefreshFailed, scope, err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", fmt.Errorf("%w: %s: empty access token", domain.ErrTokenRefreshFailed, scope)
	}

	st.token = tok.AccessToken
	if tok.Expiry.IsZero() {
		st.refreshAt = fetchedAt.Add(defaultLifetime - c.refreshBuffer)
	} else {
		st.refreshAt = tok.Expiry.Add(-c.refreshBuffer)
	}
	logger.Debug("token: fetched %s token, refresh at %s", scope, st.refreshAt.Format(time.RFC3339))
	return st.token, nil
}

// Invalidate drops the cached token for scope.
func (c *TokenCache) Invalidate(scope string) {
	st := c.scope(scope)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.token = ""
	st.refreshAt = time.Time{}
}

func (c *TokenCache) scope(name string) *scopeToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.scopes[name]
	if !ok {
		st = &scopeToken{}
		c.scopes[name] = st
	}
	return st
}
