package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingFetcher struct {
	mu       sync.Mutex
	calls    int
	lifetime time.Duration
	clock    *fakeClock
	err      error
}

func (f *countingFetcher) Fetch(context.Context) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	tok := &oauth2.Token{AccessToken: "token-" + string(rune('0'+f.calls))}
	if f.lifetime > 0 {
		tok.Expiry = f.clock.Now().Add(f.lifetime)
	}
	return tok, nil
}

func (f *countingFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestCache(t *testing.T, f Fetcher) (*TokenCache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	if cf, ok := f.(*countingFetcher); ok {
		cf.clock = clock
	}
	cache := NewTokenCache(map[string]Fetcher{"dataverse": f}, WithClock(clock.Now))
	return cache, clock
}

func TestTokenCache_CachesUntilRefreshBuffer(t *testing.T) {
	fetcher := &countingFetcher{lifetime: 3600 * time.Second}
	cache, clock := newTestCache(t, fetcher)
	ctx := context.Background()

	tok, err := cache.GetToken(ctx, "dataverse")
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)

	clock.Advance(3299 * time.Second)
	tok, err = cache.GetToken(ctx, "dataverse")
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)
	assert.Equal(t, 1, fetcher.Calls())

	clock.Advance(time.Second)
	tok, err = cache.GetToken(ctx, "dataverse")
	require.NoError(t, err)
	assert.Equal(t, "token-2", tok)
	assert.Equal(t, 2, fetcher.Calls())
}

func TestTokenCache_NoExpiryUsesDefaultLifetime(t *testing.T) {
	fetcher := &countingFetcher{}
	cache, clock := newTestCache(t, fetcher)
	ctx := context.Background()

	_, err := cache.GetToken(ctx, "dataverse")
	require.NoError(t, err)

	clock.Advance(54 * time.Minute)
	_, err = cache.GetToken(ctx, "dataverse")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.Calls())

	clock.Advance(time.Minute)
	_, err = cache.GetToken(ctx, "dataverse")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.Calls())
}

func TestTokenCache_Invalidate(t *testing.T) {
	fetcher := &countingFetcher{lifetime: time.Hour}
	cache, _ := newTestCache(t, fetcher)
	ctx := context.Background()

	_, err := cache.GetToken(ctx, "dataverse")
	require.NoError(t, err)

	cache.Invalidate("dataverse")
	tok, err := cache.GetToken(ctx, "dataverse")
	require.NoError(t, err)
	assert.Equal(t, "token-2", tok)
}

func TestTokenCache_UnknownScope(t *testing.T) {
	cache, _ := newTestCache(t, &countingFetcher{})

	_, err := cache.GetToken(context.Background(), "graph")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.False(t, cache.Configured("graph"))
	assert.True(t, cache.Configured("dataverse"))
}

func TestTokenCache_FetchError(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("invalid_client")}
	cache, _ := newTestCache(t, fetcher)

	_, err := cache.GetToken(context.Background(), "dataverse")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTokenRefreshFailed)
	assert.Contains(t, err.Error(), "invalid_client")
}

func TestTokenCache_EmptyToken(t *testing.T) {
	cache, _ := newTestCache(t, FetcherFunc(func(context.Context) (*oauth2.Token, error) {
		return &oauth2.Token{}, nil
	}))

	_, err := cache.GetToken(context.Background(), "dataverse")
	assert.ErrorIs(t, err, domain.ErrTokenRefreshFailed)
}

func TestTokenCache_ConcurrentCallersShareFetch(t *testing.T) {
	fetcher := &countingFetcher{lifetime: time.Hour}
	cache, _ := newTestCache(t, fetcher)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.GetToken(context.Background(), "dataverse")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fetcher.Calls())
}
