package connectors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

type mockTokens struct {
	mu          sync.Mutex
	token       string
	invalidated []string
}

func (m *mockTokens) GetToken(_ context.Context, _ string) (string, error) {
	return m.token, nil
}

func (m *mockTokens) Invalidate(scope string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, scope)
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.Equal(t, "odata.maxpagesize=10", r.Header.Get("Prefer"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("dataverse", "dataverse", &mockTokens{token: "abc"}, WithHTTPClient(srv.Client()))
	body, err := c.Get(context.Background(), srv.URL, http.Header{"Prefer": {"odata.maxpagesize=10"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestClient_Get_UnauthorizedInvalidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &mockTokens{token: "stale"}
	c := NewClient("graph", "graph", tokens, WithHTTPClient(srv.Client()))
	_, err := c.Get(context.Background(), srv.URL, nil)

	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, []string{"graph"}, tokens.invalidated)
}

func TestClient_Get_UpstreamError(t *testing.T) {
	long := strings.Repeat("x", 800)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(long))
	}))
	defer srv.Close()

	c := NewClient("dataverse", "dataverse", &mockTokens{token: "t"}, WithHTTPClient(srv.Client()))
	_, err := c.Get(context.Background(), srv.URL, nil)

	var upErr *domain.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusBadRequest, upErr.Status)
	assert.Len(t, upErr.Body, 500)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.False(t, IsAuthError(err))
}

func TestClient_Get_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("graph", "graph", &mockTokens{token: "t"}, WithHTTPClient(srv.Client()))
	_, err := c.Get(context.Background(), srv.URL, nil)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}
