package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		check(r)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "issued",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientCredentials_Fetch(t *testing.T) {
	srv := tokenServer(t, func(r *http.Request) {
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "app", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "https://org.crm.dynamics.com/.default", r.PostForm.Get("scope"))
	})

	cfg := AzureADConfig{TenantID: "tenant", ClientID: "app", ClientSecret: "secret", TokenURL: srv.URL}
	f := ClientCredentials(cfg, DataverseScope("https://org.crm.dynamics.com/"), srv.Client())

	tok, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issued", tok.AccessToken)
	assert.False(t, tok.Expiry.IsZero())
}

func TestRefreshToken_Fetch(t *testing.T) {
	srv := tokenServer(t, func(r *http.Request) {
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "stored", r.PostForm.Get("refresh_token"))
	})

	cfg := GoogleConfig{ClientID: "id", ClientSecret: "secret", RefreshToken: "stored", TokenURL: srv.URL}
	tok, err := RefreshToken(cfg, srv.Client()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issued", tok.AccessToken)
}

func TestConfigComplete(t *testing.T) {
	assert.False(t, AzureADConfig{TenantID: "t", ClientID: "c"}.Complete())
	assert.True(t, AzureADConfig{TenantID: "t", ClientID: "c", ClientSecret: "s"}.Complete())
	assert.False(t, GoogleConfig{ClientID: "c", ClientSecret: "s"}.Complete())
	assert.True(t, GoogleConfig{ClientID: "c", ClientSecret: "s", RefreshToken: "r"}.Complete())
}

func TestDataverseScope(t *testing.T) {
	assert.Equal(t, "https://x.crm.dynamics.com/.default", DataverseScope("https://x.crm.dynamics.com"))
	assert.Equal(t, "https://x.crm.dynamics.com/.default", DataverseScope("https://x.crm.dynamics.com/"))
}
