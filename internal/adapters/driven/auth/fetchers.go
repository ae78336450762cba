package auth

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/endpoints"
)

// Well-known scopes.
const (
	GraphScope = "https://graph.microsoft.com/.default"
	GmailScope = "https://www.googleapis.com/auth/gmail.readonly"
)

// AzureADConfig describes an app registration using the client
// credentials grant.
type AzureADConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string

	// TokenURL overrides the tenant token endpoint.
	TokenURL string
}

// Complete reports whether every required value is set.
func (c AzureADConfig) Complete() bool {
	return c.TenantID != "" && c.ClientID != "" && c.ClientSecret != ""
}

// DataverseScope is the default scope of a Dataverse environment URL.
func DataverseScope(envURL string) string {
	return strings.TrimRight(envURL, "/") + "/.default"
}

// ClientCredentials fetches app-only tokens from Azure AD for scope.
func ClientCredentials(cfg AzureADConfig, scope string, client *http.Client) Fetcher {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = endpoints.AzureAD(cfg.TenantID).TokenURL
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{scope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return FetcherFunc(func(ctx context.Context) (*oauth2.Token, error) {
		return cc.Token(withClient(ctx, client))
	})
}

// GoogleConfig describes an installed-app OAuth client with a stored
// refresh token.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// TokenURL overrides the Google token endpoint.
	TokenURL string
}

// Complete reports whether every required value is set.
func (c GoogleConfig) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// RefreshToken exchanges a stored refresh token for access tokens.
func RefreshToken(cfg GoogleConfig, client *http.Client) Fetcher {
	endpoint := endpoints.Google
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{GmailScope},
	}
	return FetcherFunc(func(ctx context.Context) (*oauth2.Token, error) {
		src := oc.TokenSource(withClient(ctx, client), &oauth2.Token{RefreshToken: cfg.RefreshToken})
		return src.Token()
	})
}

func withClient(ctx context.Context, client *http.Client) context.Context {
	if client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}
