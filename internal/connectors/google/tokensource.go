package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/implkit/internal/core/ports/driven"
)

// TokenSourceAdapter adapts the TokenProvider port to oauth2.TokenSource.
// This lets Google API clients share the process-wide token cache.
type TokenSourceAdapter struct {
	provider driven.TokenProvider
	scope    string
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource serving tokens for scope.
// The returned TokenSource can be used with option.WithTokenSource() when
// creating Google API services.
func NewTokenSource(ctx context.Context, provider driven.TokenProvider, scope string) oauth2.TokenSource {
	return &TokenSourceAdapter{
		provider: provider,
		scope:    scope,
		ctx:      ctx,
	}
}

// Token implements oauth2.TokenSource interface.
// Called by Google API clients when they need an access token.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.GetToken(t.ctx, t.scope)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
