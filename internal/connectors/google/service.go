package google

import (
	"context"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/implkit/internal/core/ports/driven"
)

// NewGmailService creates a Gmail API service authenticated through the
// token provider's gmail scope. Extra options are appended, so tests can
// point the service at a local endpoint.
func NewGmailService(ctx context.Context, provider driven.TokenProvider, opts ...option.ClientOption) (*gmail.Service, error) {
	ts := NewTokenSource(context.WithoutCancel(ctx), provider, driven.ScopeGmail)
	all := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	return gmail.NewService(ctx, all...)
}
