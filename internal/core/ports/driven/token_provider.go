package driven

import "context"

// Credential scope names shared by the token cache and the remote clients.
const (
	ScopeDataverse = "dataverse"
	ScopeGraph     = "graph"
	ScopeGmail     = "gmail"
)

// TokenProvider provides bearer tokens for authenticated API calls.
// One instance is shared by every tool call in the process; tokens are
// cached per scope name and refreshed transparently.
type TokenProvider interface {
	// GetToken returns a valid access token for the named scope.
	GetToken(ctx context.Context, scope string) (string, error)

	// Invalidate drops the cached token for scope, forcing the next
	// GetToken to fetch a fresh one. Called after an HTTP 401.
	Invalidate(scope string)
}
