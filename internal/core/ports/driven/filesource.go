package driven

import (
	"context"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// FileSource reads a local file into a RawDocument for normalisation.
type FileSource interface {
	// Read loads path. The returned document has URI set to the resolved
	// absolute path; MIMEType is left for the registry to derive.
	Read(ctx context.Context, path string) (*domain.RawDocument, error)
}
