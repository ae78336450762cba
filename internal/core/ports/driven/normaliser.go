package driven

import (
	"context"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// Normaliser transforms raw documents into uniform records.
// Each normaliser handles specific MIME types (e.g., PDF, JSON).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Specialised normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw document into an extraction result.
	// Non-fatal problems are reported as warnings on the result.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error)
}
