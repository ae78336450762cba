// Package plaintext provides the fallback Normaliser for text files that
// have no specialised handling.
package plaintext

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/normalisers/html"
)

// MaxChars is the text size kept in the record; longer files are truncated
// with a warning.
const MaxChars = 100_000

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct {
	now func() time.Time
}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{now: time.Now}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/csv",
		"text/x-log",
		"application/xml",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise wraps the file text in a single record.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	result := domain.NewExtractionResult(domain.SourceText, n.now())

	content := string(raw.Content)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "�")
		result.Warn("file contains invalid UTF-8; replaced invalid bytes")
	}
	lines := 0
	if content != "" {
		lines = strings.Count(content, "\n") + 1
	}
	chars := utf8.RuneCountInString(content)
	if chars > MaxChars {
		content = domain.Truncate(content, MaxChars)
		result.Warn("text truncated to %d of %d characters", MaxChars, chars)
	}

	result.Add(domain.RecordOf(
		"file", raw.URI,
		"title", extractTitle(raw),
		"lines", lines,
		"characters", chars,
		"text", content,
	))
	result.Finalize()
	return result, nil
}

// extractTitle checks metadata for title first, then falls back to URI.
func extractTitle(raw *domain.RawDocument) string {
	if raw.Metadata != nil {
		if title, ok := raw.Metadata["title"].(string); ok && title != "" {
			return title
		}
	}
	return html.TitleFromURI(raw.URI)
}
