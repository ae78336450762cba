// Package code normalises source files into declaration, import, export,
// comment or line records using the codescan line scanner.
package code

import (
	"context"
	"time"

	"github.com/custodia-labs/implkit/internal/codescan"
	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
)

// MIMEType routes a document to this normaliser whatever its extension.
const MIMEType = "text/x-source"

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles source code documents.
type Normaliser struct {
	now func() time.Time
}

// New creates a new source code normaliser.
func New() *Normaliser {
	return &Normaliser{now: time.Now}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		MIMEType,
		"text/typescript",
		"application/typescript",
		"text/javascript",
		"application/javascript",
		"text/x-python",
		"text/x-csharp",
		"text/x-java",
		"text/x-go",
		"text/x-rust",
		"text/x-xpp",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise scans the document text. The language comes from
// Options.Language when recognised, else from the URI extension.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	mode := raw.Options.Mode
	if mode == "" {
		mode = domain.ModeStructure
	}
	lang := codescan.DetectLanguage(raw.Options.Language, raw.URI)

	scan := codescan.Scan(string(raw.Content), lang, mode)

	result := domain.NewExtractionResult(domain.SourceCode, n.now())
	if scan.Truncated {
		result.Warn("showing first %d of %d lines", codescan.MaxFullLines, scan.TotalLines)
	}
	for _, rec := range scan.Records {
		result.Add(rec.ToRecord())
	}
	result.FieldHints = fieldHints(lang, mode)
	result.Finalize()
	return result, nil
}

func fieldHints(lang domain.Language, mode domain.CodeMode) map[string]string {
	hints := map[string]string{
		"type":      "record kind (" + string(mode) + " mode)",
		"name":      "declared or referenced name",
		"line":      "1-based line number in the " + string(lang) + " source",
		"signature": "trimmed source line",
	}
	if mode == domain.ModeComments {
		hints["endLine"] = "last line of a block comment"
		hints["body"] = "comment text"
	}
	return hints
}
