package normalisers

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches documents to the highest priority normaliser that
// supports their MIME type.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[string][]driven.Normaliser
}

// NewRegistry creates a registry pre-populated with the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{normalisers: make(map[string][]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser for every MIME type it supports.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mt := range n.SupportedMIMETypes() {
		mt = strings.ToLower(mt)
		list := append(r.normalisers[mt], n)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.normalisers[mt] = list
	}
}

// Normalise picks a normaliser for raw. When the MIME type is empty it is
// derived from the URI extension.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	mt := MIMEType(raw)
	r.mu.RLock()
	list := r.normalisers[mt]
	r.mu.RUnlock()

	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, mt)
	}
	return list[0].Normalise(ctx, raw)
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.normalisers))
	for mt := range r.normalisers {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}

// extensionTypes covers extensions the mime package does not know on
// every platform.
var extensionTypes = map[string]string{
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".eml":      "message/rfc822",
	".pdf":      "application/pdf",
	".json":     "application/json",
	".yaml":     "application/yaml",
	".yml":      "application/yaml",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".csv":      "text/csv",
	".log":      "text/x-log",
	".txt":      "text/plain",
	".htm":      "text/html",
	".html":     "text/html",
	".xml":      "application/xml",
	".ts":       "text/typescript",
	".tsx":      "text/typescript",
	".js":       "text/javascript",
	".jsx":      "text/javascript",
	".mjs":      "text/javascript",
	".py":       "text/x-python",
	".cs":       "text/x-csharp",
	".java":     "text/x-java",
	".go":       "text/x-go",
	".rs":       "text/x-rust",
	".xpp":      "text/x-xpp",
}

// MIMEType returns the lower-cased media type of raw without parameters,
// falling back to the URI extension.
func MIMEType(raw *domain.RawDocument) string {
	if raw.MIMEType != "" {
		if mt, _, err := mime.ParseMediaType(raw.MIMEType); err == nil {
			return strings.ToLower(mt)
		}
		return strings.ToLower(raw.MIMEType)
	}

	ext := strings.ToLower(filepath.Ext(raw.URI))
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		if parsed, _, err := mime.ParseMediaType(mt); err == nil {
			return parsed
		}
	}
	return "text/plain"
}
