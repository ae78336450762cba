package structured

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/records"
)

// MaxRecords caps the records produced from one document.
const MaxRecords = 500

var yamlTypes = map[string]bool{
	"application/yaml":   true,
	"application/x-yaml": true,
	"text/yaml":          true,
	"text/x-yaml":        true,
}

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles JSON and YAML documents.
type Normaliser struct {
	now func() time.Time
}

// New creates a new structured data normaliser.
func New() *Normaliser {
	return &Normaliser{now: time.Now}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"application/json",
		"text/json",
		"application/yaml",
		"application/x-yaml",
		"text/yaml",
		"text/x-yaml",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise parses the document, applies the optional path and flatten
// options and splits the selected node into records.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := domain.SourceJSON
	var (
		value any
		err   error
	)
	if yamlTypes[strings.ToLower(raw.MIMEType)] {
		source = domain.SourceYAML
		value, err = ParseYAML(raw.Content)
	} else {
		value, err = domain.ParseJSON(raw.Content)
	}
	if err != nil {
		return nil, err
	}

	if path := strings.TrimSpace(raw.Options.Path); path != "" {
		selected, ok := records.Resolve(value, path)
		if !ok {
			return nil, fmt.Errorf("%w: path %q not found in document", domain.ErrNotFound, path)
		}
		value = selected
	}

	result := domain.NewExtractionResult(source, n.now())
	recs := ToRecords(value)
	if len(recs) > MaxRecords {
		result.Warn("showing first %d of %d records", MaxRecords, len(recs))
		recs = recs[:MaxRecords]
	}
	for _, rec := range recs {
		if raw.Options.Flatten {
			rec = records.Flatten(rec, "")
		}
		result.Add(rec)
	}
	result.Finalize()
	return result, nil
}

// ToRecords splits a value into records: sequence elements become one
// record each, an object one record and anything else a {value} record.
func ToRecords(value any) []*domain.Record {
	if seq, ok := domain.AsSequence(value); ok {
		out := make([]*domain.Record, 0, len(seq))
		for _, el := range seq {
			out = append(out, asRecord(el))
		}
		return out
	}
	return []*domain.Record{asRecord(value)}
}

func asRecord(v any) *domain.Record {
	if obj, ok := domain.AsObject(v); ok {
		return obj
	}
	return domain.RecordOf("value", v)
}

var drivePath = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// LooksLikePath reports whether s names a file rather than holding inline
// JSON: a leading "/", "~" or a drive letter such as "C:\" or "C:/".
func LooksLikePath(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "~") || drivePath.MatchString(s)
}

// MIMETypeForPath picks the document type from a file extension.
func MIMETypeForPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return "application/yaml"
	}
	return "application/json"
}
