package domain

import (
	"fmt"
	"strings"
	"time"
)

// Source identifies where an extraction result came from.
type Source string

// Known extraction sources.
const (
	SourcePDF       Source = "pdf"
	SourceEmail     Source = "email"
	SourceMail      Source = "mail"
	SourceDataverse Source = "dataverse"
	SourceJSON      Source = "json"
	SourceYAML      Source = "yaml"
	SourceCode      Source = "code"
	SourceHTML      Source = "html"
	SourceText      Source = "text"
	SourceMarkdown  Source = "markdown"
	SourceDocx      Source = "docx"
	SourceStore     Source = "store"
	SourceInline    Source = "inline"
)

// Format is a textual output encoding.
type Format string

// The closed set of output encodings.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatSummary  Format = "summary"
	FormatKeyValue Format = "key-value"
	FormatCSV      Format = "csv"
)

// Formats lists every supported output format.
func Formats() []Format {
	return []Format{FormatJSON, FormatMarkdown, FormatSummary, FormatKeyValue, FormatCSV}
}

// ParseFormat validates a format name. Matching ignores case and surrounding space.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: format %q (expected one of json, markdown, summary, key-value, csv)",
		ErrUnsupportedType, s)
}

// Metadata is the envelope describing a batch of records.
type Metadata struct {
	Source       Source    `json:"source"`
	ExtractedAt  time.Time `json:"extractedAt"`
	OutputFormat Format    `json:"outputFormat,omitempty"`
	RecordCount  int       `json:"recordCount"`
	Warnings     []string  `json:"warnings,omitempty"`
	TargetTool   string    `json:"targetTool,omitempty"`
}

// ExtractionResult is the uniform output of every normaliser.
// It lives for a single tool call.
type ExtractionResult struct {
	Metadata   Metadata
	Records    []*Record
	FieldHints map[string]string
}

// NewExtractionResult starts an empty result for source.
func NewExtractionResult(source Source, extractedAt time.Time) *ExtractionResult {
	return &ExtractionResult{
		Metadata: Metadata{
			Source:      source,
			ExtractedAt: extractedAt,
		},
		Records: make([]*Record, 0),
	}
}

// Add appends a record.
func (r *ExtractionResult) Add(rec *Record) {
	r.Records = append(r.Records, rec)
}

// Warn appends a non-fatal warning.
func (r *ExtractionResult) Warn(format string, args ...any) {
	r.Metadata.Warnings = append(r.Metadata.Warnings, fmt.Sprintf(format, args...))
}

// Finalize syncs RecordCount with the record slice.
func (r *ExtractionResult) Finalize() {
	r.Metadata.RecordCount = len(r.Records)
}
