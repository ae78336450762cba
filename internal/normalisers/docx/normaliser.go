// Package docx provides a Normaliser for Word (.docx) documents, emitting
// one record per non-empty paragraph.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/normalisers/html"
)

// MIMEType is the Office Open XML word processing type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// MaxParagraphs caps the records produced from one document.
const MaxParagraphs = 1000

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct {
	now func() time.Time
}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{now: time.Now}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise reads word/document.xml and emits {document, paragraph, style, text}
// records. document is the core.xml title or, failing that, the file name.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a docx archive: %v", domain.ErrInvalidInput, raw.URI, err)
	}

	body, err := readPart(reader, "word/document.xml")
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("%w: %s has no word/document.xml", domain.ErrInvalidInput, raw.URI)
	}
	paragraphs, err := parseDocumentXML(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse document.xml: %v", domain.ErrInvalidInput, err)
	}

	title := extractTitle(reader, raw.URI)
	result := domain.NewExtractionResult(domain.SourceDocx, n.now())
	if len(paragraphs) > MaxParagraphs {
		result.Warn("showing first %d of %d paragraphs", MaxParagraphs, len(paragraphs))
		paragraphs = paragraphs[:MaxParagraphs]
	}
	for i, p := range paragraphs {
		result.Add(domain.RecordOf(
			"document", title,
			"paragraph", i+1,
			"style", p.style,
			"text", p.text,
		))
	}

	result.FieldHints = map[string]string{
		"document":  "document title",
		"paragraph": "1-based index among non-empty paragraphs",
		"style":     "Word paragraph style ID, e.g. Heading1; empty for body text",
	}
	result.Finalize()
	return result, nil
}

// readPart returns the named archive member, or nil when absent.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, name, err)
		}
		return content, nil
	}
	return nil, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraphXML `xml:"p"`
	} `xml:"body"`
}

type paragraphXML struct {
	Style struct {
		Val string `xml:"val,attr"`
	} `xml:"pPr>pStyle"`
	Runs []struct {
		Text []struct {
			Content string `xml:",chardata"`
		} `xml:"t"`
	} `xml:"r"`
}

type paragraph struct {
	style string
	text  string
}

// parseDocumentXML returns the non-empty body paragraphs in order.
func parseDocumentXML(content []byte) ([]paragraph, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	var out []paragraph
	for _, p := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}
		out = append(out, paragraph{style: p.Style.Val, text: text})
	}
	return out, nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle reads docProps/core.xml or falls back to the file name.
func extractTitle(reader *zip.Reader, uri string) string {
	content, err := readPart(reader, "docProps/core.xml")
	if err == nil && content != nil {
		var core coreXML
		if err := xml.Unmarshal(content, &core); err == nil && strings.TrimSpace(core.Title) != "" {
			return strings.TrimSpace(core.Title)
		}
	}
	return html.TitleFromURI(uri)
}
