// Package markdown provides a Normaliser that splits Markdown documents
// into one record per heading section.
package markdown

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
)

// MaxSections caps the records produced from one document.
const MaxSections = 500

var (
	heading      = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	codeBlock    = regexp.MustCompile("(?s)```.*?```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	blockquote   = regexp.MustCompile(`(?m)^>\s*`)
	hr           = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	emphasis     = regexp.MustCompile(`(\*\*|__|\*|_)([^*_]+)(\*\*|__|\*|_)`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct {
	now func() time.Time
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{now: time.Now}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

type section struct {
	heading string
	level   int
	body    []string
}

// Normalise emits one {heading, level, text} record per section. Text
// before the first heading becomes a level 0 section named after the file.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	result := domain.NewExtractionResult(domain.SourceMarkdown, n.now())
	sections := splitSections(raw.Content, titleFromURI(raw.URI))
	if len(sections) > MaxSections {
		result.Warn("showing first %d of %d sections", MaxSections, len(sections))
		sections = sections[:MaxSections]
	}

	for _, s := range sections {
		text := stripMarkdown(strings.Join(s.body, "\n"))
		if s.level == 0 && text == "" {
			continue
		}
		result.Add(domain.RecordOf(
			"heading", s.heading,
			"level", s.level,
			"text", text,
		))
	}
	result.Finalize()
	return result, nil
}

// splitSections cuts the document at ATX headings outside fenced code.
func splitSections(content []byte, preamble string) []section {
	sections := []section{{heading: preamble}}
	inFence := false

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		if !inFence {
			if m := heading.FindStringSubmatch(line); m != nil {
				sections = append(sections, section{heading: m[2], level: len(m[1])})
				continue
			}
		}
		last := &sections[len(sections)-1]
		last.body = append(last.body, line)
	}
	return sections
}

// titleFromURI derives a readable name from the file name.
func titleFromURI(uri string) string {
	filename := filepath.Base(uri)
	if filename == "." || filename == "/" {
		return ""
	}
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// stripMarkdown removes common markdown formatting, keeping the text.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = emphasis.ReplaceAllString(content, "$2")
	content = blockquote.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = blankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
