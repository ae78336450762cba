// Package pdf extracts page text from PDF documents using the poppler
// command line tools (pdftotext, pdfinfo).
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/normalisers/html"
)

// MaxPageChars bounds the text kept per page.
const MaxPageChars = 20_000

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found: install poppler-utils")

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		if name == "pdftotext" {
			return nil, ErrPDFToolNotFound
		}
		return nil, fmt.Errorf("%s not found: %w", name, err)
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct {
	runner CommandRunner
	now    func() time.Time
}

// New creates a PDF normaliser that shells out to poppler.
func New() *Normaliser {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF normaliser with a custom command runner.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{runner: runner, now: time.Now}
}

// CheckAvailable reports whether pdftotext is on PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions explains how to install the PDF tooling.
func InstallInstructions() string {
	return `PDF extraction requires pdftotext (part of poppler).

Install it with:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise produces one record per selected page.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	path, cleanup, err := inputFile(raw)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	out, err := n.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, ErrPDFToolNotFound) {
			return nil, fmt.Errorf("%w\n\n%s", err, InstallInstructions())
		}
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	pages := splitPages(string(out))

	result := domain.NewExtractionResult(domain.SourcePDF, n.now())
	info := n.documentInfo(ctx, path)

	selected, beyond := SelectPages(raw.Options.Pages, len(pages))
	if len(beyond) > 0 {
		result.Warn("pages %s are beyond the end of the document (%d pages)", joinInts(beyond), len(pages))
	}

	var layout []string
	if raw.Options.IncludeTables {
		layoutOut, err := n.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
		if err != nil {
			result.Warn("table extraction failed, returning text only: %v", err)
		} else {
			layout = splitPages(string(layoutOut))
		}
	}

	title := info.title
	if title == "" && len(pages) > 0 {
		title = extractTitle(pages[0], raw.URI)
	} else if title == "" {
		title = html.TitleFromURI(raw.URI)
	}

	for _, p := range selected {
		text := strings.TrimSpace(pages[p-1])
		chars := utf8.RuneCountInString(text)
		if chars > MaxPageChars {
			text = domain.Truncate(text, MaxPageChars)
			result.Warn("page %d truncated to %d of %d characters", p, MaxPageChars, chars)
		}

		rec := domain.RecordOf(
			"page", p,
			"title", title,
		)
		if info.author != "" {
			rec.Set("author", info.author)
		}
		rec.Set("text", text)
		rec.Set("characters", chars)
		if layout != nil {
			var tables []any
			if p-1 < len(layout) {
				tables = DetectTables(layout[p-1])
			}
			if tables == nil {
				tables = []any{}
			}
			rec.Set("tables", tables)
		}
		result.Add(rec)
	}

	result.Finalize()
	return result, nil
}

// inputFile returns a path pdftotext can read. Raw content is spilled to
// a temporary file; with no content the URI is used as-is.
func inputFile(raw *domain.RawDocument) (string, func(), error) {
	if len(raw.Content) == 0 {
		if raw.URI == "" {
			return "", nil, fmt.Errorf("%w: empty PDF document", domain.ErrInvalidInput)
		}
		return raw.URI, func() {}, nil
	}

	f, err := os.CreateTemp("", "implkit-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := f.Write(raw.Content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), cleanup, nil
}

// splitPages splits pdftotext output on form feeds. The feed after the
// last page does not start a new page.
func splitPages(out string) []string {
	out = strings.TrimSuffix(out, "\f")
	if strings.TrimSpace(out) == "" && !strings.Contains(out, "\f") {
		return nil
	}
	return strings.Split(out, "\f")
}

type docInfo struct {
	title  string
	author string
}

// documentInfo reads title and author with pdfinfo. Failures are ignored.
func (n *Normaliser) documentInfo(ctx context.Context, path string) docInfo {
	out, err := n.runner.Run(ctx, "pdfinfo", "-enc", "UTF-8", path)
	if err != nil {
		return docInfo{}
	}
	var info docInfo
	for _, line := range strings.Split(string(out), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Title":
			info.title = value
		case "Author":
			info.author = value
		}
	}
	return info
}

// extractTitle uses the first short non-empty line, falling back to the
// file name.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "\x00"))
		if line != "" && len(line) < 200 {
			return line
		}
	}
	return html.TitleFromURI(uri)
}
