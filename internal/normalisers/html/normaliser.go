package html

import (
	"context"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct {
	now func() time.Time
}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{now: time.Now}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts an HTML document into a single record holding its
// title and plain text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rawContent := string(raw.Content)
	title := extractHTMLTitle(rawContent, raw.URI)
	text := ToPlainText(removeNonContent(rawContent))

	result := domain.NewExtractionResult(domain.SourceHTML, n.now())
	result.Add(domain.RecordOf(
		"file", raw.URI,
		"title", title,
		"text", text,
		"characters", len([]rune(text)),
	))
	result.Finalize()
	return result, nil
}

// Blocks whose text is never content.
var (
	titleTag     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag       = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
)

func removeNonContent(content string) string {
	for _, re := range []*regexp.Regexp{scriptTag, styleTag, noscriptTag, headTag, svgTag, htmlComments} {
		content = re.ReplaceAllString(content, "")
	}
	return content
}

// extractHTMLTitle extracts a title from the HTML content or falls back to filename.
func extractHTMLTitle(content, uri string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) > 1 {
		title := strings.TrimSpace(html.UnescapeString(matches[1]))
		if title != "" {
			return title
		}
	}
	return TitleFromURI(uri)
}

// TitleFromURI derives a readable title from a file name.
func TitleFromURI(uri string) string {
	filename := filepath.Base(uri)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
