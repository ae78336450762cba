package driving

import (
	"context"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
)

// FileKind selects which normaliser a file extraction is routed to.
type FileKind string

// File kinds. KindAuto routes by file extension.
const (
	KindAuto  FileKind = ""
	KindPDF   FileKind = "pdf"
	KindEmail FileKind = "email"
	KindJSON  FileKind = "json"
	KindCode  FileKind = "code"
)

// OutputOptions are the presentation hints every extraction tool accepts.
type OutputOptions struct {
	// Format forces an output format; empty lets the formatter decide.
	Format string

	// TargetTool names the tool that will consume the output.
	TargetTool string
}

// Output is a rendered extraction.
type Output struct {
	// Text is the rendered result.
	Text string

	// Result is the extraction the text was rendered from.
	Result *domain.ExtractionResult
}

// ExtractionService turns files, inline data and remote queries into
// formatted text.
type ExtractionService interface {
	// ExtractFile reads a local file and normalises it as kind.
	ExtractFile(ctx context.Context, kind FileKind, path string, opts domain.ExtractOptions, out OutputOptions) (*Output, error)

	// ExtractJSON normalises inline JSON or the JSON/YAML file it names.
	ExtractJSON(ctx context.Context, input string, opts domain.ExtractOptions, out OutputOptions) (*Output, error)

	// QueryMail lists messages from the named mail backend ("graph" or
	// "gmail"); empty picks the first configured backend.
	QueryMail(ctx context.Context, backend string, q driven.MailQuery, out OutputOptions) (*Output, error)

	// QueryDataverse reads rows from a Dataverse table.
	QueryDataverse(ctx context.Context, q driven.TabularQuery, out OutputOptions) (*Output, error)

	// FormatData renders caller supplied JSON records.
	FormatData(ctx context.Context, data string, out OutputOptions) (*Output, error)

	// Render formats an existing result.
	Render(result *domain.ExtractionResult, out OutputOptions) (*Output, error)

	// MailBackends lists the configured mail backends.
	MailBackends() []string
}
