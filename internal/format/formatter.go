package format

import (
	"github.com/custodia-labs/implkit/internal/core/domain"
)

// Options are the caller's presentation hints.
type Options struct {
	// Format overrides every heuristic when set.
	Format domain.Format

	// TargetTool names the tool that will consume the output. Unknown
	// names are recorded in metadata but otherwise ignored.
	TargetTool string
}

// Formatter renders extraction results.
type Formatter struct {
	heuristics Heuristics
}

// New creates a formatter with the given heuristic thresholds.
func New(h Heuristics) *Formatter {
	return &Formatter{heuristics: h}
}

// Format resolves the output format, records it (and the target tool)
// in the result metadata and renders the result.
func (f *Formatter) Format(result *domain.ExtractionResult, opts Options) (string, error) {
	result.Finalize()

	target, _ := domain.LookupTargetTool(opts.TargetTool)
	chosen := f.heuristics.Resolve(result.Records, opts.Format, target)

	result.Metadata.OutputFormat = chosen
	if opts.TargetTool != "" {
		result.Metadata.TargetTool = opts.TargetTool
	}

	var mapped *domain.Record
	if chosen == domain.FormatJSON {
		mapped = MapFields(result.Records, target)
	}
	return Render(result, chosen, mapped)
}
