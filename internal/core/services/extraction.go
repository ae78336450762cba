package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/core/ports/driving"
	"github.com/custodia-labs/implkit/internal/format"
	"github.com/custodia-labs/implkit/internal/normalisers/code"
	"github.com/custodia-labs/implkit/internal/normalisers/structured"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// kindTypes forces the normaliser for explicit file kinds. KindJSON is
// resolved per path so YAML files keep their own parser.
var kindTypes = map[driving.FileKind]string{
	driving.KindPDF:   "application/pdf",
	driving.KindEmail: "message/rfc822",
	driving.KindCode:  code.MIMEType,
}

// ExtractionService routes files, inline data and remote queries through
// the normalisers and the output formatter.
type ExtractionService struct {
	files     driven.FileSource
	registry  driven.NormaliserRegistry
	formatter *format.Formatter
	mail      []driven.MailClient
	tabular   driven.TabularClient
	now       func() time.Time
}

// ExtractionOption configures an ExtractionService.
type ExtractionOption func(*ExtractionService)

// WithMailClient registers a mail backend. The first registered backend
// is the default.
func WithMailClient(c driven.MailClient) ExtractionOption {
	return func(s *ExtractionService) {
		if c != nil {
			s.mail = append(s.mail, c)
		}
	}
}

// WithTabularClient sets the Dataverse client.
func WithTabularClient(c driven.TabularClient) ExtractionOption {
	return func(s *ExtractionService) {
		s.tabular = c
	}
}

// NewExtractionService creates a new extraction service.
func NewExtractionService(
	files driven.FileSource,
	registry driven.NormaliserRegistry,
	formatter *format.Formatter,
	opts ...ExtractionOption,
) *ExtractionService {
	s := &ExtractionService{
		files:     files,
		registry:  registry,
		formatter: formatter,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractFile reads a local file and normalises it as kind.
func (s *ExtractionService) ExtractFile(
	ctx context.Context,
	kind driving.FileKind,
	path string,
	opts domain.ExtractOptions,
	out driving.OutputOptions,
) (*driving.Output, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: file path is required", domain.ErrInvalidInput)
	}

	mimeType, err := mimeTypeForKind(kind, path)
	if err != nil {
		return nil, err
	}

	raw, err := s.files.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if mimeType != "" {
		raw.MIMEType = mimeType
	}
	raw.Options = opts

	return s.normalise(ctx, raw, out)
}

func mimeTypeForKind(kind driving.FileKind, path string) (string, error) {
	switch kind {
	case driving.KindAuto:
		return "", nil
	case driving.KindJSON:
		return structured.MIMETypeForPath(path), nil
	}
	if mt, ok := kindTypes[kind]; ok {
		return mt, nil
	}
	return "", fmt.Errorf("%w: file kind %q", domain.ErrUnsupportedType, kind)
}

// ExtractJSON normalises inline JSON, or the JSON/YAML file input names.
func (s *ExtractionService) ExtractJSON(
	ctx context.Context,
	input string,
	opts domain.ExtractOptions,
	out driving.OutputOptions,
) (*driving.Output, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: input is required", domain.ErrInvalidInput)
	}
	if structured.LooksLikePath(input) {
		return s.ExtractFile(ctx, driving.KindJSON, input, opts, out)
	}

	raw := &domain.RawDocument{
		URI:      string(domain.SourceInline),
		MIMEType: "application/json",
		Content:  []byte(input),
		Options:  opts,
	}
	return s.normalise(ctx, raw, out)
}

// QueryMail lists messages from a mail backend.
func (s *ExtractionService) QueryMail(
	ctx context.Context,
	backend string,
	q driven.MailQuery,
	out driving.OutputOptions,
) (*driving.Output, error) {
	client, err := s.mailClient(backend)
	if err != nil {
		return nil, err
	}
	result, err := client.ListMessages(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.Render(result, out)
}

func (s *ExtractionService) mailClient(backend string) (driven.MailClient, error) {
	if len(s.mail) == 0 {
		return nil, fmt.Errorf("%w: no mail backend configured", domain.ErrNotConfigured)
	}
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		return s.mail[0], nil
	}
	for _, c := range s.mail {
		if c.Name() == backend {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: mail backend %q (configured: %s)",
		domain.ErrNotConfigured, backend, strings.Join(s.MailBackends(), ", "))
}

// MailBackends lists the configured mail backends in registration order.
func (s *ExtractionService) MailBackends() []string {
	names := make([]string, 0, len(s.mail))
	for _, c := range s.mail {
		names = append(names, c.Name())
	}
	return names
}

// QueryDataverse reads rows from a Dataverse table.
func (s *ExtractionService) QueryDataverse(
	ctx context.Context,
	q driven.TabularQuery,
	out driving.OutputOptions,
) (*driving.Output, error) {
	if s.tabular == nil {
		return nil, fmt.Errorf("%w: dataverse URL is not set", domain.ErrNotConfigured)
	}
	result, err := s.tabular.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.Render(result, out)
}

// FormatData renders caller supplied JSON. The input is either any JSON
// value, split into records the same way as extract_json, or an envelope
// {"metadata": {...}, "records": [...]} as produced by the json format.
func (s *ExtractionService) FormatData(
	_ context.Context,
	data string,
	out driving.OutputOptions,
) (*driving.Output, error) {
	if strings.TrimSpace(data) == "" {
		return nil, fmt.Errorf("%w: data is required", domain.ErrInvalidInput)
	}
	value, err := domain.ParseJSON([]byte(data))
	if err != nil {
		return nil, err
	}

	result := domain.NewExtractionResult(domain.SourceInline, s.now())
	if env, ok := value.(*domain.Record); ok {
		if recs, ok := env.Get("records"); ok {
			if _, isSeq := domain.AsSequence(recs); isSeq {
				value = recs
				applyEnvelope(result, env)
			}
		}
	}
	for _, rec := range structured.ToRecords(value) {
		result.Add(rec)
	}
	return s.Render(result, out)
}

// applyEnvelope carries the source and warnings of a previously rendered
// result over to result.
func applyEnvelope(result *domain.ExtractionResult, env *domain.Record) {
	meta, ok := env.Get("metadata")
	if !ok {
		return
	}
	m, ok := domain.AsObject(meta)
	if !ok {
		return
	}
	if src, ok := m.Get("source"); ok {
		if name, ok := src.(string); ok && name != "" {
			result.Metadata.Source = domain.Source(name)
		}
	}
	if warnings, ok := m.Get("warnings"); ok {
		seq, _ := domain.AsSequence(warnings)
		for _, w := range seq {
			if text, ok := w.(string); ok {
				result.Warn("%s", text)
			}
		}
	}
}

// Render formats an existing result.
func (s *ExtractionService) Render(result *domain.ExtractionResult, out driving.OutputOptions) (*driving.Output, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: nil result", domain.ErrInvalidInput)
	}
	opts := format.Options{TargetTool: strings.TrimSpace(out.TargetTool)}
	if strings.TrimSpace(out.Format) != "" {
		f, err := domain.ParseFormat(out.Format)
		if err != nil {
			return nil, err
		}
		opts.Format = f
	}

	text, err := s.formatter.Format(result, opts)
	if err != nil {
		return nil, fmt.Errorf("format %s result: %w", result.Metadata.Source, err)
	}
	return &driving.Output{Text: text, Result: result}, nil
}

func (s *ExtractionService) normalise(
	ctx context.Context,
	raw *domain.RawDocument,
	out driving.OutputOptions,
) (*driving.Output, error) {
	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}
	return s.Render(result, out)
}
