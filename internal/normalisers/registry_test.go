package normalisers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
)

// mockNormaliser records which instance handled a document.
type mockNormaliser struct {
	name     string
	types    []string
	priority int
}

func (m *mockNormaliser) SupportedMIMETypes() []string { return m.types }
func (m *mockNormaliser) Priority() int                { return m.priority }
func (m *mockNormaliser) Normalise(_ context.Context, _ *domain.RawDocument) (*domain.ExtractionResult, error) {
	result := domain.NewExtractionResult(domain.SourceText, time.Unix(0, 0))
	result.Add(domain.RecordOf("handler", m.name))
	result.Finalize()
	return result, nil
}

var _ driven.Normaliser = (*mockNormaliser)(nil)

func handler(t *testing.T, result *domain.ExtractionResult) string {
	t.Helper()
	require.Len(t, result.Records, 1)
	v, _ := result.Records[0].Get("handler")
	return v.(string)
}

func TestRegistry_PicksHighestPriority(t *testing.T) {
	r := NewRegistry(
		&mockNormaliser{name: "fallback", types: []string{"text/plain"}, priority: 5},
		&mockNormaliser{name: "special", types: []string{"text/plain"}, priority: 50},
	)

	result, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "special", handler(t, result))
}

func TestRegistry_MIMEParametersIgnored(t *testing.T) {
	r := NewRegistry(&mockNormaliser{name: "html", types: []string{"text/html"}, priority: 50})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "Text/HTML; charset=utf-8"})
	require.NoError(t, err)
	assert.Equal(t, "html", handler(t, result))
}

func TestRegistry_UnsupportedType(t *testing.T) {
	r := NewRegistry()

	_, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_NilDocument(t *testing.T) {
	_, err := NewRegistry().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	r := NewRegistry(
		&mockNormaliser{types: []string{"text/plain", "text/csv"}},
		&mockNormaliser{types: []string{"application/json"}},
	)
	assert.Equal(t, []string{"application/json", "text/csv", "text/plain"}, r.SupportedMIMETypes())
}

func TestMIMEType(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.RawDocument
		want string
	}{
		{"explicit", domain.RawDocument{MIMEType: "application/PDF"}, "application/pdf"},
		{"eml extension", domain.RawDocument{URI: "/mail/a.EML"}, "message/rfc822"},
		{"yaml extension", domain.RawDocument{URI: "/cfg/app.yml"}, "application/yaml"},
		{"html extension", domain.RawDocument{URI: "/page.html"}, "text/html"},
		{"docx extension", domain.RawDocument{URI: "/docs/SOW.docx"},
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"markdown extension", domain.RawDocument{URI: "/notes/plan.md"}, "text/markdown"},
		{"unknown extension", domain.RawDocument{URI: "/README"}, "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MIMEType(&tt.raw))
		})
	}
}
