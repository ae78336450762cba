package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

func TestReader_Resolve(t *testing.T) {
	r := NewReader(0)
	r.home = func() (string, error) { return "/home/ann", nil }

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "absolute path", path: "/tmp/a.json", want: "/tmp/a.json"},
		{name: "file URI", path: "file:///tmp/a.json", want: "/tmp/a.json"},
		{name: "home expansion", path: "~/docs/a.pdf", want: "/home/ann/docs/a.pdf"},
		{name: "cleaned", path: "/tmp/x/../a.json", want: "/tmp/a.json"},
		{name: "relative rejected", path: "docs/a.pdf", wantErr: domain.ErrInvalidInput},
		{name: "empty rejected", path: "  ", wantErr: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_Read(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))

	raw, err := NewReader(0).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, raw.URI)
	assert.Equal(t, `{"a":1}`, string(raw.Content))
	assert.Equal(t, int64(7), raw.Metadata["size"])
}

func TestReader_ReadErrors(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(big, make([]byte, 64), 0o600))

	r := NewReader(32)

	_, err := r.Read(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.Read(context.Background(), dir)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = r.Read(context.Background(), big)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Read(ctx, big)
	assert.ErrorIs(t, err, context.Canceled)
}
