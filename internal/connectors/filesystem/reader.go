// Package filesystem reads local files for the file-based extraction
// tools.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/logger"
)

// DefaultMaxBytes bounds the size of a file read for extraction.
const DefaultMaxBytes = 50 << 20

var drivePath = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// Ensure Reader implements the FileSource interface.
var _ driven.FileSource = (*Reader)(nil)

// Reader reads whole files from the local filesystem.
type Reader struct {
	maxBytes int64
	home     func() (string, error)
}

// NewReader creates a reader refusing files larger than maxBytes.
// A non-positive maxBytes means DefaultMaxBytes.
func NewReader(maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Reader{maxBytes: maxBytes, home: os.UserHomeDir}
}

// Read loads the file at path.
func (r *Reader) Read(ctx context.Context, path string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved, err := r.Resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: file %s", domain.ErrNotFound, resolved)
	case err != nil:
		return nil, fmt.Errorf("stat %s: %w", resolved, err)
	case info.IsDir():
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, resolved)
	case info.Size() > r.maxBytes:
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d",
			domain.ErrInvalidInput, resolved, info.Size(), r.maxBytes)
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", resolved, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, r.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", resolved, err)
	}
	logger.Debug("filesystem: read %s (%d bytes)", resolved, len(content))

	return &domain.RawDocument{
		URI:     resolved,
		Content: content,
		Metadata: map[string]any{
			"size":     info.Size(),
			"modified": info.ModTime().UTC(),
		},
	}, nil
}

// Resolve turns a user supplied path into an absolute, cleaned path.
// It strips file:// prefixes and expands a leading ~.
func (r *Reader) Resolve(path string) (string, error) {
	p := strings.TrimSpace(path)
	p = strings.TrimPrefix(p, "file://")
	if p == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}

	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := r.home()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		p = filepath.Join(home, p[1:])
	}

	if !filepath.IsAbs(p) && !drivePath.MatchString(p) {
		return "", fmt.Errorf("%w: path %q must be absolute", domain.ErrInvalidInput, path)
	}
	return filepath.Clean(p), nil
}
