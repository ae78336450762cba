package file

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/logger"
)

// Ensure TemplateStore implements the interface.
var _ driven.TemplateStore = (*TemplateStore)(nil)

// templateExt is appended to a template name to form its file name.
const templateExt = ".md.tmpl"

//go:embed defaults/assessment.md.tmpl
var defaultAssessment string

// defaultTemplates are used when user files don't exist and as the
// initial content for new files.
var defaultTemplates = map[string]string{
	driven.TemplateAssessment: defaultAssessment,
}

// TemplateStore loads document templates from user-editable files on disk,
// falling back to embedded defaults.
//
// The store uses lazy initialisation: the directory and default files are
// only created when a template is first loaded.
type TemplateStore struct {
	mu       sync.RWMutex
	dir      string
	cache    map[string]string
	initOnce sync.Once
	initErr  error
}

// NewTemplateStore creates a file-based template store.
// If dir is empty, defaults to ~/.implkit/templates/.
func NewTemplateStore(dir string) (*TemplateStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "templates")
	}
	return &TemplateStore{
		dir:   dir,
		cache: make(map[string]string),
	}, nil
}

// Load returns the template for name. Files on disk win over the embedded
// defaults; an unknown name without a file is domain.ErrNotFound.
func (s *TemplateStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		logger.Warn("templates: %v, using embedded defaults", s.initErr)
		if tmpl, ok := defaultTemplates[name]; ok {
			return tmpl, nil
		}
		return "", fmt.Errorf("template store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if tmpl, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return tmpl, nil
	}
	s.mu.RUnlock()

	tmpl, err := s.loadFromFile(name)
	if err != nil {
		if def, ok := defaultTemplates[name]; ok {
			return def, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: template %q", domain.ErrNotFound, name)
		}
		return "", fmt.Errorf("load template %q: %w", name, err)
	}

	// Double-check so concurrent loads agree on one value
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		tmpl = cached
	} else {
		s.cache[name] = tmpl
	}
	s.mu.Unlock()
	return tmpl, nil
}

// Reload clears the template cache, forcing fresh loads from disk.
func (s *TemplateStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the template directory path.
func (s *TemplateStore) Dir() string {
	return s.dir
}

// initialise creates the template directory and default files.
func (s *TemplateStore) initialise() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create template directory: %w", err)
		return
	}
	for name, content := range defaultTemplates {
		path := filepath.Join(s.dir, name+templateExt)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				s.initErr = fmt.Errorf("create default template %q: %w", name, err)
				return
			}
		}
	}
}

func (s *TemplateStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+templateExt))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
