package file

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/logger"
)

// Ensure PageStore implements the interface.
var _ driven.DefaultPageProvider = (*PageStore)(nil)

// PageFileName is the user-editable default page inside the config directory.
const PageFileName = "default_page.yaml"

//go:embed default_page.yaml
var embeddedPage []byte

// PageStore serves the default page from a YAML file the user may edit,
// falling back to the built-in page when the file is missing or broken.
//
// Initialisation is lazy: the file is only written on first use.
type PageStore struct {
	mu       sync.RWMutex
	dir      string
	cached   *domain.Layout
	initOnce sync.Once
	initErr  error
}

// pageFile is the YAML shape of a default page.
type pageFile struct {
	Components []map[string]any `yaml:"components"`
}

// NewPageStore creates a page store. An empty dir means ~/.tablesite.
func NewPageStore(dir string) (*PageStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".tablesite")
	}
	return &PageStore{dir: dir}, nil
}

// BuiltinPage parses the embedded default page.
func BuiltinPage() (domain.Layout, error) {
	return ParsePage(embeddedPage)
}

// ParsePage decodes a YAML page definition into a layout.
func ParsePage(data []byte) (domain.Layout, error) {
	var page pageFile
	if err := yaml.Unmarshal(data, &page); err != nil {
		return domain.Layout{}, fmt.Errorf("%w: parse page: %w", domain.ErrInvalidInput, err)
	}

	// Round-trip through JSON so components decode exactly as persisted ones.
	raw, err := json.Marshal(page.Components)
	if err != nil {
		return domain.Layout{}, fmt.Errorf("%w: page components: %w", domain.ErrInvalidInput, err)
	}
	var components []domain.Component
	if err := json.Unmarshal(raw, &components); err != nil {
		return domain.Layout{}, fmt.Errorf("%w: page components: %w", domain.ErrInvalidInput, err)
	}
	return domain.NewLayout(components...)
}

// DefaultPage returns the default page.
func (s *PageStore) DefaultPage() (domain.Layout, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		logger.Warn("Default page init failed, using built-in page: %v", s.initErr)
		return BuiltinPage()
	}

	s.mu.RLock()
	if s.cached != nil {
		l := s.cached.Clone()
		s.mu.RUnlock()
		return l, nil
	}
	s.mu.RUnlock()

	l, err := s.loadFromFile()
	if err != nil {
		logger.Warn("Ignoring %s: %v", s.Path(), err)
		return BuiltinPage()
	}

	s.mu.Lock()
	if s.cached == nil {
		s.cached = &l
	}
	out := s.cached.Clone()
	s.mu.Unlock()
	return out, nil
}

// Reload forgets the cached page so the next call re-reads the file.
func (s *PageStore) Reload() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Path returns the page file path.
func (s *PageStore) Path() string {
	return filepath.Join(s.dir, PageFileName)
}

// initialise writes the built-in page if no file exists yet.
func (s *PageStore) initialise() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.initErr = fmt.Errorf("create config directory: %w", err)
		return
	}
	if _, err := os.Stat(s.Path()); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(s.Path(), embeddedPage, 0600); err != nil {
			s.initErr = fmt.Errorf("write default page: %w", err)
		}
	}
}

func (s *PageStore) loadFromFile() (domain.Layout, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return domain.Layout{}, err
	}
	return ParsePage(data)
}
