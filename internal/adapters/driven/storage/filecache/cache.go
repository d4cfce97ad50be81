// Package filecache keeps the builder's local layout copies as JSON files,
// one per cache key, and can watch them for changes.
package filecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/logger"
)

// Ensure Cache implements the interfaces.
var (
	_ driven.LayoutCache   = (*Cache)(nil)
	_ driven.LayoutWatcher = (*Cache)(nil)
)

const fileExt = ".json"

// Cache stores snapshots under a directory.
type Cache struct {
	dir string
}

// New creates a cache rooted at dir. An empty dir means ~/.tablesite/cache.
func New(dir string) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".tablesite", "cache")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// fileName maps a key to a safe file name.
func fileName(key string) string {
	return url.PathEscape(key) + fileExt
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, fileName(key))
}

// Get reads the cached snapshot for key.
func (c *Cache) Get(_ context.Context, key string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoLayout, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing cache file %s: %w", fileName(key), err)
	}
	return &snapshot, nil
}

// Put writes snapshot for key. The file is replaced atomically so readers
// never see a partial write.
func (c *Cache) Put(_ context.Context, key string, snapshot domain.Snapshot) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// Delete removes the cached snapshot. A missing file is not an error.
func (c *Cache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

// Watch signals whenever the file for key is created, written, replaced
// or removed. Signals coalesce: a burst of writes may produce one signal.
// The channel closes when ctx is done.
func (c *Cache) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory, not the file: atomic replaces swap the inode.
	if err := watcher.Add(c.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", c.dir, err)
	}

	target := fileName(key)
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isChange(event, target) {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Cache watcher error: %v", err)
			}
		}
	}()
	return out, nil
}

// isChange reports whether event touches the file named target.
func isChange(event fsnotify.Event, target string) bool {
	if filepath.Base(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
