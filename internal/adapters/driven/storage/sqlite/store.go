package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/tablesite/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
)

// DefaultFileName is the database file created inside the data directory.
const DefaultFileName = "layouts.db"

// Store is a SQLite database holding saved layouts and the local layout
// cache. Each concern is exposed through a wrapper type.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at path and applies
// pending migrations. An empty path means ~/.tablesite/layouts.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".tablesite", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL lets the preview server read while the builder writes.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LayoutStore returns the saved-layout table as a driven.LayoutStore.
func (s *Store) LayoutStore() driven.LayoutStore {
	return &layoutStore{store: s}
}

// LayoutCache returns the cache table as a driven.LayoutCache.
func (s *Store) LayoutCache() driven.LayoutCache {
	return &layoutCache{store: s}
}

// migrate applies every NNN_name.up.sql newer than the recorded version.
// Each migration records its own version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var ups []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			ups = append(ups, entry.Name())
		}
	}
	sort.Strings(ups)

	for _, name := range ups {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

// ==================== Layout Store ====================

// layoutStore implements driven.LayoutStore.
type layoutStore struct {
	store *Store
}

var _ driven.LayoutStore = (*layoutStore)(nil)

// Load returns the saved snapshot for key.
func (s *layoutStore) Load(ctx context.Context, key string) (*domain.Snapshot, error) {
	var raw string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT snapshot FROM layouts WHERE restaurant_key = ?", key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoLayout, key)
	}
	if err != nil {
		return nil, fmt.Errorf("querying layout: %w", err)
	}
	return decodeSnapshot(raw)
}

// Save upserts snapshot. A row with a newer lastModified is left alone,
// which keeps concurrent saves last-write-wins.
func (s *layoutStore) Save(ctx context.Context, key string, snapshot domain.Snapshot) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	modified := ""
	if !snapshot.LastModified.IsZero() {
		modified = domain.FormatTimestamp(snapshot.LastModified)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO layouts (restaurant_key, snapshot, last_modified, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(restaurant_key) DO UPDATE SET
			snapshot = excluded.snapshot,
			last_modified = excluded.last_modified,
			updated_at = CURRENT_TIMESTAMP
		WHERE excluded.last_modified >= layouts.last_modified
	`, key, string(raw), modified)
	if err != nil {
		return fmt.Errorf("saving layout: %w", err)
	}
	return nil
}

// Delete removes the saved layout for key.
func (s *layoutStore) Delete(ctx context.Context, key string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM layouts WHERE restaurant_key = ?", key); err != nil {
		return fmt.Errorf("deleting layout: %w", err)
	}
	return nil
}

// ==================== Layout Cache ====================

// layoutCache implements driven.LayoutCache.
type layoutCache struct {
	store *Store
}

var _ driven.LayoutCache = (*layoutCache)(nil)

// Get returns the cached snapshot for key.
func (c *layoutCache) Get(ctx context.Context, key string) (*domain.Snapshot, error) {
	var raw string
	err := c.store.db.QueryRowContext(ctx,
		"SELECT snapshot FROM layout_cache WHERE cache_key = ?", key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoLayout, key)
	}
	if err != nil {
		return nil, fmt.Errorf("querying cache: %w", err)
	}
	return decodeSnapshot(raw)
}

// Put overwrites the cached snapshot for key.
func (c *layoutCache) Put(ctx context.Context, key string, snapshot domain.Snapshot) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO layout_cache (cache_key, snapshot, cached_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(cache_key) DO UPDATE SET
			snapshot = excluded.snapshot,
			cached_at = CURRENT_TIMESTAMP
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("caching layout: %w", err)
	}
	return nil
}

// Delete drops the cached snapshot for key.
func (c *layoutCache) Delete(ctx context.Context, key string) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM layout_cache WHERE cache_key = ?", key); err != nil {
		return fmt.Errorf("deleting cached layout: %w", err)
	}
	return nil
}

func decodeSnapshot(raw string) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot: %w", err)
	}
	return &snapshot, nil
}
