// Package postgres stores saved layouts in PostgreSQL through lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.LayoutStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS layouts (
	restaurant_key TEXT PRIMARY KEY,
	snapshot       JSONB NOT NULL,
	last_modified  TIMESTAMPTZ,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store implements driven.LayoutStore on a PostgreSQL table.
type Store struct {
	db *sql.DB
}

// NewStore connects to dsn, verifies the connection and creates the
// layouts table if it does not exist.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating layouts table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the saved snapshot for key.
func (s *Store) Load(ctx context.Context, key string) (*domain.Snapshot, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM layouts WHERE restaurant_key = $1`, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoLayout, key)
	}
	if err != nil {
		return nil, fmt.Errorf("querying layout: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save upserts snapshot unless the stored row is newer. A snapshot without
// a timestamp never replaces one that has it.
func (s *Store) Save(ctx context.Context, key string, snapshot domain.Snapshot) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	var modified *time.Time
	if !snapshot.LastModified.IsZero() {
		t := snapshot.LastModified.UTC()
		modified = &t
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO layouts (restaurant_key, snapshot, last_modified, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (restaurant_key) DO UPDATE SET
			snapshot = EXCLUDED.snapshot,
			last_modified = EXCLUDED.last_modified,
			updated_at = now()
		WHERE COALESCE(EXCLUDED.last_modified, '-infinity') >= COALESCE(layouts.last_modified, '-infinity')
	`, key, raw, modified)
	if err != nil {
		return fmt.Errorf("saving layout: %w", err)
	}
	return nil
}

// Delete removes the saved layout for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE restaurant_key = $1`, key); err != nil {
		return fmt.Errorf("deleting layout: %w", err)
	}
	return nil
}
