package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
)

// Ensure LayoutStore implements the interfaces.
var (
	_ driven.LayoutStore = (*LayoutStore)(nil)
	_ driven.LayoutCache = (*LayoutStore)(nil)
)

// LayoutStore is an in-memory implementation of driven.LayoutStore.
// It also satisfies driven.LayoutCache so it can stand in for either.
//
// Saves follow last-write-wins on lastModified: a snapshot older than the
// stored one is ignored.
type LayoutStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

// NewLayoutStore creates a new in-memory layout store.
func NewLayoutStore() *LayoutStore {
	return &LayoutStore{
		snapshots: make(map[string]domain.Snapshot),
	}
}

// Load returns the stored snapshot for key.
func (s *LayoutStore) Load(_ context.Context, key string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoLayout, key)
	}
	out := snapshot.Clone()
	return &out, nil
}

// Save stores snapshot unless a newer one is already stored.
func (s *LayoutStore) Save(_ context.Context, key string, snapshot domain.Snapshot) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.snapshots[key]; ok && snapshot.LastModified.Before(existing.LastModified) {
		return nil
	}
	s.snapshots[key] = snapshot.Clone()
	return nil
}

// Delete removes the snapshot for key.
func (s *LayoutStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}

// Get implements driven.LayoutCache.
func (s *LayoutStore) Get(ctx context.Context, key string) (*domain.Snapshot, error) {
	return s.Load(ctx, key)
}

// Put implements driven.LayoutCache. Unlike Save it always overwrites.
func (s *LayoutStore) Put(_ context.Context, key string, snapshot domain.Snapshot) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = snapshot.Clone()
	return nil
}

// Keys returns the stored keys.
func (s *LayoutStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.snapshots))
	for k := range s.snapshots {
		keys = append(keys, k)
	}
	return keys
}
