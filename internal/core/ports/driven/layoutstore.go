package driven

import (
	"context"

	"github.com/custodia-labs/tablesite/internal/core/domain"
)

// LayoutStore is the persistence gateway for restaurant layouts.
type LayoutStore interface {
	// Load returns the stored snapshot for a restaurant key.
	// Returns domain.ErrNoLayout if nothing has ever been saved.
	Load(ctx context.Context, key string) (*domain.Snapshot, error)

	// Save stores a snapshot. Saving the same snapshot twice is harmless.
	Save(ctx context.Context, key string, snapshot domain.Snapshot) error

	// Delete removes the stored snapshot. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// LayoutCache keeps a local copy of layouts so the builder can recover
// from backend failures.
type LayoutCache interface {
	// Get returns the cached snapshot.
	// Returns domain.ErrNoLayout if the key is not cached.
	Get(ctx context.Context, key string) (*domain.Snapshot, error)

	// Put replaces the cached snapshot.
	Put(ctx context.Context, key string, snapshot domain.Snapshot) error

	// Delete removes the cached snapshot.
	Delete(ctx context.Context, key string) error
}

// LayoutWatcher reports changes to a cached layout.
type LayoutWatcher interface {
	// Watch sends on the returned channel whenever the layout under key
	// changes. The channel is closed when ctx is done.
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}

// LayoutSaver accepts snapshots produced by the builder.
type LayoutSaver interface {
	// Save persists a snapshot for a restaurant key.
	// On backend failure it returns an error wrapping domain.ErrPersistenceFailure
	// together with a result describing what was kept locally.
	Save(ctx context.Context, key string, snapshot domain.Snapshot) (domain.SaveResult, error)
}

// LayoutUpdate is a saved layout broadcast to live previews.
type LayoutUpdate struct {
	Key      string          `json:"restaurantId"`
	Snapshot domain.Snapshot `json:"layout"`
}

// LayoutPublisher broadcasts saved layouts.
type LayoutPublisher interface {
	// Publish announces a newly saved snapshot.
	Publish(ctx context.Context, update LayoutUpdate) error
}

// LayoutSubscriber receives layouts broadcast by other processes.
type LayoutSubscriber interface {
	// Subscribe streams updates until ctx is done, then closes the channel.
	Subscribe(ctx context.Context) (<-chan LayoutUpdate, error)
}
