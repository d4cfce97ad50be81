package services

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
	"github.com/custodia-labs/tablesite/internal/logger"
)

// Ensure LayoutService implements the interfaces.
var (
	_ driving.LayoutService = (*LayoutService)(nil)
	_ driven.LayoutSaver    = (*LayoutService)(nil)
)

// CacheKey returns the local cache key for a restaurant key.
func CacheKey(key string) string {
	return "layout_" + domain.RestaurantKey(key)
}

// LayoutService loads and saves layouts through the persistence gateway,
// keeping a local cache for recovery.
type LayoutService struct {
	store     driven.LayoutStore
	cache     driven.LayoutCache
	pages     driven.DefaultPageProvider
	sanitizer driven.TextSanitizer
	publisher driven.LayoutPublisher
}

// NewLayoutService creates a layout service. The cache may be nil.
func NewLayoutService(
	store driven.LayoutStore,
	cache driven.LayoutCache,
	pages driven.DefaultPageProvider,
) *LayoutService {
	return &LayoutService{
		store: store,
		cache: cache,
		pages: pages,
	}
}

// SetSanitizer sets the sanitizer applied to text before saving.
func (s *LayoutService) SetSanitizer(sanitizer driven.TextSanitizer) {
	s.sanitizer = sanitizer
}

// SetPublisher sets the publisher notified after successful saves.
func (s *LayoutService) SetPublisher(publisher driven.LayoutPublisher) {
	s.publisher = publisher
}

// Load returns the layout to edit for key, falling back to the local cache
// and then the default page when the backend cannot provide one.
func (s *LayoutService) Load(ctx context.Context, key string) (*domain.LoadResult, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	key = domain.RestaurantKey(key)
	logger.Section("Load Layout")
	logger.Debug("Restaurant key: %s", key)

	snapshot, err := s.store.Load(ctx, key)
	switch {
	case err == nil:
		return s.fromRemote(ctx, key, snapshot)
	case errors.Is(err, domain.ErrNoLayout):
		logger.Info("No saved layout for %s, using default page", key)
		return s.fromDefault(nil)
	default:
		logger.Warn("Backend load failed for %s: %v", key, err)
		return s.fromCache(ctx, key, err)
	}
}

func (s *LayoutService) fromRemote(ctx context.Context, key string, snapshot *domain.Snapshot) (*domain.LoadResult, error) {
	l, err := snapshot.Layout()
	if err != nil {
		err = fmt.Errorf("%w: stored layout for %s: %w", domain.ErrPersistenceFailure, key, err)
		logger.Warn("Backend layout unusable: %v", err)
		return s.fromCache(ctx, key, err)
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, CacheKey(key), *snapshot); err != nil {
			logger.Warn("Cache write failed for %s: %v", key, err)
		}
	}
	logger.Debug("Loaded %d components from backend", l.Len())
	return &domain.LoadResult{
		Layout:   l,
		Snapshot: snapshot,
		Source:   domain.SourceRemote,
	}, nil
}

func (s *LayoutService) fromCache(ctx context.Context, key string, remoteErr error) (*domain.LoadResult, error) {
	if s.cache == nil {
		return s.fromDefault(remoteErr)
	}

	snapshot, err := s.cache.Get(ctx, CacheKey(key))
	if err != nil {
		if !errors.Is(err, domain.ErrNoLayout) {
			logger.Warn("Cache read failed for %s: %v", key, err)
		}
		return s.fromDefault(remoteErr)
	}
	l, err := snapshot.Layout()
	if err != nil {
		logger.Warn("Cached layout for %s is unusable: %v", key, err)
		return s.fromDefault(remoteErr)
	}

	logger.Info("Using cached layout for %s (%d components)", key, l.Len())
	return &domain.LoadResult{
		Layout:   l,
		Snapshot: snapshot,
		Source:   domain.SourceCache,
		Warning:  remoteErr,
	}, nil
}

func (s *LayoutService) fromDefault(warning error) (*domain.LoadResult, error) {
	l, err := s.DefaultPage()
	if err != nil {
		return nil, err
	}
	return &domain.LoadResult{
		Layout:  l,
		Source:  domain.SourceDefault,
		Warning: warning,
	}, nil
}

// Save sanitises snapshot text, writes the local cache and then the
// backend. A backend failure leaves the cached copy in place and returns
// an error wrapping domain.ErrPersistenceFailure.
func (s *LayoutService) Save(ctx context.Context, key string, snapshot domain.Snapshot) (domain.SaveResult, error) {
	if s.store == nil {
		return domain.SaveResult{}, domain.ErrNotImplemented
	}
	key = domain.RestaurantKey(key)
	defer logger.Timed("Save Layout")()

	clean := s.sanitize(snapshot)
	if _, err := clean.Layout(); err != nil {
		return domain.SaveResult{}, fmt.Errorf("save layout for %s: %w", key, err)
	}

	result := domain.SaveResult{Snapshot: clean}
	if s.cache != nil {
		if err := s.cache.Put(ctx, CacheKey(key), clean); err != nil {
			logger.Warn("Cache write failed for %s: %v", key, err)
		} else {
			result.CachedLocally = true
		}
	}

	if err := s.store.Save(ctx, key, clean); err != nil {
		if !errors.Is(err, domain.ErrPersistenceFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
		}
		return result, fmt.Errorf("save layout for %s: %w", key, err)
	}
	result.Remote = true
	logger.Debug("Saved %d components for %s", len(clean.Components), key)

	if s.publisher != nil {
		update := driven.LayoutUpdate{Key: key, Snapshot: clean}
		if err := s.publisher.Publish(ctx, update); err != nil {
			logger.Warn("Publish failed for %s: %v", key, err)
		}
	}
	return result, nil
}

// sanitize strips markup from every text field. Entities are decoded on
// both sides of the sanitizer so stored text is plain and a second save
// leaves it unchanged.
func (s *LayoutService) sanitize(snapshot domain.Snapshot) domain.Snapshot {
	out := snapshot.Clone()
	if s.sanitizer == nil {
		return out
	}
	clean := func(text string) string {
		return html.UnescapeString(s.sanitizer.Sanitize(html.UnescapeString(text)))
	}
	for i, c := range out.Components {
		if c.Config != nil {
			out.Components[i].Config = domain.MapText(c.Config, clean)
		}
	}
	return out
}

// Reset removes the stored and cached layout so the default page is used.
func (s *LayoutService) Reset(ctx context.Context, key string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	key = domain.RestaurantKey(key)

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("reset layout for %s: %w", key, err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, CacheKey(key)); err != nil {
			return fmt.Errorf("clear cached layout for %s: %w", key, err)
		}
	}
	logger.Info("Reset layout for %s", key)
	return nil
}

// Stored returns the snapshot held by the backend.
func (s *LayoutService) Stored(ctx context.Context, key string) (*domain.Snapshot, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Load(ctx, domain.RestaurantKey(key))
}

// DefaultPage returns the page shown when nothing is stored.
func (s *LayoutService) DefaultPage() (domain.Layout, error) {
	if s.pages == nil {
		return domain.Layout{}, nil
	}
	return s.pages.DefaultPage()
}

// Watch signals whenever the cached layout for key changes. It requires a
// cache that supports watching.
func (s *LayoutService) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	watcher, ok := s.cache.(driven.LayoutWatcher)
	if !ok {
		return nil, fmt.Errorf("%w: layout cache does not support watching", domain.ErrNotImplemented)
	}
	return watcher.Watch(ctx, CacheKey(key))
}
