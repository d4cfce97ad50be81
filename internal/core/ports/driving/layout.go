package driving

import (
	"context"

	"github.com/custodia-labs/tablesite/internal/core/domain"
)

// LayoutService loads and saves restaurant layouts with local fallback.
type LayoutService interface {
	// Load returns the layout to edit for key. Backend failures fall back
	// to the local cache and then the default page; the failure is reported
	// in LoadResult.Warning rather than as an error.
	Load(ctx context.Context, key string) (*domain.LoadResult, error)

	// Save sanitises and persists a snapshot, keeping a local copy.
	Save(ctx context.Context, key string, snapshot domain.Snapshot) (domain.SaveResult, error)

	// Reset removes the stored and cached layout so the default page is used.
	Reset(ctx context.Context, key string) error

	// Stored returns the snapshot held by the backend.
	// Returns domain.ErrNoLayout if nothing has been saved.
	Stored(ctx context.Context, key string) (*domain.Snapshot, error)

	// DefaultPage returns the page shown when nothing is stored.
	DefaultPage() (domain.Layout, error)

	// Watch signals whenever the cached layout for key changes.
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}

// ComponentRegistry describes the available component kinds and builds
// their default configuration.
type ComponentRegistry interface {
	// Kinds returns palette entries in display order.
	Kinds() []domain.KindInfo

	// DefaultConfigFor returns a fresh default config for kind.
	DefaultConfigFor(kind domain.Kind) (domain.Config, error)

	// AppendItemPatch returns a patch adding one default item to the
	// config's list (buttons, members or testimonials).
	AppendItemPatch(cfg domain.Config) (domain.Patch, error)

	// RemoveItemPatch returns a patch removing the list item at index.
	RemoveItemPatch(cfg domain.Config, index int) (domain.Patch, error)
}

// RenderOptions controls how a layout is rendered.
type RenderOptions struct {
	// EditMode adds component ids and builder controls to each section.
	EditMode bool
}

// RenderService renders layouts for preview.
type RenderService interface {
	// RenderHTML renders the visible components in order.
	RenderHTML(layout domain.Layout, opts RenderOptions) (string, error)

	// RenderMarkdown renders the layout as Markdown.
	RenderMarkdown(layout domain.Layout) (string, error)
}
