package driving

import (
	"context"

	"github.com/custodia-labs/tablesite/internal/core/domain"
)

// BuilderService is the single entry point for mutating a layout during an
// edit session. Every successful mutation records one history entry;
// operations that change nothing record none.
//
// A BuilderService serves one editing session and is not safe for
// concurrent callers, except that SaveStatus may be read while a
// SaveAsync is in flight.
type BuilderService interface {
	// RestaurantKey returns the key the session loads from and saves to.
	RestaurantKey() string

	// AddComponent appends a new instance of kind with its default config.
	AddComponent(kind domain.Kind) (domain.Component, error)

	// MoveComponent moves draggedID to the position held by targetID.
	MoveComponent(draggedID, targetID string) error

	// DeleteComponent removes a component and clears its selection.
	DeleteComponent(id string) error

	// EditComponent applies patch to a component. An empty patch only
	// selects the component and opens its editor.
	EditComponent(id string, patch domain.Patch) (domain.EditResult, error)

	// SetVisibility shows or hides a component.
	SetVisibility(id string, visible bool) error

	// Select marks a component as selected.
	Select(id string) error

	// ClearSelection deselects and closes the editor.
	ClearSelection()

	// CloseEditor closes the editor but keeps the selection.
	CloseEditor()

	// Undo steps back one history entry. Returns false at the earliest entry.
	Undo() bool

	// Redo steps forward one history entry. Returns false at the latest entry.
	Redo() bool

	// Save persists the current layout and waits for the outcome.
	Save(ctx context.Context) (domain.SaveResult, error)

	// SaveAsync persists the current layout in the background. The layout is
	// captured before SaveAsync returns; the channel receives one outcome.
	SaveAsync(ctx context.Context) <-chan SaveOutcome

	// SaveStatus reports the outcome of the most recently issued save.
	SaveStatus() domain.SaveStatus

	// Layout returns the working document.
	Layout() domain.Layout

	// SelectedID returns the selected component id, or "" when none.
	SelectedID() string

	// EditorOpen reports whether the editor is open for the selection.
	EditorOpen() bool

	// HistoryLen returns the number of history entries.
	HistoryLen() int

	// CanUndo reports whether Undo would change the document.
	CanUndo() bool

	// CanRedo reports whether Redo would change the document.
	CanRedo() bool
}

// SaveOutcome is delivered when an asynchronous save completes.
type SaveOutcome struct {
	// Seq orders saves issued by one builder. Later saves have larger values.
	Seq uint64

	Result domain.SaveResult
	Err    error
}

// BuilderFactory opens edit sessions.
type BuilderFactory interface {
	// Open loads the layout for key and starts a builder seeded with it.
	Open(ctx context.Context, key string) (BuilderService, *domain.LoadResult, error)
}
