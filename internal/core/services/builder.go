package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
	"github.com/custodia-labs/tablesite/internal/logger"
)

// Ensure Builder implements the interface.
var _ driving.BuilderService = (*Builder)(nil)

// maxIDAttempts bounds retries when a generated component id collides.
const maxIDAttempts = 8

// Builder is the edit-session controller. It owns the working layout, the
// undo history and the selection, and is the only place layouts change.
type Builder struct {
	key      string
	registry driving.ComponentRegistry
	ids      driven.IDGenerator
	saver    driven.LayoutSaver
	now      func() time.Time

	history    *domain.History
	layout     domain.Layout
	selectedID string
	editorOpen bool

	// mu guards the save fields, which async completions update.
	mu         sync.Mutex
	saveIssued uint64
	saveStatus domain.SaveStatus
}

// NewBuilder starts a session for key whose history is seeded with initial.
func NewBuilder(
	key string,
	registry driving.ComponentRegistry,
	ids driven.IDGenerator,
	saver driven.LayoutSaver,
	initial domain.Layout,
) *Builder {
	return &Builder{
		key:        domain.RestaurantKey(key),
		registry:   registry,
		ids:        ids,
		saver:      saver,
		now:        time.Now,
		history:    domain.NewHistory(initial),
		layout:     initial.Clone(),
		saveStatus: domain.SaveIdle,
	}
}

// SetClock replaces the clock used to stamp saved snapshots.
func (b *Builder) SetClock(now func() time.Time) {
	b.now = now
}

// RestaurantKey returns the key the session loads from and saves to.
func (b *Builder) RestaurantKey() string {
	return b.key
}

// AddComponent appends a new instance of kind with its default config.
func (b *Builder) AddComponent(kind domain.Kind) (domain.Component, error) {
	if b.registry == nil || b.ids == nil {
		return domain.Component{}, domain.ErrNotImplemented
	}

	cfg, err := b.registry.DefaultConfigFor(kind)
	if err != nil {
		return domain.Component{}, err
	}
	id, err := b.newComponentID(kind)
	if err != nil {
		return domain.Component{}, err
	}

	c := domain.NewComponent(id, cfg)
	next, err := b.layout.Append(c)
	if err != nil {
		return domain.Component{}, err
	}
	b.commit(next)
	logger.Debug("Added %s component %s", kind, id)
	return c.Clone(), nil
}

func (b *Builder) newComponentID(kind domain.Kind) (string, error) {
	for range maxIDAttempts {
		id := b.ids.NewID(kind.String())
		if !b.layout.Has(id) {
			return id, nil
		}
		logger.Warn("Generated id %s already in use, retrying", id)
	}
	return "", fmt.Errorf("%w: no free id for %s after %d attempts",
		domain.ErrDuplicateID, kind, maxIDAttempts)
}

// MoveComponent moves draggedID to the position held by targetID. Moving a
// component onto itself changes nothing.
func (b *Builder) MoveComponent(draggedID, targetID string) error {
	if draggedID == targetID {
		if !b.layout.Has(draggedID) {
			return fmt.Errorf("%w: component %q", domain.ErrNotFound, draggedID)
		}
		return nil
	}

	next, err := b.layout.MoveBefore(draggedID, targetID)
	if err != nil {
		return err
	}
	b.commit(next)
	logger.Debug("Moved %s to position of %s", draggedID, targetID)
	return nil
}

// DeleteComponent removes a component and clears its selection.
func (b *Builder) DeleteComponent(id string) error {
	next, err := b.layout.Remove(id)
	if err != nil {
		return err
	}
	b.commit(next)
	if b.selectedID == id {
		b.ClearSelection()
	}
	logger.Debug("Deleted component %s", id)
	return nil
}

// EditComponent applies patch to a component. An empty patch selects the
// component and opens its editor without touching history. A patch that
// leaves the layout unchanged records nothing.
func (b *Builder) EditComponent(id string, patch domain.Patch) (domain.EditResult, error) {
	if !b.layout.Has(id) {
		return domain.EditResult{}, fmt.Errorf("%w: component %q", domain.ErrNotFound, id)
	}

	if patch.IsEmpty() {
		b.selectedID = id
		b.editorOpen = true
		return domain.EditResult{EditorOpened: true}, nil
	}

	next, err := b.layout.Update(id, patch)
	if err != nil {
		return domain.EditResult{}, err
	}
	if next.Equal(b.layout) {
		logger.Debug("Edit of %s changed nothing", id)
		return domain.EditResult{}, nil
	}
	b.commit(next)
	logger.Debug("Edited component %s", id)
	return domain.EditResult{Changed: true}, nil
}

// SetVisibility shows or hides a component.
func (b *Builder) SetVisibility(id string, visible bool) error {
	_, err := b.EditComponent(id, domain.VisibilityPatch(visible))
	return err
}

// Select marks a component as selected.
func (b *Builder) Select(id string) error {
	if !b.layout.Has(id) {
		return fmt.Errorf("%w: component %q", domain.ErrNotFound, id)
	}
	if b.selectedID != id {
		b.editorOpen = false
	}
	b.selectedID = id
	return nil
}

// ClearSelection deselects and closes the editor.
func (b *Builder) ClearSelection() {
	b.selectedID = ""
	b.editorOpen = false
}

// CloseEditor closes the editor but keeps the selection.
func (b *Builder) CloseEditor() {
	b.editorOpen = false
}

// Undo steps back one history entry.
func (b *Builder) Undo() bool {
	l, ok := b.history.Undo()
	if !ok {
		return false
	}
	b.layout = l
	b.dropStaleSelection()
	return true
}

// Redo steps forward one history entry.
func (b *Builder) Redo() bool {
	l, ok := b.history.Redo()
	if !ok {
		return false
	}
	b.layout = l
	b.dropStaleSelection()
	return true
}

func (b *Builder) dropStaleSelection() {
	if b.selectedID != "" && !b.layout.Has(b.selectedID) {
		b.ClearSelection()
	}
}

// commit makes next the working layout and records it.
func (b *Builder) commit(next domain.Layout) {
	b.history.Record(next)
	b.layout = next
}

// Save persists the current layout and waits for the outcome.
func (b *Builder) Save(ctx context.Context) (domain.SaveResult, error) {
	if b.saver == nil {
		return domain.SaveResult{}, domain.ErrNotImplemented
	}
	snapshot := b.snapshot()
	seq := b.beginSave()

	result, err := b.saver.Save(ctx, b.key, snapshot)
	b.finishSave(seq, result, err)
	return result, err
}

// SaveAsync persists the current layout in the background. The snapshot
// is captured before returning, so later edits are not part of this save.
func (b *Builder) SaveAsync(ctx context.Context) <-chan driving.SaveOutcome {
	out := make(chan driving.SaveOutcome, 1)
	if b.saver == nil {
		out <- driving.SaveOutcome{Err: domain.ErrNotImplemented}
		close(out)
		return out
	}

	snapshot := b.snapshot()
	seq := b.beginSave()
	go func() {
		defer close(out)
		result, err := b.saver.Save(ctx, b.key, snapshot)
		b.finishSave(seq, result, err)
		out <- driving.SaveOutcome{Seq: seq, Result: result, Err: err}
	}()
	return out
}

// SaveStatus reports the outcome of the most recently issued save.
func (b *Builder) SaveStatus() domain.SaveStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveStatus
}

func (b *Builder) snapshot() domain.Snapshot {
	return domain.NewSnapshot(b.layout, b.now())
}

func (b *Builder) beginSave() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saveIssued++
	b.saveStatus = domain.SaveInProgress
	return b.saveIssued
}

// finishSave publishes the status of save seq unless a newer save has
// been issued since.
func (b *Builder) finishSave(seq uint64, result domain.SaveResult, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.saveIssued {
		logger.Debug("Discarding status of superseded save %d", seq)
		return
	}

	switch {
	case err == nil:
		b.saveStatus = result.Status()
	case result.CachedLocally:
		b.saveStatus = domain.SaveCachedLocal
	default:
		b.saveStatus = domain.SaveFailed
	}
	if err != nil {
		logger.Warn("Save %d for %s: %v", seq, b.key, err)
	}
}

// Layout returns the working document.
func (b *Builder) Layout() domain.Layout {
	return b.layout.Clone()
}

// SelectedID returns the selected component id, or "" when none.
func (b *Builder) SelectedID() string {
	return b.selectedID
}

// EditorOpen reports whether the editor is open for the selection.
func (b *Builder) EditorOpen() bool {
	return b.editorOpen && b.selectedID != ""
}

// HistoryLen returns the number of history entries.
func (b *Builder) HistoryLen() int {
	return b.history.Len()
}

// CanUndo reports whether Undo would change the document.
func (b *Builder) CanUndo() bool {
	return b.history.CanUndo()
}

// CanRedo reports whether Redo would change the document.
func (b *Builder) CanRedo() bool {
	return b.history.CanRedo()
}

// Ensure BuilderFactory implements the interface.
var _ driving.BuilderFactory = (*BuilderFactory)(nil)

// BuilderFactory opens builders seeded with the loaded layout.
type BuilderFactory struct {
	layouts  driving.LayoutService
	registry driving.ComponentRegistry
	ids      driven.IDGenerator
}

// NewBuilderFactory creates a factory whose builders save through layouts.
func NewBuilderFactory(
	layouts driving.LayoutService,
	registry driving.ComponentRegistry,
	ids driven.IDGenerator,
) *BuilderFactory {
	return &BuilderFactory{layouts: layouts, registry: registry, ids: ids}
}

// Open loads the layout for key and starts a builder seeded with it.
func (f *BuilderFactory) Open(ctx context.Context, key string) (driving.BuilderService, *domain.LoadResult, error) {
	if f.layouts == nil {
		return nil, nil, domain.ErrNotImplemented
	}
	key = domain.RestaurantKey(key)

	loaded, err := f.layouts.Load(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Opened builder for %s from %s (%d components)", key, loaded.Source, loaded.Layout.Len())
	return NewBuilder(key, f.registry, f.ids, f.layouts, loaded.Layout), loaded, nil
}
