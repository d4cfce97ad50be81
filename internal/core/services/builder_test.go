package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablesite/internal/adapters/driven/ids"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
)

// mockSaver is a driven.LayoutSaver backed by a function.
type mockSaver struct {
	saveFn func(ctx context.Context, key string, snapshot domain.Snapshot) (domain.SaveResult, error)
}

func (m *mockSaver) Save(ctx context.Context, key string, snapshot domain.Snapshot) (domain.SaveResult, error) {
	return m.saveFn(ctx, key, snapshot)
}

// fixedIDs always returns the same id, to force collisions.
type fixedIDs struct{ id string }

func (f fixedIDs) NewID(string) string { return f.id }

func newTestBuilder(t *testing.T, initial ...domain.Component) *Builder {
	t.Helper()
	gen := ids.NewSequence()
	l, err := domain.NewLayout(initial...)
	require.NoError(t, err)
	return NewBuilder("r1", NewComponentRegistry(gen), gen, nil, l)
}

func addAll(t *testing.T, b *Builder, kinds ...domain.Kind) []string {
	t.Helper()
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		c, err := b.AddComponent(k)
		require.NoError(t, err)
		out = append(out, c.ID)
	}
	return out
}

func TestBuilder_AddComponent_FromEmpty(t *testing.T) {
	b := newTestBuilder(t)

	c, err := b.AddComponent(domain.KindHero)

	require.NoError(t, err)
	l := b.Layout()
	require.Equal(t, 1, l.Len())
	assert.Equal(t, domain.KindHero, componentAt(t, l, 0).Kind)
	assert.True(t, componentAt(t, l, 0).Visible)
	assert.Equal(t, c.ID, componentAt(t, l, 0).ID)

	cfg, ok := componentAt(t, l, 0).Config.(*domain.HeroConfig)
	require.True(t, ok)
	assert.Equal(t, "New Hero Title", cfg.Title)
	assert.Equal(t, 2, b.HistoryLen())
}

func TestBuilder_AddComponent_UnsupportedKind(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.AddComponent(domain.Kind("carousel"))

	assert.ErrorIs(t, err, domain.ErrUnsupportedKind)
	assert.Equal(t, 1, b.HistoryLen())
	assert.True(t, b.Layout().IsEmpty())
}

func TestBuilder_AddComponent_IDCollision(t *testing.T) {
	gen := fixedIDs{id: "hero-1"}
	l, err := domain.NewLayout(heroAt("hero-1"))
	require.NoError(t, err)
	b := NewBuilder("r1", NewComponentRegistry(ids.NewSequence()), gen, nil, l)

	_, err = b.AddComponent(domain.KindHero)

	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Equal(t, 1, b.Layout().Len())
	assert.Equal(t, 1, b.HistoryLen())
}

func TestBuilder_MoveComponent(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero, domain.KindSectionHeader, domain.KindMenuSection)
	a, bb, c := got[0], got[1], got[2]
	require.Equal(t, []string{a, bb, c}, b.Layout().IDs())

	require.NoError(t, b.MoveComponent(c, a))

	assert.Equal(t, []string{c, a, bb}, b.Layout().IDs())
	assert.Equal(t, 5, b.HistoryLen())
}

func TestBuilder_UndoRedoMove(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero, domain.KindSectionHeader, domain.KindMenuSection)
	a, bb, c := got[0], got[1], got[2]
	require.NoError(t, b.MoveComponent(c, a))

	require.True(t, b.Undo())
	assert.Equal(t, []string{a, bb, c}, b.Layout().IDs())

	require.True(t, b.Redo())
	assert.Equal(t, []string{c, a, bb}, b.Layout().IDs())
}

func TestBuilder_NewEditTruncatesRedo(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero, domain.KindSectionHeader, domain.KindMenuSection)
	a, bb, c := got[0], got[1], got[2]
	require.NoError(t, b.MoveComponent(c, a))

	require.True(t, b.Undo())
	d, err := b.AddComponent(domain.KindTestimonials)
	require.NoError(t, err)
	assert.Equal(t, []string{a, bb, c, d.ID}, b.Layout().IDs())

	assert.False(t, b.CanRedo())
	assert.False(t, b.Redo())
	assert.Equal(t, []string{a, bb, c, d.ID}, b.Layout().IDs())
}

func TestBuilder_DeleteComponent_ClearsSelection(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero, domain.KindSectionHeader, domain.KindMenuSection)
	require.NoError(t, b.Select(got[1]))

	require.NoError(t, b.DeleteComponent(got[1]))

	assert.Equal(t, []string{got[0], got[2]}, b.Layout().IDs())
	assert.Empty(t, b.SelectedID())
	assert.False(t, b.EditorOpen())
}

func TestBuilder_DeleteComponent_KeepsOtherSelection(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero, domain.KindSectionHeader)
	require.NoError(t, b.Select(got[0]))

	require.NoError(t, b.DeleteComponent(got[1]))

	assert.Equal(t, got[0], b.SelectedID())
}

func TestBuilder_EditComponent_Patch(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero, domain.KindSectionHeader, domain.KindMenuSection)
	before := b.Layout()
	historyBefore := b.HistoryLen()

	res, err := b.EditComponent(got[0], domain.Patch{Config: map[string]any{"title": "New Title"}})

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.False(t, res.EditorOpened)
	assert.Equal(t, historyBefore+1, b.HistoryLen())

	after := b.Layout()
	hero := componentAt(t, after, 0).Config.(*domain.HeroConfig)
	assert.Equal(t, "New Title", hero.Title)
	assert.Equal(t, componentAt(t, before, 0).Config.(*domain.HeroConfig).Subtitle, hero.Subtitle)
	for i := 1; i < after.Len(); i++ {
		assert.True(t, componentAt(t, before, i).Equal(componentAt(t, after, i)), "component %d changed", i)
	}
}

func TestBuilder_EditComponent_OpenEditor(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero)
	historyBefore := b.HistoryLen()

	res, err := b.EditComponent(got[0], domain.Patch{})

	require.NoError(t, err)
	assert.True(t, res.EditorOpened)
	assert.False(t, res.Changed)
	assert.Equal(t, got[0], b.SelectedID())
	assert.True(t, b.EditorOpen())
	assert.Equal(t, historyBefore, b.HistoryLen())

	b.CloseEditor()
	assert.False(t, b.EditorOpen())
	assert.Equal(t, got[0], b.SelectedID())
}

func TestBuilder_EditComponent_NoChangeRecordsNothing(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero)
	historyBefore := b.HistoryLen()

	res, err := b.EditComponent(got[0], domain.Patch{Config: map[string]any{"title": "New Hero Title"}})

	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, historyBefore, b.HistoryLen())
}

func TestBuilder_EditComponent_InvalidPatch(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindMenuSection)
	before := b.Layout()
	historyBefore := b.HistoryLen()

	_, err := b.EditComponent(got[0], domain.Patch{Config: map[string]any{"maxItems": "lots"}})

	assert.ErrorIs(t, err, domain.ErrInvalidPatch)
	assert.True(t, before.Equal(b.Layout()))
	assert.Equal(t, historyBefore, b.HistoryLen())
}

func TestBuilder_MissingIDsDoNotTouchHistory(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero, domain.KindSectionHeader)
	historyBefore := b.HistoryLen()
	before := b.Layout()

	tests := []struct {
		name string
		run  func() error
	}{
		{"move self", func() error { return b.MoveComponent(got[0], got[0]) }},
		{"move missing dragged", func() error { return b.MoveComponent("nope", got[0]) }},
		{"move missing target", func() error { return b.MoveComponent(got[0], "nope") }},
		{"delete missing", func() error { return b.DeleteComponent("nope") }},
		{"edit missing", func() error {
			_, err := b.EditComponent("nope", domain.Patch{Config: map[string]any{"title": "x"}})
			return err
		}},
		{"visibility missing", func() error { return b.SetVisibility("nope", false) }},
		{"select missing", func() error { return b.Select("nope") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if tt.name == "move self" {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrNotFound)
			}
			assert.Equal(t, historyBefore, b.HistoryLen())
			assert.True(t, before.Equal(b.Layout()))
		})
	}
}

func TestBuilder_MoveSelfMissing(t *testing.T) {
	b := newTestBuilder(t)

	err := b.MoveComponent("nope", "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, b.HistoryLen())
}

func TestBuilder_SetVisibility_Idempotent(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero, domain.KindSectionHeader)

	require.NoError(t, b.SetVisibility(got[0], false))
	once := b.Layout()
	historyOnce := b.HistoryLen()
	require.NoError(t, b.SetVisibility(got[0], false))

	assert.True(t, once.Equal(b.Layout()))
	assert.Equal(t, historyOnce, b.HistoryLen())
	assert.False(t, componentAt(t, b.Layout(), 0).Visible)

	require.NoError(t, b.SetVisibility(got[0], true))
	assert.True(t, componentAt(t, b.Layout(), 0).Visible)
}

func TestBuilder_UndoRedoInverse(t *testing.T) {
	ops := []struct {
		name string
		run  func(t *testing.T, b *Builder, got []string)
	}{
		{"add", func(t *testing.T, b *Builder, _ []string) {
			_, err := b.AddComponent(domain.KindTeamSection)
			require.NoError(t, err)
		}},
		{"move", func(t *testing.T, b *Builder, got []string) {
			require.NoError(t, b.MoveComponent(got[2], got[0]))
		}},
		{"delete", func(t *testing.T, b *Builder, got []string) {
			require.NoError(t, b.DeleteComponent(got[1]))
		}},
		{"edit", func(t *testing.T, b *Builder, got []string) {
			_, err := b.EditComponent(got[1], domain.Patch{Config: map[string]any{"kicker": "Fresh"}})
			require.NoError(t, err)
		}},
		{"hide", func(t *testing.T, b *Builder, got []string) {
			require.NoError(t, b.SetVisibility(got[0], false))
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			b := newTestBuilder(t)
			got := addAll(t, b, domain.KindHero, domain.KindSectionHeader, domain.KindMenuSection)
			before := b.Layout()

			op.run(t, b, got)
			after := b.Layout()
			require.False(t, before.Equal(after))

			require.True(t, b.Undo())
			assert.True(t, before.Equal(b.Layout()))
			require.True(t, b.Redo())
			assert.True(t, after.Equal(b.Layout()))
		})
	}
}

func TestBuilder_UndoAtFloor(t *testing.T) {
	initial := heroAt("hero-1")
	b := newTestBuilder(t, initial)

	assert.False(t, b.CanUndo())
	assert.False(t, b.Undo())
	assert.Equal(t, []string{"hero-1"}, b.Layout().IDs())
}

func TestBuilder_UndoDropsStaleSelection(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero)
	require.NoError(t, b.Select(got[0]))

	require.True(t, b.Undo())

	assert.Empty(t, b.SelectedID())
}

func TestBuilder_Select(t *testing.T) {
	b := newTestBuilder(t)
	got := addAll(t, b, domain.KindHero, domain.KindSectionHeader)
	_, err := b.EditComponent(got[0], domain.Patch{})
	require.NoError(t, err)

	require.NoError(t, b.Select(got[1]))
	assert.Equal(t, got[1], b.SelectedID())
	assert.False(t, b.EditorOpen())

	b.ClearSelection()
	assert.Empty(t, b.SelectedID())
}

func TestBuilder_IDsStayUnique(t *testing.T) {
	b := newTestBuilder(t)
	kinds := domain.AllKinds()
	for i := range 30 {
		c, err := b.AddComponent(kinds[i%len(kinds)])
		require.NoError(t, err)
		current := b.Layout().IDs()
		if len(current) > 1 {
			require.NoError(t, b.MoveComponent(c.ID, current[i%(len(current)-1)]))
		}
	}

	seen := make(map[string]bool)
	for _, id := range b.Layout().IDs() {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 30)
}

func TestBuilder_Save(t *testing.T) {
	var gotKey string
	var gotSnapshot domain.Snapshot
	saver := &mockSaver{saveFn: func(_ context.Context, key string, s domain.Snapshot) (domain.SaveResult, error) {
		gotKey, gotSnapshot = key, s
		return domain.SaveResult{Snapshot: s, CachedLocally: true, Remote: true}, nil
	}}
	gen := ids.NewSequence()
	b := NewBuilder("r1", NewComponentRegistry(gen), gen, saver, domain.Layout{})
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b.SetClock(func() time.Time { return at })
	addAll(t, b, domain.KindHero)
	historyBefore := b.HistoryLen()

	res, err := b.Save(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Remote)
	assert.Equal(t, "r1", gotKey)
	assert.True(t, at.Equal(gotSnapshot.LastModified))
	assert.Len(t, gotSnapshot.Components, 1)
	assert.Equal(t, domain.SaveSucceeded, b.SaveStatus())
	assert.Equal(t, historyBefore, b.HistoryLen())
}

func TestBuilder_Save_FailureKeepsState(t *testing.T) {
	tests := []struct {
		name   string
		result domain.SaveResult
		want   domain.SaveStatus
	}{
		{"cached locally", domain.SaveResult{CachedLocally: true}, domain.SaveCachedLocal},
		{"not cached", domain.SaveResult{}, domain.SaveFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := &mockSaver{saveFn: func(context.Context, string, domain.Snapshot) (domain.SaveResult, error) {
				return tt.result, domain.ErrPersistenceFailure
			}}
			gen := ids.NewSequence()
			b := NewBuilder("r1", NewComponentRegistry(gen), gen, saver, domain.Layout{})
			addAll(t, b, domain.KindHero, domain.KindSectionHeader)
			before := b.Layout()
			historyBefore := b.HistoryLen()

			_, err := b.Save(context.Background())

			assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
			assert.Equal(t, tt.want, b.SaveStatus())
			assert.True(t, before.Equal(b.Layout()))
			assert.Equal(t, historyBefore, b.HistoryLen())
			assert.True(t, b.CanUndo())
		})
	}
}

func TestBuilder_Save_NoSaver(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.Save(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	outcome := <-b.SaveAsync(context.Background())
	assert.ErrorIs(t, outcome.Err, domain.ErrNotImplemented)
}

func TestBuilder_SaveAsync_CapturesSnapshotAtIssue(t *testing.T) {
	release := make(chan struct{})
	saved := make(chan domain.Snapshot, 1)
	saver := &mockSaver{saveFn: func(_ context.Context, _ string, s domain.Snapshot) (domain.SaveResult, error) {
		<-release
		saved <- s
		return domain.SaveResult{Snapshot: s, Remote: true}, nil
	}}
	gen := ids.NewSequence()
	b := NewBuilder("r1", NewComponentRegistry(gen), gen, saver, domain.Layout{})
	addAll(t, b, domain.KindHero)

	done := b.SaveAsync(context.Background())
	assert.Equal(t, domain.SaveInProgress, b.SaveStatus())

	addAll(t, b, domain.KindSectionHeader)
	close(release)

	outcome := <-done
	require.NoError(t, outcome.Err)
	assert.Len(t, (<-saved).Components, 1)
	assert.Equal(t, 2, b.Layout().Len())
	assert.Equal(t, domain.SaveSucceeded, b.SaveStatus())
}

func TestBuilder_SaveAsync_LatestWins(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	saver := &mockSaver{saveFn: func(context.Context, string, domain.Snapshot) (domain.SaveResult, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return domain.SaveResult{}, errors.New("backend down")
		}
		return domain.SaveResult{Remote: true}, nil
	}}
	gen := ids.NewSequence()
	b := NewBuilder("r1", NewComponentRegistry(gen), gen, saver, domain.Layout{})

	first := b.SaveAsync(context.Background())
	<-entered

	second := <-b.SaveAsync(context.Background())
	require.NoError(t, second.Err)
	assert.Equal(t, domain.SaveSucceeded, b.SaveStatus())

	close(release)
	stale := <-first
	assert.Error(t, stale.Err)
	assert.Less(t, stale.Seq, second.Seq)
	assert.Equal(t, domain.SaveSucceeded, b.SaveStatus())
}

func TestBuilderFactory_Open(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLayoutStore()
	gen := ids.NewSequence()
	layouts := NewLayoutService(store, nil, nil)
	factory := NewBuilderFactory(layouts, NewComponentRegistry(gen), gen)

	l, err := domain.NewLayout(heroAt("hero-1"))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "r1", domain.NewSnapshot(l, time.Now())))

	b, loaded, err := factory.Open(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceRemote, loaded.Source)
	assert.Equal(t, []string{"hero-1"}, b.Layout().IDs())
	assert.Equal(t, 1, b.HistoryLen())
	assert.False(t, b.CanUndo())

	_, err = b.AddComponent(domain.KindSectionHeader)
	require.NoError(t, err)
	_, err = b.Save(ctx)
	require.NoError(t, err)

	stored, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, stored.Components, 2)
}

func TestBuilderFactory_Open_DefaultKey(t *testing.T) {
	gen := ids.NewSequence()
	factory := NewBuilderFactory(NewLayoutService(memory.NewLayoutStore(), nil, nil), NewComponentRegistry(gen), gen)

	b, loaded, err := factory.Open(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRestaurantKey, b.RestaurantKey())
	assert.Equal(t, domain.SourceDefault, loaded.Source)
}

func TestBuilderFactory_NoLayoutService(t *testing.T) {
	factory := NewBuilderFactory(nil, nil, nil)

	_, _, err := factory.Open(context.Background(), "r1")

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func componentAt(t *testing.T, l domain.Layout, i int) domain.Component {
	t.Helper()
	c, ok := l.At(i)
	require.True(t, ok, "no component at %d", i)
	return c
}

func heroAt(id string) domain.Component {
	return domain.NewComponent(id, &domain.HeroConfig{Title: "Welcome"})
}

var _ driven.LayoutSaver = (*mockSaver)(nil)
