package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablesite/internal/adapters/driven/ids"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/services"
)

// mockSaver is a driven.LayoutSaver backed by a function.
type mockSaver struct {
	saveFn func(ctx context.Context, key string, snapshot domain.Snapshot) (domain.SaveResult, error)
}

func (m *mockSaver) Save(ctx context.Context, key string, snapshot domain.Snapshot) (domain.SaveResult, error) {
	return m.saveFn(ctx, key, snapshot)
}

func savedRemotely(_ context.Context, _ string, s domain.Snapshot) (domain.SaveResult, error) {
	return domain.SaveResult{Snapshot: s, Remote: true}, nil
}

func newTestApp(t *testing.T, saver *mockSaver) *App {
	t.Helper()
	gen := ids.NewSequence()
	registry := services.NewComponentRegistry(gen)
	var builder *services.Builder
	if saver != nil {
		builder = services.NewBuilder("spice-route", registry, gen, saver, domain.Layout{})
	} else {
		builder = services.NewBuilder("spice-route", registry, gen, nil, domain.Layout{})
	}

	app, err := NewApp(&Ports{Builder: builder, Registry: registry})
	require.NoError(t, err)
	app.SetDimensions(240, 40)
	return app
}

// send feeds msg to the app and then every message its commands produce.
func send(app *App, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0 && steps < 50; steps++ {
		next := queue[0]
		queue = queue[1:]
		_, cmd := app.Update(next)
		queue = append(queue, tuitest.Drain(cmd)...)
	}
}

func press(app *App, keys ...string) {
	for _, k := range keys {
		send(app, tuitest.Key(k))
	}
}

func TestNewApp_ValidatesPorts(t *testing.T) {
	_, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingBuilder)
}

func TestApp_InitialState(t *testing.T) {
	gen := ids.NewSequence()
	registry := services.NewComponentRegistry(gen)
	app, err := NewApp(&Ports{
		Builder:  services.NewBuilder("r1", registry, gen, nil, domain.Layout{}),
		Registry: registry,
	})
	require.NoError(t, err)

	assert.Equal(t, messages.ViewCanvas, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(tea.WindowSizeMsg{Width: 220, Height: 30})

	assert.True(t, app.Ready())
	assert.Equal(t, 220, app.StatusBar().Width())
	out := app.View()
	assert.Contains(t, out, "Page layout")
	assert.Contains(t, out, "0 components")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(tuitest.Key("ctrl+c"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_AddFromPalette(t *testing.T) {
	app := newTestApp(t, nil)

	press(app, "a")
	assert.Equal(t, messages.ViewPalette, app.CurrentView())
	assert.Contains(t, app.View(), "Add a section")

	press(app, "enter")

	assert.Equal(t, messages.ViewCanvas, app.CurrentView())
	layout := app.Builder().Layout()
	require.Equal(t, 1, layout.Len())
	c, _ := layout.At(0)
	assert.Equal(t, "Added "+c.ID, app.StatusBar().Message())
	assert.Contains(t, app.View(), "1 component")
}

func TestApp_EditAndReturn(t *testing.T) {
	app := newTestApp(t, nil)
	_, err := app.Builder().AddComponent(domain.KindHero)
	require.NoError(t, err)

	press(app, "enter")
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.Contains(t, app.View(), "Edit "+domain.KindHero.Label())

	// Letters are typed into the field, not treated as shortcuts.
	press(app, "q", "ctrl+s")
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	c, _ := app.Builder().Layout().At(0)
	assert.Equal(t, "New Hero Titleq", c.Config.(*domain.HeroConfig).Title)

	press(app, "esc")
	assert.Equal(t, messages.ViewCanvas, app.CurrentView())
	assert.False(t, app.Builder().EditorOpen())
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t, nil)

	press(app, "?")
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Help")
	assert.Contains(t, app.View(), "undo")

	press(app, "esc")
	assert.Equal(t, messages.ViewCanvas, app.CurrentView())
}

func TestApp_UndoUpdatesStatus(t *testing.T) {
	app := newTestApp(t, nil)
	press(app, "a", "enter")
	require.Equal(t, 1, app.Builder().Layout().Len())

	press(app, "u")

	assert.Equal(t, 0, app.Builder().Layout().Len())
	assert.Contains(t, app.View(), "0 components")
}

func TestApp_Save(t *testing.T) {
	tests := []struct {
		name    string
		saveFn  func(context.Context, string, domain.Snapshot) (domain.SaveResult, error)
		status  domain.SaveStatus
		isError bool
	}{
		{
			name:   "saved",
			saveFn: savedRemotely,
			status: domain.SaveSucceeded,
		},
		{
			name: "cached locally",
			saveFn: func(_ context.Context, _ string, s domain.Snapshot) (domain.SaveResult, error) {
				return domain.SaveResult{Snapshot: s, CachedLocally: true}, domain.ErrPersistenceFailure
			},
			status: domain.SaveCachedLocal,
		},
		{
			name: "failed",
			saveFn: func(context.Context, string, domain.Snapshot) (domain.SaveResult, error) {
				return domain.SaveResult{}, errors.New("disk full")
			},
			status:  domain.SaveFailed,
			isError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, &mockSaver{saveFn: tt.saveFn})
			_, err := app.Builder().AddComponent(domain.KindHero)
			require.NoError(t, err)

			press(app, "s")

			assert.Equal(t, tt.status, app.StatusBar().SaveStatus())
			assert.Equal(t, tt.isError, app.StatusBar().IsError())
			assert.Equal(t, tt.isError, app.Err() != nil)
		})
	}
}

func TestApp_SaveWithoutSaver(t *testing.T) {
	app := newTestApp(t, nil)

	press(app, "s")

	require.Error(t, app.Err())
	assert.ErrorIs(t, app.Err(), domain.ErrNotImplemented)
}

func TestApp_ErrorAndNotice(t *testing.T) {
	app := newTestApp(t, nil)

	app.SetNotice("loaded from local cache")
	assert.Equal(t, "loaded from local cache", app.StatusBar().Message())

	send(app, messages.ErrorOccurred{Err: errors.New("boom")})
	assert.True(t, app.StatusBar().IsError())
	assert.EqualError(t, app.Err(), "boom")

	// Any key on the canvas clears the message.
	press(app, "down")
	assert.Empty(t, app.StatusBar().Message())
}
