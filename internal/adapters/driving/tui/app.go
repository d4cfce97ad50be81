package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/views/canvas"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/views/editor"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/views/palette"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	canvasView  *canvas.View
	paletteView *palette.View
	editorView  *editor.View
	statusBar   *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		canvasView:  canvas.NewView(s, km, ports.Builder),
		paletteView: palette.NewView(s, km, ports.Builder, ports.Registry),
		editorView:  editor.NewView(s, km, ports.Builder, ports.Registry),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewCanvas,
	}
	a.refreshStatus()
	return a, nil
}

// WithContext sets the context used for saves.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// SetNotice shows a message in the status bar, e.g. a load fallback warning.
func (a *App) SetNotice(text string) {
	a.statusBar.SetMessage(text)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("tablesite - " + a.ports.Builder.RestaurantKey())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView != messages.ViewEditor {
			a.statusBar.ClearMessage()
		}

		switch a.currentView {
		case messages.ViewCanvas:
			a.canvasView, cmd = a.canvasView.Update(msg)
		case messages.ViewPalette:
			a.paletteView, cmd = a.paletteView.Update(msg)
		case messages.ViewEditor:
			a.editorView, cmd = a.editorView.Update(msg)
		case messages.ViewHelp:
			if keymap.Matches(msg.String(), a.keymap.Back) || keymap.Matches(msg.String(), a.keymap.Help) {
				cmd = a.show(messages.ViewCanvas)
			}
		}
		return a, cmd

	case messages.ViewChanged:
		return a, a.show(msg.View)

	case messages.LayoutChanged:
		a.canvasView, cmd = a.canvasView.Update(msg)
		a.refreshStatus()
		return a, cmd

	case messages.ComponentAdded:
		a.statusBar.SetMessage(fmt.Sprintf("Added %s", msg.Component.ID))
		return a, nil

	case messages.SaveRequested:
		a.statusBar.ClearMessage()
		a.statusBar.SetSaveStatus(domain.SaveInProgress)
		return a, a.save()

	case messages.SaveCompleted:
		a.refreshStatus()
		if err := msg.Outcome.Err; err != nil && !msg.Outcome.Result.CachedLocally {
			a.err = err
			a.statusBar.SetError(err.Error())
		}
		return a, nil

	case messages.StatusMessage:
		a.statusBar.SetMessage(msg.Text)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetError(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewEditor {
		a.editorView, cmd = a.editorView.Update(msg)
	}
	return a, cmd
}

// show switches views, initialising the target.
func (a *App) show(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.statusBar.SetView(view)

	switch view {
	case messages.ViewPalette:
		a.paletteView.Reset()
		return a.paletteView.Init()
	case messages.ViewEditor:
		return a.editorView.Init()
	case messages.ViewCanvas, messages.ViewHelp:
	}
	return nil
}

// save issues an asynchronous save and waits for its outcome off the
// update loop, so editing continues while it is in flight.
func (a *App) save() tea.Cmd {
	done := a.ports.Builder.SaveAsync(a.ctx)
	return func() tea.Msg {
		return messages.SaveCompleted{Outcome: <-done}
	}
}

func (a *App) refreshStatus() {
	b := a.ports.Builder
	a.statusBar.SetComponentCount(b.Layout().Len())
	a.statusBar.SetHistory(b.CanUndo(), b.CanRedo())
	a.statusBar.SetSaveStatus(b.SaveStatus())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewPalette:
		body = a.paletteView.View()
	case messages.ViewEditor:
		body = a.editorView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.canvasView.View()
	}

	lines := strings.Count(body, "\n")
	padding := a.height - lines - 1
	if padding < 1 {
		padding = 1
	}
	return body + strings.Repeat("\n", padding) + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back to layout"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Builder returns the edit session.
func (a *App) Builder() driving.BuilderService {
	return a.ports.Builder
}

// StatusBar returns the status bar (for testing).
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.canvasView.SetDimensions(width, height)
	a.editorView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}
