// Package palette provides the view for adding components.
package palette

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/views"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// View lists component kinds; enter appends one to the layout.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	builder  driving.BuilderService
	kinds    []domain.KindInfo
	selected int
}

// NewView creates a palette offering the registry's kinds.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	builder driving.BuilderService,
	registry driving.ComponentRegistry,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		builder: builder,
		kinds:   registry.Kinds(),
	}
}

// Init initialises the palette.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the palette.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	k := key.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.kinds)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keymap.Select):
		return v, v.add()
	case keymap.Matches(k, v.keymap.Back):
		return v, views.Show(messages.ViewCanvas)
	}
	return v, nil
}

func (v *View) add() tea.Cmd {
	if v.selected >= len(v.kinds) {
		return nil
	}
	c, err := v.builder.AddComponent(v.kinds[v.selected].Kind)
	if err != nil {
		return views.Fail(err)
	}
	return tea.Sequence(
		views.Emit(messages.ComponentAdded{Component: c}),
		views.Emit(messages.LayoutChanged{FocusID: c.ID}),
		views.Show(messages.ViewCanvas),
	)
}

// View renders the palette.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Add a section"))
	b.WriteString("\n\n")

	for i, k := range v.kinds {
		cursor := "  "
		label := v.styles.Normal.Render(k.Label)
		if i == v.selected {
			cursor = "> "
			label = v.styles.Selected.Render(k.Label)
		}
		b.WriteString(cursor)
		b.WriteString(label)
		b.WriteString("\n    ")
		b.WriteString(v.styles.Muted.Render(k.Description))
		b.WriteString("\n")
	}
	return b.String()
}

// Reset moves the cursor back to the first kind.
func (v *View) Reset() {
	v.selected = 0
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
