// Package canvas provides the layout view: the page's components in
// order, with reordering, visibility and history controls.
package canvas

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/views"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// View lists the components of the working layout.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	builder driving.BuilderService
	cursor  int
	width   int
	height  int
}

// NewView creates a canvas over builder.
func NewView(s *styles.Styles, km *keymap.KeyMap, builder driving.BuilderService) *View {
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
		width:   80,
		height:  24,
	}
}

// Init initialises the canvas.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the canvas.
//
//nolint:gocyclo // one case per key binding
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.LayoutChanged:
		v.Focus(msg.FocusID)
		return v, nil

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, v.keymap.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case keymap.Matches(k, v.keymap.Down):
			if v.cursor < v.builder.Layout().Len()-1 {
				v.cursor++
			}
		case keymap.Matches(k, v.keymap.MoveUp):
			return v, v.move(-1)
		case keymap.Matches(k, v.keymap.MoveDown):
			return v, v.move(1)
		case keymap.Matches(k, v.keymap.Select):
			return v, v.edit()
		case keymap.Matches(k, v.keymap.Add):
			return v, views.Show(messages.ViewPalette)
		case keymap.Matches(k, v.keymap.Delete):
			return v, v.remove()
		case keymap.Matches(k, v.keymap.Toggle):
			return v, v.toggle()
		case keymap.Matches(k, v.keymap.Undo):
			return v, v.history(v.builder.Undo, "nothing to undo")
		case keymap.Matches(k, v.keymap.Redo):
			return v, v.history(v.builder.Redo, "nothing to redo")
		case keymap.Matches(k, v.keymap.Save):
			return v, views.Emit(messages.SaveRequested{})
		case keymap.Matches(k, v.keymap.Help):
			return v, views.Show(messages.ViewHelp)
		case keymap.Matches(k, v.keymap.Quit):
			return v, tea.Quit
		}
	}
	return v, nil
}

func (v *View) current() (domain.Component, bool) {
	return v.builder.Layout().At(v.cursor)
}

func (v *View) move(delta int) tea.Cmd {
	c, ok := v.current()
	if !ok {
		return nil
	}
	target, ok := v.builder.Layout().At(v.cursor + delta)
	if !ok {
		return nil
	}
	if err := v.builder.MoveComponent(c.ID, target.ID); err != nil {
		return views.Fail(err)
	}
	v.cursor += delta
	return views.Emit(messages.LayoutChanged{FocusID: c.ID})
}

func (v *View) edit() tea.Cmd {
	c, ok := v.current()
	if !ok {
		return nil
	}
	if _, err := v.builder.EditComponent(c.ID, domain.Patch{}); err != nil {
		return views.Fail(err)
	}
	return views.Show(messages.ViewEditor)
}

func (v *View) remove() tea.Cmd {
	c, ok := v.current()
	if !ok {
		return nil
	}
	if err := v.builder.DeleteComponent(c.ID); err != nil {
		return views.Fail(err)
	}
	v.clamp()
	return tea.Batch(
		views.Emit(messages.LayoutChanged{}),
		views.Status("Deleted "+c.ID),
	)
}

func (v *View) toggle() tea.Cmd {
	c, ok := v.current()
	if !ok {
		return nil
	}
	if err := v.builder.SetVisibility(c.ID, !c.Visible); err != nil {
		return views.Fail(err)
	}
	return views.Emit(messages.LayoutChanged{FocusID: c.ID})
}

func (v *View) history(step func() bool, none string) tea.Cmd {
	if !step() {
		return views.Status(none)
	}
	v.clamp()
	return views.Emit(messages.LayoutChanged{})
}

func (v *View) clamp() {
	n := v.builder.Layout().Len()
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// View renders the canvas.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Page layout"))
	b.WriteString(v.styles.Muted.Render("  " + v.builder.RestaurantKey()))
	b.WriteString("\n\n")

	components := v.builder.Layout().Components()
	if len(components) == 0 {
		b.WriteString(v.styles.Muted.Render("No components. Press a to add one."))
		b.WriteString("\n")
		return b.String()
	}

	selected := v.builder.SelectedID()
	for i, c := range components {
		cursor := "  "
		if i == v.cursor {
			cursor = "> "
		}
		headline := strings.Join(strings.Fields(domain.Headline(c.Config)), " ")
		if headline == "" {
			headline = c.Kind.Label()
		}
		line := fmt.Sprintf("%2d. %s", i+1, headline)

		switch {
		case i == v.cursor:
			line = v.styles.Selected.Render(line)
		case !c.Visible:
			line = v.styles.Hidden.Render(line)
		default:
			line = v.styles.Normal.Render(line)
		}

		b.WriteString(cursor)
		b.WriteString(line)
		b.WriteString(" ")
		b.WriteString(v.styles.Kind.Render(c.Kind.Label()))
		if !c.Visible {
			b.WriteString(v.styles.Muted.Render(" (hidden)"))
		}
		if c.ID == selected {
			b.WriteString(v.styles.Warning.Render(" ●"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Focus moves the cursor to the component with id. An empty or unknown
// id only clamps the cursor.
func (v *View) Focus(id string) {
	if id != "" {
		if _, i, ok := v.builder.Layout().Find(id); ok {
			v.cursor = i
			return
		}
	}
	v.clamp()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Cursor returns the cursor index.
func (v *View) Cursor() int {
	return v.cursor
}
