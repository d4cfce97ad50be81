// Package editor provides the field editor for the selected component.
package editor

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/views"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// View edits the fields of the builder's selected component. Field
// changes are buffered until applied; esc discards them.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	builder   driving.BuilderService
	registry  driving.ComponentRegistry
	component domain.Component
	inputs    []*input.FieldInput
	focus     int
	width     int
}

// NewView creates an editor.
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
		styles:   s,
		keymap:   km,
		builder:  builder,
		registry: registry,
		width:    80,
	}
}

// Init loads the selected component's fields.
func (v *View) Init() tea.Cmd {
	if err := v.Load(); err != nil {
		return views.Fail(err)
	}
	return v.focusInput(v.focus)
}

// Load reads the selected component from the builder. The focus index is
// kept where possible so it survives item edits.
func (v *View) Load() error {
	id := v.builder.SelectedID()
	c, _, ok := v.builder.Layout().Find(id)
	if !ok {
		v.inputs = nil
		return fmt.Errorf("%w: no component selected", domain.ErrNotFound)
	}
	v.component = c

	fields := domain.EditableFields(c.Config)
	v.inputs = make([]*input.FieldInput, len(fields))
	for i, f := range fields {
		in := input.NewFieldInput(v.styles, f)
		in.SetWidth(v.width)
		v.inputs[i] = in
	}
	if v.focus >= len(v.inputs) {
		v.focus = len(v.inputs) - 1
	}
	if v.focus < 0 {
		v.focus = 0
	}
	return nil
}

// Update handles messages for the editor.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, v.forward(msg)
	}

	k := key.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		v.builder.CloseEditor()
		return v, tea.Batch(views.Emit(messages.LayoutChanged{FocusID: v.component.ID}), views.Show(messages.ViewCanvas))
	case keymap.Matches(k, v.keymap.NextField):
		return v, v.focusInput(v.focus + 1)
	case keymap.Matches(k, v.keymap.PrevField):
		return v, v.focusInput(v.focus - 1)
	case keymap.Matches(k, v.keymap.Apply):
		return v, v.apply()
	case keymap.Matches(k, v.keymap.AddItem):
		return v, v.addItem()
	case keymap.Matches(k, v.keymap.RemoveItem):
		return v, v.removeItem()
	}
	return v, v.forward(msg)
}

func (v *View) forward(msg tea.Msg) tea.Cmd {
	if v.focus >= len(v.inputs) {
		return nil
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *View) focusInput(i int) tea.Cmd {
	if len(v.inputs) == 0 {
		return nil
	}
	if i < 0 {
		i = len(v.inputs) - 1
	}
	if i >= len(v.inputs) {
		i = 0
	}
	for _, in := range v.inputs {
		in.Blur()
	}
	v.focus = i
	return v.inputs[i].Focus()
}

// apply commits the changed fields as one edit.
func (v *View) apply() tea.Cmd {
	var changed []domain.Field
	for _, in := range v.inputs {
		if in.Changed() {
			changed = append(changed, in.Field())
		}
	}
	if len(changed) == 0 {
		return views.Status("no changes")
	}

	patch, err := domain.PatchFromFields(v.component.Config, changed)
	if err != nil {
		return views.Fail(err)
	}
	return v.commit(patch, fmt.Sprintf("Updated %s", v.component.ID))
}

func (v *View) addItem() tea.Cmd {
	patch, err := v.registry.AppendItemPatch(v.component.Config)
	if err != nil {
		return views.Fail(err)
	}
	cmd := v.commit(patch, "Item added")
	v.focus = len(v.inputs) - 1
	return tea.Batch(cmd, v.focusInput(v.focus))
}

// removeItem removes the list item the focused field belongs to.
func (v *View) removeItem() tea.Cmd {
	index, ok := v.itemIndex()
	if !ok {
		return views.Status("focus a list item to remove it")
	}
	patch, err := v.registry.RemoveItemPatch(v.component.Config, index)
	if err != nil {
		return views.Fail(err)
	}
	cmd := v.commit(patch, "Item removed")
	return tea.Batch(cmd, v.focusInput(v.focus))
}

func (v *View) itemIndex() (int, bool) {
	if v.focus >= len(v.inputs) {
		return 0, false
	}
	segments := strings.Split(v.inputs[v.focus].Field().Path, ".")
	if len(segments) < 3 {
		return 0, false
	}
	i, err := strconv.Atoi(segments[1])
	return i, err == nil
}

func (v *View) commit(patch domain.Patch, done string) tea.Cmd {
	res, err := v.builder.EditComponent(v.component.ID, patch)
	if err != nil {
		return views.Fail(err)
	}
	if err := v.Load(); err != nil {
		return views.Fail(err)
	}
	if !res.Changed {
		return views.Status("no changes")
	}
	return tea.Batch(
		views.Emit(messages.LayoutChanged{FocusID: v.component.ID}),
		views.Status(done),
	)
}

// View renders the editor.
func (v *View) View() string {
	var b strings.Builder

	title := v.component.Kind.Label()
	b.WriteString(v.styles.Title.Render("Edit " + title))
	b.WriteString(v.styles.Muted.Render("  " + v.component.ID))
	b.WriteString("\n\n")

	if len(v.inputs) == 0 {
		b.WriteString(v.styles.Muted.Render("Nothing to edit."))
		b.WriteString("\n")
		return b.String()
	}
	for _, in := range v.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
	for _, in := range v.inputs {
		in.SetWidth(width)
	}
}

// Fields returns the current field values.
func (v *View) Fields() []domain.Field {
	out := make([]domain.Field, len(v.inputs))
	for i, in := range v.inputs {
		out[i] = in.Field()
	}
	return out
}

// Focused returns the index of the focused field.
func (v *View) Focused() int {
	return v.focus
}

// ComponentID returns the id of the component being edited.
func (v *View) ComponentID() string {
	return v.component.ID
}
