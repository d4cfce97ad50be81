package editor

import (
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

// newTestEditor opens the editor on a fresh component of kind.
func newTestEditor(t *testing.T, kind domain.Kind) (*View, *services.Builder, string) {
	t.Helper()
	gen := ids.NewSequence()
	registry := services.NewComponentRegistry(gen)
	b := services.NewBuilder("r1", registry, gen, nil, domain.Layout{})
	c, err := b.AddComponent(kind)
	require.NoError(t, err)
	_, err = b.EditComponent(c.ID, domain.Patch{})
	require.NoError(t, err)

	v := NewView(nil, nil, b, registry)
	v.Init()
	return v, b, c.ID
}

func press(v *View, key string) []tea.Msg {
	_, cmd := v.Update(tuitest.Key(key))
	return tuitest.Drain(cmd)
}

func statusText(t *testing.T, msgs []tea.Msg) string {
	t.Helper()
	status, ok := tuitest.Find[messages.StatusMessage](msgs)
	require.True(t, ok, "expected a status message in %v", msgs)
	return status.Text
}

func config[T domain.Config](t *testing.T, b *services.Builder, id string) T {
	t.Helper()
	c, _, ok := b.Layout().Find(id)
	require.True(t, ok)
	cfg, ok := c.Config.(T)
	require.True(t, ok)
	return cfg
}

func TestView_Init_NoSelection(t *testing.T) {
	gen := ids.NewSequence()
	registry := services.NewComponentRegistry(gen)
	b := services.NewBuilder("r1", registry, gen, nil, domain.Layout{})
	v := NewView(nil, nil, b, registry)

	msgs := tuitest.Drain(v.Init())

	failed, ok := tuitest.Find[messages.ErrorOccurred](msgs)
	require.True(t, ok)
	assert.ErrorIs(t, failed.Err, domain.ErrNotFound)
	assert.Empty(t, v.Fields())
}

func TestView_LoadsFields(t *testing.T) {
	v, _, id := newTestEditor(t, domain.KindHero)

	fields := v.Fields()

	require.NotEmpty(t, fields)
	assert.Equal(t, "title", fields[0].Path)
	assert.Equal(t, "New Hero Title", fields[0].Value)
	assert.Equal(t, id, v.ComponentID())
	assert.Equal(t, 0, v.Focused())
	assert.Contains(t, v.View(), "Edit "+domain.KindHero.Label())
}

func TestView_TypeAndApply(t *testing.T) {
	v, b, id := newTestEditor(t, domain.KindHero)

	for _, k := range tuitest.Type("!") {
		v.Update(k)
	}
	msgs := press(v, "ctrl+s")

	assert.Equal(t, "Updated "+id, statusText(t, msgs))
	changed, ok := tuitest.Find[messages.LayoutChanged](msgs)
	require.True(t, ok)
	assert.Equal(t, id, changed.FocusID)
	assert.Equal(t, "New Hero Title!", config[*domain.HeroConfig](t, b, id).Title)
	assert.Equal(t, "New Hero Title!", v.Fields()[0].Value)
}

func TestView_ApplyWithoutChanges(t *testing.T) {
	v, b, _ := newTestEditor(t, domain.KindHero)
	entries := b.HistoryLen()

	msgs := press(v, "ctrl+s")

	assert.Equal(t, "no changes", statusText(t, msgs))
	assert.Equal(t, entries, b.HistoryLen())
}

func TestView_ApplyNumber(t *testing.T) {
	v, b, id := newTestEditor(t, domain.KindMenuSection)
	fields := v.Fields()
	last := len(fields) - 1
	require.Equal(t, "maxItems", fields[last].Path)

	v.inputs[last].SetValue("12")
	press(v, "ctrl+s")

	assert.Equal(t, 12, config[*domain.MenuSectionConfig](t, b, id).MaxItems)
}

func TestView_FieldFocusWraps(t *testing.T) {
	v, _, _ := newTestEditor(t, domain.KindSectionHeader)
	n := len(v.Fields())

	press(v, "shift+tab")
	assert.Equal(t, n-1, v.Focused())

	press(v, "tab")
	assert.Equal(t, 0, v.Focused())

	press(v, "down")
	assert.Equal(t, 1, v.Focused())
	assert.True(t, v.inputs[1].Focused())
	assert.False(t, v.inputs[0].Focused())
}

func TestView_AddItem(t *testing.T) {
	v, b, id := newTestEditor(t, domain.KindTeamSection)
	before := len(v.Fields())

	msgs := press(v, "ctrl+n")

	assert.Equal(t, "Item added", statusText(t, msgs))
	assert.Len(t, v.Fields(), before+3)
	assert.Equal(t, len(v.Fields())-1, v.Focused())
	assert.Len(t, config[*domain.TeamSectionConfig](t, b, id).Members, 3)
}

func TestView_AddItem_NotAList(t *testing.T) {
	v, _, _ := newTestEditor(t, domain.KindHero)

	msgs := press(v, "ctrl+n")

	_, ok := tuitest.Find[messages.ErrorOccurred](msgs)
	assert.True(t, ok)
}

func TestView_RemoveItem(t *testing.T) {
	v, b, id := newTestEditor(t, domain.KindTeamSection)

	msgs := press(v, "ctrl+d")
	assert.Equal(t, "focus a list item to remove it", statusText(t, msgs))

	// Fields 0 and 1 are the heading; 2 is the first member's name.
	v.focusInput(2)
	msgs = press(v, "ctrl+d")

	assert.Equal(t, "Item removed", statusText(t, msgs))
	members := config[*domain.TeamSectionConfig](t, b, id).Members
	require.Len(t, members, 1)
	assert.Equal(t, "Chef Meera Kapoor", members[0].Name)
	assert.Equal(t, 2, v.Focused())
}

func TestView_EscClosesEditor(t *testing.T) {
	v, b, id := newTestEditor(t, domain.KindHero)

	msgs := press(v, "esc")

	assert.False(t, b.EditorOpen())
	assert.Equal(t, id, b.SelectedID())
	changed, ok := tuitest.Find[messages.ViewChanged](msgs)
	require.True(t, ok)
	assert.Equal(t, messages.ViewCanvas, changed.View)
}

func TestView_SetDimensions(t *testing.T) {
	v, _, _ := newTestEditor(t, domain.KindHero)

	v.SetDimensions(120, 40)

	assert.Equal(t, 120, v.width)
	for _, f := range v.inputs {
		assert.Equal(t, 120, f.Width())
	}
}
