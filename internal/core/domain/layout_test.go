package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout_DuplicateID(t *testing.T) {
	_, err := NewLayout(heroComponent("a", "x"), menuComponent("a"))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestNewLayout_Empty(t *testing.T) {
	l, err := NewLayout()
	require.NoError(t, err)
	assert.True(t, l.IsEmpty())
	assert.Empty(t, l.IDs())
}

func TestLayout_Insert(t *testing.T) {
	base := mustLayout(t, heroComponent("a", "A"), menuComponent("b"))

	tests := []struct {
		name     string
		at       int
		expected []string
	}{
		{"front", 0, []string{"x", "a", "b"}},
		{"middle", 1, []string{"a", "x", "b"}},
		{"negative appends", -1, []string{"a", "b", "x"}},
		{"past end appends", 10, []string{"a", "b", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := base.Insert(headerComponent("x", "X"), tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.IDs())
			assert.Equal(t, []string{"a", "b"}, base.IDs(), "receiver must be unchanged")
		})
	}
}

func TestLayout_Insert_Rejects(t *testing.T) {
	base := mustLayout(t, heroComponent("a", "A"))

	_, err := base.Append(menuComponent("a"))
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = base.Append(Component{ID: "z", Kind: KindHero})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLayout_Insert_DoesNotShareBackingArray(t *testing.T) {
	base := mustLayout(t, heroComponent("a", "A"), menuComponent("b"))

	first, err := base.Insert(headerComponent("x", "X"), 1)
	require.NoError(t, err)
	second, err := base.Insert(headerComponent("y", "Y"), 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "x", "b"}, first.IDs())
	assert.Equal(t, []string{"a", "y", "b"}, second.IDs())
}

func TestLayout_Remove(t *testing.T) {
	base := mustLayout(t, heroComponent("a", "A"), headerComponent("b", "B"), menuComponent("c"))

	out, err := base.Remove("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, out.IDs())

	_, err = base.Remove("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLayout_MoveBefore(t *testing.T) {
	base := mustLayout(t, heroComponent("A", "A"), headerComponent("B", "B"), menuComponent("C"))

	tests := []struct {
		name     string
		moved    string
		target   string
		expected []string
	}{
		{"last onto first", "C", "A", []string{"C", "A", "B"}},
		{"first onto last", "A", "C", []string{"B", "C", "A"}},
		{"first onto next", "A", "B", []string{"B", "A", "C"}},
		{"middle onto first", "B", "A", []string{"B", "A", "C"}},
		{"self is unchanged", "B", "B", []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := base.MoveBefore(tt.moved, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.IDs())
			assert.Equal(t, []string{"A", "B", "C"}, base.IDs())
		})
	}
}

func TestLayout_MoveBefore_MissingIDs(t *testing.T) {
	base := mustLayout(t, heroComponent("A", "A"), menuComponent("B"))

	_, err := base.MoveBefore("X", "A")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = base.MoveBefore("A", "X")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Moving a onto b and then b onto a restores the relative order of a and b.
func TestLayout_MoveBefore_RestoresRelativeOrder(t *testing.T) {
	base := mustLayout(t,
		heroComponent("A", "A"),
		headerComponent("B", "B"),
		menuComponent("C"),
		headerComponent("D", "D"),
	)
	ids := base.IDs()

	for _, a := range ids {
		for _, b := range ids {
			if a == b {
				continue
			}
			step, err := base.MoveBefore(a, b)
			require.NoError(t, err)
			back, err := step.MoveBefore(b, a)
			require.NoError(t, err)

			_, origA, _ := base.Find(a)
			_, origB, _ := base.Find(b)
			_, gotA, _ := back.Find(a)
			_, gotB, _ := back.Find(b)
			assert.Equal(t, origA < origB, gotA < gotB, "move(%s,%s) then move(%s,%s)", a, b, b, a)
		}
	}
}

func TestLayout_Update_OnlyTouchesTarget(t *testing.T) {
	base := mustLayout(t, heroComponent("A", "Old"), headerComponent("B", "B"), menuComponent("C"))

	out, err := base.Update("A", Patch{Config: map[string]any{"title": "New Title"}})
	require.NoError(t, err)

	a, _, _ := out.Find("A")
	assert.Equal(t, "New Title", a.Config.(*HeroConfig).Title)

	for _, id := range []string{"B", "C"} {
		before, _, _ := base.Find(id)
		after, _, _ := out.Find(id)
		assert.True(t, before.Equal(after), id)
	}

	orig, _, _ := base.Find("A")
	assert.Equal(t, "Old", orig.Config.(*HeroConfig).Title)
}

func TestLayout_Update_Errors(t *testing.T) {
	base := mustLayout(t, heroComponent("A", "A"))

	_, err := base.Update("X", VisibilityPatch(false))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = base.Update("A", Patch{Config: map[string]any{"nope": 1}})
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestLayout_SetVisibility_Idempotent(t *testing.T) {
	base := mustLayout(t, heroComponent("A", "A"), menuComponent("B"))

	once, err := base.SetVisibility("B", false)
	require.NoError(t, err)
	twice, err := once.SetVisibility("B", false)
	require.NoError(t, err)

	assert.True(t, once.Equal(twice))
	assert.Len(t, twice.Visible(), 1)
}

func TestLayout_Find_ReturnsCopy(t *testing.T) {
	base := mustLayout(t, heroComponent("A", "A"))

	c, i, ok := base.Find("A")
	require.True(t, ok)
	assert.Equal(t, 0, i)
	c.Config.(*HeroConfig).Title = "mutated"

	again, _, _ := base.Find("A")
	assert.Equal(t, "A", again.Config.(*HeroConfig).Title)

	_, _, ok = base.Find("missing")
	assert.False(t, ok)
}

func TestLayout_Equal(t *testing.T) {
	a := mustLayout(t, heroComponent("A", "A"), menuComponent("B"))
	b := mustLayout(t, heroComponent("A", "A"), menuComponent("B"))
	c := mustLayout(t, menuComponent("B"), heroComponent("A", "A"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, a.Equal(a.Clone()))
}
