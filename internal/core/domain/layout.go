package domain

import "fmt"

// Layout is an ordered sequence of components with unique ids.
//
// Layout values are immutable: every operation returns a new Layout and
// leaves the receiver untouched, which is what lets History keep plain
// values as snapshots. The zero value is an empty layout.
type Layout struct {
	components []Component
}

// NewLayout builds a layout from components, validating each one and
// the uniqueness of their ids.
func NewLayout(components ...Component) (Layout, error) {
	seen := make(map[string]struct{}, len(components))
	out := make([]Component, 0, len(components))
	for _, c := range components {
		if err := c.Validate(); err != nil {
			return Layout{}, err
		}
		if _, ok := seen[c.ID]; ok {
			return Layout{}, fmt.Errorf("%w: %q", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}
		out = append(out, c.Clone())
	}
	return Layout{components: out}, nil
}

// Len returns the number of components.
func (l Layout) Len() int {
	return len(l.components)
}

// IsEmpty reports whether the layout has no components.
func (l Layout) IsEmpty() bool {
	return len(l.components) == 0
}

// Components returns a deep copy of the components in order.
func (l Layout) Components() []Component {
	out := make([]Component, len(l.components))
	for i, c := range l.components {
		out[i] = c.Clone()
	}
	return out
}

// IDs returns component ids in order.
func (l Layout) IDs() []string {
	ids := make([]string, len(l.components))
	for i, c := range l.components {
		ids[i] = c.ID
	}
	return ids
}

// Find returns a copy of the component with id and its index.
func (l Layout) Find(id string) (Component, int, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Component{}, -1, false
	}
	return l.components[i].Clone(), i, true
}

// Has reports whether a component with id exists.
func (l Layout) Has(id string) bool {
	return l.indexOf(id) >= 0
}

// At returns a copy of the component at index i.
func (l Layout) At(i int) (Component, bool) {
	if i < 0 || i >= len(l.components) {
		return Component{}, false
	}
	return l.components[i].Clone(), true
}

// Visible returns copies of the visible components in render order.
func (l Layout) Visible() []Component {
	out := make([]Component, 0, len(l.components))
	for _, c := range l.components {
		if c.Visible {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Insert returns a layout with c inserted at index at. An index outside
// [0, Len()) appends.
func (l Layout) Insert(c Component, at int) (Layout, error) {
	if err := c.Validate(); err != nil {
		return Layout{}, err
	}
	if l.Has(c.ID) {
		return Layout{}, fmt.Errorf("%w: %q", ErrDuplicateID, c.ID)
	}
	if at < 0 || at > len(l.components) {
		at = len(l.components)
	}

	out := make([]Component, 0, len(l.components)+1)
	out = append(out, l.components[:at]...)
	out = append(out, c.Clone())
	out = append(out, l.components[at:]...)
	return Layout{components: out}, nil
}

// Append returns a layout with c added at the end.
func (l Layout) Append(c Component) (Layout, error) {
	return l.Insert(c, -1)
}

// Remove returns a layout without the component id.
func (l Layout) Remove(id string) (Layout, error) {
	i := l.indexOf(id)
	if i < 0 {
		return Layout{}, notFound(id)
	}

	out := make([]Component, 0, len(l.components)-1)
	out = append(out, l.components[:i]...)
	out = append(out, l.components[i+1:]...)
	return Layout{components: out}, nil
}

// MoveBefore moves movedID to the position currently held by targetID.
//
// The moved component is taken out and reinserted at the target's original
// index, so dragging onto an earlier component lands before it and dragging
// onto a later one lands after it. Moving a component onto itself returns
// an unchanged copy.
func (l Layout) MoveBefore(movedID, targetID string) (Layout, error) {
	from := l.indexOf(movedID)
	if from < 0 {
		return Layout{}, notFound(movedID)
	}
	to := l.indexOf(targetID)
	if to < 0 {
		return Layout{}, notFound(targetID)
	}
	if from == to {
		return l.Clone(), nil
	}

	moved := l.components[from]
	rest := make([]Component, 0, len(l.components))
	rest = append(rest, l.components[:from]...)
	rest = append(rest, l.components[from+1:]...)

	out := make([]Component, 0, len(l.components))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return Layout{components: out}, nil
}

// Update returns a layout with p applied to the component id. Other
// components are carried over untouched.
func (l Layout) Update(id string, p Patch) (Layout, error) {
	i := l.indexOf(id)
	if i < 0 {
		return Layout{}, notFound(id)
	}

	updated, err := p.Apply(l.components[i])
	if err != nil {
		return Layout{}, err
	}

	out := make([]Component, len(l.components))
	copy(out, l.components)
	out[i] = updated
	return Layout{components: out}, nil
}

// SetVisibility returns a layout with the component's visibility set.
func (l Layout) SetVisibility(id string, visible bool) (Layout, error) {
	return l.Update(id, VisibilityPatch(visible))
}

// Clone returns a deep copy.
func (l Layout) Clone() Layout {
	return Layout{components: l.Components()}
}

// Equal reports whether two layouts hold deep-equal components in the same order.
func (l Layout) Equal(o Layout) bool {
	if len(l.components) != len(o.components) {
		return false
	}
	for i := range l.components {
		if !l.components[i].Equal(o.components[i]) {
			return false
		}
	}
	return true
}

func (l Layout) indexOf(id string) int {
	for i := range l.components {
		if l.components[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("%w: component %q", ErrNotFound, id)
}
