package domain

// History is a linear undo/redo stack of layout snapshots.
//
// It always holds at least one entry and its cursor always points at a
// valid entry. Recording after an undo discards the redo branch.
type History struct {
	entries []Layout
	cursor  int
}

// NewHistory starts a history whose only entry is initial.
func NewHistory(initial Layout) *History {
	return &History{
		entries: []Layout{initial.Clone()},
		cursor:  0,
	}
}

// Record truncates any redo entries and appends l as the current state.
func (h *History) Record(l Layout) {
	h.entries = append(h.entries[:h.cursor+1], l.Clone())
	h.cursor = len(h.entries) - 1
}

// Undo steps back one entry. At the earliest entry it returns the current
// state and false.
func (h *History) Undo() (Layout, bool) {
	if h.cursor == 0 {
		return h.Current(), false
	}
	h.cursor--
	return h.Current(), true
}

// Redo steps forward one entry. At the latest entry it returns the current
// state and false.
func (h *History) Redo() (Layout, bool) {
	if h.cursor >= len(h.entries)-1 {
		return h.Current(), false
	}
	h.cursor++
	return h.Current(), true
}

// Current returns the entry at the cursor.
func (h *History) Current() Layout {
	return h.entries[h.cursor].Clone()
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the index of the current entry.
func (h *History) Cursor() int {
	return h.cursor
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}
