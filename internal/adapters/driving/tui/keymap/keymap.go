// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back closes the palette, editor or help.
	Back key.Binding

	// Up and Down move the cursor.
	Up   key.Binding
	Down key.Binding

	// MoveUp and MoveDown reorder the component under the cursor.
	MoveUp   key.Binding
	MoveDown key.Binding

	// Select opens the editor on the canvas and confirms in the palette.
	Select key.Binding

	// Add opens the component palette.
	Add key.Binding

	// Delete removes the component under the cursor.
	Delete key.Binding

	// Toggle shows or hides the component under the cursor.
	Toggle key.Binding

	Undo key.Binding
	Redo key.Binding

	// Save persists the layout.
	Save key.Binding

	// NextField and PrevField move between editor fields.
	NextField key.Binding
	PrevField key.Binding

	// Apply commits the editor's fields.
	Apply key.Binding

	// AddItem and RemoveItem grow or shrink the edited list.
	AddItem    key.Binding
	RemoveItem key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("h", " "),
			key.WithHelp("h", "show/hide"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("r", "ctrl+y"),
			key.WithHelp("r", "redo"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Apply: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "apply"),
		),
		AddItem: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "add item"),
		),
		RemoveItem: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "remove item"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// CanvasHelp returns keybindings for the canvas.
func (k *KeyMap) CanvasHelp() []key.Binding {
	return []key.Binding{k.Add, k.Select, k.MoveUp, k.MoveDown, k.Toggle, k.Delete, k.Undo, k.Redo, k.Save, k.Quit}
}

// PaletteHelp returns keybindings for the palette.
func (k *KeyMap) PaletteHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")), k.Back}
}

// EditorHelp returns keybindings for the editor.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Apply, k.AddItem, k.RemoveItem, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Add, k.Select, k.Toggle, k.Delete},
		{k.Undo, k.Redo, k.Save},
		{k.NextField, k.PrevField, k.Apply, k.AddItem, k.RemoveItem},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
