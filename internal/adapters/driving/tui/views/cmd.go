// Package views holds helpers shared by the TUI views.
package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/messages"
)

// Emit returns a command that delivers msg.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Fail returns a command reporting err.
func Fail(err error) tea.Cmd {
	return Emit(messages.ErrorOccurred{Err: err})
}

// Status returns a command showing text in the status bar.
func Status(text string) tea.Cmd {
	return Emit(messages.StatusMessage{Text: text})
}

// Show returns a command switching to view.
func Show(view messages.ViewType) tea.Cmd {
	return Emit(messages.ViewChanged{View: view})
}
