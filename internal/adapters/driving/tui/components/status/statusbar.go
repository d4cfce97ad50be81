// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tablesite/internal/core/domain"
)

// Bar displays the save status, a transient message and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	save    domain.SaveStatus
	message string
	isError bool
	count   int
	canUndo bool
	canRedo bool
	view    messages.ViewType
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		save:   domain.SaveIdle,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the message or save status, then the document summary.
func (s *Bar) renderLeft() string {
	var status string
	switch {
	case s.message != "" && s.isError:
		status = s.styles.Error.Render("Error: " + s.message)
	case s.message != "":
		status = s.styles.Normal.Render(s.message)
	default:
		status = s.renderSave()
	}

	summary := fmt.Sprintf("%d components", s.count)
	if s.count == 1 {
		summary = "1 component"
	}
	if s.canUndo {
		summary += " · undo"
	}
	if s.canRedo {
		summary += " · redo"
	}
	return status + s.styles.Muted.Render("  "+summary)
}

func (s *Bar) renderSave() string {
	switch s.save {
	case domain.SaveInProgress:
		return s.styles.Muted.Render("Saving...")
	case domain.SaveSucceeded:
		return s.styles.Success.Render(s.save.Message())
	case domain.SaveCachedLocal:
		return s.styles.Warning.Render(s.save.Message())
	case domain.SaveFailed:
		return s.styles.Error.Render(s.save.Message())
	default:
		return s.styles.Muted.Render("Ready")
	}
}

// renderRight renders keybinding hints for the active view.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.view {
	case messages.ViewCanvas:
		bindings = s.keymap.CanvasHelp()
	case messages.ViewPalette:
		bindings = s.keymap.PaletteHelp()
	case messages.ViewEditor:
		bindings = s.keymap.EditorHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetSaveStatus sets the save status shown when there is no message.
func (s *Bar) SetSaveStatus(status domain.SaveStatus) {
	s.save = status
}

// SaveStatus returns the displayed save status.
func (s *Bar) SaveStatus() domain.SaveStatus {
	return s.save
}

// SetMessage sets an informational message.
func (s *Bar) SetMessage(message string) {
	s.message = message
	s.isError = false
}

// SetError sets an error message.
func (s *Bar) SetError(message string) {
	s.message = message
	s.isError = true
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// IsError reports whether the message is an error.
func (s *Bar) IsError() bool {
	return s.isError
}

// SetComponentCount sets the number of components in the layout.
func (s *Bar) SetComponentCount(count int) {
	s.count = count
}

// SetHistory sets the undo/redo indicators.
func (s *Bar) SetHistory(canUndo, canRedo bool) {
	s.canUndo = canUndo
	s.canRedo = canRedo
}

// SetView selects which keybinding hints are shown.
func (s *Bar) SetView(view messages.ViewType) {
	s.view = view
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// ClearMessage removes the message, showing the save status again.
func (s *Bar) ClearMessage() {
	s.message = ""
	s.isError = false
}
