// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewCanvas lists the page's components in order.
	ViewCanvas ViewType = iota
	// ViewPalette offers component kinds to add.
	ViewPalette
	// ViewEditor edits the selected component's fields.
	ViewEditor
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewCanvas:
		return "canvas"
	case ViewPalette:
		return "palette"
	case ViewEditor:
		return "editor"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// LayoutChanged is sent after any builder operation that changed the
// layout, so views can refresh.
type LayoutChanged struct {
	// FocusID is the component the canvas cursor should move to, if any.
	FocusID string
}

// ComponentAdded signals a component was appended from the palette.
type ComponentAdded struct {
	Component domain.Component
}

// SaveRequested asks the app to start an asynchronous save.
type SaveRequested struct{}

// SaveCompleted carries the outcome of an asynchronous save.
type SaveCompleted struct {
	Outcome driving.SaveOutcome
}

// StatusMessage shows a transient message in the status bar.
type StatusMessage struct {
	Text string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
