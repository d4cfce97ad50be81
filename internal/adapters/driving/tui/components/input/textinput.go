// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tablesite/internal/core/domain"
)

// FieldInput edits one config field. Text and number fields are typed;
// bool and choice fields cycle through their values.
type FieldInput struct {
	field     domain.Field
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewFieldInput creates an input for f.
func NewFieldInput(s *styles.Styles, f domain.Field) *FieldInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 512
	ti.Width = 40
	ti.SetValue(f.Value)
	if f.Type == domain.FieldNumber {
		ti.Validate = validateNumber
	}

	return &FieldInput{
		field:     f,
		textinput: ti,
		styles:    s,
		width:     40,
	}
}

// Update handles input messages. Bool and choice fields ignore typing
// and cycle on enter or space.
func (f *FieldInput) Update(msg tea.Msg) (*FieldInput, tea.Cmd) {
	if f.cycles() {
		if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "enter" || k.String() == " ") {
			f.Cycle()
		}
		return f, nil
	}
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and value.
func (f *FieldInput) View() string {
	label := f.styles.Label.Render(f.field.Label)
	value := f.textinput.View()
	if f.cycles() {
		value = f.textinput.Value()
		if f.Focused() {
			value = "‹ " + value + " ›"
		}
	}
	if f.Focused() {
		value = f.styles.InputField.Render(value)
	} else {
		value = f.styles.Normal.Render(" " + value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, label, value)
}

// Cycle advances a bool or choice field to its next value.
func (f *FieldInput) Cycle() {
	switch f.field.Type {
	case domain.FieldBool:
		if f.textinput.Value() == "true" {
			f.textinput.SetValue("false")
		} else {
			f.textinput.SetValue("true")
		}
	case domain.FieldChoice:
		opts := f.field.Options
		if len(opts) == 0 {
			return
		}
		next := 0
		for i, o := range opts {
			if o == f.textinput.Value() {
				next = (i + 1) % len(opts)
				break
			}
		}
		f.textinput.SetValue(opts[next])
	}
}

// Field returns the field with the current value.
func (f *FieldInput) Field() domain.Field {
	out := f.field
	out.Value = f.textinput.Value()
	return out
}

// Changed reports whether the value differs from the original.
func (f *FieldInput) Changed() bool {
	return f.textinput.Value() != f.field.Value
}

// Value returns the current input value.
func (f *FieldInput) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value.
func (f *FieldInput) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (f *FieldInput) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *FieldInput) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *FieldInput) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the input.
func (f *FieldInput) SetWidth(width int) {
	f.width = width
	// Account for the label column and border
	inputWidth := width - 34
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *FieldInput) Width() int {
	return f.width
}

func (f *FieldInput) cycles() bool {
	return f.field.Type == domain.FieldBool || f.field.Type == domain.FieldChoice
}

func validateNumber(s string) error {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '-' {
			return errNotNumber
		}
	}
	return nil
}
