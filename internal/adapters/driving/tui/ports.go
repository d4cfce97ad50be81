// Package tui provides the interactive terminal builder for tablesite.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Builder is the edit session.
	Builder driving.BuilderService

	// Registry provides the palette and list item defaults.
	Registry driving.ComponentRegistry
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Builder == nil {
		return ErrMissingBuilder
	}
	if p.Registry == nil {
		return ErrMissingRegistry
	}
	return nil
}
