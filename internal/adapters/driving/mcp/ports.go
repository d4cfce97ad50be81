package mcp

import (
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Builders opens the edit session the tools operate on.
	Builders driving.BuilderFactory

	// Registry lists component kinds.
	Registry driving.ComponentRegistry

	// Render produces the preview resource. Optional.
	Render driving.RenderService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Builders == nil {
		return ErrMissingBuilderFactory
	}
	if p.Registry == nil {
		return ErrMissingRegistry
	}
	return nil
}
