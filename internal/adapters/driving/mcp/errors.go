// Package mcp provides an MCP (Model Context Protocol) server adapter for
// tablesite. It lets AI assistants edit a restaurant's page layout through
// the same builder operations the terminal editor uses.
package mcp

import "errors"

var (
	// ErrMissingBuilderFactory is returned when no builder factory is provided.
	ErrMissingBuilderFactory = errors.New("mcp: builder factory is required")

	// ErrMissingRegistry is returned when no component registry is provided.
	ErrMissingRegistry = errors.New("mcp: component registry is required")
)
