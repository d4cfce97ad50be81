// Package domain defines the core business entities for tablesite.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Component: One configurable section of a restaurant page
//   - Config: The closed set of per-kind configuration records
//   - Layout: An ordered, uniquely identified sequence of components
//   - History: Linear undo/redo over layout snapshots
//   - Snapshot: The persisted form of a layout
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
