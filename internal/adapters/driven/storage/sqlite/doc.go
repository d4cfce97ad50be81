// Package sqlite stores layouts in a local SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. One database file serves two tables:
//
//   - layouts: saved layouts keyed by restaurant (driven.LayoutStore)
//   - layout_cache: the builder's local fallback copies (driven.LayoutCache)
//
// # Schema
//
// The schema is managed through versioned migrations in migrations/. Each
// migration is a pair of .up.sql and .down.sql files.
//
// # Concurrency
//
// Saves are conditional on lastModified, so an older snapshot never
// replaces a newer one. The database runs in WAL mode with a busy timeout.
package sqlite
