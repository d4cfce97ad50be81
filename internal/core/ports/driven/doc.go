// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - LayoutStore: Layout persistence keyed by restaurant (HTTP backend, SQLite, Postgres, Redis, memory)
//   - LayoutCache: Local copy of the last saved or loaded layout
//   - DefaultPageProvider: The page shown when nothing has been saved
//   - IDGenerator: Fresh component and item identifiers
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TextSanitizer: Cleans inline-edited text before saving. Without it text is stored as typed.
//   - LayoutPublisher: Broadcasts saves to live previews.
//   - LayoutWatcher: Notifies when a cached layout changes. Without it preview --watch is unavailable.
//   - MarkdownConverter: Converts rendered HTML to Markdown. Without it Markdown export is unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
