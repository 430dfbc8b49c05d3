// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PageLocator: Page geometry lookup owned by the rendering collaborator
//   - SnapshotCodec: Serialises document snapshots for persistence
//   - AtomicWriter: Replaces the document's backing file in one step
//   - SettingsStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AutosaveStore: Autosave run history. Without it, results are only logged.
//   - SessionObserver: UI notifications (history affordances, stroke preview, hits).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or driving package
package driven
