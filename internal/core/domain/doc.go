// Package domain defines the core editing entities for Margin.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ordered, index-addressable sequence of pages
//   - Page: The annotations placed on one page, kept front-to-back
//   - Annotation: A tagged variant over ink strokes, text notes,
//     comment markers and form widgets
//   - Command: A reversible description of one mutation
//   - Snapshot: A tear-free copy of a Document handed to persistence
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
