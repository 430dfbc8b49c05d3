package mcp

import (
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session is the editing session of the served document.
	Session driving.EditingSession

	// Autosave flushes edits to the backing file. Optional.
	Autosave driving.Autosaver

	// Path is the document's backing path, reported in resources.
	Path string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
