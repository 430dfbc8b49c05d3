// Package tui provides the interactive terminal editor for margin.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/views/canvas"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// Ports aggregates everything the editor drives.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session is the editing session of the open document.
	Session driving.EditingSession

	// Autosave writes pending edits. Optional; without it ctrl+s is ignored.
	Autosave driving.Autosaver

	// Layout positions pages in view space.
	Layout canvas.Frames

	// Path is the document's backing path, shown in the window title.
	Path string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	if p.Layout == nil {
		return ErrMissingLayout
	}
	return nil
}
