// Package messages defines Bubbletea message types for the editor TUI.
// Session observer events, autosave results and file watcher reports are
// delivered to the model as these messages.
package messages

import (
	"github.com/custodia-labs/margin/internal/core/domain"
)

// HistoryChanged reports the undo/redo affordances of the active history.
type HistoryChanged struct {
	UndoEnabled bool
	RedoEnabled bool
}

// StrokeUpdated carries the in-progress stroke for live preview.
// Points are in page space.
type StrokeUpdated struct {
	Page   int
	Points []domain.Point
}

// AnnotationHit is sent when a tap selects an annotation.
type AnnotationHit struct {
	Page       int
	Annotation domain.Annotation
}

// AnnotationsLoaded carries a fresh copy of every page's annotations.
type AnnotationsLoaded struct {
	Pages    [][]domain.Annotation
	Revision uint64
	Err      error
}

// SaveCompleted reports one autosave attempt.
type SaveCompleted struct {
	Result domain.SaveResult
}

// ExternalChange is sent when the backing file is modified by another program.
type ExternalChange struct {
	Path    string
	Removed bool
}

// ErrorOccurred is sent when an operation fails.
type ErrorOccurred struct {
	Err error
}

// Quit is sent to exit the editor.
type Quit struct{}
