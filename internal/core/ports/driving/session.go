package driving

import (
	"context"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// HistoryState describes the undo/redo affordances of the active history.
type HistoryState struct {
	UndoEnabled bool
	RedoEnabled bool
	UndoDepth   int
	RedoDepth   int
}

// EditingSession is the document-editing core as seen by a UI.
// Points passed in are in view space; the session converts them.
// Every method is sequenced on the session timeline.
type EditingSession interface {
	// Mode returns the current editing mode.
	Mode(ctx context.Context) (domain.EditingMode, error)

	// SetMode switches editing mode. Entering an editing mode resumes
	// autosave; returning to view suspends it.
	SetMode(ctx context.Context, mode domain.EditingMode) error

	// SetTool changes the drawing tool for subsequent strokes.
	SetTool(ctx context.Context, tool domain.Tool) error

	// SetColor changes the drawing colour for subsequent annotations.
	SetColor(ctx context.Context, color domain.Color) error

	// BeginStroke, MoveStroke and EndStroke feed a pointer drag to stroke capture.
	BeginStroke(ctx context.Context, p domain.Point) error
	MoveStroke(ctx context.Context, p domain.Point) error
	EndStroke(ctx context.Context, p domain.Point) error

	// AddTextNote places a text note at p.
	AddTextNote(ctx context.Context, p domain.Point, content string) (domain.AnnotationID, error)

	// AddCommentMarker places a comment marker at p.
	AddCommentMarker(ctx context.Context, p domain.Point, threadID string) (domain.AnnotationID, error)

	// AddClearButton places a form-reset push button at p.
	AddClearButton(ctx context.Context, p domain.Point) (domain.AnnotationID, error)

	// Tap selects the topmost annotation at p and reports it to observers.
	Tap(ctx context.Context, p domain.Point) (domain.Annotation, bool, error)

	// RemoveAnnotation deletes an annotation as an undoable command.
	RemoveAnnotation(ctx context.Context, pageIndex int, id domain.AnnotationID) error

	// BeginDrag, Drag and EndDrag move the annotation under the pointer.
	BeginDrag(ctx context.Context, p domain.Point) (bool, error)
	Drag(ctx context.Context, p domain.Point) error
	EndDrag(ctx context.Context) error

	// Undo and Redo step the active history. They return false when there
	// was nothing to step.
	Undo(ctx context.Context) (bool, error)
	Redo(ctx context.Context) (bool, error)

	// Cancel forgets the active history but keeps its edits in the document.
	Cancel(ctx context.Context) error

	// Revert undoes every edit in the active history, then forgets it.
	Revert(ctx context.Context) error

	// History returns the active history's affordances.
	History(ctx context.Context) (HistoryState, error)

	// Query returns a page's annotations, topmost last.
	Query(ctx context.Context, pageIndex int) ([]domain.Annotation, error)

	// PageCount returns the number of pages.
	PageCount(ctx context.Context) (int, error)

	// Snapshot returns a tear-free copy of the document.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}
