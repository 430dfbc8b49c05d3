package driven

import "github.com/custodia-labs/margin/internal/core/domain"

// SessionObserver receives editing events. Calls are delivered synchronously
// on the session timeline, in the order the events happened, and must not
// call back into the session.
type SessionObserver interface {
	// HistoryChanged is invoked after every apply, undo, redo and clear of
	// the active history.
	HistoryChanged(undoEnabled, redoEnabled bool)

	// StrokeUpdated reports the in-progress stroke for live preview.
	// Points are in page space. Updates may be throttled.
	StrokeUpdated(pageIndex int, points []domain.Point)

	// AnnotationHit reports an annotation selected by a tap.
	AnnotationHit(pageIndex int, annotation domain.Annotation)
}
