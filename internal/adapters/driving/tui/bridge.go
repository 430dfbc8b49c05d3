package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
	"github.com/custodia-labs/margin/internal/logger"
)

var bridgeLog = logger.For("tui")

// Ensure Bridge implements the interface.
var _ driven.SessionObserver = (*Bridge)(nil)

// Bridge turns session events, autosave results and watcher reports into
// Bubbletea messages. Events are queued without blocking, so the session
// timeline never waits on the UI; when the queue is full the event is
// dropped.
type Bridge struct {
	msgs chan tea.Msg
}

// NewBridge creates a bridge queueing up to size messages.
func NewBridge(size int) *Bridge {
	return &Bridge{msgs: make(chan tea.Msg, size)}
}

// HistoryChanged implements driven.SessionObserver.
func (b *Bridge) HistoryChanged(undoEnabled, redoEnabled bool) {
	b.post(messages.HistoryChanged{UndoEnabled: undoEnabled, RedoEnabled: redoEnabled})
}

// StrokeUpdated implements driven.SessionObserver.
func (b *Bridge) StrokeUpdated(pageIndex int, points []domain.Point) {
	pts := make([]domain.Point, len(points))
	copy(pts, points)
	b.post(messages.StrokeUpdated{Page: pageIndex, Points: pts})
}

// AnnotationHit implements driven.SessionObserver.
func (b *Bridge) AnnotationHit(pageIndex int, annotation domain.Annotation) {
	b.post(messages.AnnotationHit{Page: pageIndex, Annotation: annotation.Clone()})
}

// SaveResult reports an autosave attempt.
func (b *Bridge) SaveResult(result domain.SaveResult) {
	b.post(messages.SaveCompleted{Result: result})
}

// ExternalChange reports a modification of the backing file by another program.
func (b *Bridge) ExternalChange(path string, removed bool) {
	b.post(messages.ExternalChange{Path: path, Removed: removed})
}

func (b *Bridge) post(msg tea.Msg) {
	select {
	case b.msgs <- msg:
	default:
		bridgeLog.Debug("queue full, dropping %T", msg)
	}
}

// Forward delivers queued messages to send until ctx is cancelled.
// send is typically (*tea.Program).Send.
func (b *Bridge) Forward(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-b.msgs:
			send(msg)
		}
	}
}
