package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/margin/internal/core/domain"
)

func drain(b *Bridge) []tea.Msg {
	var out []tea.Msg
	for {
		select {
		case msg := <-b.msgs:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestBridge_TranslatesEvents(t *testing.T) {
	b := NewBridge(8)
	pts := []domain.Point{{X: 1, Y: 2}}

	b.HistoryChanged(true, false)
	b.StrokeUpdated(1, pts)
	b.AnnotationHit(0, domain.Annotation{ID: "a", Kind: domain.KindText})
	b.SaveResult(domain.SaveResult{Revision: 3})
	b.ExternalChange("/tmp/doc.json", true)

	msgs := drain(b)
	require.Len(t, msgs, 5)
	assert.Equal(t, messages.HistoryChanged{UndoEnabled: true}, msgs[0])
	assert.Equal(t, messages.StrokeUpdated{Page: 1, Points: pts}, msgs[1])
	assert.Equal(t, domain.AnnotationID("a"), msgs[2].(messages.AnnotationHit).Annotation.ID)
	assert.Equal(t, uint64(3), msgs[3].(messages.SaveCompleted).Result.Revision)
	assert.Equal(t, messages.ExternalChange{Path: "/tmp/doc.json", Removed: true}, msgs[4])
}

func TestBridge_StrokeUpdatedCopiesPoints(t *testing.T) {
	b := NewBridge(1)
	pts := []domain.Point{{X: 1, Y: 2}}

	b.StrokeUpdated(0, pts)
	pts[0].X = 99

	msg := (<-b.msgs).(messages.StrokeUpdated)
	assert.Equal(t, 1.0, msg.Points[0].X)
}

func TestBridge_DropsWhenFull(t *testing.T) {
	b := NewBridge(1)

	b.HistoryChanged(true, false)
	b.HistoryChanged(false, true)

	msgs := drain(b)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.HistoryChanged{UndoEnabled: true}, msgs[0])
}

func TestBridge_Forward(t *testing.T) {
	b := NewBridge(4)
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan tea.Msg, 4)
	done := make(chan struct{})

	go func() {
		b.Forward(ctx, func(msg tea.Msg) { got <- msg })
		close(done)
	}()

	b.HistoryChanged(true, true)
	select {
	case msg := <-got:
		assert.Equal(t, messages.HistoryChanged{UndoEnabled: true, RedoEnabled: true}, msg)
	case <-time.After(time.Second):
		t.Fatal("message not forwarded")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Forward did not return after cancel")
	}
}
