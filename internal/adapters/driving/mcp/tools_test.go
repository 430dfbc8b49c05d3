package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

func newTestServer(t *testing.T, session *mockSession) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Session: session, Autosave: &mockAutosaver{}})
	require.NoError(t, err)
	return server
}

func TestServer_handleListAnnotations(t *testing.T) {
	ctx := context.Background()

	t.Run("lists every page", func(t *testing.T) {
		session := newMockSession(
			[]domain.Annotation{inkAnnotation("a")},
			[]domain.Annotation{textAnnotation("b", "hello")},
		)
		server := newTestServer(t, session)

		_, output, err := server.handleListAnnotations(ctx, nil, ListAnnotationsInput{})

		require.NoError(t, err)
		require.Equal(t, 2, output.Count)
		assert.Equal(t, "a", output.Annotations[0].ID)
		assert.Equal(t, 0, output.Annotations[0].Page)
		assert.Equal(t, "ink", output.Annotations[0].Kind)
		assert.Equal(t, 2, output.Annotations[0].Points)
		assert.Equal(t, "b", output.Annotations[1].ID)
		assert.Equal(t, 1, output.Annotations[1].Page)
		assert.Equal(t, "hello", output.Annotations[1].Content)
		assert.Equal(t, 120.0, output.Annotations[1].Width)
	})

	t.Run("lists one page", func(t *testing.T) {
		session := newMockSession(
			[]domain.Annotation{inkAnnotation("a")},
			[]domain.Annotation{textAnnotation("b", "hello")},
		)
		server := newTestServer(t, session)
		page := 1

		_, output, err := server.handleListAnnotations(ctx, nil, ListAnnotationsInput{Page: &page})

		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "b", output.Annotations[0].ID)
	})

	t.Run("empty document returns empty list", func(t *testing.T) {
		server := newTestServer(t, newMockSession())

		_, output, err := server.handleListAnnotations(ctx, nil, ListAnnotationsInput{})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Annotations)
	})

	t.Run("page out of range", func(t *testing.T) {
		server := newTestServer(t, newMockSession())
		page := 3

		_, _, err := server.handleListAnnotations(ctx, nil, ListAnnotationsInput{Page: &page})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("returns error on session failure", func(t *testing.T) {
		session := newMockSession()
		session.err = errors.New("session closed")
		server := newTestServer(t, session)

		_, _, err := server.handleListAnnotations(ctx, nil, ListAnnotationsInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "session closed")
	})
}

func TestServer_handleUndoRedo(t *testing.T) {
	ctx := context.Background()
	session := newMockSession()
	session.mode = domain.ModePen
	session.stepped = true
	session.state = driving.HistoryState{UndoEnabled: false, RedoEnabled: true, RedoDepth: 1}
	server := newTestServer(t, session)

	_, undo, err := server.handleUndo(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.True(t, undo.Changed)
	assert.Equal(t, "pen", undo.Mode)
	assert.True(t, undo.RedoEnabled)
	assert.Equal(t, 1, undo.RedoDepth)

	session.stepped = false
	_, redo, err := server.handleRedo(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.False(t, redo.Changed)
}

func TestServer_handleHistoryState(t *testing.T) {
	session := newMockSession()
	session.mode = domain.ModeText
	session.state = driving.HistoryState{UndoEnabled: true, UndoDepth: 2}
	server := newTestServer(t, session)

	_, output, err := server.handleHistoryState(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	assert.Equal(t, HistoryOutput{Mode: "text", UndoEnabled: true, UndoDepth: 2}, output)
}

func TestServer_handleAddTextNote(t *testing.T) {
	ctx := context.Background()

	t.Run("switches to text mode and places note", func(t *testing.T) {
		session := newMockSession()
		server := newTestServer(t, session)

		_, output, err := server.handleAddTextNote(ctx, nil, AddTextNoteInput{X: 10, Y: 20, Content: "check"})

		require.NoError(t, err)
		assert.Equal(t, "note-1", output.ID)
		assert.Equal(t, []domain.EditingMode{domain.ModeText}, session.modes)
		assert.Equal(t, []string{"check"}, session.notes)
		assert.Equal(t, domain.Point{X: 10, Y: 20}, session.at[0])
	})

	t.Run("keeps text mode", func(t *testing.T) {
		session := newMockSession()
		session.mode = domain.ModeText
		server := newTestServer(t, session)

		_, _, err := server.handleAddTextNote(ctx, nil, AddTextNoteInput{Content: "again"})

		require.NoError(t, err)
		assert.Empty(t, session.modes)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		session := newMockSession()
		server := newTestServer(t, session)

		_, _, err := server.handleAddTextNote(ctx, nil, AddTextNoteInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, session.notes)
	})
}

func TestServer_handleSetMode(t *testing.T) {
	ctx := context.Background()
	session := newMockSession()
	server := newTestServer(t, session)

	_, output, err := server.handleSetMode(ctx, nil, SetModeInput{Mode: "comment"})
	require.NoError(t, err)
	assert.Equal(t, "comment", output.Mode)

	_, _, err = server.handleSetMode(ctx, nil, SetModeInput{Mode: "scribble"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleSave(t *testing.T) {
	autosave := &mockAutosaver{}
	server, err := NewServer(&Ports{Session: newMockSession(), Autosave: autosave})
	require.NoError(t, err)

	_, output, err := server.handleSave(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	assert.True(t, output.Saved)
	assert.Equal(t, 1, autosave.saves)
}
