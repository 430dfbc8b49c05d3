package mcp

import (
	"context"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// mockSession is a mock implementation of driving.EditingSession.
// Methods the server never calls are left to the embedded nil interface.
type mockSession struct {
	driving.EditingSession

	mode    domain.EditingMode
	pages   [][]domain.Annotation
	state   driving.HistoryState
	stepped bool
	err     error

	modes []domain.EditingMode
	notes []string
	at    []domain.Point
}

func newMockSession(pages ...[]domain.Annotation) *mockSession {
	if len(pages) == 0 {
		pages = [][]domain.Annotation{nil}
	}
	return &mockSession{mode: domain.ModeView, pages: pages}
}

func (m *mockSession) Mode(_ context.Context) (domain.EditingMode, error) {
	return m.mode, m.err
}

func (m *mockSession) SetMode(_ context.Context, mode domain.EditingMode) error {
	if m.err != nil {
		return m.err
	}
	m.mode = mode
	m.modes = append(m.modes, mode)
	return nil
}

func (m *mockSession) AddTextNote(_ context.Context, p domain.Point, content string) (domain.AnnotationID, error) {
	if m.err != nil {
		return "", m.err
	}
	m.notes = append(m.notes, content)
	m.at = append(m.at, p)
	return "note-1", nil
}

func (m *mockSession) Undo(_ context.Context) (bool, error) {
	return m.stepped, m.err
}

func (m *mockSession) Redo(_ context.Context) (bool, error) {
	return m.stepped, m.err
}

func (m *mockSession) History(_ context.Context) (driving.HistoryState, error) {
	return m.state, m.err
}

func (m *mockSession) Query(_ context.Context, pageIndex int) ([]domain.Annotation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pages[pageIndex], nil
}

func (m *mockSession) PageCount(_ context.Context) (int, error) {
	return len(m.pages), m.err
}

func (m *mockSession) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	pages := make([]domain.Page, len(m.pages))
	for i := range m.pages {
		pages[i] = domain.Page{
			Size:        domain.PageSize{Width: 612, Height: 792},
			Annotations: m.pages[i],
		}
	}
	return &domain.Snapshot{Pages: pages, Revision: 7}, nil
}

// mockAutosaver is a mock implementation of driving.Autosaver.
type mockAutosaver struct {
	saves int
	err   error
}

func (m *mockAutosaver) Resume(_ context.Context) error { return nil }
func (m *mockAutosaver) Suspend() error { return nil }
func (m *mockAutosaver) Running() bool { return false }

func (m *mockAutosaver) SaveNow(_ context.Context) error {
	m.saves++
	return m.err
}

func inkAnnotation(id string) domain.Annotation {
	return domain.Annotation{
		ID:     domain.AnnotationID(id),
		Kind:   domain.KindInk,
		Bounds: domain.Rect{X: 5, Y: 5, Width: 20, Height: 10},
		Ink:    &domain.InkStroke{Points: []domain.Point{{X: 5, Y: 5}, {X: 15, Y: 5}}, Color: domain.ColorRed, StrokeWidth: 1, Alpha: 1},
	}
}

func textAnnotation(id, content string) domain.Annotation {
	return domain.Annotation{
		ID:     domain.AnnotationID(id),
		Kind:   domain.KindText,
		Bounds: domain.Rect{X: 40, Y: 40, Width: 120, Height: 30},
		Text:   &domain.TextNote{Content: content, Font: domain.Font{Name: "system", Size: 18}},
	}
}
