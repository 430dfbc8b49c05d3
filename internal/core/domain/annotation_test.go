package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestAnnotationKind_IsValid(t *testing.T) {
	for _, k := range []AnnotationKind{KindInk, KindText, KindComment, KindWidget} {
		assert.True(t, k.IsValid(), k.String())
	}
	assert.False(t, AnnotationKind("shape").IsValid())
	assert.False(t, AnnotationKind("").IsValid())
}

func TestNewInkStroke(t *testing.T) {
	a, err := NewInkStroke([]Point{{X: 10, Y: 20}, {X: 30, Y: 25}, {X: 20, Y: 40}}, ColorRed, 10, 0.5)
	require.NoError(t, err)

	assert.Equal(t, KindInk, a.Kind)
	assert.Equal(t, Rect{X: 5, Y: 15, Width: 30, Height: 30}, a.Bounds)
	assert.Equal(t, []Point{{X: 5, Y: 5}, {X: 25, Y: 10}, {X: 15, Y: 25}}, a.Ink.Points)
	assert.Equal(t, []Point{{X: 10, Y: 20}, {X: 30, Y: 25}, {X: 20, Y: 40}}, a.Ink.PagePoints(a.Bounds))
	assert.Equal(t, 10.0, a.Ink.StrokeWidth)
	assert.Equal(t, 0.5, a.Ink.Alpha)
	assert.Equal(t, Color{R: 1, A: 0.5}, a.Ink.Color)
	require.NoError(t, a.Validate())
}

func TestNewInkStroke_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
	}{
		{"empty", nil},
		{"single point", []Point{{X: 1, Y: 1}}},
		{"repeated point", []Point{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInkStroke(tt.pts, ColorRed, 1, 1)
			assert.ErrorIs(t, err, ErrDegenerateStroke)
		})
	}
}

func TestInkStroke_MovesWithBounds(t *testing.T) {
	a, err := NewInkStroke([]Point{{X: 10, Y: 10}, {X: 20, Y: 20}}, ColorBlack, 1, 1)
	require.NoError(t, err)

	moved := a.Bounds
	moved.X += 100

	assert.Equal(t, []Point{{X: 110, Y: 10}, {X: 120, Y: 20}}, a.Ink.PagePoints(moved))
}

func TestAnnotation_Validate(t *testing.T) {
	stroke, err := NewInkStroke([]Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, ColorRed, 1, 1)
	require.NoError(t, err)

	tests := []struct {
		name    string
		a       Annotation
		wantErr bool
	}{
		{"ink", stroke, false},
		{"text", Annotation{Kind: KindText, Text: &TextNote{}}, false},
		{"comment", Annotation{Kind: KindComment, Comment: &CommentMarker{}}, false},
		{"widget", Annotation{Kind: KindWidget, Widget: &Widget{}}, false},
		{"unknown kind", Annotation{Kind: "shape"}, true},
		{"missing variant", Annotation{Kind: KindText}, true},
		{"two variants", Annotation{Kind: KindText, Text: &TextNote{}, Comment: &CommentMarker{}}, true},
		{"short ink", Annotation{Kind: KindInk, Ink: &InkStroke{Points: []Point{{}}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnnotation_Clone(t *testing.T) {
	w := Annotation{
		Kind: KindWidget,
		Widget: &Widget{
			Kind:   WidgetPushButton,
			Action: &WidgetAction{Kind: ActionResetForm, Fields: []string{"a", "b"}},
		},
	}
	c := w.Clone()
	c.Widget.Caption = "changed"
	c.Widget.Action.Fields[0] = "z"
	assert.Empty(t, w.Widget.Caption)
	assert.Equal(t, []string{"a", "b"}, w.Widget.Action.Fields)

	stroke, err := NewInkStroke([]Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, ColorRed, 1, 1)
	require.NoError(t, err)
	sc := stroke.Clone()
	sc.Ink.Points[0] = Point{X: 50, Y: 50}
	assert.NotEqual(t, sc.Ink.Points[0], stroke.Ink.Points[0])
	assert.Equal(t, stroke.Bounds, sc.Bounds)
}
