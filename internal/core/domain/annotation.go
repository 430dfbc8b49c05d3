package domain

import (
	"fmt"
	"slices"
)

// AnnotationID identifies an annotation within a Document.
type AnnotationID string

// AnnotationKind tags the variant carried by an Annotation.
type AnnotationKind string

// Annotation kinds.
const (
	KindInk     AnnotationKind = "ink"
	KindText    AnnotationKind = "text"
	KindComment AnnotationKind = "comment"
	KindWidget  AnnotationKind = "widget"
)

// IsValid returns true if the kind is recognised.
func (k AnnotationKind) IsValid() bool {
	switch k {
	case KindInk, KindText, KindComment, KindWidget:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k AnnotationKind) String() string {
	return string(k)
}

// InkMargin is added on every side of an ink stroke's geometric bounds so
// hit-testing tolerance matches the visual stroke width.
const InkMargin = 5.0

// Annotation is a single markable object on a page.
//
// Exactly one of the variant fields is set, selected by Kind.
// Bounds is shared by every variant and is always expressed in page space.
type Annotation struct {
	// ID is assigned when the annotation is first added to a page.
	ID AnnotationID `json:"id"`

	// Seq orders annotations front-to-back on a page. Higher is on top.
	// It is assigned once on first add and survives undo/redo.
	Seq uint64 `json:"seq"`

	// Kind selects the variant.
	Kind AnnotationKind `json:"kind"`

	// Bounds is the page-space box used for hit-testing and layout.
	Bounds Rect `json:"bounds"`

	Ink     *InkStroke     `json:"ink,omitempty"`
	Text    *TextNote      `json:"text,omitempty"`
	Comment *CommentMarker `json:"comment,omitempty"`
	Widget  *Widget        `json:"widget,omitempty"`
}

// InkStroke is a freehand path. Points are relative to the annotation's
// Bounds origin, so moving the bounds moves the stroke.
type InkStroke struct {
	Points      []Point `json:"points"`
	Color       Color   `json:"color"`
	StrokeWidth float64 `json:"stroke_width"`
	Alpha       float64 `json:"alpha"`
}

// Font names a typeface and size.
type Font struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
}

// TextNote is a free-text annotation.
type TextNote struct {
	Content string `json:"content"`
	Font    Font   `json:"font"`
	Color   Color  `json:"color"`
}

// CommentMarker is a stamp linking to a comment thread.
type CommentMarker struct {
	ThreadID string `json:"thread_id"`
	Contents string `json:"contents"`
}

// WidgetKind identifies a form control type.
type WidgetKind string

// Widget kinds.
const (
	WidgetPushButton WidgetKind = "push_button"
)

// ActionKind identifies what a widget does when activated.
type ActionKind string

// Widget action kinds.
const (
	ActionResetForm ActionKind = "reset_form"
)

// WidgetAction is the action attached to a widget.
type WidgetAction struct {
	Kind ActionKind `json:"kind"`

	// Fields lists the form fields the action applies to.
	Fields []string `json:"fields,omitempty"`

	// FieldsIncludedAreCleared selects whether Fields are the ones reset
	// (true) or the ones excluded from the reset (false).
	FieldsIncludedAreCleared bool `json:"fields_included_are_cleared"`
}

// Widget is an interactive form control.
type Widget struct {
	Kind      WidgetKind    `json:"kind"`
	FieldName string        `json:"field_name"`
	Caption   string        `json:"caption"`
	Action    *WidgetAction `json:"action,omitempty"`
}

// NewInkStroke builds an ink annotation from page-space points.
// The bounds are the minimal box around pts expanded by InkMargin and the
// stored points are made relative to that box.
// It returns ErrDegenerateStroke if pts never leave the first point.
func NewInkStroke(pts []Point, color Color, width, alpha float64) (Annotation, error) {
	if !advances(pts) {
		return Annotation{}, ErrDegenerateStroke
	}
	box, _ := BoundingRect(pts)
	bounds := box.Inset(-InkMargin)
	origin := bounds.Min()
	rel := make([]Point, len(pts))
	for i, p := range pts {
		rel[i] = p.Sub(origin)
	}
	return Annotation{
		Kind:   KindInk,
		Bounds: bounds,
		Ink: &InkStroke{
			Points:      rel,
			Color:       color.WithAlpha(alpha),
			StrokeWidth: width,
			Alpha:       alpha,
		},
	}, nil
}

func advances(pts []Point) bool {
	if len(pts) < 2 {
		return false
	}
	for _, p := range pts[1:] {
		if p != pts[0] {
			return true
		}
	}
	return false
}

// PagePoints returns the stroke's points in page space.
func (s *InkStroke) PagePoints(bounds Rect) []Point {
	out := make([]Point, len(s.Points))
	origin := bounds.Min()
	for i, p := range s.Points {
		out[i] = p.Add(origin)
	}
	return out
}

// Validate checks that exactly the variant named by Kind is present.
func (a Annotation) Validate() error {
	var ok bool
	switch a.Kind {
	case KindInk:
		ok = a.Ink != nil && a.Text == nil && a.Comment == nil && a.Widget == nil &&
			len(a.Ink.Points) >= 2
	case KindText:
		ok = a.Text != nil && a.Ink == nil && a.Comment == nil && a.Widget == nil
	case KindComment:
		ok = a.Comment != nil && a.Ink == nil && a.Text == nil && a.Widget == nil
	case KindWidget:
		ok = a.Widget != nil && a.Ink == nil && a.Text == nil && a.Comment == nil
	default:
		return fmt.Errorf("%w: unknown annotation kind %q", ErrInvalidInput, a.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: malformed %s annotation", ErrInvalidInput, a.Kind)
	}
	return nil
}

// Clone returns a deep copy sharing no memory with a.
func (a Annotation) Clone() Annotation {
	c := a
	if a.Ink != nil {
		ink := *a.Ink
		ink.Points = slices.Clone(a.Ink.Points)
		c.Ink = &ink
	}
	if a.Text != nil {
		text := *a.Text
		c.Text = &text
	}
	if a.Comment != nil {
		comment := *a.Comment
		c.Comment = &comment
	}
	if a.Widget != nil {
		w := *a.Widget
		if a.Widget.Action != nil {
			action := *a.Widget.Action
			action.Fields = slices.Clone(a.Widget.Action.Fields)
			w.Action = &action
		}
		c.Widget = &w
	}
	return c
}
