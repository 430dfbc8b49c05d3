package snapshot

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/core/domain"
)

func sampleDocument(t *testing.T) *domain.Document {
	t.Helper()
	doc := domain.NewDocument(
		domain.PageSize{Width: 612, Height: 792},
		domain.PageSize{Width: 612, Height: 792},
	)

	stroke, err := domain.NewInkStroke(
		[]domain.Point{{X: 10, Y: 10}, {X: 20.5, Y: 30.25}, {X: 40, Y: 12}},
		domain.ColorRed, 10, 0.5,
	)
	require.NoError(t, err)
	_, err = doc.AddAnnotation(0, stroke)
	require.NoError(t, err)

	_, err = doc.AddAnnotation(1, domain.Annotation{
		Kind:   domain.KindText,
		Bounds: domain.Rect{X: 100, Y: 100, Width: 120, Height: 30},
		Text: &domain.TextNote{
			Content: "check totals",
			Font:    domain.Font{Name: domain.DefaultFontName, Size: 18},
			Color:   domain.ColorBlack,
		},
	})
	require.NoError(t, err)

	_, err = doc.AddAnnotation(1, domain.Annotation{
		Kind:   domain.KindWidget,
		Bounds: domain.Rect{X: 0, Y: 0, Width: 106, Height: 32},
		Widget: &domain.Widget{
			Kind:      domain.WidgetPushButton,
			FieldName: domain.ClearButtonField,
			Caption:   domain.ClearButtonCaption,
			Action: &domain.WidgetAction{
				Kind:   domain.ActionResetForm,
				Fields: domain.ClearButtonResetFields,
			},
		},
	})
	require.NoError(t, err)

	_, err = doc.AddAnnotation(0, domain.Annotation{
		Kind:    domain.KindComment,
		Bounds:  domain.Rect{X: 300, Y: 300, Width: 30, Height: 30},
		Comment: &domain.CommentMarker{ThreadID: "t-1", Contents: domain.CommentContents},
	})
	require.NoError(t, err)
	return doc
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	doc := sampleDocument(t)
	codec := NewJSONCodec()
	snap := domain.NewSnapshot(doc, 42, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	data, err := codec.Serialize(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format": "margin"`)
	assert.Contains(t, string(data), `"revision": 42`)

	restored, err := codec.Deserialize(data)
	require.NoError(t, err)

	if diff := cmp.Diff(doc.Pages(), restored.Pages()); diff != "" {
		t.Errorf("restored pages differ (-want +got):\n%s", diff)
	}
}

func TestJSONCodec_RestoredDocumentContinuesSequence(t *testing.T) {
	doc := sampleDocument(t)
	codec := NewJSONCodec()
	data, err := codec.Serialize(domain.NewSnapshot(doc, 1, time.Now()))
	require.NoError(t, err)

	restored, err := codec.Deserialize(data)
	require.NoError(t, err)
	id, err := restored.AddAnnotation(0, domain.Annotation{
		Kind:    domain.KindComment,
		Comment: &domain.CommentMarker{},
	})
	require.NoError(t, err)

	page, err := restored.Query(0)
	require.NoError(t, err)
	assert.Equal(t, id, page[len(page)-1].ID, "new annotations stack on top")
}

func TestJSONCodec_SerializeNil(t *testing.T) {
	_, err := NewJSONCodec().Serialize(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestJSONCodec_DeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "%PDF-1.7"},
		{"wrong format", `{"format":"other","version":1,"pages":[]}`},
		{"future version", `{"format":"margin","version":99,"pages":[]}`},
		{"malformed annotation", `{"format":"margin","version":1,"pages":[{"size":{"width":1,"height":1},"annotations":[{"id":"x","kind":"ink"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONCodec().Deserialize([]byte(tt.data))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestJSONCodec_EmptyDocument(t *testing.T) {
	codec := NewJSONCodec()
	doc := domain.NewDocument(domain.PageSize{Width: 10, Height: 10})

	data, err := codec.Serialize(domain.NewSnapshot(doc, 0, time.Now()))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	restored, err := codec.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.PageCount())
	assert.Equal(t, 0, restored.AnnotationCount())
}
