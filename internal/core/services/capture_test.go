package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/core/domain"
)

type captureFixture struct {
	doc     *domain.Document
	history *History
	config  *domain.ToolConfig
	capture *StrokeCapture
	cmds    []domain.Command
}

func newCaptureFixture(t *testing.T, pages int) *captureFixture {
	t.Helper()
	locator := newStackLocator(pages)
	f := &captureFixture{
		doc:    locator.document(),
		config: domain.DefaultToolConfig(),
	}
	f.history = NewHistory(f.doc)
	f.capture = NewStrokeCapture(locator, f.config, NewHitTester(f.doc), func(cmd domain.Command) error {
		f.cmds = append(f.cmds, cmd)
		return f.history.Apply(cmd)
	})
	return f
}

func (f *captureFixture) gesture(t *testing.T, pts ...domain.Point) {
	t.Helper()
	require.NoError(t, f.capture.Begin(pts[0]))
	for _, p := range pts[1 : len(pts)-1] {
		require.NoError(t, f.capture.Move(p))
	}
	require.NoError(t, f.capture.End(pts[len(pts)-1]))
}

func TestStrokeCapture_CommitsStroke(t *testing.T) {
	f := newCaptureFixture(t, 1)

	f.gesture(t, domain.Point{X: 10, Y: 10}, domain.Point{X: 20, Y: 15}, domain.Point{X: 30, Y: 40})

	require.Len(t, f.cmds, 1)
	assert.Equal(t, domain.CommandAdd, f.cmds[0].Kind)
	assert.Equal(t, CaptureIdle, f.capture.State())

	placed, err := f.doc.Query(0)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	a := placed[0]
	assert.Equal(t, domain.KindInk, a.Kind)
	assert.Equal(t, domain.Rect{X: 5, Y: 5, Width: 30, Height: 40}, a.Bounds)
	assert.Equal(t, []domain.Point{{X: 10, Y: 10}, {X: 20, Y: 15}, {X: 30, Y: 40}}, a.Ink.PagePoints(a.Bounds))
}

func TestStrokeCapture_PageCrossingSplits(t *testing.T) {
	f := newCaptureFixture(t, 2)

	f.gesture(t,
		domain.Point{X: 50, Y: 50},
		domain.Point{X: 50, Y: 80},
		domain.Point{X: 50, Y: 120},
		domain.Point{X: 50, Y: 150},
	)

	require.Len(t, f.cmds, 2)
	assert.Equal(t, 0, f.cmds[0].PageIndex)
	assert.Equal(t, 1, f.cmds[1].PageIndex)

	for page := range 2 {
		placed, err := f.doc.Query(page)
		require.NoError(t, err)
		require.Len(t, placed, 1, "page %d", page)
		b := placed[0].Bounds
		assert.GreaterOrEqual(t, b.Y, 0.0)
		assert.LessOrEqual(t, b.Max().Y, 100.0)
	}

	second, err := f.doc.Query(1)
	require.NoError(t, err)
	pts := second[0].Ink.PagePoints(second[0].Bounds)
	assert.Equal(t, domain.Point{X: 50, Y: 10}, pts[0], "new stroke starts at the crossing point")
}

func TestStrokeCapture_DegenerateStrokeDiscarded(t *testing.T) {
	tests := []struct {
		name string
		pts  []domain.Point
	}{
		{name: "tap", pts: []domain.Point{{X: 40, Y: 40}, {X: 40, Y: 40}}},
		{name: "jitter in place", pts: []domain.Point{{X: 40, Y: 40}, {X: 40, Y: 40}, {X: 40, Y: 40}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCaptureFixture(t, 1)
			f.gesture(t, tt.pts...)

			assert.Empty(t, f.cmds)
			assert.False(t, f.history.UndoEnabled())
			assert.Equal(t, CaptureIdle, f.capture.State())
		})
	}
}

func TestStrokeCapture_ToolParameters(t *testing.T) {
	tests := []struct {
		tool  domain.Tool
		width float64
		alpha float64
	}{
		{tool: domain.ToolPencil, width: 1, alpha: 1},
		{tool: domain.ToolPen, width: 5, alpha: 1},
		{tool: domain.ToolHighlighter, width: 10, alpha: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.tool.String(), func(t *testing.T) {
			f := newCaptureFixture(t, 1)
			f.config.Tool = tt.tool
			f.config.Color = domain.ColorBlack

			f.gesture(t, domain.Point{X: 10, Y: 10}, domain.Point{X: 60, Y: 60})

			placed, err := f.doc.Query(0)
			require.NoError(t, err)
			require.Len(t, placed, 1)
			assert.Equal(t, tt.width, placed[0].Ink.StrokeWidth)
			assert.Equal(t, tt.alpha, placed[0].Ink.Alpha)
			assert.Equal(t, tt.alpha, placed[0].Ink.Color.A)
		})
	}
}

func TestStrokeCapture_EraseIndependence(t *testing.T) {
	f := newCaptureFixture(t, 1)
	f.gesture(t, domain.Point{X: 10, Y: 10}, domain.Point{X: 50, Y: 50})
	f.gesture(t, domain.Point{X: 20, Y: 20}, domain.Point{X: 60, Y: 60})
	require.Equal(t, 2, f.doc.AnnotationCount())
	drawn := f.doc.Pages()
	f.cmds = nil

	f.config.Tool = domain.ToolEraser
	f.gesture(t, domain.Point{X: 30, Y: 30}, domain.Point{X: 30, Y: 30}, domain.Point{X: 30, Y: 30})

	require.Len(t, f.cmds, 2)
	assert.Equal(t, domain.CommandRemove, f.cmds[0].Kind)
	assert.Equal(t, domain.CommandRemove, f.cmds[1].Kind)
	assert.NotEqual(t, f.cmds[0].AnnotationID, f.cmds[1].AnnotationID)
	assert.Equal(t, 0, f.doc.AnnotationCount())

	// Undoing one removal restores only that annotation.
	require.True(t, f.history.Undo())
	placed, err := f.doc.Query(0)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, drawn[0].Annotations[0].ID, placed[0].ID)

	require.True(t, f.history.Undo())
	assert.Equal(t, drawn, f.doc.Pages())
}

func TestStrokeCapture_EraseDoesNotActOnBegin(t *testing.T) {
	f := newCaptureFixture(t, 1)
	f.gesture(t, domain.Point{X: 10, Y: 10}, domain.Point{X: 50, Y: 50})
	f.cmds = nil
	f.config.Tool = domain.ToolEraser

	require.NoError(t, f.capture.Begin(domain.Point{X: 30, Y: 30}))
	assert.Empty(t, f.cmds)
	require.NoError(t, f.capture.End(domain.Point{X: 90, Y: 90}))
	assert.Empty(t, f.cmds)
	assert.Equal(t, 1, f.doc.AnnotationCount())
}

func TestStrokeCapture_MoveWhileIdleIgnored(t *testing.T) {
	f := newCaptureFixture(t, 1)

	require.NoError(t, f.capture.Move(domain.Point{X: 10, Y: 10}))
	require.NoError(t, f.capture.End(domain.Point{X: 20, Y: 20}))

	assert.Empty(t, f.cmds)
	assert.Equal(t, CaptureIdle, f.capture.State())
}

func TestStrokeCapture_Cancel(t *testing.T) {
	f := newCaptureFixture(t, 1)
	require.NoError(t, f.capture.Begin(domain.Point{X: 10, Y: 10}))
	require.NoError(t, f.capture.Move(domain.Point{X: 40, Y: 40}))
	assert.Equal(t, CaptureTracking, f.capture.State())

	f.capture.Cancel()
	require.NoError(t, f.capture.End(domain.Point{X: 50, Y: 50}))

	assert.Empty(t, f.cmds)
}

func TestStrokeCapture_BeginWithoutPages(t *testing.T) {
	f := newCaptureFixture(t, 0)

	err := f.capture.Begin(domain.Point{X: 1, Y: 1})

	require.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.Equal(t, CaptureIdle, f.capture.State())
}

func TestStrokeCapture_SinkErrorReturned(t *testing.T) {
	locator := newStackLocator(1)
	doc := locator.document()
	boom := errors.New("boom")
	c := NewStrokeCapture(locator, domain.DefaultToolConfig(), NewHitTester(doc), func(domain.Command) error {
		return boom
	})

	require.NoError(t, c.Begin(domain.Point{X: 10, Y: 10}))
	err := c.End(domain.Point{X: 40, Y: 40})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, CaptureIdle, c.State())
}

func TestStrokeCapture_PreviewThrottled(t *testing.T) {
	f := newCaptureFixture(t, 1)
	var previews int
	f.capture.SetPreview(func(int, []domain.Point) { previews++ }, 0.001)

	require.NoError(t, f.capture.Begin(domain.Point{X: 1, Y: 1}))
	for i := range 20 {
		require.NoError(t, f.capture.Move(domain.Point{X: float64(2 + i), Y: 2}))
	}

	assert.Equal(t, 1, previews, "only the initial burst passes the limiter")
}

func TestStrokeCapture_PreviewUnthrottled(t *testing.T) {
	f := newCaptureFixture(t, 1)
	var last []domain.Point
	calls := 0
	f.capture.SetPreview(func(_ int, pts []domain.Point) {
		calls++
		last = pts
	}, -1)

	require.NoError(t, f.capture.Begin(domain.Point{X: 1, Y: 1}))
	require.NoError(t, f.capture.Move(domain.Point{X: 2, Y: 2}))
	require.NoError(t, f.capture.Move(domain.Point{X: 3, Y: 3}))

	assert.Equal(t, 2, calls)
	assert.Equal(t, []domain.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}, last)
}
