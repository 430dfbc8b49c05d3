// Package canvas renders document pages and their annotations onto a grid
// of terminal cells and maps cells back to view-space points.
package canvas

import (
	"math"
	"strings"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/margin/internal/core/domain"
)

// Frames positions pages in view space.
type Frames interface {
	Frame(pageIndex int) (domain.Rect, bool)
	Extent() (width, height float64)
}

// cellAspect is how many times taller a terminal cell is than it is wide.
const cellAspect = 2.0

// Glyphs drawn on the canvas.
const (
	glyphPencil      = '·'
	glyphPen         = '●'
	glyphHighlighter = '░'
	glyphPreview     = '*'
	glyphComment     = '¶'
	glyphSelected    = '+'
)

type preview struct {
	page   int
	points []domain.Point
}

// View draws pages scaled so the widest page fits the available width.
type View struct {
	styles *styles.Styles
	frames Frames

	width  int
	height int
	scroll int

	annotations [][]domain.Annotation
	preview     *preview
	selected    domain.AnnotationID
}

// NewView creates a canvas over the pages positioned by frames.
func NewView(s *styles.Styles, frames Frames) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		frames: frames,
		width:  80,
		height: 22,
	}
}

// SetDimensions sets the number of cell columns and rows available.
func (v *View) SetDimensions(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.clampScroll()
}

// Dimensions returns the canvas size in cells.
func (v *View) Dimensions() (width, height int) {
	return v.width, v.height
}

// scale returns view units per cell column and per cell row.
func (v *View) scale() (float64, float64) {
	w, _ := v.frames.Extent()
	perCol := w / float64(v.width)
	if perCol <= 0 {
		perCol = 1
	}
	return perCol, perCol * cellAspect
}

// ToView converts a cell position on screen into a view-space point at
// the centre of the cell.
func (v *View) ToView(col, row int) domain.Point {
	perCol, perRow := v.scale()
	return domain.Point{
		X: (float64(col) + 0.5) * perCol,
		Y: (float64(row+v.scroll) + 0.5) * perRow,
	}
}

// toCell converts a view-space point into a screen cell.
func (v *View) toCell(p domain.Point) (col, row int) {
	perCol, perRow := v.scale()
	return int(math.Floor(p.X / perCol)), int(math.Floor(p.Y/perRow)) - v.scroll
}

// Scroll moves the viewport by delta rows.
func (v *View) Scroll(delta int) {
	v.scroll += delta
	v.clampScroll()
}

// ScrollOffset returns the index of the first visible row.
func (v *View) ScrollOffset() int {
	return v.scroll
}

func (v *View) clampScroll() {
	_, h := v.frames.Extent()
	_, perRow := v.scale()
	limit := int(math.Ceil(h/perRow)) - v.height
	v.scroll = min(v.scroll, max(limit, 0))
	v.scroll = max(v.scroll, 0)
}

// SetAnnotations replaces the annotations drawn on each page.
func (v *View) SetAnnotations(pages [][]domain.Annotation) {
	v.annotations = pages
}

// SetPreview shows an in-progress stroke. Points are in page space.
func (v *View) SetPreview(page int, points []domain.Point) {
	v.preview = &preview{page: page, points: points}
}

// ClearPreview removes the in-progress stroke.
func (v *View) ClearPreview() {
	v.preview = nil
}

// Select marks an annotation. An empty id clears the selection.
func (v *View) Select(id domain.AnnotationID) {
	v.selected = id
}

// Selected returns the marked annotation id.
func (v *View) Selected() domain.AnnotationID {
	return v.selected
}

// Lookup finds an annotation by id among the drawn pages.
func (v *View) Lookup(id domain.AnnotationID) (int, domain.Annotation, bool) {
	for page, anns := range v.annotations {
		for _, a := range anns {
			if a.ID == id {
				return page, a, true
			}
		}
	}
	return 0, domain.Annotation{}, false
}

// View renders the visible part of the canvas.
func (v *View) View() string {
	return v.styles.Canvas.Render(v.render().String())
}

func (v *View) render() *grid {
	g := newGrid(v.width, v.height)

	for page := 0; ; page++ {
		frame, ok := v.frames.Frame(page)
		if !ok {
			break
		}
		v.drawFrame(g, frame)
		if page < len(v.annotations) {
			for _, a := range v.annotations[page] {
				v.drawAnnotation(g, frame, a)
			}
		}
	}
	if v.preview != nil {
		if frame, ok := v.frames.Frame(v.preview.page); ok {
			v.drawPath(g, frame.Min(), v.preview.points, glyphPreview)
		}
	}
	return g
}

func (v *View) drawFrame(g *grid, frame domain.Rect) {
	c0, r0 := v.toCell(frame.Min())
	c1, r1 := v.toCell(frame.Max())
	c1, r1 = max(c1-1, c0), max(r1-1, r0)
	for c := c0 + 1; c < c1; c++ {
		g.set(c, r0, '─')
		g.set(c, r1, '─')
	}
	for r := r0 + 1; r < r1; r++ {
		g.set(c0, r, '│')
		g.set(c1, r, '│')
	}
	g.set(c0, r0, '┌')
	g.set(c1, r0, '┐')
	g.set(c0, r1, '└')
	g.set(c1, r1, '┘')
}

func (v *View) drawAnnotation(g *grid, frame domain.Rect, a domain.Annotation) {
	origin := frame.Min()
	bounds := a.Bounds
	bounds.X += origin.X
	bounds.Y += origin.Y

	switch {
	case a.Ink != nil:
		v.drawPath(g, origin, a.Ink.PagePoints(a.Bounds), inkGlyph(a.Ink.StrokeWidth))
	case a.Text != nil:
		v.drawLabel(g, bounds, a.Text.Content)
	case a.Comment != nil:
		c, r := v.toCell(bounds.Min())
		g.set(c, r, glyphComment)
	case a.Widget != nil:
		v.drawLabel(g, bounds, "["+a.Widget.Caption+"]")
	}

	if a.ID != "" && a.ID == v.selected {
		c0, r0 := v.toCell(bounds.Min())
		c1, r1 := v.toCell(bounds.Max())
		for _, c := range []int{c0, c1} {
			for _, r := range []int{r0, r1} {
				g.set(c, r, glyphSelected)
			}
		}
	}
}

// drawPath plots a polyline of page-space points, filling gaps between
// consecutive points cell by cell.
func (v *View) drawPath(g *grid, origin domain.Point, pts []domain.Point, glyph rune) {
	for i, p := range pts {
		c, r := v.toCell(origin.Add(p))
		if i == 0 {
			g.set(c, r, glyph)
			continue
		}
		pc, pr := v.toCell(origin.Add(pts[i-1]))
		steps := max(abs(c-pc), abs(r-pr))
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			g.set(pc+int(math.Round(t*float64(c-pc))), pr+int(math.Round(t*float64(r-pr))), glyph)
		}
		g.set(c, r, glyph)
	}
}

// drawLabel writes text from the top-left of bounds, clipped to its width.
func (v *View) drawLabel(g *grid, bounds domain.Rect, text string) {
	c0, r := v.toCell(bounds.Min())
	c1, _ := v.toCell(bounds.Max())
	limit := max(c1-c0, 1)
	for i, ch := range []rune(text) {
		if i >= limit {
			break
		}
		g.set(c0+i, r, ch)
	}
}

func inkGlyph(width float64) rune {
	switch {
	case width >= domain.ToolHighlighter.Params().StrokeWidth:
		return glyphHighlighter
	case width >= domain.ToolPen.Params().StrokeWidth:
		return glyphPen
	default:
		return glyphPencil
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// grid is a clipped rectangle of runes.
type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(" ", w))
	}
	return &grid{w: w, h: h, cells: cells}
}

func (g *grid) set(c, r int, ch rune) {
	if c < 0 || r < 0 || c >= g.w || r >= g.h {
		return
	}
	g.cells[r][c] = ch
}

func (g *grid) at(c, r int) rune {
	return g.cells[r][c]
}

func (g *grid) String() string {
	lines := make([]string, g.h)
	for i, row := range g.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}
