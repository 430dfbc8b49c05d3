// Package layout places document pages in view space.
package layout

import (
	"math"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Ensure Vertical implements the interface.
var _ driven.PageLocator = (*Vertical)(nil)

// Vertical stacks pages top to bottom, left-aligned, separated by a gap.
// It is immutable once built.
type Vertical struct {
	frames []domain.Rect
}

// NewVertical lays out pages of the given sizes.
func NewVertical(sizes []domain.PageSize, gap float64) *Vertical {
	frames := make([]domain.Rect, len(sizes))
	y := 0.0
	for i, s := range sizes {
		frames[i] = domain.Rect{X: 0, Y: y, Width: s.Width, Height: s.Height}
		y += s.Height + gap
	}
	return &Vertical{frames: frames}
}

// ForDocument lays out every page of doc.
func ForDocument(doc *domain.Document, gap float64) *Vertical {
	sizes := make([]domain.PageSize, doc.PageCount())
	for i := range sizes {
		sizes[i], _ = doc.PageSize(i)
	}
	return NewVertical(sizes, gap)
}

// Frame returns a page's rectangle in view space.
func (v *Vertical) Frame(pageIndex int) (domain.Rect, bool) {
	if pageIndex < 0 || pageIndex >= len(v.frames) {
		return domain.Rect{}, false
	}
	return v.frames[pageIndex], true
}

// Extent returns the bounding size of the whole layout.
func (v *Vertical) Extent() (width, height float64) {
	for _, f := range v.frames {
		width = math.Max(width, f.Width)
		height = math.Max(height, f.Max().Y)
	}
	return width, height
}

// PageForPoint returns the page containing p, or the page whose frame is
// nearest to p. Ties go to the earlier page.
func (v *Vertical) PageForPoint(p domain.Point) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	for i, f := range v.frames {
		d := distance(f, p)
		if d < bestDist {
			best, bestDist = i, d
		}
		if d == 0 {
			break
		}
	}
	return best, best >= 0
}

// ConvertToPageSpace translates p into the page's coordinate space.
// Points outside the page convert to coordinates outside its bounds.
func (v *Vertical) ConvertToPageSpace(p domain.Point, pageIndex int) domain.Point {
	f, ok := v.Frame(pageIndex)
	if !ok {
		return p
	}
	return p.Sub(f.Min())
}

// ConvertToViewSpace translates a page-space point into view space.
func (v *Vertical) ConvertToViewSpace(p domain.Point, pageIndex int) domain.Point {
	f, ok := v.Frame(pageIndex)
	if !ok {
		return p
	}
	return p.Add(f.Min())
}

// distance is the Euclidean distance from p to the nearest point of r.
func distance(r domain.Rect, p domain.Point) float64 {
	lo, hi := r.Min(), r.Max()
	dx := math.Max(0, math.Max(lo.X-p.X, p.X-hi.X))
	dy := math.Max(0, math.Max(lo.Y-p.Y, p.Y-hi.Y))
	return math.Hypot(dx, dy)
}
