package services

import (
	"slices"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// HitTester resolves page-space points to annotations.
// It is shared by erasing, tap selection and drag-to-move.
type HitTester struct {
	doc *domain.Document
}

// NewHitTester creates a hit tester over doc.
func NewHitTester(doc *domain.Document) *HitTester {
	return &HitTester{doc: doc}
}

// HitTest returns the id of the topmost annotation whose bounds contain p.
// Ink bounds already include their margin. When several annotations
// qualify, the most recently added wins.
func (h *HitTester) HitTest(pageIndex int, p domain.Point) (domain.AnnotationID, bool) {
	a, ok := h.Topmost(pageIndex, p)
	if !ok {
		return "", false
	}
	return a.ID, true
}

// Topmost returns a copy of the topmost annotation at p, optionally limited
// to the given kinds.
func (h *HitTester) Topmost(pageIndex int, p domain.Point, kinds ...domain.AnnotationKind) (domain.Annotation, bool) {
	annotations, err := h.doc.Query(pageIndex)
	if err != nil {
		return domain.Annotation{}, false
	}
	for i := len(annotations) - 1; i >= 0; i-- {
		a := annotations[i]
		if len(kinds) > 0 && !slices.Contains(kinds, a.Kind) {
			continue
		}
		if a.Bounds.Contains(p) {
			return a, true
		}
	}
	return domain.Annotation{}, false
}
