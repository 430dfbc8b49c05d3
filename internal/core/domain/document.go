package domain

import (
	"fmt"
	"slices"
	"strconv"
)

// PageSize is the page-space extent of one page.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the page rectangle in its own coordinate space.
func (s PageSize) Bounds() Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

// Page owns the annotations placed on it.
type Page struct {
	// Size is the page-space extent.
	Size PageSize `json:"size"`

	// Annotations are kept in ascending Seq order, so the last element is
	// the most recently added and therefore topmost.
	Annotations []Annotation `json:"annotations"`
}

func (p *Page) find(id AnnotationID) int {
	for i := range p.Annotations {
		if p.Annotations[i].ID == id {
			return i
		}
	}
	return -1
}

// insert places a keeping Seq order.
func (p *Page) insert(a Annotation) {
	i, _ := slices.BinarySearchFunc(p.Annotations, a.Seq, func(e Annotation, seq uint64) int {
		switch {
		case e.Seq < seq:
			return -1
		case e.Seq > seq:
			return 1
		default:
			return 0
		}
	})
	p.Annotations = slices.Insert(p.Annotations, i, a)
}

// Document is an ordered, 0-indexed sequence of pages.
//
// A Document is not safe for concurrent use. It is owned by one editing
// session and mutated only on that session's timeline.
type Document struct {
	pages   []Page
	nextSeq uint64
	newID   func() AnnotationID
}

// NewDocument creates an empty document with one page per size.
func NewDocument(sizes ...PageSize) *Document {
	pages := make([]Page, len(sizes))
	for i, s := range sizes {
		pages[i] = Page{Size: s}
	}
	return &Document{pages: pages, nextSeq: 1}
}

// RestoreDocument rebuilds a document from previously persisted pages.
// Annotations are re-sorted by Seq and validated.
func RestoreDocument(pages []Page) (*Document, error) {
	d := &Document{pages: make([]Page, len(pages)), nextSeq: 1}
	seen := make(map[AnnotationID]bool)
	for i, p := range pages {
		d.pages[i].Size = p.Size
		for _, a := range p.Annotations {
			if a.ID == "" || seen[a.ID] {
				return nil, fmt.Errorf("%w: missing or duplicate annotation id %q", ErrInvalidInput, a.ID)
			}
			if err := a.Validate(); err != nil {
				return nil, err
			}
			seen[a.ID] = true
			d.pages[i].insert(a.Clone())
			if a.Seq >= d.nextSeq {
				d.nextSeq = a.Seq + 1
			}
		}
	}
	return d, nil
}

// SetIDGenerator replaces the function used to mint annotation ids.
// When unset, ids are sequential ("a1", "a2", ...).
func (d *Document) SetIDGenerator(fn func() AnnotationID) {
	d.newID = fn
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// PageSize returns the size of a page.
func (d *Document) PageSize(pageIndex int) (PageSize, error) {
	p, err := d.page(pageIndex)
	if err != nil {
		return PageSize{}, err
	}
	return p.Size, nil
}

func (d *Document) page(pageIndex int) (*Page, error) {
	if pageIndex < 0 || pageIndex >= len(d.pages) {
		return nil, invalidRef("page %d of %d", pageIndex, len(d.pages))
	}
	return &d.pages[pageIndex], nil
}

func (d *Document) mintID() AnnotationID {
	if d.newID != nil {
		return d.newID()
	}
	return AnnotationID("a" + strconv.FormatUint(d.nextSeq, 10))
}

func (d *Document) contains(id AnnotationID) bool {
	for i := range d.pages {
		if d.pages[i].find(id) >= 0 {
			return true
		}
	}
	return false
}

// AddAnnotation places a on a page and returns its id.
//
// An annotation without an ID or Seq gets fresh ones. An annotation that
// already carries them (an undone removal being restored) keeps them, so it
// returns to its original stacking position.
func (d *Document) AddAnnotation(pageIndex int, a Annotation) (AnnotationID, error) {
	p, err := d.page(pageIndex)
	if err != nil {
		return "", err
	}
	if err := a.Validate(); err != nil {
		return "", err
	}
	a = a.Clone()
	if a.ID == "" {
		a.ID = d.mintID()
	}
	if d.contains(a.ID) {
		return "", invalidRef("annotation %s already placed", a.ID)
	}
	if a.Seq == 0 {
		a.Seq = d.nextSeq
	}
	if a.Seq >= d.nextSeq {
		d.nextSeq = a.Seq + 1
	}
	p.insert(a)
	return a.ID, nil
}

// RemoveAnnotation deletes an annotation and returns a copy of it.
func (d *Document) RemoveAnnotation(pageIndex int, id AnnotationID) (Annotation, error) {
	p, err := d.page(pageIndex)
	if err != nil {
		return Annotation{}, err
	}
	i := p.find(id)
	if i < 0 {
		return Annotation{}, invalidRef("annotation %s on page %d", id, pageIndex)
	}
	removed := p.Annotations[i]
	p.Annotations = slices.Delete(p.Annotations, i, i+1)
	return removed, nil
}

// UpdateBounds moves or resizes an annotation.
func (d *Document) UpdateBounds(pageIndex int, id AnnotationID, bounds Rect) error {
	p, err := d.page(pageIndex)
	if err != nil {
		return err
	}
	i := p.find(id)
	if i < 0 {
		return invalidRef("annotation %s on page %d", id, pageIndex)
	}
	p.Annotations[i].Bounds = bounds
	return nil
}

// ReplaceAnnotation overwrites the stored state of an existing annotation
// with a, matched by ID. The stacking position (Seq) is preserved.
func (d *Document) ReplaceAnnotation(pageIndex int, a Annotation) error {
	p, err := d.page(pageIndex)
	if err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	i := p.find(a.ID)
	if i < 0 {
		return invalidRef("annotation %s on page %d", a.ID, pageIndex)
	}
	a = a.Clone()
	a.Seq = p.Annotations[i].Seq
	p.Annotations[i] = a
	return nil
}

// Annotation returns a copy of one annotation.
func (d *Document) Annotation(pageIndex int, id AnnotationID) (Annotation, error) {
	p, err := d.page(pageIndex)
	if err != nil {
		return Annotation{}, err
	}
	i := p.find(id)
	if i < 0 {
		return Annotation{}, invalidRef("annotation %s on page %d", id, pageIndex)
	}
	return p.Annotations[i].Clone(), nil
}

// Query returns copies of a page's annotations in insertion order.
// The last element is topmost.
func (d *Document) Query(pageIndex int) ([]Annotation, error) {
	p, err := d.page(pageIndex)
	if err != nil {
		return nil, err
	}
	out := make([]Annotation, len(p.Annotations))
	for i := range p.Annotations {
		out[i] = p.Annotations[i].Clone()
	}
	return out, nil
}

// AnnotationCount returns the number of annotations across all pages.
func (d *Document) AnnotationCount() int {
	n := 0
	for i := range d.pages {
		n += len(d.pages[i].Annotations)
	}
	return n
}

// Pages returns a deep copy of every page.
func (d *Document) Pages() []Page {
	out := make([]Page, len(d.pages))
	for i, p := range d.pages {
		out[i].Size = p.Size
		out[i].Annotations = make([]Annotation, len(p.Annotations))
		for j := range p.Annotations {
			out[i].Annotations[j] = p.Annotations[j].Clone()
		}
	}
	return out
}

// Clone returns an independent deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{
		pages:   d.Pages(),
		nextSeq: d.nextSeq,
		newID:   d.newID,
	}
}
