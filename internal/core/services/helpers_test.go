package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// --- Test doubles for editing services ---

// stackLocator lays equally sized pages out vertically with a gap.
type stackLocator struct {
	size  domain.PageSize
	gap   float64
	pages int
}

func newStackLocator(pages int) *stackLocator {
	return &stackLocator{size: domain.PageSize{Width: 100, Height: 100}, gap: 10, pages: pages}
}

func (l *stackLocator) origin(page int) domain.Point {
	return domain.Point{Y: float64(page) * (l.size.Height + l.gap)}
}

func (l *stackLocator) PageForPoint(p domain.Point) (int, bool) {
	if l.pages == 0 {
		return 0, false
	}
	page := int(p.Y / (l.size.Height + l.gap))
	if p.Y < 0 {
		page = 0
	}
	if page >= l.pages {
		page = l.pages - 1
	}
	// In the gap, the page whose edge is closer wins.
	bottom := l.origin(page).Y + l.size.Height
	if p.Y > bottom && page+1 < l.pages && p.Y-bottom > l.gap/2 {
		page++
	}
	return page, true
}

func (l *stackLocator) ConvertToPageSpace(p domain.Point, page int) domain.Point {
	return p.Sub(l.origin(page))
}

func (l *stackLocator) document() *domain.Document {
	sizes := make([]domain.PageSize, l.pages)
	for i := range sizes {
		sizes[i] = l.size
	}
	return domain.NewDocument(sizes...)
}

// recordingObserver implements driven.SessionObserver for testing.
type recordingObserver struct {
	mu      sync.Mutex
	history [][2]bool
	strokes int
	hits    []domain.Annotation
}

func (o *recordingObserver) HistoryChanged(undo, redo bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = append(o.history, [2]bool{undo, redo})
}

func (o *recordingObserver) StrokeUpdated(_ int, _ []domain.Point) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.strokes++
}

func (o *recordingObserver) AnnotationHit(_ int, a domain.Annotation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hits = append(o.hits, a)
}

func (o *recordingObserver) lastHistory() ([2]bool, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.history) == 0 {
		return [2]bool{}, false
	}
	return o.history[len(o.history)-1], true
}

// mockSource implements SnapshotSource for testing.
type mockSource struct {
	mu       sync.Mutex
	pending  bool
	revision uint64
	err      error
	calls    int
}

func (m *mockSource) PendingSnapshot(_ context.Context) (*domain.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, false, m.err
	}
	if !m.pending {
		return nil, false, nil
	}
	doc := domain.NewDocument(domain.PageSize{Width: 10, Height: 10})
	return domain.NewSnapshot(doc, m.revision, time.Now()), true, nil
}

func (m *mockSource) set(pending bool, revision uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = pending
	m.revision = revision
}

// mockCodec implements driven.SnapshotCodec for testing.
type mockCodec struct {
	err error
}

func (m *mockCodec) Serialize(snap *domain.Snapshot) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte{byte(snap.Revision)}, nil
}

func (m *mockCodec) Deserialize(_ []byte) (*domain.Document, error) {
	return nil, errors.New("not implemented")
}

// mockWriter implements driven.AtomicWriter for testing.
type mockWriter struct {
	mu     sync.Mutex
	writes [][]byte
	fail   int
	block  chan struct{}
}

func (m *mockWriter) WriteAtomic(ctx context.Context, _ string, data []byte) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail > 0 {
		m.fail--
		return errors.New("disk full")
	}
	m.writes = append(m.writes, data)
	return nil
}

func (m *mockWriter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// mockAutosaveStore implements driven.AutosaveStore for testing.
type mockAutosaveStore struct {
	mu      sync.Mutex
	results []domain.SaveResult
	pruned  int
}

func (m *mockAutosaveStore) RecordResult(_ context.Context, result *domain.SaveResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if result == nil {
		return domain.ErrInvalidInput
	}
	m.results = append(m.results, *result)
	return nil
}

func (m *mockAutosaveStore) History(_ context.Context, _ string, limit int) ([]domain.SaveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.SaveResult(nil), m.results...)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *mockAutosaveStore) Prune(_ context.Context, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruned++
	return nil
}

func (m *mockAutosaveStore) snapshot() []domain.SaveResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SaveResult(nil), m.results...)
}

// ink builds a valid ink annotation covering the given page-space box.
func ink(x, y, w, h float64) domain.Annotation {
	a, err := domain.NewInkStroke(
		[]domain.Point{{X: x, Y: y}, {X: x + w, Y: y + h}},
		domain.ColorBlack, 1, 1,
	)
	if err != nil {
		panic(err)
	}
	return a
}
