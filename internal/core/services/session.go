package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
	"github.com/custodia-labs/margin/internal/logger"
)

var sessionLog = logger.For("session")

// Ensure Session implements the interfaces.
var (
	_ driving.EditingSession = (*Session)(nil)
	_ SnapshotSource         = (*Session)(nil)
)

// SessionConfig configures an editing session.
type SessionConfig struct {
	// Document is the document being edited. The session takes ownership.
	Document *domain.Document

	// Locator maps view-space points to pages.
	Locator driven.PageLocator

	// Tool is the shared drawing configuration. Defaults to a red pencil.
	Tool *domain.ToolConfig

	// Observers receive editing events.
	Observers []driven.SessionObserver

	// PreviewRate caps StrokeUpdated events per second. Zero uses
	// DefaultPreviewRate; negative disables throttling.
	PreviewRate float64

	// NewID mints annotation ids. Defaults to random UUIDs.
	NewID func() domain.AnnotationID
}

// dragState tracks an annotation being moved.
type dragState struct {
	active bool
	page   int
	before domain.Annotation
}

// Session is the document-editing core.
//
// Every operation runs on the session's timeline, so gestures, commands,
// undo/redo and snapshot copies never overlap. Each editing mode keeps its
// own history; undo, redo, cancel and revert act on the active mode's.
type Session struct {
	timeline  *Timeline
	doc       *domain.Document
	locator   driven.PageLocator
	tool      *domain.ToolConfig
	hits      *HitTester
	capture   *StrokeCapture
	histories map[domain.EditingMode]*History
	observers []driven.SessionObserver
	newID     func() domain.AnnotationID

	// Timeline-owned state.
	mode     domain.EditingMode
	revision uint64
	drag     dragState

	mu       sync.Mutex
	runCtx   context.Context
	autosave driving.Autosaver
}

// NewSession creates a session in view mode. Call Run to start its timeline.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Document == nil || cfg.Locator == nil {
		return nil, fmt.Errorf("%w: session needs a document and a page locator", domain.ErrInvalidInput)
	}
	if cfg.Tool == nil {
		cfg.Tool = domain.DefaultToolConfig()
	}
	if cfg.NewID == nil {
		cfg.NewID = func() domain.AnnotationID {
			return domain.AnnotationID(uuid.NewString())
		}
	}
	cfg.Document.SetIDGenerator(cfg.NewID)

	s := &Session{
		timeline:  NewTimeline(),
		doc:       cfg.Document,
		locator:   cfg.Locator,
		tool:      cfg.Tool,
		hits:      NewHitTester(cfg.Document),
		histories: make(map[domain.EditingMode]*History),
		observers: cfg.Observers,
		newID:     cfg.NewID,
		mode:      domain.ModeView,
	}

	for _, mode := range []domain.EditingMode{domain.ModeView, domain.ModePen, domain.ModeText, domain.ModeComment} {
		h := NewHistory(cfg.Document)
		h.OnChange(s.historyListener(mode))
		s.histories[mode] = h
	}

	s.capture = NewStrokeCapture(cfg.Locator, cfg.Tool, s.hits, func(cmd domain.Command) error {
		return s.apply(domain.ModePen, cmd)
	})
	rate := cfg.PreviewRate
	if rate == 0 {
		rate = DefaultPreviewRate
	}
	s.capture.SetPreview(s.notifyStroke, rate)

	return s, nil
}

// Run starts the session timeline and blocks until ctx is cancelled.
// Autosave is suspended when Run returns.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	s.runCtx = ctx
	s.mu.Unlock()

	err := s.timeline.Run(ctx)

	if pump := s.autosaver(); pump != nil {
		if serr := pump.Suspend(); serr != nil {
			sessionLog.Warn("suspend autosave: %v", serr)
		}
	}
	return err
}

// AttachAutosave connects an autosave pump. It is resumed whenever the
// session enters an editing mode and suspended when it returns to view.
func (s *Session) AttachAutosave(pump driving.Autosaver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autosave = pump
}

func (s *Session) autosaver() driving.Autosaver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autosave
}

// do runs fn on the timeline and returns fn's error.
func (s *Session) do(ctx context.Context, fn func() error) error {
	var err error
	if terr := s.timeline.Do(ctx, func() { err = fn() }); terr != nil {
		return terr
	}
	return err
}

func (s *Session) active() *History {
	return s.histories[s.mode]
}

func (s *Session) historyListener(mode domain.EditingMode) HistoryListener {
	return func(undo, redo bool) {
		if mode != s.mode {
			return
		}
		for _, o := range s.observers {
			o.HistoryChanged(undo, redo)
		}
	}
}

func (s *Session) notifyStroke(page int, points []domain.Point) {
	for _, o := range s.observers {
		o.StrokeUpdated(page, points)
	}
}

// apply records cmd in the given mode's history.
func (s *Session) apply(mode domain.EditingMode, cmd domain.Command) error {
	if err := s.histories[mode].Apply(cmd); err != nil {
		sessionLog.Warn("%s command on page %d dropped: %v", cmd.Kind, cmd.PageIndex, err)
		return err
	}
	s.revision++
	return nil
}

func (s *Session) requireMode(modes ...domain.EditingMode) error {
	for _, m := range modes {
		if s.mode == m {
			return nil
		}
	}
	return fmt.Errorf("%w: operation not available in %s mode", domain.ErrInvalidInput, s.mode)
}

// locate resolves a view-space point to a page and page-space point.
func (s *Session) locate(p domain.Point) (int, domain.Point, error) {
	page, ok := s.locator.PageForPoint(p)
	if !ok {
		return 0, domain.Point{}, fmt.Errorf("%w: no page at (%g, %g)", domain.ErrInvalidReference, p.X, p.Y)
	}
	return page, s.locator.ConvertToPageSpace(p, page), nil
}

// Mode returns the current editing mode.
func (s *Session) Mode(ctx context.Context) (domain.EditingMode, error) {
	var mode domain.EditingMode
	err := s.do(ctx, func() error {
		mode = s.mode
		return nil
	})
	return mode, err
}

// SetMode switches the editing mode. Any gesture in progress is abandoned.
func (s *Session) SetMode(ctx context.Context, mode domain.EditingMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, mode)
	}
	err := s.do(ctx, func() error {
		if s.mode == mode {
			return nil
		}
		s.capture.Cancel()
		s.abandonDrag()
		s.mode = mode
		h := s.active()
		for _, o := range s.observers {
			o.HistoryChanged(h.UndoEnabled(), h.RedoEnabled())
		}
		sessionLog.Debug("mode %s", mode)
		return nil
	})
	if err != nil {
		return err
	}

	// The pump snapshots through the timeline, so it is started and
	// stopped from outside it.
	pump := s.autosaver()
	if pump == nil {
		return nil
	}
	if mode.Edits() {
		return pump.Resume(s.pumpContext(ctx))
	}
	return pump.Suspend()
}

func (s *Session) pumpContext(fallback context.Context) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runCtx != nil {
		return s.runCtx
	}
	return fallback
}

// SetTool changes the drawing tool.
func (s *Session) SetTool(ctx context.Context, tool domain.Tool) error {
	if !tool.IsValid() {
		return fmt.Errorf("%w: unknown tool %q", domain.ErrInvalidInput, tool)
	}
	return s.do(ctx, func() error {
		s.tool.Tool = tool
		return nil
	})
}

// SetColor changes the drawing colour.
func (s *Session) SetColor(ctx context.Context, color domain.Color) error {
	return s.do(ctx, func() error {
		s.tool.Color = color
		return nil
	})
}

// BeginStroke starts a pen gesture.
func (s *Session) BeginStroke(ctx context.Context, p domain.Point) error {
	return s.do(ctx, func() error {
		if err := s.requireMode(domain.ModePen); err != nil {
			return err
		}
		return s.capture.Begin(p)
	})
}

// MoveStroke extends the pen gesture.
func (s *Session) MoveStroke(ctx context.Context, p domain.Point) error {
	return s.do(ctx, func() error {
		if err := s.requireMode(domain.ModePen); err != nil {
			return err
		}
		return s.capture.Move(p)
	})
}

// EndStroke finishes the pen gesture.
func (s *Session) EndStroke(ctx context.Context, p domain.Point) error {
	return s.do(ctx, func() error {
		if err := s.requireMode(domain.ModePen); err != nil {
			return err
		}
		return s.capture.End(p)
	})
}

// AddTextNote places a text note with its origin at p.
func (s *Session) AddTextNote(ctx context.Context, p domain.Point, content string) (domain.AnnotationID, error) {
	var id domain.AnnotationID
	err := s.do(ctx, func() error {
		if err := s.requireMode(domain.ModeText); err != nil {
			return err
		}
		page, local, err := s.locate(p)
		if err != nil {
			return err
		}
		a := domain.Annotation{
			Kind:   domain.KindText,
			Bounds: domain.Rect{X: local.X, Y: local.Y, Width: domain.TextNoteWidth, Height: domain.TextNoteHeight},
			Text: &domain.TextNote{
				Content: content,
				Font:    domain.Font{Name: domain.DefaultFontName, Size: domain.TextNoteFontSize},
				Color:   s.tool.Color,
			},
		}
		id, err = s.place(page, a)
		return err
	})
	return id, err
}

// AddCommentMarker places a comment marker with its origin at p.
func (s *Session) AddCommentMarker(ctx context.Context, p domain.Point, threadID string) (domain.AnnotationID, error) {
	var id domain.AnnotationID
	err := s.do(ctx, func() error {
		if err := s.requireMode(domain.ModeComment); err != nil {
			return err
		}
		page, local, err := s.locate(p)
		if err != nil {
			return err
		}
		a := domain.Annotation{
			Kind:    domain.KindComment,
			Bounds:  domain.Rect{X: local.X, Y: local.Y, Width: domain.CommentMarkerSize, Height: domain.CommentMarkerSize},
			Comment: &domain.CommentMarker{ThreadID: threadID, Contents: domain.CommentContents},
		}
		id, err = s.place(page, a)
		return err
	})
	return id, err
}

// AddClearButton places a form-reset push button with its origin at p.
func (s *Session) AddClearButton(ctx context.Context, p domain.Point) (domain.AnnotationID, error) {
	var id domain.AnnotationID
	err := s.do(ctx, func() error {
		if err := s.requireMode(domain.ModeComment); err != nil {
			return err
		}
		page, local, err := s.locate(p)
		if err != nil {
			return err
		}
		a := domain.Annotation{
			Kind:   domain.KindWidget,
			Bounds: domain.Rect{X: local.X, Y: local.Y, Width: domain.ClearButtonWidth, Height: domain.ClearButtonHeight},
			Widget: &domain.Widget{
				Kind:      domain.WidgetPushButton,
				FieldName: domain.ClearButtonField,
				Caption:   domain.ClearButtonCaption,
				Action: &domain.WidgetAction{
					Kind:                     domain.ActionResetForm,
					Fields:                   append([]string(nil), domain.ClearButtonResetFields...),
					FieldsIncludedAreCleared: false,
				},
			},
		}
		id, err = s.place(page, a)
		return err
	})
	return id, err
}

// place adds a to page through the active history and returns its id.
func (s *Session) place(page int, a domain.Annotation) (domain.AnnotationID, error) {
	a.ID = s.newID()
	if err := s.apply(s.mode, domain.AddCommand(page, a)); err != nil {
		return "", err
	}
	return a.ID, nil
}

// Tap reports the topmost annotation at p to observers.
func (s *Session) Tap(ctx context.Context, p domain.Point) (domain.Annotation, bool, error) {
	var (
		hit   domain.Annotation
		found bool
	)
	err := s.do(ctx, func() error {
		page, local, err := s.locate(p)
		if err != nil {
			return err
		}
		hit, found = s.hits.Topmost(page, local)
		if !found {
			return nil
		}
		for _, o := range s.observers {
			o.AnnotationHit(page, hit.Clone())
		}
		return nil
	})
	return hit, found, err
}

// RemoveAnnotation deletes an annotation through the active history.
func (s *Session) RemoveAnnotation(ctx context.Context, pageIndex int, id domain.AnnotationID) error {
	return s.do(ctx, func() error {
		if !s.mode.Edits() {
			return s.requireMode(domain.ModePen, domain.ModeText, domain.ModeComment)
		}
		a, err := s.doc.Annotation(pageIndex, id)
		if err != nil {
			return err
		}
		return s.apply(s.mode, domain.RemoveCommand(pageIndex, a))
	})
}

// BeginDrag selects the topmost annotation at p for moving.
// It returns false when nothing is under the pointer.
func (s *Session) BeginDrag(ctx context.Context, p domain.Point) (bool, error) {
	var ok bool
	err := s.do(ctx, func() error {
		if !s.mode.Edits() {
			return s.requireMode(domain.ModePen, domain.ModeText, domain.ModeComment)
		}
		page, local, err := s.locate(p)
		if err != nil {
			return err
		}
		a, hit := s.hits.Topmost(page, local)
		if !hit {
			s.drag = dragState{}
			return nil
		}
		s.drag = dragState{active: true, page: page, before: a}
		ok = true
		return nil
	})
	return ok, err
}

// Drag centers the selected annotation on p. The move is shown live and
// recorded as a single command by EndDrag.
func (s *Session) Drag(ctx context.Context, p domain.Point) error {
	return s.do(ctx, func() error {
		if !s.drag.active {
			return nil
		}
		local := s.locator.ConvertToPageSpace(p, s.drag.page)
		current, err := s.doc.Annotation(s.drag.page, s.drag.before.ID)
		if err != nil {
			s.drag = dragState{}
			return err
		}
		if err := s.doc.UpdateBounds(s.drag.page, current.ID, current.Bounds.CenteredAt(local)); err != nil {
			return err
		}
		s.revision++
		return nil
	})
}

// EndDrag records the completed move as one Modify command.
func (s *Session) EndDrag(ctx context.Context) error {
	return s.do(ctx, func() error {
		if !s.drag.active {
			return nil
		}
		return s.finishDrag()
	})
}

// finishDrag records an open drag as one Modify command.
func (s *Session) finishDrag() error {
	if !s.drag.active {
		return nil
	}
	drag := s.drag
	s.drag = dragState{}

	after, err := s.doc.Annotation(drag.page, drag.before.ID)
	if err != nil {
		return err
	}
	if after.Bounds == drag.before.Bounds {
		return nil
	}
	return s.apply(s.mode, domain.ModifyCommand(drag.page, drag.before, after))
}

// abandonDrag puts a dragged annotation back where the drag started.
// Nothing is recorded.
func (s *Session) abandonDrag() {
	if !s.drag.active {
		return
	}
	drag := s.drag
	s.drag = dragState{}

	current, err := s.doc.Annotation(drag.page, drag.before.ID)
	if err != nil || current.Bounds == drag.before.Bounds {
		return
	}
	if err := s.doc.ReplaceAnnotation(drag.page, drag.before); err != nil {
		sessionLog.Warn("restoring dragged annotation %s: %v", drag.before.ID, err)
		return
	}
	s.revision++
}

// Undo reverts the last command of the active history. An open drag is
// recorded first, so it is the move that gets undone.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	var ok bool
	err := s.do(ctx, func() error {
		if err := s.finishDrag(); err != nil {
			return err
		}
		ok = s.active().Undo()
		if ok {
			s.revision++
		}
		return nil
	})
	return ok, err
}

// Redo re-applies the last undone command of the active history.
func (s *Session) Redo(ctx context.Context) (bool, error) {
	var ok bool
	err := s.do(ctx, func() error {
		if err := s.finishDrag(); err != nil {
			return err
		}
		ok = s.active().Redo()
		if ok {
			s.revision++
		}
		return nil
	})
	return ok, err
}

// Cancel forgets the active history. Edits already applied stay in the
// document and are no longer undoable; an open drag is put back.
func (s *Session) Cancel(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.capture.Cancel()
		s.abandonDrag()
		s.active().Clear()
		return nil
	})
}

// Revert undoes every command of the active history, then clears it.
func (s *Session) Revert(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.capture.Cancel()
		s.abandonDrag()
		h := s.active()
		for h.Undo() {
			s.revision++
		}
		if h.UndoEnabled() {
			sessionLog.Warn("revert stopped with %d commands left", h.UndoDepth())
		}
		h.Clear()
		return nil
	})
}

// History returns the active history's state.
func (s *Session) History(ctx context.Context) (driving.HistoryState, error) {
	var state driving.HistoryState
	err := s.do(ctx, func() error {
		h := s.active()
		state = driving.HistoryState{
			UndoEnabled: h.UndoEnabled(),
			RedoEnabled: h.RedoEnabled(),
			UndoDepth:   h.UndoDepth(),
			RedoDepth:   h.RedoDepth(),
		}
		return nil
	})
	return state, err
}

// Query returns a page's annotations, topmost last.
func (s *Session) Query(ctx context.Context, pageIndex int) ([]domain.Annotation, error) {
	var out []domain.Annotation
	err := s.do(ctx, func() error {
		var err error
		out, err = s.doc.Query(pageIndex)
		return err
	})
	return out, err
}

// PageCount returns the number of pages.
func (s *Session) PageCount(ctx context.Context) (int, error) {
	var n int
	err := s.do(ctx, func() error {
		n = s.doc.PageCount()
		return nil
	})
	return n, err
}

// Snapshot copies the document on the timeline.
func (s *Session) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := s.do(ctx, func() error {
		snap = domain.NewSnapshot(s.doc, s.revision, time.Now())
		return nil
	})
	return snap, err
}

// PendingSnapshot copies the document only when the active history has
// something to undo.
func (s *Session) PendingSnapshot(ctx context.Context) (*domain.Snapshot, bool, error) {
	var (
		snap    *domain.Snapshot
		pending bool
	)
	err := s.do(ctx, func() error {
		if !s.active().UndoEnabled() {
			return nil
		}
		snap = domain.NewSnapshot(s.doc, s.revision, time.Now())
		pending = true
		return nil
	})
	return snap, pending, err
}
