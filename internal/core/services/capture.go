package services

import (
	"errors"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
	"github.com/custodia-labs/margin/internal/logger"
)

var captureLog = logger.For("capture")

// CaptureState is the stroke capture state.
type CaptureState string

// Capture states. Committing and discarding happen inside a single event,
// so between events the machine is always Idle or Tracking.
const (
	CaptureIdle     CaptureState = "idle"
	CaptureTracking CaptureState = "tracking"
)

// DefaultPreviewRate caps live stroke preview notifications per second.
const DefaultPreviewRate = 60

// CommandSink receives the commands produced by stroke capture.
type CommandSink func(cmd domain.Command) error

// PreviewFunc receives the in-progress stroke in page space.
type PreviewFunc func(pageIndex int, points []domain.Point)

// StrokeCapture turns a pointer-drag gesture into ink annotations.
//
// A gesture that crosses pages commits one stroke per page. In erase mode
// each pointer event removes the topmost annotation under it as an
// independent command. StrokeCapture is driven from a single timeline.
type StrokeCapture struct {
	locator driven.PageLocator
	config  *domain.ToolConfig
	hits    *HitTester
	sink    CommandSink

	preview PreviewFunc
	limiter *rate.Limiter

	state  CaptureState
	page   int
	points []domain.Point
}

// NewStrokeCapture creates a capture machine. config is read at every
// event, so changes made through the shared pointer take effect immediately.
func NewStrokeCapture(
	locator driven.PageLocator,
	config *domain.ToolConfig,
	hits *HitTester,
	sink CommandSink,
) *StrokeCapture {
	return &StrokeCapture{
		locator: locator,
		config:  config,
		hits:    hits,
		sink:    sink,
		state:   CaptureIdle,
	}
}

// SetPreview installs a live preview callback limited to perSecond calls.
// A non-positive rate disables throttling.
func (c *StrokeCapture) SetPreview(fn PreviewFunc, perSecond float64) {
	c.preview = fn
	if perSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	} else {
		c.limiter = nil
	}
}

// State returns the current state.
func (c *StrokeCapture) State() CaptureState {
	return c.state
}

// Begin starts tracking a gesture on the page under p.
// A gesture already in progress is abandoned without committing.
func (c *StrokeCapture) Begin(p domain.Point) error {
	page, ok := c.locator.PageForPoint(p)
	if !ok {
		return domain.ErrInvalidReference
	}
	c.start(page, c.locator.ConvertToPageSpace(p, page))
	return nil
}

// Move extends the gesture to p.
func (c *StrokeCapture) Move(p domain.Point) error {
	if c.state != CaptureTracking {
		return nil
	}
	page, local := c.follow(p)
	if c.config.Tool.Erases() {
		return c.erase(page, local)
	}
	c.appendPoint(local)
	c.emitPreview()
	return nil
}

// End finishes the gesture at p, committing the stroke unless it never
// left its start point.
func (c *StrokeCapture) End(p domain.Point) error {
	if c.state != CaptureTracking {
		return nil
	}
	defer c.reset()

	page, local := c.follow(p)
	if c.config.Tool.Erases() {
		return c.erase(page, local)
	}
	c.appendPoint(local)
	return c.commit()
}

// Cancel abandons the gesture in progress.
func (c *StrokeCapture) Cancel() {
	c.reset()
}

// follow resolves p, splitting the stroke when the pointer has moved to a
// different page. The stroke so far is committed to the old page and a new
// one starts on the new page at the crossing point.
func (c *StrokeCapture) follow(p domain.Point) (int, domain.Point) {
	page, ok := c.locator.PageForPoint(p)
	if !ok {
		page = c.page
	}
	local := c.locator.ConvertToPageSpace(p, page)
	if page != c.page {
		if !c.config.Tool.Erases() {
			if err := c.commit(); err != nil {
				captureLog.Warn("stroke on page %d dropped at page crossing: %v", c.page, err)
			}
		}
		c.start(page, local)
	}
	return page, local
}

func (c *StrokeCapture) start(page int, local domain.Point) {
	c.state = CaptureTracking
	c.page = page
	c.points = []domain.Point{local}
}

func (c *StrokeCapture) reset() {
	c.state = CaptureIdle
	c.points = nil
}

func (c *StrokeCapture) appendPoint(p domain.Point) {
	if n := len(c.points); n > 0 && c.points[n-1] == p {
		return
	}
	c.points = append(c.points, p)
}

func (c *StrokeCapture) emitPreview() {
	if c.preview == nil {
		return
	}
	if c.limiter != nil && !c.limiter.Allow() {
		return
	}
	pts := make([]domain.Point, len(c.points))
	copy(pts, c.points)
	c.preview(c.page, pts)
}

// commit emits an Add command for the current stroke.
// Degenerate strokes are discarded silently.
func (c *StrokeCapture) commit() error {
	params := c.config.Tool.Params()
	a, err := domain.NewInkStroke(c.points, c.config.Color, params.StrokeWidth, params.Alpha)
	if errors.Is(err, domain.ErrDegenerateStroke) {
		captureLog.Debug("discarding degenerate stroke on page %d", c.page)
		return nil
	}
	if err != nil {
		return err
	}
	captureLog.Debug("committing %d-point stroke on page %d", len(c.points), c.page)
	return c.sink(domain.AddCommand(c.page, a))
}

func (c *StrokeCapture) erase(page int, local domain.Point) error {
	a, ok := c.hits.Topmost(page, local)
	if !ok {
		return nil
	}
	captureLog.Debug("erasing %s %s on page %d", a.Kind, a.ID, page)
	return c.sink(domain.RemoveCommand(page, a))
}
