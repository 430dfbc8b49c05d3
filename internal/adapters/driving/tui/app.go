package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/views/canvas"
	"github.com/custodia-labs/margin/internal/core/domain"
)

// scrollStep is how many rows a scroll key or wheel notch moves.
const scrollStep = 3

// noteInputRows is the height of the bordered note input.
const noteInputRows = 3

// gesture is the pointer interaction in progress.
type gesture int

const (
	gestureNone gesture = iota
	gestureStroke
	gestureDrag
)

// App is the editor following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// Pointer gestures are forwarded to the session synchronously from Update,
// so the session sees them in the order they happened. Session events come
// back asynchronously through a Bridge.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	canvas *canvas.View
	status *status.Bar
	note   *input.NoteInput

	mode    domain.EditingMode
	tool    domain.Tool
	gesture gesture

	// pointer is the last pointer position in view space.
	pointer domain.Point

	// noteAt is where the note being typed will be placed.
	noteAt domain.Point

	revision uint64
	loaded   bool

	showHelp bool
	err      error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the editor with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		keymap: km,
		canvas: canvas.NewView(s, ports.Layout),
		status: bar,
		note:   input.NewNoteInput(s),
		mode:   domain.ModeView,
		tool:   domain.ToolPencil,
	}, nil
}

// WithContext sets the context passed to the session.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithTool sets the tool shown at start. It should match the session's.
func (a *App) WithTool(tool domain.Tool) *App {
	a.tool = tool
	a.status.SetTool(tool)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	title := "margin"
	if a.ports.Path != "" {
		title += " - " + filepath.Base(a.ports.Path)
	}
	return tea.Batch(
		tea.SetWindowTitle(title),
		a.load(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case messages.HistoryChanged:
		a.status.SetHistory(msg.UndoEnabled, msg.RedoEnabled)

	case messages.StrokeUpdated:
		if a.gesture == gestureStroke {
			a.canvas.SetPreview(msg.Page, msg.Points)
		}

	case messages.AnnotationHit:
		a.selectAnnotation(msg.Annotation)

	case messages.AnnotationsLoaded:
		a.applyLoaded(msg)

	case messages.SaveCompleted:
		if msg.Result.Success() {
			a.status.SetState(status.StateSaved, fmt.Sprintf("Saved revision %d", msg.Result.Revision))
		} else {
			a.status.SetState(status.StateError, "autosave failed: "+msg.Result.Error)
		}

	case messages.ExternalChange:
		name := filepath.Base(msg.Path)
		if msg.Removed {
			a.status.SetState(status.StateWarning, name+" was removed on disk")
		} else {
			a.status.SetState(status.StateWarning, name+" changed on disk; saving will overwrite it")
		}

	case messages.ErrorOccurred:
		a.fail(msg.Err)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.showHelp {
		return a.viewHelp()
	}

	parts := []string{a.canvas.View()}
	if a.note.Focused() {
		parts = append(parts, a.note.View())
	}
	parts = append(parts, a.status.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// viewHelp renders the keybinding overlay.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString("Keys\n")
	for _, group := range a.keymap.FullHelp() {
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-8s %s\n", h.Key, h.Desc)
		}
	}
	b.WriteString(`
Mouse:
  left drag   draw (pen mode)
  left click  select (view), place note (text), place marker (comment)
  right drag  move an annotation (editing modes)
  wheel       scroll

[any key] close help`)
	return a.styles.Help.Render(b.String())
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.note.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			return a.placeNote()
		case tea.KeyEsc:
			a.closeNote()
			return nil
		case tea.KeyCtrlC:
			return tea.Quit
		}
		var cmd tea.Cmd
		a.note, cmd = a.note.Update(msg)
		return cmd
	}

	k := msg.String()
	if a.showHelp {
		if keymap.Matches(k, a.keymap.Quit) {
			return tea.Quit
		}
		a.showHelp = false
		return nil
	}

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return tea.Quit
	case keymap.Matches(k, a.keymap.Help):
		a.showHelp = true
	case keymap.Matches(k, a.keymap.ViewMode):
		a.setMode(domain.ModeView)
	case keymap.Matches(k, a.keymap.PenMode):
		a.setMode(domain.ModePen)
	case keymap.Matches(k, a.keymap.TextMode):
		a.setMode(domain.ModeText)
	case keymap.Matches(k, a.keymap.CommentMode):
		a.setMode(domain.ModeComment)
	case keymap.Matches(k, a.keymap.Pencil):
		a.setTool(domain.ToolPencil)
	case keymap.Matches(k, a.keymap.Pen):
		a.setTool(domain.ToolPen)
	case keymap.Matches(k, a.keymap.Highlighter):
		a.setTool(domain.ToolHighlighter)
	case keymap.Matches(k, a.keymap.Eraser):
		a.setTool(domain.ToolEraser)
	case keymap.Matches(k, a.keymap.Undo):
		return a.step(a.ports.Session.Undo, "undo")
	case keymap.Matches(k, a.keymap.Redo):
		return a.step(a.ports.Session.Redo, "redo")
	case keymap.Matches(k, a.keymap.Cancel):
		if a.check(a.ports.Session.Cancel(a.ctx)) {
			a.status.SetState(status.StateReady, "Edits kept; history cleared")
		}
		return a.load()
	case keymap.Matches(k, a.keymap.Revert):
		if a.check(a.ports.Session.Revert(a.ctx)) {
			a.status.SetState(status.StateReady, "Reverted "+a.mode.String()+" edits")
		}
		return a.load()
	case keymap.Matches(k, a.keymap.Delete):
		return a.deleteSelected()
	case keymap.Matches(k, a.keymap.Widget):
		return a.placeWidget()
	case keymap.Matches(k, a.keymap.Save):
		return a.save()
	case keymap.Matches(k, a.keymap.ScrollUp):
		a.canvas.Scroll(-scrollStep)
	case keymap.Matches(k, a.keymap.ScrollDown):
		a.canvas.Scroll(scrollStep)
	}
	return nil
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.note.Focused() || a.showHelp {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.canvas.Scroll(-scrollStep)
		return nil
	case tea.MouseButtonWheelDown:
		a.canvas.Scroll(scrollStep)
		return nil
	}

	p := a.canvas.ToView(msg.X, msg.Y)
	a.pointer = p

	switch msg.Action {
	case tea.MouseActionPress:
		return a.press(msg.Button, p)
	case tea.MouseActionMotion:
		return a.motion(p)
	case tea.MouseActionRelease:
		return a.release(p)
	}
	return nil
}

func (a *App) press(button tea.MouseButton, p domain.Point) tea.Cmd {
	if button == tea.MouseButtonRight {
		if !a.mode.Edits() {
			return nil
		}
		ok, err := a.ports.Session.BeginDrag(a.ctx, p)
		if a.check(err) && ok {
			a.gesture = gestureDrag
		}
		return nil
	}
	if button != tea.MouseButtonLeft {
		return nil
	}

	switch a.mode {
	case domain.ModePen:
		if a.check(a.ports.Session.BeginStroke(a.ctx, p)) {
			a.gesture = gestureStroke
		}
	case domain.ModeText:
		return a.openNote(p)
	case domain.ModeComment:
		_, err := a.ports.Session.AddCommentMarker(a.ctx, p, uuid.NewString())
		a.check(err)
		return a.load()
	case domain.ModeView:
		hit, ok, err := a.ports.Session.Tap(a.ctx, p)
		if !a.check(err) {
			return nil
		}
		if ok {
			a.selectAnnotation(hit)
		} else {
			a.canvas.Select("")
			a.status.Clear()
		}
	}
	return nil
}

func (a *App) motion(p domain.Point) tea.Cmd {
	switch a.gesture {
	case gestureStroke:
		a.check(a.ports.Session.MoveStroke(a.ctx, p))
	case gestureDrag:
		a.check(a.ports.Session.Drag(a.ctx, p))
		return a.load()
	case gestureNone:
	}
	return nil
}

func (a *App) release(p domain.Point) tea.Cmd {
	g := a.gesture
	a.gesture = gestureNone
	switch g {
	case gestureStroke:
		a.check(a.ports.Session.EndStroke(a.ctx, p))
		a.canvas.ClearPreview()
		return a.load()
	case gestureDrag:
		a.check(a.ports.Session.EndDrag(a.ctx))
		return a.load()
	case gestureNone:
	}
	return nil
}

func (a *App) setMode(mode domain.EditingMode) {
	if mode == a.mode {
		return
	}
	if !a.check(a.ports.Session.SetMode(a.ctx, mode)) {
		return
	}
	a.mode = mode
	a.gesture = gestureNone
	a.canvas.ClearPreview()
	a.status.SetMode(mode)
	a.status.Clear()
}

func (a *App) setTool(tool domain.Tool) {
	if !a.check(a.ports.Session.SetTool(a.ctx, tool)) {
		return
	}
	a.tool = tool
	a.status.SetTool(tool)
}

func (a *App) step(fn func(context.Context) (bool, error), what string) tea.Cmd {
	ok, err := fn(a.ctx)
	if !a.check(err) {
		return nil
	}
	if !ok {
		a.status.SetState(status.StateReady, "Nothing to "+what)
		return nil
	}
	a.status.Clear()
	return a.load()
}

func (a *App) openNote(p domain.Point) tea.Cmd {
	a.noteAt = p
	cmd := a.note.Focus()
	a.resize()
	return cmd
}

func (a *App) closeNote() {
	a.note.Blur()
	a.resize()
}

func (a *App) placeNote() tea.Cmd {
	content := strings.TrimSpace(a.note.Value())
	a.closeNote()
	if content == "" {
		return nil
	}
	_, err := a.ports.Session.AddTextNote(a.ctx, a.noteAt, content)
	a.check(err)
	return a.load()
}

func (a *App) placeWidget() tea.Cmd {
	if a.mode != domain.ModeComment {
		a.status.SetState(status.StateWarning, "Clear buttons are placed in comment mode")
		return nil
	}
	_, err := a.ports.Session.AddClearButton(a.ctx, a.pointer)
	a.check(err)
	return a.load()
}

func (a *App) deleteSelected() tea.Cmd {
	id := a.canvas.Selected()
	if id == "" {
		return nil
	}
	if !a.mode.Edits() {
		a.status.SetState(status.StateWarning, "Switch to an editing mode to delete")
		return nil
	}
	page, _, ok := a.canvas.Lookup(id)
	if !ok {
		a.canvas.Select("")
		return nil
	}
	if a.check(a.ports.Session.RemoveAnnotation(a.ctx, page, id)) {
		a.canvas.Select("")
	}
	return a.load()
}

func (a *App) save() tea.Cmd {
	if a.ports.Autosave == nil {
		return nil
	}
	autosave, ctx := a.ports.Autosave, a.ctx
	return func() tea.Msg {
		if err := autosave.SaveNow(ctx); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return nil
	}
}

// load fetches every page's annotations from a tear-free snapshot.
func (a *App) load() tea.Cmd {
	session, ctx := a.ports.Session, a.ctx
	return func() tea.Msg {
		snap, err := session.Snapshot(ctx)
		if err != nil {
			return messages.AnnotationsLoaded{Err: err}
		}
		pages := make([][]domain.Annotation, len(snap.Pages))
		for i, p := range snap.Pages {
			pages[i] = p.Annotations
		}
		return messages.AnnotationsLoaded{Pages: pages, Revision: snap.Revision}
	}
}

// applyLoaded installs loaded annotations unless a newer load already landed.
func (a *App) applyLoaded(msg messages.AnnotationsLoaded) {
	if msg.Err != nil {
		a.fail(msg.Err)
		return
	}
	if a.loaded && msg.Revision < a.revision {
		return
	}
	a.loaded = true
	a.revision = msg.Revision
	a.canvas.SetAnnotations(msg.Pages)
	if id := a.canvas.Selected(); id != "" {
		if _, _, ok := a.canvas.Lookup(id); !ok {
			a.canvas.Select("")
		}
	}
}

func (a *App) selectAnnotation(ann domain.Annotation) {
	a.canvas.Select(ann.ID)
	a.status.SetState(status.StateReady, fmt.Sprintf("Selected %s %s", ann.Kind, ann.ID))
}

// check records err in the status bar and reports whether it was nil.
func (a *App) check(err error) bool {
	if err == nil {
		return true
	}
	a.fail(err)
	return false
}

func (a *App) fail(err error) {
	a.err = err
	a.status.SetState(status.StateError, err.Error())
}

func (a *App) resize() {
	a.status.SetWidth(a.width)
	a.note.SetWidth(a.width)
	rows := a.height - 1
	if a.note.Focused() {
		rows -= noteInputRows
	}
	a.canvas.SetDimensions(a.width, rows)
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.resize()
}

// Run starts the editor on the terminal with mouse tracking.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Mode returns the current editing mode.
func (a *App) Mode() domain.EditingMode {
	return a.mode
}

// Tool returns the current drawing tool.
func (a *App) Tool() domain.Tool {
	return a.tool
}

// Selected returns the selected annotation id.
func (a *App) Selected() domain.AnnotationID {
	return a.canvas.Selected()
}

// Status returns the status bar.
func (a *App) Status() *status.Bar {
	return a.status
}

// ShowingHelp reports whether the help overlay is open.
func (a *App) ShowingHelp() bool {
	return a.showHelp
}

// EditingNote reports whether a note is being typed.
func (a *App) EditingNote() bool {
	return a.note.Focused()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}
