package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/adapters/driven/config/file"
	"github.com/custodia-labs/margin/internal/core/domain"
)

var replayCmd = &cobra.Command{
	Use:   "replay [document] [script]",
	Short: "Apply a scripted sequence of edits",
	Long: `Apply the edits described in a TOML script to a document, then save it.

Each [[step]] names an action. Points are view-space [x, y] pairs; pages
are stacked vertically with the configured gap between them.

  draw     ink stroke through points (switches to pen mode)
  erase    eraser stroke through points (switches to pen mode)
  text     text note with content at points[0] (switches to text mode)
  comment  comment marker at points[0]; content is the thread id
  widget   clear button at points[0] (switches to comment mode)
  drag     move the annotation under points[0] through the other points
  tap      select the annotation under points[0]
  undo, redo, cancel, revert
  mode     switch to mode
  tool     select tool and optionally color

Example:

  [[step]]
  action = "draw"
  tool = "pen"
  points = [[10.0, 10.0], [40.0, 30.0], [80.0, 20.0]]

  [[step]]
  action = "text"
  points = [[100.0, 100.0]]
  content = "check this"`,
	Args: cobra.ExactArgs(2),
	RunE: runReplay,
}

// replayCreate is a flag for the replay command.
var replayCreate bool

func init() {
	replayCmd.Flags().BoolVar(&replayCreate, "create", false, "create the document if it does not exist")
	rootCmd.AddCommand(replayCmd)
}

// Script is a sequence of editing steps.
type Script struct {
	Steps []Step `toml:"step"`
}

// Step is one scripted edit.
type Step struct {
	Action  string      `toml:"action"`
	Points  [][]float64 `toml:"points"`
	Content string      `toml:"content"`
	Tool    string      `toml:"tool"`
	Mode    string      `toml:"mode"`
	Color   string      `toml:"color"`
}

// loadScript parses a replay script.
func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	var script Script
	if err := toml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	return &script, nil
}

// points converts the step's [x, y] pairs.
func (s Step) points() ([]domain.Point, error) {
	out := make([]domain.Point, len(s.Points))
	for i, p := range s.Points {
		if len(p) != 2 {
			return nil, fmt.Errorf("%w: point %d needs two coordinates", domain.ErrInvalidInput, i)
		}
		out[i] = domain.Point{X: p[0], Y: p[1]}
	}
	return out, nil
}

// anchor returns the first point, which every placement needs.
func (s Step) anchor() (domain.Point, error) {
	pts, err := s.points()
	if err != nil {
		return domain.Point{}, err
	}
	if len(pts) == 0 {
		return domain.Point{}, fmt.Errorf("%w: %s needs a point", domain.ErrInvalidInput, s.Action)
	}
	return pts[0], nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	script, err := loadScript(args[1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ws, err := openWorkspace(ctx, args[0], settings, workspaceOptions{create: replayCreate})
	if err != nil {
		return err
	}

	r := &replayer{ws: ws, tool: settings.Tool}
	for i, step := range script.Steps {
		if err := r.apply(ctx, step); err != nil {
			_ = ws.Discard()
			return fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
	}

	snap, err := ws.session.Snapshot(ctx)
	if err != nil {
		_ = ws.Discard()
		return err
	}
	if err := ws.Close(ctx, true); err != nil {
		return err
	}

	count := 0
	for _, p := range snap.Pages {
		count += len(p.Annotations)
	}
	cmd.Printf("Applied %d steps to %s (%d annotations)\n", len(script.Steps), ws.path, count)
	return nil
}

// replayer drives a workspace session from script steps.
type replayer struct {
	ws   *workspace
	tool domain.Tool
}

//nolint:gocyclo // one case per action
func (r *replayer) apply(ctx context.Context, step Step) error {
	s := r.ws.session
	switch step.Action {
	case "draw":
		return r.stroke(ctx, step)
	case "erase":
		prev := r.tool
		if err := r.setTool(ctx, domain.ToolEraser); err != nil {
			return err
		}
		err := r.stroke(ctx, Step{Action: step.Action, Points: step.Points})
		if terr := r.setTool(ctx, prev); err == nil {
			err = terr
		}
		return err
	case "text":
		p, err := step.anchor()
		if err != nil {
			return err
		}
		if err := r.ensureMode(ctx, domain.ModeText); err != nil {
			return err
		}
		_, err = s.AddTextNote(ctx, p, step.Content)
		return err
	case "comment":
		p, err := step.anchor()
		if err != nil {
			return err
		}
		if err := r.ensureMode(ctx, domain.ModeComment); err != nil {
			return err
		}
		thread := step.Content
		if thread == "" {
			thread = uuid.NewString()
		}
		_, err = s.AddCommentMarker(ctx, p, thread)
		return err
	case "widget":
		p, err := step.anchor()
		if err != nil {
			return err
		}
		if err := r.ensureMode(ctx, domain.ModeComment); err != nil {
			return err
		}
		_, err = s.AddClearButton(ctx, p)
		return err
	case "drag":
		return r.drag(ctx, step)
	case "tap":
		p, err := step.anchor()
		if err != nil {
			return err
		}
		_, _, err = s.Tap(ctx, p)
		return err
	case "undo":
		_, err := s.Undo(ctx)
		return err
	case "redo":
		_, err := s.Redo(ctx)
		return err
	case "cancel":
		return s.Cancel(ctx)
	case "revert":
		return s.Revert(ctx)
	case "mode":
		return s.SetMode(ctx, domain.EditingMode(step.Mode))
	case "tool":
		if step.Tool != "" {
			if err := r.setTool(ctx, domain.Tool(step.Tool)); err != nil {
				return err
			}
		}
		if step.Color != "" {
			c, err := file.ParseColor(step.Color)
			if err != nil {
				return err
			}
			return s.SetColor(ctx, c)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, step.Action)
	}
}

// stroke draws through the step's points in pen mode. A tool named on the
// step is selected first and stays selected.
func (r *replayer) stroke(ctx context.Context, step Step) error {
	pts, err := step.points()
	if err != nil {
		return err
	}
	if len(pts) < 2 {
		return fmt.Errorf("%w: a stroke needs at least two points", domain.ErrInvalidInput)
	}
	if step.Tool != "" {
		if err := r.setTool(ctx, domain.Tool(step.Tool)); err != nil {
			return err
		}
	}
	if err := r.ensureMode(ctx, domain.ModePen); err != nil {
		return err
	}

	s := r.ws.session
	if err := s.BeginStroke(ctx, pts[0]); err != nil {
		return err
	}
	for _, p := range pts[1 : len(pts)-1] {
		if err := s.MoveStroke(ctx, p); err != nil {
			return err
		}
	}
	return s.EndStroke(ctx, pts[len(pts)-1])
}

func (r *replayer) drag(ctx context.Context, step Step) error {
	pts, err := step.points()
	if err != nil {
		return err
	}
	if len(pts) < 2 {
		return fmt.Errorf("%w: a drag needs at least two points", domain.ErrInvalidInput)
	}

	s := r.ws.session
	ok, err := s.BeginDrag(ctx, pts[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: nothing to drag at (%g, %g)", domain.ErrNotFound, pts[0].X, pts[0].Y)
	}
	for _, p := range pts[1:] {
		if err := s.Drag(ctx, p); err != nil {
			return err
		}
	}
	return s.EndDrag(ctx)
}

func (r *replayer) setTool(ctx context.Context, tool domain.Tool) error {
	if err := r.ws.session.SetTool(ctx, tool); err != nil {
		return err
	}
	r.tool = tool
	return nil
}

func (r *replayer) ensureMode(ctx context.Context, mode domain.EditingMode) error {
	current, err := r.ws.session.Mode(ctx)
	if err != nil {
		return err
	}
	if current == mode {
		return nil
	}
	return r.ws.session.SetMode(ctx, mode)
}
