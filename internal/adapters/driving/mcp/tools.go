package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// ListAnnotationsInput is the input schema for the list_annotations tool.
type ListAnnotationsInput struct {
	Page *int `json:"page,omitempty" jsonschema:"zero-based page index; omit to list every page"`
}

// ListAnnotationsOutput is the output schema for the list_annotations tool.
type ListAnnotationsOutput struct {
	Annotations []AnnotationOutput `json:"annotations"`
	Count       int                `json:"count"`
}

// AnnotationOutput represents a single annotation.
type AnnotationOutput struct {
	ID     string  `json:"id"`
	Page   int     `json:"page"`
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Content is the note text, comment thread or widget caption.
	Content string `json:"content,omitempty"`

	// Points is the number of points of an ink stroke.
	Points int `json:"points,omitempty"`
}

// EmptyInput is the input schema of tools without arguments.
type EmptyInput struct{}

// StepOutput is the output schema for the undo and redo tools.
type StepOutput struct {
	Changed bool `json:"changed"`
	HistoryOutput
}

// HistoryOutput is the output schema for the history_state tool.
type HistoryOutput struct {
	Mode        string `json:"mode"`
	UndoEnabled bool   `json:"undo_enabled"`
	RedoEnabled bool   `json:"redo_enabled"`
	UndoDepth   int    `json:"undo_depth"`
	RedoDepth   int    `json:"redo_depth"`
}

// AddTextNoteInput is the input schema for the add_text_note tool.
type AddTextNoteInput struct {
	X       float64 `json:"x" jsonschema:"horizontal position in view space"`
	Y       float64 `json:"y" jsonschema:"vertical position in view space; pages are stacked top to bottom"`
	Content string  `json:"content" jsonschema:"text of the note"`
}

// AddTextNoteOutput is the output schema for the add_text_note tool.
type AddTextNoteOutput struct {
	ID string `json:"id"`
}

// SetModeInput is the input schema for the set_mode tool.
type SetModeInput struct {
	Mode string `json:"mode" jsonschema:"one of view, pen, text, comment"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_annotations",
		Description: "List the annotations of the document, bottom to top per page",
	}, s.handleListAnnotations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "undo",
		Description: "Undo the last edit of the active editing mode",
	}, s.handleUndo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "redo",
		Description: "Redo the last undone edit of the active editing mode",
	}, s.handleRedo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history_state",
		Description: "Report the editing mode and whether undo and redo are available",
	}, s.handleHistoryState)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_text_note",
		Description: "Place a text note at a view-space position, switching to text mode",
	}, s.handleAddTextNote)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_mode",
		Description: "Switch the editing mode",
	}, s.handleSetMode)

	if s.ports.Autosave != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "save",
			Description: "Write pending edits to the backing file now",
		}, s.handleSave)
	}
}

// handleListAnnotations handles the list_annotations tool invocation.
func (s *Server) handleListAnnotations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListAnnotationsInput,
) (*mcp.CallToolResult, ListAnnotationsOutput, error) {
	count, err := s.ports.Session.PageCount(ctx)
	if err != nil {
		return nil, ListAnnotationsOutput{}, err
	}

	first, last := 0, count-1
	if input.Page != nil {
		if *input.Page < 0 || *input.Page >= count {
			return nil, ListAnnotationsOutput{}, fmt.Errorf("page %d out of range [0, %d)", *input.Page, count)
		}
		first, last = *input.Page, *input.Page
	}

	output := ListAnnotationsOutput{Annotations: []AnnotationOutput{}}
	for page := first; page <= last; page++ {
		anns, err := s.ports.Session.Query(ctx, page)
		if err != nil {
			return nil, ListAnnotationsOutput{}, err
		}
		for i := range anns {
			output.Annotations = append(output.Annotations, toAnnotationOutput(page, anns[i]))
		}
	}
	output.Count = len(output.Annotations)

	return nil, output, nil
}

// handleUndo handles the undo tool invocation.
func (s *Server) handleUndo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, StepOutput, error) {
	changed, err := s.ports.Session.Undo(ctx)
	if err != nil {
		return nil, StepOutput{}, err
	}
	return s.step(ctx, changed)
}

// handleRedo handles the redo tool invocation.
func (s *Server) handleRedo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, StepOutput, error) {
	changed, err := s.ports.Session.Redo(ctx)
	if err != nil {
		return nil, StepOutput{}, err
	}
	return s.step(ctx, changed)
}

func (s *Server) step(ctx context.Context, changed bool) (*mcp.CallToolResult, StepOutput, error) {
	history, err := s.history(ctx)
	if err != nil {
		return nil, StepOutput{}, err
	}
	return nil, StepOutput{Changed: changed, HistoryOutput: history}, nil
}

// handleHistoryState handles the history_state tool invocation.
func (s *Server) handleHistoryState(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	history, err := s.history(ctx)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	return nil, history, nil
}

func (s *Server) history(ctx context.Context) (HistoryOutput, error) {
	mode, err := s.ports.Session.Mode(ctx)
	if err != nil {
		return HistoryOutput{}, err
	}
	state, err := s.ports.Session.History(ctx)
	if err != nil {
		return HistoryOutput{}, err
	}
	return HistoryOutput{
		Mode:        mode.String(),
		UndoEnabled: state.UndoEnabled,
		RedoEnabled: state.RedoEnabled,
		UndoDepth:   state.UndoDepth,
		RedoDepth:   state.RedoDepth,
	}, nil
}

// handleAddTextNote handles the add_text_note tool invocation.
func (s *Server) handleAddTextNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddTextNoteInput,
) (*mcp.CallToolResult, AddTextNoteOutput, error) {
	if input.Content == "" {
		return nil, AddTextNoteOutput{}, fmt.Errorf("%w: note content is empty", domain.ErrInvalidInput)
	}
	mode, err := s.ports.Session.Mode(ctx)
	if err != nil {
		return nil, AddTextNoteOutput{}, err
	}
	if mode != domain.ModeText {
		if err := s.ports.Session.SetMode(ctx, domain.ModeText); err != nil {
			return nil, AddTextNoteOutput{}, err
		}
	}

	id, err := s.ports.Session.AddTextNote(ctx, domain.Point{X: input.X, Y: input.Y}, input.Content)
	if err != nil {
		return nil, AddTextNoteOutput{}, err
	}
	return nil, AddTextNoteOutput{ID: string(id)}, nil
}

// handleSetMode handles the set_mode tool invocation.
func (s *Server) handleSetMode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetModeInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	mode := domain.EditingMode(input.Mode)
	if !mode.IsValid() {
		return nil, HistoryOutput{}, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, input.Mode)
	}
	if err := s.ports.Session.SetMode(ctx, mode); err != nil {
		return nil, HistoryOutput{}, err
	}
	history, err := s.history(ctx)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	return nil, history, nil
}

// SaveOutput is the output schema for the save tool.
type SaveOutput struct {
	Saved bool `json:"saved"`
}

// handleSave handles the save tool invocation.
func (s *Server) handleSave(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, SaveOutput, error) {
	if err := s.ports.Autosave.SaveNow(ctx); err != nil {
		return nil, SaveOutput{}, err
	}
	return nil, SaveOutput{Saved: true}, nil
}

// toAnnotationOutput flattens an annotation for tool output.
func toAnnotationOutput(page int, a domain.Annotation) AnnotationOutput {
	out := AnnotationOutput{
		ID:     string(a.ID),
		Page:   page,
		Kind:   a.Kind.String(),
		X:      a.Bounds.X,
		Y:      a.Bounds.Y,
		Width:  a.Bounds.Width,
		Height: a.Bounds.Height,
	}
	switch {
	case a.Ink != nil:
		out.Points = len(a.Ink.Points)
	case a.Text != nil:
		out.Content = a.Text.Content
	case a.Comment != nil:
		out.Content = a.Comment.ThreadID
	case a.Widget != nil:
		out.Content = a.Widget.Caption
	}
	return out
}
