package domain

// Tool is a drawing instrument.
type Tool string

// Available tools.
const (
	ToolEraser      Tool = "eraser"
	ToolPencil      Tool = "pencil"
	ToolPen         Tool = "pen"
	ToolHighlighter Tool = "highlighter"
)

// ToolParams are the fixed stroke parameters of a tool.
type ToolParams struct {
	StrokeWidth float64
	Alpha       float64
}

var toolTable = map[Tool]ToolParams{
	ToolEraser:      {StrokeWidth: 0, Alpha: 1},
	ToolPencil:      {StrokeWidth: 1, Alpha: 1},
	ToolPen:         {StrokeWidth: 5, Alpha: 1},
	ToolHighlighter: {StrokeWidth: 10, Alpha: 0.5},
}

// IsValid returns true if the tool is recognised.
func (t Tool) IsValid() bool {
	_, ok := toolTable[t]
	return ok
}

// Params returns the stroke width and alpha for the tool.
// Unknown tools get zero parameters.
func (t Tool) Params() ToolParams {
	return toolTable[t]
}

// Erases reports whether the tool removes annotations instead of drawing.
func (t Tool) Erases() bool {
	return t == ToolEraser
}

// String returns the string representation.
func (t Tool) String() string {
	return string(t)
}

// Description returns a human-readable description of the tool.
func (t Tool) Description() string {
	switch t {
	case ToolEraser:
		return "Eraser"
	case ToolPencil:
		return "Pencil (1pt)"
	case ToolPen:
		return "Pen (5pt)"
	case ToolHighlighter:
		return "Highlighter (10pt, 50%)"
	default:
		return "Unknown"
	}
}

// ToolConfig is the live drawing configuration shared by reference between
// the UI and stroke capture. Changes apply to the next committed stroke.
type ToolConfig struct {
	Tool  Tool
	Color Color
}

// DefaultToolConfig returns a red pencil.
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{Tool: ToolPencil, Color: ColorRed}
}
