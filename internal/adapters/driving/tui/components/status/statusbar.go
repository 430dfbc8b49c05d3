// Package status provides the editor status bar.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/margin/internal/core/domain"
)

// State classifies the message shown on the left of the bar.
type State string

const (
	StateReady   State = "ready"
	StateSaved   State = "saved"
	StateWarning State = "warning"
	StateError   State = "error"
)

// Bar displays the editing mode, tool, history affordances and the last
// notable event.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	mode    domain.EditingMode
	tool    domain.Tool
	undo    bool
	redo    bool
	state   State
	message string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		mode:   domain.ModeView,
		tool:   domain.ToolPencil,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders mode, tool, history and message.
func (s *Bar) renderLeft() string {
	parts := []string{
		s.styles.Mode(s.mode).Render(strings.ToUpper(s.mode.String())),
		s.styles.Normal.Render(s.tool.Description()),
		s.renderHistory(),
	}
	if msg := s.renderMessage(); msg != "" {
		parts = append(parts, msg)
	}
	return strings.Join(parts, " ")
}

func (s *Bar) renderHistory() string {
	undo, redo := "undo", "redo"
	if !s.undo {
		undo = s.styles.Muted.Render(undo)
	}
	if !s.redo {
		redo = s.styles.Muted.Render(redo)
	}
	return undo + "/" + redo
}

func (s *Bar) renderMessage() string {
	switch s.state {
	case StateSaved:
		return s.styles.Success.Render(s.message)
	case StateWarning:
		return s.styles.Warning.Render(s.message)
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
		return s.styles.Muted.Render(s.message)
	}
	return ""
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, hint(b))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

func hint(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("%s: %s", h.Key, h.Desc)
}

// SetMode sets the displayed editing mode.
func (s *Bar) SetMode(mode domain.EditingMode) {
	s.mode = mode
}

// Mode returns the displayed editing mode.
func (s *Bar) Mode() domain.EditingMode {
	return s.mode
}

// SetTool sets the displayed tool.
func (s *Bar) SetTool(tool domain.Tool) {
	s.tool = tool
}

// Tool returns the displayed tool.
func (s *Bar) Tool() domain.Tool {
	return s.tool
}

// SetHistory sets the undo/redo affordances.
func (s *Bar) SetHistory(undo, redo bool) {
	s.undo = undo
	s.redo = redo
}

// History returns the undo/redo affordances.
func (s *Bar) History() (undo, redo bool) {
	return s.undo, s.redo
}

// SetState sets the message state and text.
func (s *Bar) SetState(state State, message string) {
	s.state = state
	s.message = message
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the message to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
