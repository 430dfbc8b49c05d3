// Package input provides text input components for the editor TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/margin/internal/core/domain"
)

// NoteInput collects the content of a text note before it is placed.
type NoteInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewNoteInput creates a new, unfocused note input.
func NewNoteInput(s *styles.Styles) *NoteInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Note text, enter to place, esc to cancel"
	ti.CharLimit = 256
	ti.Width = 50

	return &NoteInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the note input.
func (n *NoteInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (n *NoteInput) Update(msg tea.Msg) (*NoteInput, tea.Cmd) {
	var cmd tea.Cmd
	n.textinput, cmd = n.textinput.Update(msg)
	return n, cmd
}

// View renders the note input.
func (n *NoteInput) View() string {
	label := n.styles.Mode(domain.ModeText).Render("Note")
	field := n.styles.InputField.Render(n.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, " ", field)
}

// Value returns the current input value.
func (n *NoteInput) Value() string {
	return n.textinput.Value()
}

// SetValue sets the input value.
func (n *NoteInput) SetValue(value string) {
	n.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (n *NoteInput) Focus() tea.Cmd {
	return n.textinput.Focus()
}

// Blur removes focus and clears the input.
func (n *NoteInput) Blur() {
	n.textinput.Blur()
	n.textinput.Reset()
}

// Focused returns whether the input is focused.
func (n *NoteInput) Focused() bool {
	return n.textinput.Focused()
}

// SetWidth sets the width of the input.
func (n *NoteInput) SetWidth(width int) {
	n.width = width
	// Account for label and border
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	n.textinput.Width = inputWidth
}

// Width returns the current width.
func (n *NoteInput) Width() int {
	return n.width
}
