// Package styles provides colour themes and styling for the editor TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// Theme is the editor palette. Each editing mode gets its own badge colour
// so the active mode is visible at a glance.
type Theme struct {
	View    lipgloss.Color
	Pen     lipgloss.Color
	Text    lipgloss.Color
	Comment lipgloss.Color

	// Paper is the page border colour.
	Paper lipgloss.Color
	// Ink is the colour of committed annotations.
	Ink lipgloss.Color

	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Bar        lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		View:       lipgloss.Color("#6C7086"),
		Pen:        lipgloss.Color("#D20F39"),
		Text:       lipgloss.Color("#1E66F5"),
		Comment:    lipgloss.Color("#DF8E1D"),
		Paper:      lipgloss.Color("#45475A"),
		Ink:        lipgloss.Color("#F38BA8"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#7F849C"),
		Bar:        lipgloss.Color("#181825"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#EBA0AC"),
	}
}

// ModeColor returns the badge colour for mode. Unknown modes use View.
func (t *Theme) ModeColor(mode domain.EditingMode) lipgloss.Color {
	switch mode {
	case domain.ModePen:
		return t.Pen
	case domain.ModeText:
		return t.Text
	case domain.ModeComment:
		return t.Comment
	default:
		return t.View
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme
	badge lipgloss.Style

	Canvas     lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,
		badge: lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground).Padding(0, 1),

		Canvas:  lipgloss.NewStyle().Foreground(theme.Ink),
		Normal:  lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ModeColor(domain.ModeText)).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(1, 2),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Mode returns the badge style for mode.
func (s *Styles) Mode(mode domain.EditingMode) lipgloss.Style {
	return s.badge.Background(s.theme.ModeColor(mode))
}
