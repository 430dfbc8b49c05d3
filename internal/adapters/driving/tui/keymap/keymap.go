// Package keymap defines keybindings for the editor TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the editor.
type KeyMap struct {
	// Quit exits the editor, saving pending edits.
	Quit key.Binding

	// Help toggles the help overlay.
	Help key.Binding

	// ViewMode, PenMode, TextMode and CommentMode switch editing mode.
	ViewMode    key.Binding
	PenMode     key.Binding
	TextMode    key.Binding
	CommentMode key.Binding

	// Pencil, Pen, Highlighter and Eraser pick the drawing tool.
	Pencil      key.Binding
	Pen         key.Binding
	Highlighter key.Binding
	Eraser      key.Binding

	// Undo and Redo step the active history.
	Undo key.Binding
	Redo key.Binding

	// Cancel forgets the active history, keeping its edits.
	Cancel key.Binding

	// Revert undoes the active history.
	Revert key.Binding

	// Delete removes the selected annotation.
	Delete key.Binding

	// Widget places a clear button at the pointer.
	Widget key.Binding

	// Save writes pending edits now.
	Save key.Binding

	// ScrollUp and ScrollDown move through the pages.
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ViewMode: key.NewBinding(
			key.WithKeys("v", "esc"),
			key.WithHelp("v", "view"),
		),
		PenMode: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pen mode"),
		),
		TextMode: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "text mode"),
		),
		CommentMode: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment mode"),
		),
		Pencil: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "pencil"),
		),
		Pen: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "pen"),
		),
		Highlighter: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "highlighter"),
		),
		Eraser: key.NewBinding(
			key.WithKeys("4", "e"),
			key.WithHelp("4/e", "eraser"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("r", "ctrl+y"),
			key.WithHelp("r", "redo"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "keep edits"),
		),
		Revert: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "revert"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Widget: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "clear button"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k", "pgup"),
			key.WithHelp("↑/k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j", "pgdown"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PenMode, k.Undo, k.Redo, k.Help, k.Quit}
}

// FullHelp returns the full list of keybindings for the help overlay.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewMode, k.PenMode, k.TextMode, k.CommentMode},
		{k.Pencil, k.Pen, k.Highlighter, k.Eraser},
		{k.Undo, k.Redo, k.Cancel, k.Revert},
		{k.Delete, k.Widget, k.Save},
		{k.ScrollUp, k.ScrollDown, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
