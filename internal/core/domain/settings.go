package domain

import (
	"fmt"
	"time"
)

// Page geometry defaults, in page units (points).
const (
	DefaultPageWidth  = 612.0
	DefaultPageHeight = 792.0
	DefaultPageGap    = 16.0
	DefaultPageCount  = 1
)

// Settings is the user-facing configuration of Margin.
// It is loaded from the config file and overridden by environment variables.
type Settings struct {
	// Tool is the initial drawing tool.
	Tool Tool

	// Color is the initial drawing colour.
	Color Color

	// AutosaveInterval is the autosave pump period.
	AutosaveInterval time.Duration

	// PageWidth and PageHeight size the pages of newly created documents.
	PageWidth  float64
	PageHeight float64

	// PageGap is the vertical gap between pages in view space.
	PageGap float64

	// PageCount is the number of pages in a new document.
	PageCount int

	// DataDir holds the autosave history database.
	DataDir string

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Tool:             ToolPencil,
		Color:            ColorRed,
		AutosaveInterval: DefaultAutosaveInterval,
		PageWidth:        DefaultPageWidth,
		PageHeight:       DefaultPageHeight,
		PageGap:          DefaultPageGap,
		PageCount:        DefaultPageCount,
	}
}

// Validate checks the settings for values the editor cannot use.
func (s Settings) Validate() error {
	if !s.Tool.IsValid() {
		return fmt.Errorf("%w: unknown tool %q", ErrInvalidInput, s.Tool)
	}
	if s.AutosaveInterval <= 0 {
		return fmt.Errorf("%w: autosave interval must be positive", ErrInvalidInput)
	}
	if s.PageWidth <= 0 || s.PageHeight <= 0 {
		return fmt.Errorf("%w: page size must be positive", ErrInvalidInput)
	}
	if s.PageCount < 1 {
		return fmt.Errorf("%w: a document needs at least one page", ErrInvalidInput)
	}
	if s.PageGap < 0 {
		return fmt.Errorf("%w: page gap must not be negative", ErrInvalidInput)
	}
	return nil
}

// PageSize returns the configured size for new pages.
func (s Settings) PageSize() PageSize {
	return PageSize{Width: s.PageWidth, Height: s.PageHeight}
}

// NewDocument creates an empty document with the configured page geometry.
func (s Settings) NewDocument() *Document {
	sizes := make([]PageSize, s.PageCount)
	for i := range sizes {
		sizes[i] = s.PageSize()
	}
	return NewDocument(sizes...)
}
