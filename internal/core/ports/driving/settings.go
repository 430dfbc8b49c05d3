package driving

import (
	"time"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves the effective settings.
	Get() (domain.Settings, error)

	// SetTool changes the initial drawing tool.
	SetTool(tool domain.Tool) error

	// SetColor changes the initial drawing colour.
	SetColor(color domain.Color) error

	// SetAutosaveInterval changes the autosave period.
	SetAutosaveInterval(interval time.Duration) error

	// SetPageGeometry changes the page size and count of new documents.
	SetPageGeometry(width, height float64, count int) error

	// Reset restores the defaults.
	Reset() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Path returns where settings are stored.
	Path() string
}
