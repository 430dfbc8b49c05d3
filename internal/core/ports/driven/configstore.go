package driven

import "github.com/custodia-labs/margin/internal/core/domain"

// SettingsStore loads and persists application settings.
type SettingsStore interface {
	// Load returns the effective settings: defaults, then the stored file,
	// then environment overrides.
	Load() (domain.Settings, error)

	// Save persists settings to the store.
	Save(settings domain.Settings) error

	// Path returns where settings are stored.
	Path() string
}
