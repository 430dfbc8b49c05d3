package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
type SettingsService struct {
	store driven.SettingsStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get retrieves the effective settings.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings, err := s.store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return settings, nil
}

// SetTool changes the initial drawing tool.
func (s *SettingsService) SetTool(tool domain.Tool) error {
	if !tool.IsValid() {
		return fmt.Errorf("%w: unknown tool %q", domain.ErrInvalidInput, tool)
	}
	return s.update(func(st *domain.Settings) { st.Tool = tool })
}

// SetColor changes the initial drawing colour.
func (s *SettingsService) SetColor(color domain.Color) error {
	return s.update(func(st *domain.Settings) { st.Color = color })
}

// SetAutosaveInterval changes the autosave period.
func (s *SettingsService) SetAutosaveInterval(interval time.Duration) error {
	return s.update(func(st *domain.Settings) { st.AutosaveInterval = interval })
}

// SetPageGeometry changes the page size and count of new documents.
func (s *SettingsService) SetPageGeometry(width, height float64, count int) error {
	return s.update(func(st *domain.Settings) {
		st.PageWidth = width
		st.PageHeight = height
		st.PageCount = count
	})
}

// Reset restores the defaults.
func (s *SettingsService) Reset() error {
	return s.store.Save(domain.DefaultSettings())
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Path returns where settings are stored.
func (s *SettingsService) Path() string {
	return s.store.Path()
}

// update loads, modifies, validates and saves the settings.
func (s *SettingsService) update(fn func(*domain.Settings)) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	fn(&settings)
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
