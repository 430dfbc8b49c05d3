package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.SettingsStore = (*ConfigStore)(nil)

// fileConfig is the on-disk layout of config.toml. Every field can be
// overridden by the environment variable named in its env tag.
type fileConfig struct {
	Editor   editorSection   `toml:"editor"`
	Page     pageSection     `toml:"page"`
	Autosave autosaveSection `toml:"autosave"`
	Verbose  bool            `toml:"verbose" env:"MARGIN_VERBOSE"`
}

type editorSection struct {
	Tool  string `toml:"tool" env:"MARGIN_TOOL"`
	Color string `toml:"color" env:"MARGIN_COLOR"`
}

type pageSection struct {
	Width  float64 `toml:"width" env:"MARGIN_PAGE_WIDTH"`
	Height float64 `toml:"height" env:"MARGIN_PAGE_HEIGHT"`
	Gap    float64 `toml:"gap" env:"MARGIN_PAGE_GAP"`
	Count  int     `toml:"count" env:"MARGIN_PAGE_COUNT"`
}

type autosaveSection struct {
	Interval string `toml:"interval" env:"MARGIN_AUTOSAVE_INTERVAL"`
	DataDir  string `toml:"data_dir" env:"MARGIN_DATA_DIR"`
}

// ConfigStore is a file-based implementation of driven.SettingsStore using TOML.
// Settings are stored in config.toml within the margin config directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.margin/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".margin")
	}
	return NewConfigStoreAt(filepath.Join(configDir, "config.toml"))
}

// NewConfigStoreAt creates a config store backed by an explicit file path.
func NewConfigStoreAt(path string) (*ConfigStore, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	return &ConfigStore{filePath: path}, nil
}

// Load returns the defaults overlaid with the config file, then with any
// MARGIN_* environment variables. A missing file is not an error.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := fromSettings(domain.DefaultSettings())

	data, err := os.ReadFile(s.filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file yet - defaults apply
	case err != nil:
		return domain.Settings{}, err
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return domain.Settings{}, fmt.Errorf("parse %s: %w", s.filePath, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return domain.Settings{}, fmt.Errorf("parse env: %w", err)
	}

	settings, err := cfg.toSettings()
	if err != nil {
		return domain.Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// Save persists settings to the TOML file.
func (s *ConfigStore) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(fromSettings(settings))
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

func fromSettings(s domain.Settings) fileConfig {
	return fileConfig{
		Editor: editorSection{
			Tool:  s.Tool.String(),
			Color: FormatColor(s.Color),
		},
		Page: pageSection{
			Width:  s.PageWidth,
			Height: s.PageHeight,
			Gap:    s.PageGap,
			Count:  s.PageCount,
		},
		Autosave: autosaveSection{
			Interval: s.AutosaveInterval.String(),
			DataDir:  s.DataDir,
		},
		Verbose: s.Verbose,
	}
}

func (c fileConfig) toSettings() (domain.Settings, error) {
	color, err := ParseColor(c.Editor.Color)
	if err != nil {
		return domain.Settings{}, err
	}
	interval, err := time.ParseDuration(c.Autosave.Interval)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: autosave interval %q", domain.ErrInvalidInput, c.Autosave.Interval)
	}
	return domain.Settings{
		Tool:             domain.Tool(c.Editor.Tool),
		Color:            color,
		AutosaveInterval: interval,
		PageWidth:        c.Page.Width,
		PageHeight:       c.Page.Height,
		PageGap:          c.Page.Gap,
		PageCount:        c.Page.Count,
		DataDir:          c.Autosave.DataDir,
		Verbose:          c.Verbose,
	}, nil
}
