// Package cli implements the margin command line.
// It is a driving adapter that wires the editing core to documents on disk.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/adapters/driven/config/file"
	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
	"github.com/custodia-labs/margin/internal/logger"
)

// version is set at build time.
var version = "dev"

// Persistent flags.
var (
	configPath string
	verbose    bool
)

// settingsStore overrides the config file when set.
var settingsStore driven.SettingsStore

var rootCmd = &cobra.Command{
	Use:   "margin",
	Short: "Freehand annotation editor",
	Long: `margin annotates paged documents with ink strokes, text notes,
comment markers and clear buttons.

Documents are JSON files. Edits are autosaved atomically while an editing
mode is active, and every save attempt is recorded in a local history.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.margin/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsStore replaces the config file with store.
func SetSettingsStore(store driven.SettingsStore) {
	settingsStore = store
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// openSettingsStore returns the override, the --config file, or the default file.
func openSettingsStore() (driven.SettingsStore, error) {
	if settingsStore != nil {
		return settingsStore, nil
	}
	if configPath != "" {
		return file.NewConfigStoreAt(configPath)
	}
	return file.NewConfigStore("")
}

// loadSettings reads the settings and applies the verbose flag.
func loadSettings() (domain.Settings, error) {
	store, err := openSettingsStore()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("opening config: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("loading config: %w", err)
	}
	if verbose {
		settings.Verbose = true
	}
	logger.SetVerbose(settings.Verbose)
	return settings, nil
}
