package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/margin/internal/core/domain"
)

var autosaveCmd = &cobra.Command{
	Use:   "autosave",
	Short: "Inspect the autosave history",
}

var autosaveHistoryCmd = &cobra.Command{
	Use:   "history [document]",
	Short: "List recent save attempts",
	Long:  `List recent save attempts, most recent first. Without a document, attempts for every document are listed.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAutosaveHistory,
}

var autosavePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop old save attempts",
	Args:  cobra.NoArgs,
	RunE:  runAutosavePrune,
}

// Flags for the autosave commands.
var (
	historyLimit int
	pruneKeep    int
)

func init() {
	autosaveHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of results")
	autosavePruneCmd.Flags().IntVar(&pruneKeep, "keep", domain.AutosaveHistoryRetention, "results to keep per document")

	autosaveCmd.AddCommand(autosaveHistoryCmd)
	autosaveCmd.AddCommand(autosavePruneCmd)
	rootCmd.AddCommand(autosaveCmd)
}

func runAutosaveHistory(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		if path, err = filepath.Abs(args[0]); err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("opening autosave history: %w", err)
	}
	defer store.Close()

	results, err := store.AutosaveStore().History(cmd.Context(), path, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(results) == 0 {
		cmd.Println("No save attempts recorded")
		return nil
	}

	for i := range results {
		r := &results[i]
		line := fmt.Sprintf("%s  %-7s rev %-4d %6d bytes  %s",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Outcome, r.Revision, r.Bytes, r.EndedAt.Sub(r.StartedAt).Round(time.Millisecond))
		if path == "" {
			line += "  " + r.Path
		}
		if r.Error != "" {
			line += "  error: " + r.Error
		}
		cmd.Println(line)
	}
	return nil
}

func runAutosavePrune(cmd *cobra.Command, _ []string) error {
	if pruneKeep < 0 {
		return fmt.Errorf("%w: --keep must not be negative", domain.ErrInvalidInput)
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("opening autosave history: %w", err)
	}
	defer store.Close()

	if err := store.AutosaveStore().Prune(cmd.Context(), pruneKeep); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	cmd.Printf("Kept the latest %d save attempts per document\n", pruneKeep)
	return nil
}
