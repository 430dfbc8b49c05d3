package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/adapters/driven/config/file"
	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
	"github.com/custodia-labs/margin/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the initial tool, page geometry and autosave.

Settings live in config.toml. Every value can also be overridden with a
MARGIN_* environment variable.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsToolCmd = &cobra.Command{
	Use:   "tool [name]",
	Short: "Set the initial drawing tool",
	Long: `Set the tool selected when the editor opens.

Available tools:
  pencil       - thin opaque line
  pen          - medium opaque line
  highlighter  - wide translucent line
  eraser       - removes the strokes it crosses`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsTool,
}

var settingsColorCmd = &cobra.Command{
	Use:   "color [#rrggbb]",
	Short: "Set the initial drawing colour",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsColor,
}

var settingsAutosaveCmd = &cobra.Command{
	Use:   "autosave [interval]",
	Short: "Set the autosave interval",
	Long:  `Set how often pending edits are written, as a duration such as 30s or 2m.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsAutosave,
}

var settingsPageCmd = &cobra.Command{
	Use:   "page [width] [height] [count]",
	Short: "Set the page size and count of new documents",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runSettingsPage,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	RunE:  runSettingsReset,
}

// resetYes skips the reset confirmation.
var resetYes bool

func init() {
	settingsResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "do not ask for confirmation")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsToolCmd)
	settingsCmd.AddCommand(settingsColorCmd)
	settingsCmd.AddCommand(settingsAutosaveCmd)
	settingsCmd.AddCommand(settingsPageCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func newSettingsService() (driving.SettingsService, error) {
	store, err := openSettingsStore()
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return services.NewSettingsService(store), nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Editor]")
	cmd.Printf("  Tool: %s\n", settings.Tool.Description())
	cmd.Printf("  Color: %s\n", file.FormatColor(settings.Color))
	cmd.Println()

	cmd.Println("[Page]")
	cmd.Printf("  Size: %g x %g\n", settings.PageWidth, settings.PageHeight)
	cmd.Printf("  Count: %d\n", settings.PageCount)
	cmd.Printf("  Gap: %g\n", settings.PageGap)
	cmd.Println()

	cmd.Println("[Autosave]")
	cmd.Printf("  Interval: %s\n", settings.AutosaveInterval)
	dataDir := settings.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	cmd.Printf("  Data dir: %s\n", dataDir)
	cmd.Println()

	if path := svc.Path(); path != "" {
		cmd.Printf("Config: %s\n", path)
	}
	return nil
}

func runSettingsTool(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	tool := domain.Tool(strings.ToLower(args[0]))
	if err := svc.SetTool(tool); err != nil {
		return fmt.Errorf("failed to set tool: %w", err)
	}
	cmd.Printf("Tool set to: %s\n", tool.Description())
	return nil
}

func runSettingsColor(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	color, err := file.ParseColor(args[0])
	if err != nil {
		return err
	}
	if err := svc.SetColor(color); err != nil {
		return fmt.Errorf("failed to set colour: %w", err)
	}
	cmd.Printf("Color set to: %s\n", file.FormatColor(color))
	return nil
}

func runSettingsAutosave(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	interval, err := time.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("%w: interval %q", domain.ErrInvalidInput, args[0])
	}
	if err := svc.SetAutosaveInterval(interval); err != nil {
		return fmt.Errorf("failed to set autosave interval: %w", err)
	}
	cmd.Printf("Autosave interval set to: %s\n", interval)
	return nil
}

func runSettingsPage(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	current, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	width, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("%w: width %q", domain.ErrInvalidInput, args[0])
	}
	height, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("%w: height %q", domain.ErrInvalidInput, args[1])
	}
	count := current.PageCount
	if len(args) == 3 {
		if count, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("%w: count %q", domain.ErrInvalidInput, args[2])
		}
	}

	if err := svc.SetPageGeometry(width, height, count); err != nil {
		return fmt.Errorf("failed to set page geometry: %w", err)
	}
	cmd.Printf("New documents: %d pages of %g x %g\n", count, width, height)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	if !resetYes {
		cmd.Print("Restore default settings? [y/N]: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		if !strings.EqualFold(readLine(reader), "y") {
			cmd.Println("Cancelled")
			return nil
		}
	}
	if err := svc.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults")
	return nil
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
