package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/adapters/driven/snapshot"
	storagefile "github.com/custodia-labs/margin/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/margin/internal/core/domain"
)

var newCmd = &cobra.Command{
	Use:   "new [document]",
	Short: "Create an empty document",
	Long: `Create an empty document using the configured page size.

The page count defaults to the configured value and can be overridden
with --pages.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var showCmd = &cobra.Command{
	Use:   "show [document]",
	Short: "List a document's annotations",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// newPages is a flag for the new command.
var newPages int

func init() {
	newCmd.Flags().IntVar(&newPages, "pages", 0, "number of pages (default from config)")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(showCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if newPages < 0 {
		return fmt.Errorf("%w: --pages must be positive", domain.ErrInvalidInput)
	}
	if newPages > 0 {
		settings.PageCount = newPages
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := snapshot.NewJSONCodec().Serialize(domain.NewSnapshot(settings.NewDocument(), 0, time.Now()))
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := storagefile.NewAtomicWriter().WriteAtomic(cmd.Context(), path, data); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	cmd.Printf("Created %s (%d pages, %gx%g)\n", path, settings.PageCount, settings.PageWidth, settings.PageHeight)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	doc, err := readDocument(snapshot.NewJSONCodec(), path)
	if err != nil {
		return err
	}

	cmd.Printf("Document: %s\n", path)
	for i, page := range doc.Pages() {
		cmd.Printf("\nPage %d (%gx%g)\n", i+1, page.Size.Width, page.Size.Height)
		if len(page.Annotations) == 0 {
			cmd.Println("  (no annotations)")
			continue
		}
		for _, a := range page.Annotations {
			cmd.Printf("  %s\n", describeAnnotation(a))
		}
	}

	cmd.Printf("\nTotal: %d annotations\n", doc.AnnotationCount())
	return nil
}

// describeAnnotation renders a one-line summary of an annotation.
func describeAnnotation(a domain.Annotation) string {
	b := a.Bounds
	line := fmt.Sprintf("%-8s %s  at (%.1f, %.1f) size %.1fx%.1f", a.Kind, a.ID, b.X, b.Y, b.Width, b.Height)
	switch {
	case a.Ink != nil:
		line += fmt.Sprintf("  %d points, width %g", len(a.Ink.Points), a.Ink.StrokeWidth)
	case a.Text != nil:
		line += fmt.Sprintf("  %q", a.Text.Content)
	case a.Comment != nil:
		line += "  thread " + a.Comment.ThreadID
	case a.Widget != nil:
		line += fmt.Sprintf("  [%s]", a.Widget.Caption)
	}
	return line
}
