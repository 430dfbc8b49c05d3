package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/margin/internal/adapters/driven/watcher"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
	"github.com/custodia-labs/margin/internal/logger"
)

// bridgeQueue is how many session events may wait for the UI.
const bridgeQueue = 256

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var editCmd = &cobra.Command{
	Use:   "edit [document]",
	Short: "Open a document in the terminal editor",
	Long: `Open a document in the interactive terminal editor.

The document is created when it does not exist. Edits are autosaved while
an editing mode is active and written once more on exit.

Modes:
  v/esc  view     click selects an annotation
  p      pen      drag with the left button to draw
  t      text     click to place a note
  c      comment  click to place a marker, w for a clear button

Tools: 1 pencil, 2 pen, 3 highlighter, 4/e eraser
Right-drag moves an annotation in any editing mode.
u undo, r redo, x cancel, X revert, ctrl+s save, ? help, q quit`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in editor: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("editor panicked: %v", r)
		}
	}()

	if !isTerminal() {
		return errors.New("edit needs an interactive terminal; use replay for scripted edits")
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	bridge := tui.NewBridge(bridgeQueue)
	ws, err := openWorkspace(ctx, args[0], settings, workspaceOptions{
		create:    true,
		observers: []driven.SessionObserver{bridge},
		onResult:  bridge.SaveResult,
	})
	if err != nil {
		return err
	}

	w, err := watcher.New(ws.path, ws.writer, func(c watcher.Change) {
		bridge.ExternalChange(c.Path, c.Removed)
	})
	if err != nil {
		logger.Warn("not watching %s: %v", ws.path, err)
	} else {
		defer w.Close()
		go w.Run(ctx)
	}

	app, err := tui.NewApp(&tui.Ports{
		Session:  ws.session,
		Autosave: ws.pump,
		Layout:   ws.layout,
		Path:     ws.path,
	})
	if err != nil {
		_ = ws.Discard()
		return fmt.Errorf("failed to create editor: %w", err)
	}
	app.WithContext(ctx).WithTool(settings.Tool)

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	go bridge.Forward(ctx, p.Send)
	_, runErr := p.Run()
	logger.SetOutput(os.Stderr)

	closeErr := ws.Close(context.WithoutCancel(ctx), false)
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return errors.Join(fmt.Errorf("editor error: %w", runErr), closeErr)
	}
	if closeErr != nil {
		return closeErr
	}
	cmd.Printf("Closed %s\n", ws.path)
	return nil
}
