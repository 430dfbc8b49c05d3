package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/adapters/driving/mcp"
	"github.com/custodia-labs/margin/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [document]",
	Short: "Serve a document over the Model Context Protocol",
	Long: `Start a Model Context Protocol server editing one document, so AI
assistants can list, add, undo and save annotations.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve streamable HTTP instead.

Examples:
  # Stdio mode (for desktop assistants)
  margin mcp notes.json

  # HTTP mode (for MCP Inspector, remote access)
  margin mcp notes.json --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "margin": {
        "command": "/path/to/margin",
        "args": ["mcp", "/path/to/notes.json"]
      }
    }
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runMCP,
}

// mcpPort is a flag for the mcp command.
var mcpPort int

func init() {
	mcpCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ws, err := openWorkspace(ctx, args[0], settings, workspaceOptions{create: true})
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Session:  ws.session,
		Autosave: ws.pump,
		Path:     ws.path,
	})
	if err != nil {
		_ = ws.Discard()
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		err = server.RunHTTP(ctx, addr)
	} else {
		err = server.Run(ctx)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	if cerr := ws.Close(context.WithoutCancel(ctx), false); cerr != nil {
		logger.Error("closing %s: %v", ws.path, cerr)
		err = errors.Join(err, cerr)
	}
	return err
}
