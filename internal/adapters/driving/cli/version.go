package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/adapters/driven/snapshot"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and document format",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("margin version %s\n", version)
		cmd.Printf("document format %d\n", snapshot.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
