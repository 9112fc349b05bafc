// Package cmd (root.go) defines the root command for the sharepoint-client
// CLI. It sets up the global debug flag and collects the subcommands defined
// in the other files of this package.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sharepoint-client",
	Short: "A CLI client for SharePoint document libraries",
	Long: `sharepoint-client is a command-line tool to interact with the REST API of a
SharePoint deployment.

Current capabilities include:
  - Folder listings with per-document record metadata
  - Document download (following link documents), upload, and deletion
  - Metadata retrieval and updates
  - List queries with OData filters
  - Full-text and modification-window search
  - Item permission management (grant, revoke, reset)

Connection settings are read from the configuration file managed by the
'configure' command.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging for SDK and internal operations")
}
