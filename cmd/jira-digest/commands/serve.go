package commands

import (
	"jira-digest/internal/mcp"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the digest as an MCP tool over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcp.NewServer(runner, Version).Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
