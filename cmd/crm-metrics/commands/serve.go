package commands

import (
	"crm-metrics/internal/mcp"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		provider, cleanup, err := newProvider(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		server := mcp.NewServer(cfg, provider, Version)
		return server.Start(ctx)
	},
}
