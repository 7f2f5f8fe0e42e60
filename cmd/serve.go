package cmd

import (
	"github.com/spf13/cobra"

	"bfrobot/internal/bridge"
)

// newServeCmd creates the command that serves the built-in keywords over
// MCP stdio, for AI assistants and external tooling. When bfrobot is
// embedded in an automation library, the library serves its device
// keywords the same way through bridge.NewServer.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the built-in keywords over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := bridge.NewServer(builtinRouter(), GetVersion())
			return server.Start(cmd.Context())
		},
	}
}
