package cmd

import (
	"github.com/huangsam/gradepoint/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the gradepoint MCP server",
	Long:    `Launch an MCP server on stdio that lets AI agents list variables and constants, evaluate variables and build rating reports.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Logs go to stderr, stdout carries the protocol.
		e, err := openEngine(rootCtx)
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, e, version)
	},
}
