package cli

import (
	"docsmith/internal/logging"
	"docsmith/internal/mcp"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the documentation over MCP on stdio",
	Long: `Mcp exposes the site's documents to MCP clients: listing, reading by
ID, and plain-text search. The server speaks the protocol on
stdin/stdout, so this command is meant to be launched by an MCP client
rather than interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel()
		if err != nil {
			return err
		}
		srv := mcp.NewServer(model, logging.GetDefault())
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
