package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsat-labs/satsync-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for serving the crawl pipeline over the Model Context Protocol.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Exposes the modeling server to MCP clients: listing projects and
generating resolved product snapshots, using the credentials stored by
'satsync login'. The two-phase model selection surfaces as a choice list
in the tool result, mirroring the generate command.

The server speaks JSON-RPC over stdio; --port serves HTTP instead.

Examples:
  satsync mcp serve
  satsync mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	gen, err := ensureGenerator()
	if err != nil {
		return err
	}
	api, err := ensureModelAPI()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Generator: gen, ModelAPI: api})
	if err != nil {
		return err
	}

	ctx := context.Background()
	if port > 0 {
		addr := fmt.Sprintf("localhost:%d", port)
		cmd.Printf("Starting MCP server on http://%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}
	return server.Run(ctx)
}
