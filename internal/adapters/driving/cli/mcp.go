package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/taxa-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
	Long:  `Expose the classification pipeline to AI assistants over MCP.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over MCP",
	Long: `Serve classify_paper, classify_text and get_taxonomy as MCP tools,
plus the active taxonomy and stored results as taxa:// resources.

The server speaks JSON-RPC over stdio, which is what assistant hosts
expect when they launch taxa as a subprocess. Pass --port to listen on
streamable HTTP instead, for inspector tooling or remote clients.

Examples:
  # Stdio, for an assistant host that spawns taxa itself
  taxa mcp serve

  # HTTP on port 8080
  taxa mcp serve --port 8080

Assistant host configuration:
  {
    "mcpServers": {
      "taxa": {"command": "/path/to/taxa", "args": ["mcp", "serve"]}
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Pipeline: pipelineService,
		Extract:  extractService,
		Results:  resultStore,
	})
	if err != nil {
		return err
	}

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
