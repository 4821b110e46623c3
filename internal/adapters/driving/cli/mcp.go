package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docgraph/internal/app"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server. Every docgraph operation is
exposed as a tool; documents, collections and store statistics are exposed
as docgraph:// resources.

By default, the server communicates over stdio using JSON-RPC. Logs go to
stderr, or to --log-file, so the protocol stream stays clean.

Use --http to serve streamable HTTP instead, on --port or mcp.port
(default 8080). Prometheus metrics are then available at /metrics.

Examples:
  # Stdio mode (default, for desktop assistants)
  docgraph mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  docgraph mcp serve --http --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "docgraph": {
        "command": "/path/to/docgraph",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().Bool("http", false, "serve streamable HTTP instead of stdio")
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use mcp.port)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// mcpPorts maps the wired services onto the MCP server's ports.
func mcpPorts(a *app.App) *mcp.Ports {
	return &mcp.Ports{
		Splittings:  a.Splittings,
		Documents:   a.Documents,
		Chunks:      a.Chunks,
		Embeddings:  a.Embeddings,
		Registries:  a.Registries,
		Collections: a.Collections,
		Profiles:    a.Profiles,
		Indexes:     a.Indexes,
		Sessions:    a.Sessions,
		Stats:       a.Store,
		Metrics:     a.Metrics,
	}
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(mcpPorts(a))
	if err != nil {
		return err
	}

	if useHTTP || port > 0 {
		if port <= 0 {
			port = settings.MCPPort
		}
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
