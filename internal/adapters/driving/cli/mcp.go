package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/implkit/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port, or set server.addr in the config file, to serve streamable
HTTP instead. With server.metrics enabled, Prometheus metrics are exposed
at /metrics on the same listener.

Examples:
  # Stdio mode (default, for Claude Desktop)
  implkit mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  implkit mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "implkit": {
        "command": "/path/to/implkit",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use server.addr, or stdio when unset)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// listenAddr resolves the HTTP address; empty means stdio.
func listenAddr(port int) string {
	if port > 0 {
		return fmt.Sprintf(":%d", port)
	}
	if config != nil {
		return config.Server.Addr
	}
	return ""
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Extraction: active.Extraction,
		Customers:  active.Customers,
	}
	addr := listenAddr(port)
	if addr != "" && config != nil && config.Server.Metrics {
		ports.Metrics = active.Metrics
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if addr != "" {
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
