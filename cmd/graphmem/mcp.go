package graphmem

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol (MCP) server",
	Long: `Start the Model Context Protocol (MCP) server to provide MCP tool access to the knowledge graph.

The MCP server provides tools for:
- Creating entities, relations, and observations
- Searching and reading the graph
- Statistics, reports, paths, clusters, and relation suggestions
- Merging entities, exporting, backup and restore

The server communicates over stdio and is designed to work with MCP clients
like Claude Desktop or other compatible applications.`,
	RunE: runMCPServer,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	s := server.NewMCPServer(
		"graphmem",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	registerTools(s, store)

	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}
