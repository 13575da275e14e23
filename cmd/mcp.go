package cmd

import (
	"github.com/spf13/cobra"
	"github.com/streed/notecards/internal/logger"
	"github.com/streed/notecards/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for LLM integration",
	Long: `Start a Model Context Protocol (MCP) server over stdio that lets LLMs work with your notes.

Tools:
- add_note: Create a note from a title, body and optional link
- search_notes: Relevance-ranked word search with match counts
- get_note: Retrieve a note by ID
- list_notes: List notes as cards with pagination
- update_note: Change a note's title, body or link
- delete_note: Remove a note

Resources:
- notes://recent: Most recently created notes
- notes://stats: Note count and search settings

Prompts:
- search_notes: Structured search interaction

To use with Claude Desktop, add this to your claude_desktop_config.json:
{
  "mcpServers": {
    "notecards": {
      "command": "notecards",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger.Info("Starting MCP server...")

	notesServer := mcp.NewNotesServer(appSvc, Version)

	logger.Info("MCP server ready. Listening on stdio...")
	if err := notesServer.Serve(); err != nil {
		if err.Error() != "EOF" {
			logger.Error("MCP server error: %v", err)
			return err
		}
	}

	logger.Info("MCP server shutting down")
	return nil
}
