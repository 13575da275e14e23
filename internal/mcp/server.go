package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/streed/notecards/internal/cards"
	"github.com/streed/notecards/internal/constants"
	"github.com/streed/notecards/internal/logger"
	"github.com/streed/notecards/internal/services"
)

type NotesServer struct {
	services  *services.Services
	mcpServer *server.MCPServer
}

func NewNotesServer(svc *services.Services, version string) *NotesServer {
	if version == "" {
		version = "dev"
	}
	ns := &NotesServer{services: svc}

	ns.mcpServer = server.NewMCPServer(
		"notecards",
		version,
		server.WithToolCapabilities(true),
	)

	ns.registerTools()
	ns.registerResources()
	ns.registerPrompts()

	return ns
}

func (s *NotesServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// Serve speaks MCP over stdin/stdout until the client disconnects.
func (s *NotesServer) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *NotesServer) registerTools() {
	addNoteTool := mcp.NewTool("add_note",
		mcp.WithDescription("Add a new note. A note needs a title, a body, or both."),
		mcp.WithString("title",
			mcp.Description("The title of the note"),
		),
		mcp.WithString("body",
			mcp.Description("The body of the note"),
		),
		mcp.WithString("link",
			mcp.Description("An optional link kept with the note"),
		),
	)
	s.mcpServer.AddTool(addNoteTool, s.handleAddNote)

	searchTool := mcp.NewTool("search_notes",
		mcp.WithDescription("Find notes containing any of the query words in their title or body. Notes matching more distinct words are listed first."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Space separated search words (case-insensitive)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: configured search limit)"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchNotes)

	getNoteTool := mcp.NewTool("get_note",
		mcp.WithDescription("Get a specific note by ID"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("The ID of the note to retrieve"),
		),
	)
	s.mcpServer.AddTool(getNoteTool, s.handleGetNote)

	listNotesTool := mcp.NewTool("list_notes",
		mcp.WithDescription("List notes as cards, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of notes to return"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of notes to skip"),
		),
	)
	s.mcpServer.AddTool(listNotesTool, s.handleListNotes)

	updateNoteTool := mcp.NewTool("update_note",
		mcp.WithDescription("Update an existing note. Omitted fields are kept."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("The ID of the note to update"),
		),
		mcp.WithString("title",
			mcp.Description("New title for the note (optional)"),
		),
		mcp.WithString("body",
			mcp.Description("New body for the note (optional)"),
		),
		mcp.WithString("link",
			mcp.Description("New link for the note (optional)"),
		),
	)
	s.mcpServer.AddTool(updateNoteTool, s.handleUpdateNote)

	deleteNoteTool := mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by ID"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("The ID of the note to delete"),
		),
	)
	s.mcpServer.AddTool(deleteNoteTool, s.handleDeleteNote)
}

func (s *NotesServer) registerResources() {
	recentResource := mcp.NewResource("notes://recent",
		"Recent Notes",
		mcp.WithResourceDescription("Get the most recently created notes"),
		mcp.WithMIMEType("text/plain"),
	)
	s.mcpServer.AddResource(recentResource, s.handleRecentNotes)

	statsResource := mcp.NewResource("notes://stats",
		"Notes Statistics",
		mcp.WithResourceDescription("Get statistics about the notes database"),
		mcp.WithMIMEType("text/plain"),
	)
	s.mcpServer.AddResource(statsResource, s.handleStats)
}

func (s *NotesServer) registerPrompts() {
	searchPrompt := mcp.NewPrompt("search_notes",
		mcp.WithPromptDescription("Ask for a relevance-ranked search of the notes"),
		mcp.WithArgument("query",
			mcp.ArgumentDescription("Search words"),
		),
		mcp.WithArgument("limit",
			mcp.ArgumentDescription("Maximum number of results (default: configured search limit)"),
		),
	)
	s.mcpServer.AddPrompt(searchPrompt, s.handleSearchPrompt)
}

// optionalString returns the named argument and whether the caller sent it.
func optionalString(request mcp.CallToolRequest, name string) (*string, bool) {
	args := request.GetArguments()
	raw, ok := args[name]
	if !ok {
		return nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return nil, false
	}
	return &str, true
}

// Tool handlers
func (s *NotesServer) handleAddNote(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: add_note")

	title := request.GetString("title", "")
	body := request.GetString("body", "")
	link := request.GetString("link", "")

	note, err := s.services.Notes.Create(title, body, link)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	result := fmt.Sprintf("Note created successfully with ID: %d", note.ID)
	if note.Title != "" {
		result += fmt.Sprintf("\nTitle: %s", note.Title)
	}
	return mcp.NewToolResultText(result), nil
}

func (s *NotesServer) handleSearchNotes(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: search_notes")

	query, err := request.RequireString("query")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'query': %w", err)
	}
	limit := request.GetInt("limit", 0)

	results, err := s.services.Search.SearchCards(query, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No notes found matching your query."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d notes:\n\n", len(results))
	for i, c := range results {
		fmt.Fprintf(&b, "%d. [ID: %d] %s (matched %d)\n   %s\n\n",
			i+1, c.ID, displayTitle(c), c.MatchCount, c.Preview)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *NotesServer) handleGetNote(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: get_note")

	id, err := request.RequireInt("id")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'id': %w", err)
	}

	note, err := s.services.Notes.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	result := fmt.Sprintf("Note ID: %d\nTitle: %s", note.ID, note.Title)
	if note.Link != "" {
		result += fmt.Sprintf("\nLink: %s", note.Link)
	}
	result += fmt.Sprintf("\nCreated: %s\nUpdated: %s\n\nBody:\n%s",
		note.CreatedAt.Format("2006-01-02 15:04:05"),
		note.UpdatedAt.Format("2006-01-02 15:04:05"),
		note.Body)

	return mcp.NewToolResultText(result), nil
}

func (s *NotesServer) handleListNotes(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: list_notes")

	limit := request.GetInt("limit", constants.DefaultAPIListSize)
	offset := request.GetInt("offset", 0)

	notes, err := s.services.Notes.List(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	if len(notes) == 0 {
		return mcp.NewToolResultText("No notes found."), nil
	}

	opts := cards.Options{MaxChars: constants.ShortPreviewLength, MaxLines: 1}
	var b strings.Builder
	fmt.Fprintf(&b, "Listing %d notes (offset: %d):\n\n", len(notes), offset)
	for i, c := range cards.FromNotes(notes, opts) {
		fmt.Fprintf(&b, "%d. [ID: %d] %s (Created: %s)\n   %s\n\n",
			i+1+offset, c.ID, displayTitle(c),
			c.CreatedAt.Format("2006-01-02"),
			c.Preview)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *NotesServer) handleUpdateNote(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: update_note")

	id, err := request.RequireInt("id")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'id': %w", err)
	}

	var update services.NoteUpdate
	update.Title, _ = optionalString(request, "title")
	update.Body, _ = optionalString(request, "body")
	update.Link, _ = optionalString(request, "link")

	note, err := s.services.Notes.Update(id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Note %d updated successfully.\nTitle: %s", note.ID, note.Title)), nil
}

func (s *NotesServer) handleDeleteNote(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: delete_note")

	id, err := request.RequireInt("id")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'id': %w", err)
	}

	if err := s.services.Notes.Delete(id); err != nil {
		return nil, fmt.Errorf("failed to delete note: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted note %d", id)), nil
}

// Resource handlers
func (s *NotesServer) handleRecentNotes(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	logger.Debug("MCP resource read: notes://recent")

	notes, err := s.services.Notes.List(constants.RecentNotesLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent notes: %w", err)
	}

	var b strings.Builder
	b.WriteString("Recent Notes:\n\n")
	for i, c := range cards.FromNotes(notes, s.services.Preferences.CardOptions()) {
		fmt.Fprintf(&b, "%d. [ID: %d] %s\n   Created: %s\n   %s\n\n",
			i+1, c.ID, displayTitle(c),
			c.CreatedAt.Format("2006-01-02 15:04:05"),
			c.Preview)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		},
	}, nil
}

func (s *NotesServer) handleStats(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	logger.Debug("MCP resource read: notes://stats")

	count, err := s.services.Notes.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to get note count: %w", err)
	}
	settings := s.services.Preferences.Settings()

	content := fmt.Sprintf(`Notes Database Statistics:
- Total Notes: %d
- Database Path: %s
- Empty Query Mode: %s
- Search Limit: %d`,
		count,
		s.services.Config.GetDatabasePath(),
		settings.EmptyQuery,
		settings.SearchLimit)

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		},
	}, nil
}

// promptLimit parses a prompt's limit argument. Anything that is not a
// positive integer falls back to def.
func promptLimit(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Prompt handlers
func (s *NotesServer) handleSearchPrompt(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := request.Params.Arguments["query"]
	limit := promptLimit(request.Params.Arguments["limit"], s.services.Preferences.Settings().SearchLimit)

	prompt := fmt.Sprintf("Search my notes for: %s\n\nUse the search_notes tool with a limit of %d and summarize what the top matches have in common.", query, limit)
	return &mcp.GetPromptResult{
		Description: "Search prompt for notes",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(prompt),
			},
		},
	}, nil
}

func displayTitle(c cards.Card) string {
	if c.Title == "" {
		return "(untitled)"
	}
	return c.Title
}
