package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streed/notecards/internal/config"
	"github.com/streed/notecards/internal/database"
	interrors "github.com/streed/notecards/internal/errors"
	"github.com/streed/notecards/internal/models"
	"github.com/streed/notecards/internal/preferences"
	"github.com/streed/notecards/internal/services"
)

func newTestNotesServer(t *testing.T) (*NotesServer, *services.Services) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataDirectory:      dir,
		DatabasePath:       filepath.Join(dir, "notes.db"),
		EmptyQuery:         config.EmptyQueryNone,
		DefaultSearchLimit: 10,
		PreviewLength:      40,
		PreviewLines:       2,
	}
	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := services.NewServices(cfg, models.NewNoteRepository(db.Conn()), preferences.NewPreferencesRepository(db.Conn()))
	return NewNotesServer(svc, "test"), svc
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestAddAndGetNote(t *testing.T) {
	s, svc := newTestNotesServer(t)
	ctx := context.Background()

	res, err := s.handleAddNote(ctx, toolRequest("add_note", map[string]any{
		"title": "Groceries",
		"body":  "milk eggs",
		"link":  "https://example.com/list",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Note created successfully with ID: 1")

	res, err = s.handleGetNote(ctx, toolRequest("get_note", map[string]any{"id": float64(1)}))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "Title: Groceries")
	assert.Contains(t, text, "Link: https://example.com/list")
	assert.Contains(t, text, "milk eggs")

	count, err := svc.Notes.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddNoteRejectsEmpty(t *testing.T) {
	s, _ := newTestNotesServer(t)

	_, err := s.handleAddNote(context.Background(), toolRequest("add_note", map[string]any{"link": "x"}))
	assert.ErrorIs(t, err, interrors.ErrEmptyNote)
}

func TestSearchNotesTool(t *testing.T) {
	s, svc := newTestNotesServer(t)
	ctx := context.Background()

	_, err := svc.Notes.Create("Shopping list", "milk eggs", "")
	require.NoError(t, err)
	_, err = svc.Notes.Create("Work", "milk project", "")
	require.NoError(t, err)

	res, err := s.handleSearchNotes(ctx, toolRequest("search_notes", map[string]any{"query": "milk eggs"}))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "Found 2 notes")
	assert.Contains(t, text, "1. [ID: 1] Shopping list (matched 2)")
	assert.Contains(t, text, "2. [ID: 2] Work (matched 1)")

	res, err = s.handleSearchNotes(ctx, toolRequest("search_notes", map[string]any{"query": "milk", "limit": float64(1)}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Found 1 notes")

	res, err = s.handleSearchNotes(ctx, toolRequest("search_notes", map[string]any{"query": "zzz"}))
	require.NoError(t, err)
	assert.Equal(t, "No notes found matching your query.", resultText(t, res))

	_, err = s.handleSearchNotes(ctx, toolRequest("search_notes", map[string]any{}))
	assert.Error(t, err)
}

func TestUpdateAndDeleteNoteTools(t *testing.T) {
	s, svc := newTestNotesServer(t)
	ctx := context.Background()

	note, err := svc.Notes.Create("Draft", "first", "")
	require.NoError(t, err)

	_, err = s.handleUpdateNote(ctx, toolRequest("update_note", map[string]any{"id": float64(note.ID), "body": "second"}))
	require.NoError(t, err)

	got, err := svc.Notes.GetByID(note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Title)
	assert.Equal(t, "second", got.Body)

	res, err := s.handleDeleteNote(ctx, toolRequest("delete_note", map[string]any{"id": float64(note.ID)}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Successfully deleted note")

	_, err = s.handleDeleteNote(ctx, toolRequest("delete_note", map[string]any{"id": float64(note.ID)}))
	assert.ErrorIs(t, err, interrors.ErrNoteNotFound)
}

func TestListNotesTool(t *testing.T) {
	s, svc := newTestNotesServer(t)
	ctx := context.Background()

	res, err := s.handleListNotes(ctx, toolRequest("list_notes", nil))
	require.NoError(t, err)
	assert.Equal(t, "No notes found.", resultText(t, res))

	_, err = svc.Notes.Create("", "body only", "")
	require.NoError(t, err)

	res, err = s.handleListNotes(ctx, toolRequest("list_notes", map[string]any{"limit": float64(5)}))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "(untitled)")
	assert.Contains(t, text, "body only")
}

func TestResources(t *testing.T) {
	s, svc := newTestNotesServer(t)
	ctx := context.Background()

	_, err := svc.Notes.Create("Recent one", "content", "")
	require.NoError(t, err)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "notes://recent"
	contents, err := s.handleRecentNotes(ctx, req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	recent, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "notes://recent", recent.URI)
	assert.Contains(t, recent.Text, "Recent one")

	req.Params.URI = "notes://stats"
	contents, err = s.handleStats(ctx, req)
	require.NoError(t, err)
	stats, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, stats.Text, "Total Notes: 1")
	assert.Contains(t, stats.Text, "Empty Query Mode: none")
}

func TestSearchPrompt(t *testing.T) {
	s, _ := newTestNotesServer(t)

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"query": "garden", "limit": "3"}
	res, err := s.handleSearchPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	text, ok := res.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "garden")
	assert.Contains(t, text.Text, "limit of 3")
}

func TestSearchPromptLimitFallsBack(t *testing.T) {
	s, _ := newTestNotesServer(t)

	for _, raw := range []string{"", "lots", "-2", "0", "3.5"} {
		req := mcp.GetPromptRequest{}
		req.Params.Arguments = map[string]string{"query": "garden", "limit": raw}
		res, err := s.handleSearchPrompt(context.Background(), req)
		require.NoError(t, err)
		text, ok := res.Messages[0].Content.(mcp.TextContent)
		require.True(t, ok)
		assert.Contains(t, text.Text, "limit of 10", "limit %q", raw)
	}
}

func TestPromptLimit(t *testing.T) {
	assert.Equal(t, 3, promptLimit("3", 10))
	assert.Equal(t, 4, promptLimit(" 4 ", 10))
	assert.Equal(t, 10, promptLimit("abc", 10))
	assert.Equal(t, 10, promptLimit("0", 10))
	assert.Equal(t, 25, promptLimit("", 25))
}

func TestNewNotesServer(t *testing.T) {
	s, _ := newTestNotesServer(t)
	assert.NotNil(t, s.GetMCPServer())
}
