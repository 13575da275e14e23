package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streed/notecards/internal/config"
	"github.com/streed/notecards/internal/database"
	interrors "github.com/streed/notecards/internal/errors"
	"github.com/streed/notecards/internal/models"
	"github.com/streed/notecards/internal/preferences"
	"github.com/streed/notecards/internal/search"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataDirectory:      dir,
		DatabasePath:       filepath.Join(dir, "notes.db"),
		EmptyQuery:         config.EmptyQueryNone,
		DefaultSearchLimit: 10,
		PreviewLength:      20,
		PreviewLines:       2,
	}

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewServices(cfg, models.NewNoteRepository(db.Conn()), preferences.NewPreferencesRepository(db.Conn()))
}

func TestNotesLifecycle(t *testing.T) {
	svc := newTestServices(t)

	note, err := svc.Notes.Create("Groceries", "milk eggs", "")
	require.NoError(t, err)

	title := "Weekly groceries"
	updated, err := svc.Notes.Update(note.ID, NoteUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Weekly groceries", updated.Title)
	assert.Equal(t, "milk eggs", updated.Body, "body untouched by a title-only update")

	count, err := svc.Notes.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, svc.Notes.Delete(note.ID))
	_, err = svc.Notes.GetByID(note.ID)
	assert.ErrorIs(t, err, interrors.ErrNoteNotFound)

	_, err = svc.Notes.Update(note.ID, NoteUpdate{Title: &title})
	assert.ErrorIs(t, err, interrors.ErrNoteNotFound)
}

func TestSearchRanksStoredNotes(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.Notes.Create("Shopping list", "milk eggs", "")
	require.NoError(t, err)
	_, err = svc.Notes.Create("Work", "milk project", "")
	require.NoError(t, err)

	matches, err := svc.Search.Search("milk eggs", 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Shopping list", matches[0].Note.Title)
	assert.Equal(t, 2, matches[0].Count)
	assert.Equal(t, "Work", matches[1].Note.Title)

	limited, err := svc.Search.Search("milk", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSearchEmptyQueryFollowsSettings(t *testing.T) {
	svc := newTestServices(t)
	for _, body := range []string{"one", "two", "three"} {
		_, err := svc.Notes.Create("", body, "")
		require.NoError(t, err)
	}

	none, err := svc.Search.Search("  ", 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	mode := "all"
	_, err = svc.Preferences.UpdateSettings(SettingsUpdate{EmptyQuery: &mode})
	require.NoError(t, err)

	all, err := svc.Search.Search("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// corpus order is newest first
	assert.Equal(t, "three", all[0].Note.Body)

	forced, err := svc.Search.SearchWithMode("", 0, search.EmptyQueryNone)
	require.NoError(t, err)
	assert.Empty(t, forced)
}

type recordingProvider struct {
	modes  []search.EmptyQueryMode
	limits []int
}

func (r *recordingProvider) factory(mode search.EmptyQueryMode) search.SearchProvider {
	r.modes = append(r.modes, mode)
	return r
}

func (r *recordingProvider) Search(query string, limit int) ([]search.Match, error) {
	r.limits = append(r.limits, limit)
	return []search.Match{}, nil
}

func TestSearchUsesProviderForResolvedSettings(t *testing.T) {
	svc := newTestServices(t)
	rec := &recordingProvider{}
	searcher := NewSearchService(rec.factory, svc.Preferences)

	_, err := searcher.Search("milk", 0)
	require.NoError(t, err)
	_, err = searcher.Search("milk", 4)
	require.NoError(t, err)

	mode, limit := "all", 7
	_, err = svc.Preferences.UpdateSettings(SettingsUpdate{EmptyQuery: &mode, SearchLimit: &limit})
	require.NoError(t, err)
	_, err = searcher.Search("", -1)
	require.NoError(t, err)
	_, err = searcher.SearchWithMode("", 0, search.EmptyQueryNone)
	require.NoError(t, err)

	assert.Equal(t, []search.EmptyQueryMode{search.EmptyQueryNone, search.EmptyQueryNone, search.EmptyQueryAll, search.EmptyQueryNone}, rec.modes)
	assert.Equal(t, []int{10, 4, 7, 7}, rec.limits)
}

func TestSearchZeroLimitSettingReturnsEverything(t *testing.T) {
	svc := newTestServices(t)
	svc.Config.DefaultSearchLimit = 0
	for i := 0; i < 12; i++ {
		_, err := svc.Notes.Create("", "milk", "")
		require.NoError(t, err)
	}

	matches, err := svc.Search.Search("milk", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 12)
}

func TestSearchCards(t *testing.T) {
	svc := newTestServices(t)
	_, err := svc.Notes.Create("Long", "a body that is far longer than twenty characters", "")
	require.NoError(t, err)

	got, err := svc.Search.SearchCards("body", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Truncated)
	assert.Equal(t, 1, got[0].MatchCount)
	assert.Equal(t, "a body that is far l...", got[0].Preview)
}

func TestUpdateSettings(t *testing.T) {
	svc := newTestServices(t)

	defaults := svc.Preferences.Settings()
	assert.Equal(t, Settings{EmptyQuery: "none", SearchLimit: 10, PreviewLength: 20, PreviewLines: 2}, defaults)

	mode, limit := " ALL ", 3
	got, err := svc.Preferences.UpdateSettings(SettingsUpdate{EmptyQuery: &mode, SearchLimit: &limit})
	require.NoError(t, err)
	assert.Equal(t, "all", got.EmptyQuery)
	assert.Equal(t, 3, got.SearchLimit)
	assert.Equal(t, 20, got.PreviewLength)

	bad := "sometimes"
	_, err = svc.Preferences.UpdateSettings(SettingsUpdate{EmptyQuery: &bad})
	assert.ErrorIs(t, err, interrors.ErrInvalidEmptyQueryMode)

	negative := -1
	_, err = svc.Preferences.UpdateSettings(SettingsUpdate{EmptyQuery: &mode, PreviewLines: &negative})
	assert.ErrorIs(t, err, interrors.ErrInvalidLimit)
	assert.Equal(t, 2, svc.Preferences.Settings().PreviewLines)
}
