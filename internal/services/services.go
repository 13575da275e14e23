package services

import (
	"fmt"

	"github.com/streed/notecards/internal/cards"
	"github.com/streed/notecards/internal/config"
	"github.com/streed/notecards/internal/constants"
	interrors "github.com/streed/notecards/internal/errors"
	"github.com/streed/notecards/internal/logger"
	"github.com/streed/notecards/internal/models"
	"github.com/streed/notecards/internal/preferences"
	"github.com/streed/notecards/internal/search"
)

// Services contains all the service dependencies
type Services struct {
	Config      *config.Config
	Notes       *NotesService
	Search      *SearchService
	Preferences *PreferencesService
}

// NewServices creates a new services container
func NewServices(
	cfg *config.Config,
	noteRepo *models.NoteRepository,
	prefsRepo *preferences.PreferencesRepository,
) *Services {
	preferencesService := NewPreferencesService(cfg, prefsRepo)

	return &Services{
		Config:      cfg,
		Notes:       NewNotesService(noteRepo),
		Search:      NewSearchService(search.TextSearchFactory(noteRepo), preferencesService),
		Preferences: preferencesService,
	}
}

// Close cleans up any resources
func (s *Services) Close() error {
	return nil
}

// NotesService handles note operations
type NotesService struct {
	repo *models.NoteRepository
}

func NewNotesService(repo *models.NoteRepository) *NotesService {
	return &NotesService{repo: repo}
}

func (s *NotesService) GetByID(id int) (*models.Note, error) {
	return s.repo.GetByID(id)
}

func (s *NotesService) List(limit, offset int) ([]*models.Note, error) {
	return s.repo.List(limit, offset)
}

func (s *NotesService) Count() (int, error) {
	return s.repo.Count()
}

// Ping checks that the note store is reachable.
func (s *NotesService) Ping() error {
	return s.repo.Ping()
}

func (s *NotesService) Create(title, body, link string) (*models.Note, error) {
	note, err := s.repo.Create(title, body, link)
	if err != nil {
		return nil, err
	}
	logger.Debug("Created note %d", note.ID)
	return note, nil
}

// NoteUpdate is a partial update: nil fields are left as they are.
type NoteUpdate struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
	Link  *string `json:"link,omitempty"`
}

func (s *NotesService) Update(id int, update NoteUpdate) (*models.Note, error) {
	note, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		note.Title = *update.Title
	}
	if update.Body != nil {
		note.Body = *update.Body
	}
	if update.Link != nil {
		note.Link = *update.Link
	}
	if err := s.repo.Update(note); err != nil {
		return nil, err
	}
	logger.Debug("Updated note %d", id)
	return note, nil
}

func (s *NotesService) Delete(id int) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	logger.Debug("Deleted note %d", id)
	return nil
}

// SearchService handles search operations
type SearchService struct {
	providers search.ProviderFactory
	prefs     *PreferencesService
}

func NewSearchService(providers search.ProviderFactory, prefs *PreferencesService) *SearchService {
	return &SearchService{providers: providers, prefs: prefs}
}

// Search ranks every stored note against query using the configured empty
// query mode. A limit of zero or less uses the configured default limit.
func (s *SearchService) Search(query string, limit int) ([]search.Match, error) {
	settings := s.prefs.Settings()
	mode, err := search.ParseEmptyQueryMode(settings.EmptyQuery)
	if err != nil {
		logger.Warn("Ignoring empty query setting: %v", err)
		mode = search.EmptyQueryNone
	}
	return s.SearchWithMode(query, limit, mode)
}

// SearchWithMode is Search with an explicit empty query mode.
func (s *SearchService) SearchWithMode(query string, limit int, mode search.EmptyQueryMode) ([]search.Match, error) {
	if limit <= 0 {
		limit = s.prefs.Settings().SearchLimit
	}
	return s.providers(mode).Search(query, limit)
}

// SearchCards is Search rendered as ranked cards.
func (s *SearchService) SearchCards(query string, limit int) ([]cards.Card, error) {
	matches, err := s.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return cards.FromMatches(matches, s.prefs.CardOptions()), nil
}

// Settings are the user-adjustable search and display preferences. Stored
// preferences take precedence over the config file.
type Settings struct {
	EmptyQuery    string `json:"empty_query"`
	SearchLimit   int    `json:"search_limit"`
	PreviewLength int    `json:"preview_length"`
	PreviewLines  int    `json:"preview_lines"`
}

// PreferencesService handles user preferences
type PreferencesService struct {
	cfg  *config.Config
	repo *preferences.PreferencesRepository
}

func NewPreferencesService(cfg *config.Config, repo *preferences.PreferencesRepository) *PreferencesService {
	return &PreferencesService{cfg: cfg, repo: repo}
}

func (s *PreferencesService) GetString(key, defaultValue string) string {
	return s.repo.GetString(key, defaultValue)
}

func (s *PreferencesService) SetString(key, value string) error {
	return s.repo.SetString(key, value)
}

func (s *PreferencesService) GetInt(key string, defaultValue int) int {
	return s.repo.GetInt(key, defaultValue)
}

func (s *PreferencesService) SetInt(key string, value int) error {
	return s.repo.SetInt(key, value)
}

func (s *PreferencesService) Settings() Settings {
	return Settings{
		EmptyQuery:    s.repo.GetString(constants.PrefEmptyQuery, s.cfg.EmptyQuery),
		SearchLimit:   s.repo.GetInt(constants.PrefSearchLimit, s.cfg.DefaultSearchLimit),
		PreviewLength: s.repo.GetInt(constants.PrefPreviewLength, s.cfg.PreviewLength),
		PreviewLines:  s.repo.GetInt(constants.PrefPreviewLines, s.cfg.PreviewLines),
	}
}

func (s *PreferencesService) CardOptions() cards.Options {
	settings := s.Settings()
	return cards.Options{MaxChars: settings.PreviewLength, MaxLines: settings.PreviewLines}
}

// SettingsUpdate is a partial settings change: nil fields are left unchanged.
type SettingsUpdate struct {
	EmptyQuery    *string `json:"empty_query,omitempty"`
	SearchLimit   *int    `json:"search_limit,omitempty"`
	PreviewLength *int    `json:"preview_length,omitempty"`
	PreviewLines  *int    `json:"preview_lines,omitempty"`
}

// UpdateSettings validates the whole update before storing any of it.
func (s *PreferencesService) UpdateSettings(update SettingsUpdate) (Settings, error) {
	if update.EmptyQuery != nil {
		mode, err := search.ParseEmptyQueryMode(*update.EmptyQuery)
		if err != nil {
			return Settings{}, err
		}
		normalized := mode.String()
		update.EmptyQuery = &normalized
	}
	ints := []struct {
		key   string
		value *int
	}{
		{constants.PrefSearchLimit, update.SearchLimit},
		{constants.PrefPreviewLength, update.PreviewLength},
		{constants.PrefPreviewLines, update.PreviewLines},
	}
	for _, v := range ints {
		if v.value != nil && *v.value < 0 {
			return Settings{}, fmt.Errorf("%w: %s must not be negative", interrors.ErrInvalidLimit, v.key)
		}
	}

	if update.EmptyQuery != nil {
		if err := s.repo.SetString(constants.PrefEmptyQuery, *update.EmptyQuery); err != nil {
			return Settings{}, err
		}
	}
	for _, v := range ints {
		if v.value == nil {
			continue
		}
		if err := s.repo.SetInt(v.key, *v.value); err != nil {
			return Settings{}, err
		}
	}
	return s.Settings(), nil
}
