package search

import (
	"fmt"

	"github.com/streed/notecards/internal/logger"
	"github.com/streed/notecards/internal/models"
)

// SearchProvider ranks stored notes against a query.
type SearchProvider interface {
	Search(query string, limit int) ([]Match, error)
}

// ProviderFactory builds the provider that applies mode to empty queries.
type ProviderFactory func(mode EmptyQueryMode) SearchProvider

// CorpusSource supplies the snapshot of notes a search runs over.
// *models.NoteRepository satisfies it.
type CorpusSource interface {
	List(limit, offset int) ([]*models.Note, error)
}

// TextSearch runs the relevance filter over a fresh snapshot of the store on
// every call.
type TextSearch struct {
	source CorpusSource
	filter *RelevanceFilter
}

func NewTextSearch(source CorpusSource, filter *RelevanceFilter) *TextSearch {
	if filter == nil {
		filter = NewRelevanceFilter(EmptyQueryNone)
	}
	return &TextSearch{source: source, filter: filter}
}

// TextSearchFactory builds a TextSearch over source for each mode.
func TextSearchFactory(source CorpusSource) ProviderFactory {
	return func(mode EmptyQueryMode) SearchProvider {
		return NewTextSearch(source, NewRelevanceFilter(mode))
	}
}

// Search ranks the whole store and keeps the first limit matches. A limit of
// zero or less keeps everything.
func (ts *TextSearch) Search(query string, limit int) ([]Match, error) {
	corpus, err := ts.source.List(0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes for search: %w", err)
	}

	matches := ts.filter.Rank(corpus, query)
	logger.Debug("Query %q matched %d of %d notes", query, len(matches), len(corpus))

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
