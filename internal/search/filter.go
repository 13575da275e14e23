package search

import (
	"fmt"
	"sort"
	"strings"

	interrors "github.com/streed/notecards/internal/errors"
	"github.com/streed/notecards/internal/models"
)

// EmptyQueryMode decides what a query with no terms returns.
type EmptyQueryMode int

const (
	// EmptyQueryNone returns no notes: nothing matches zero terms.
	EmptyQueryNone EmptyQueryMode = iota
	// EmptyQueryAll returns the whole corpus in its original order.
	EmptyQueryAll
)

func (m EmptyQueryMode) String() string {
	if m == EmptyQueryAll {
		return "all"
	}
	return "none"
}

// ParseEmptyQueryMode accepts "none" or "all". An empty string means none.
func ParseEmptyQueryMode(s string) (EmptyQueryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return EmptyQueryNone, nil
	case "all":
		return EmptyQueryAll, nil
	default:
		return EmptyQueryNone, fmt.Errorf("%w: %q", interrors.ErrInvalidEmptyQueryMode, s)
	}
}

// Match is a note from the corpus together with the number of distinct
// query terms found in its title or body.
type Match struct {
	Note  *models.Note
	Count int
}

// RelevanceFilter ranks a corpus of notes against a free-text query. It keeps
// no state between calls and is safe for concurrent use.
type RelevanceFilter struct {
	emptyQuery EmptyQueryMode
}

func NewRelevanceFilter(mode EmptyQueryMode) *RelevanceFilter {
	return &RelevanceFilter{emptyQuery: mode}
}

// Terms lowercases and trims the query, splits it on whitespace and drops
// repeated terms, keeping first-seen order.
func Terms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// Filter returns the notes matching any term of query, most relevant first.
// The returned slice holds the corpus pointers themselves, never copies.
func (f *RelevanceFilter) Filter(corpus []*models.Note, query string) []*models.Note {
	matches := f.Rank(corpus, query)
	notes := make([]*models.Note, len(matches))
	for i, m := range matches {
		notes[i] = m.Note
	}
	return notes
}

// Rank is Filter with the per-note match counts kept.
func (f *RelevanceFilter) Rank(corpus []*models.Note, query string) []Match {
	terms := Terms(query)
	if len(terms) == 0 {
		if f.emptyQuery == EmptyQueryAll {
			return everything(corpus)
		}
		return []Match{}
	}

	// Lowercase each note once rather than once per term.
	type folded struct {
		note        *models.Note
		title, body string
	}
	docs := make([]folded, 0, len(corpus))
	for _, n := range corpus {
		if n == nil {
			continue
		}
		docs = append(docs, folded{note: n, title: strings.ToLower(n.Title), body: strings.ToLower(n.Body)})
	}

	// Walk terms in order so first-seen order across the concatenated
	// per-term match lists is preserved.
	var matches []Match
	index := make(map[int]int)
	for _, term := range terms {
		for _, d := range docs {
			if !containsTerm(d.title, term) && !containsTerm(d.body, term) {
				continue
			}
			if i, ok := index[d.note.ID]; ok {
				if matches[i].Note == d.note {
					matches[i].Count++
				}
				continue
			}
			index[d.note.ID] = len(matches)
			matches = append(matches, Match{Note: d.note, Count: 1})
		}
	}

	if matches == nil {
		return []Match{}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Count > matches[j].Count
	})
	return matches
}

// containsTerm treats an absent (empty) field as non-matching.
func containsTerm(field, term string) bool {
	return field != "" && strings.Contains(field, term)
}

func everything(corpus []*models.Note) []Match {
	all := make([]Match, 0, len(corpus))
	for _, n := range corpus {
		if n != nil {
			all = append(all, Match{Note: n})
		}
	}
	return all
}

var defaultFilter = NewRelevanceFilter(EmptyQueryNone)

// Filter ranks corpus against query with the default empty query behaviour
// (an empty query matches nothing).
func Filter(corpus []*models.Note, query string) []*models.Note {
	return defaultFilter.Filter(corpus, query)
}
