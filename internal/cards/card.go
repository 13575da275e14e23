// Package cards turns notes into list cards: a short preview of the body
// that is cut off, and flagged, when it would overflow the card.
package cards

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/streed/notecards/internal/constants"
	"github.com/streed/notecards/internal/models"
	"github.com/streed/notecards/internal/search"
)

type Card struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Preview    string    `json:"preview"`
	Link       string    `json:"link"`
	Truncated  bool      `json:"truncated"`
	MatchCount int       `json:"match_count,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Options bound the size of a card preview. Zero disables a bound.
type Options struct {
	MaxChars int
	MaxLines int
}

func DefaultOptions() Options {
	return Options{MaxChars: constants.PreviewLength, MaxLines: constants.PreviewLines}
}

// Truncate shortens body to at most maxLines lines and maxChars runes,
// whichever cuts first, and appends the truncation marker when anything was
// dropped. Trailing whitespace before the marker is trimmed.
func Truncate(body string, maxChars, maxLines int) (string, bool) {
	cut := false
	out := body

	if maxLines > 0 {
		lines := strings.SplitAfter(out, "\n")
		// A final newline ends the last line; it does not start another.
		if n := len(lines); n > 1 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		if len(lines) > maxLines {
			out = strings.Join(lines[:maxLines], "")
			cut = true
		}
	}

	if maxChars > 0 && utf8.RuneCountInString(out) > maxChars {
		out = string([]rune(out)[:maxChars])
		cut = true
	}

	if !cut {
		return body, false
	}
	return strings.TrimRight(out, " \t\r\n") + constants.TruncationMarker, true
}

// LinkFor is the note's own link, or its route in the notes list when it has none.
func LinkFor(note *models.Note) string {
	if note.Link != "" {
		return note.Link
	}
	return "/notes/" + strconv.Itoa(note.ID)
}

func FromNote(note *models.Note, opts Options) Card {
	preview, truncated := Truncate(note.Body, opts.MaxChars, opts.MaxLines)
	return Card{
		ID:        note.ID,
		Title:     note.Title,
		Preview:   preview,
		Link:      LinkFor(note),
		Truncated: truncated,
		CreatedAt: note.CreatedAt,
	}
}

func FromNotes(notes []*models.Note, opts Options) []Card {
	out := make([]Card, 0, len(notes))
	for _, n := range notes {
		if n == nil {
			continue
		}
		out = append(out, FromNote(n, opts))
	}
	return out
}

// FromMatches keeps the ranking order and carries each match count onto its card.
func FromMatches(matches []search.Match, opts Options) []Card {
	out := make([]Card, 0, len(matches))
	for _, m := range matches {
		c := FromNote(m.Note, opts)
		c.MatchCount = m.Count
		out = append(out, c)
	}
	return out
}
