package search

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interrors "github.com/streed/notecards/internal/errors"
	"github.com/streed/notecards/internal/models"
)

func ids(notes []*models.Note) []int {
	out := make([]int, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func shoppingCorpus() []*models.Note {
	return []*models.Note{
		{ID: 1, Title: "Shopping list", Body: "milk eggs"},
		{ID: 2, Title: "Work", Body: "milk project"},
	}
}

func TestTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty", query: "", want: []string{}},
		{name: "whitespace only", query: "   \t ", want: []string{}},
		{name: "lowercased and trimmed", query: "  Milk EGGS ", want: []string{"milk", "eggs"}},
		{name: "repeated spaces", query: "milk    eggs", want: []string{"milk", "eggs"}},
		{name: "duplicates keep first seen", query: "eggs milk EGGS milk", want: []string{"eggs", "milk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Terms(tt.query))
		})
	}
}

func TestFilterScenarios(t *testing.T) {
	tests := []struct {
		name   string
		corpus []*models.Note
		query  string
		want   []int
	}{
		{
			name:   "more matched terms rank first",
			corpus: shoppingCorpus(),
			query:  "milk eggs",
			want:   []int{1, 2},
		},
		{
			name:   "empty query matches nothing",
			corpus: shoppingCorpus(),
			query:  "",
			want:   []int{},
		},
		{
			name:   "no match",
			corpus: shoppingCorpus(),
			query:  "ZZZNOMATCH",
			want:   []int{},
		},
		{
			name:   "body checked without a title",
			corpus: []*models.Note{{ID: 7, Body: "hello world"}},
			query:  "hello",
			want:   []int{7},
		},
		{
			name:   "case insensitive on both sides",
			corpus: []*models.Note{{ID: 3, Title: "GROCERIES"}, {ID: 4, Body: "nothing here"}},
			query:  "Groc",
			want:   []int{3},
		},
		{
			name:   "note without title or body never matches",
			corpus: []*models.Note{{ID: 5, Link: "milk"}, {ID: 6, Body: "milk"}},
			query:  "milk",
			want:   []int{6},
		},
		{
			name:   "later note with more terms overtakes",
			corpus: []*models.Note{{ID: 1, Body: "milk"}, {ID: 2, Body: "bread"}, {ID: 3, Body: "milk bread"}},
			query:  "milk bread",
			want:   []int{3, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.corpus, tt.query)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterDuplicateTermsCollapse(t *testing.T) {
	corpus := shoppingCorpus()
	f := NewRelevanceFilter(EmptyQueryNone)

	assert.Equal(t, f.Rank(corpus, "milk"), f.Rank(corpus, "milk milk"))
	for _, m := range f.Rank(corpus, "milk MILK milk") {
		assert.Equal(t, 1, m.Count)
	}
}

func TestRankCounts(t *testing.T) {
	matches := NewRelevanceFilter(EmptyQueryNone).Rank(shoppingCorpus(), "milk eggs list")
	require.Len(t, matches, 2)
	assert.Equal(t, 1, matches[0].Note.ID)
	assert.Equal(t, 3, matches[0].Count)
	assert.Equal(t, 2, matches[1].Note.ID)
	assert.Equal(t, 1, matches[1].Count)
}

func TestFilterReturnsCorpusReferences(t *testing.T) {
	corpus := shoppingCorpus()
	before := *corpus[0]

	got := Filter(corpus, "milk")
	require.Len(t, got, 2)
	assert.Same(t, corpus[0], got[0])
	assert.Same(t, corpus[1], got[1])
	assert.Equal(t, before, *corpus[0])
}

func TestFilterNilInputs(t *testing.T) {
	assert.Empty(t, Filter(nil, "milk"))
	assert.NotNil(t, Filter(nil, "milk"))

	corpus := []*models.Note{nil, {ID: 1, Body: "milk"}, nil}
	assert.Equal(t, []int{1}, ids(Filter(corpus, "milk")))
}

func TestFilterDuplicateIDs(t *testing.T) {
	first := &models.Note{ID: 1, Body: "milk"}
	corpus := []*models.Note{first, {ID: 1, Body: "milk eggs"}, {ID: 2, Body: "eggs"}}

	got := Filter(corpus, "milk eggs")
	assert.Equal(t, []int{1, 2}, ids(got))
	assert.Same(t, first, got[0])
}

func TestEmptyQueryAll(t *testing.T) {
	corpus := []*models.Note{{ID: 3, Body: "c"}, nil, {ID: 1, Body: "a"}, {ID: 2}}
	f := NewRelevanceFilter(EmptyQueryAll)

	assert.Equal(t, []int{3, 1, 2}, ids(f.Filter(corpus, "   ")))
	for _, m := range f.Rank(corpus, "") {
		assert.Zero(t, m.Count)
	}

	// a real query still filters
	assert.Equal(t, []int{1}, ids(f.Filter(corpus, "a")))
	assert.Empty(t, f.Filter(nil, ""))
}

func TestParseEmptyQueryMode(t *testing.T) {
	tests := []struct {
		in      string
		want    EmptyQueryMode
		wantErr bool
	}{
		{in: "", want: EmptyQueryNone},
		{in: "none", want: EmptyQueryNone},
		{in: " ALL ", want: EmptyQueryAll},
		{in: "some", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEmptyQueryMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, interrors.ErrInvalidEmptyQueryMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) EmptyQueryMode {
	t.Helper()
	m, err := ParseEmptyQueryMode(s)
	require.NoError(t, err)
	return m
}

var vocabulary = []string{"milk", "eggs", "bread", "work", "project", "meeting", "list", "garden", "tea", "ink"}

func randomCorpus(r *rand.Rand, n int) []*models.Note {
	corpus := make([]*models.Note, n)
	for i := range corpus {
		note := &models.Note{ID: i + 1}
		for j := 0; j < r.Intn(4); j++ {
			note.Title += vocabulary[r.Intn(len(vocabulary))] + " "
		}
		for j := 0; j < r.Intn(6); j++ {
			note.Body += vocabulary[r.Intn(len(vocabulary))] + " "
		}
		corpus[i] = note
	}
	return corpus
}

func randomQuery(r *rand.Rand) string {
	q := ""
	for j := 0; j < r.Intn(4); j++ {
		q += vocabulary[r.Intn(len(vocabulary))] + " "
	}
	return q
}

func TestFilterProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	f := NewRelevanceFilter(EmptyQueryNone)

	for i := 0; i < 200; i++ {
		corpus := randomCorpus(r, r.Intn(30))
		query := randomQuery(r)

		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			matches := f.Rank(corpus, query)

			inCorpus := make(map[*models.Note]int, len(corpus))
			for pos, n := range corpus {
				inCorpus[n] = pos
			}

			seen := make(map[int]bool)
			for k, m := range matches {
				// subset, no duplicates
				_, ok := inCorpus[m.Note]
				require.True(t, ok, "note %d not from corpus", m.Note.ID)
				require.False(t, seen[m.Note.ID], "note %d returned twice", m.Note.ID)
				seen[m.Note.ID] = true

				// count equals the number of distinct terms found
				want := 0
				for _, term := range Terms(query) {
					if containsTerm(strings.ToLower(m.Note.Title), term) || containsTerm(strings.ToLower(m.Note.Body), term) {
						want++
					}
				}
				require.Equal(t, want, m.Count)

				if k == 0 {
					continue
				}
				prev := matches[k-1]
				// monotonic in count
				require.GreaterOrEqual(t, prev.Count, m.Count)
			}

			// determinism
			require.Equal(t, matches, f.Rank(corpus, query))
		})
	}
}

func TestFilterStableWithinEqualCounts(t *testing.T) {
	corpus := []*models.Note{
		{ID: 10, Body: "tea"},
		{ID: 11, Body: "ink"},
		{ID: 12, Body: "tea"},
		{ID: 13, Body: "ink"},
	}

	// every note matches exactly one term; first-seen order walks terms
	// first, then corpus order
	assert.Equal(t, []int{10, 12, 11, 13}, ids(Filter(corpus, "tea ink")))
	assert.Equal(t, []int{11, 13, 10, 12}, ids(Filter(corpus, "ink tea")))
}
