package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/streed/notecards/internal/cards"
	"github.com/streed/notecards/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [words...]",
	Short: "Search notes",
	Long: `Search notes for any of the given words in their title or body (case-insensitive).

Notes containing more of the distinct words are listed first; notes with the same
number of matched words keep their list order. Repeated words count once.

An empty search returns no notes unless --all-on-empty is given or the
empty_query setting is "all".`,
	RunE: runSearch,
}

var (
	searchLimit      int
	searchShort      bool
	searchAllOnEmpty bool
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "Maximum number of results (0 for the configured default)")
	searchCmd.Flags().BoolVarP(&searchShort, "short", "s", false, "Show only ID and title")
	searchCmd.Flags().BoolVar(&searchAllOnEmpty, "all-on-empty", false, "List every note when the query is empty")
}

func runSearch(_ *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	var matches []search.Match
	var err error
	if searchAllOnEmpty {
		matches, err = appSvc.Search.SearchWithMode(query, searchLimit, search.EmptyQueryAll)
	} else {
		matches, err = appSvc.Search.Search(query, searchLimit)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(matches) == 0 {
		fmt.Println("No notes found.")
		return nil
	}

	fmt.Printf("Found %d notes for %q:\n\n", len(matches), query)
	printCards(os.Stdout, cards.FromMatches(matches, appSvc.Preferences.CardOptions()), searchShort)
	return nil
}
