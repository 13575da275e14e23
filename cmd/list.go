package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/streed/notecards/internal/cards"
	"github.com/streed/notecards/internal/constants"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Long: `List notes as cards, newest first. Long bodies are cut to a short preview;
cut previews end with "..." and are marked [more].`,
	RunE: runList,
}

var (
	listLimit  int
	listOffset int
	listShort  bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", constants.DefaultListLimit, "Maximum number of notes to display")
	listCmd.Flags().IntVarP(&listOffset, "offset", "o", 0, "Number of notes to skip")
	listCmd.Flags().BoolVarP(&listShort, "short", "s", false, "Show only ID and title")
}

func runList(cmd *cobra.Command, args []string) error {
	notes, err := appSvc.Notes.List(listLimit, listOffset)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if len(notes) == 0 {
		fmt.Println("No notes found.")
		return nil
	}

	fmt.Printf("Found %d notes:\n\n", len(notes))
	printCards(os.Stdout, cards.FromNotes(notes, appSvc.Preferences.CardOptions()), listShort)
	return nil
}

// printCards renders cards the same way for list and search.
func printCards(w io.Writer, items []cards.Card, short bool) {
	for _, c := range items {
		title := displayTitle(c.Title)
		if short {
			if c.MatchCount > 0 {
				fmt.Fprintf(w, "[%d] %s (matched %d)\n", c.ID, title, c.MatchCount)
			} else {
				fmt.Fprintf(w, "[%d] %s\n", c.ID, title)
			}
			continue
		}

		fmt.Fprintf(w, "ID: %d\n", c.ID)
		fmt.Fprintf(w, "Title: %s\n", title)
		if c.MatchCount > 0 {
			fmt.Fprintf(w, "Matched terms: %d\n", c.MatchCount)
		}
		fmt.Fprintf(w, "Created: %s\n", formatTime(c.CreatedAt))
		fmt.Fprintf(w, "Link: %s\n", c.Link)

		preview := strings.ReplaceAll(c.Preview, "\n", " ")
		if c.Truncated {
			preview += " [more]"
		}
		fmt.Fprintf(w, "Preview: %s\n", preview)
		fmt.Fprintln(w, strings.Repeat("-", 60))
	}
}

func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < constants.HoursPerDay*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*constants.HoursPerDay*time.Hour:
		days := int(diff.Hours() / constants.HoursPerDay)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}
