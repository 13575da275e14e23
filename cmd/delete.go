package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/streed/notecards/internal/logger"
	"github.com/streed/notecards/internal/models"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [note IDs...]",
	Short: "Delete notes from the list",
	Long: `Delete notes by ID. The notes are shown as they appear in the list and you are
asked once before anything is removed; --force skips the question.

--all clears the whole list and takes no IDs.

Examples:
  notecards delete 4
  notecards rm 4 7 9 --force
  notecards delete --all`,
	Args:    validateDeleteArgs,
	Aliases: []string{"rm", "remove"},
	RunE:    runDelete,
}

var (
	forceDelete bool
	deleteAll   bool
)

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Delete without asking")
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every note")
}

func validateDeleteArgs(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	switch {
	case all && len(args) > 0:
		return fmt.Errorf("--all takes no note IDs")
	case !all && len(args) == 0:
		return fmt.Errorf("give at least one note ID, or --all")
	}
	return nil
}

func runDelete(_ *cobra.Command, args []string) error {
	var targets []*models.Note
	if deleteAll {
		notes, err := appSvc.Notes.List(0, 0)
		if err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}
		targets = notes
	} else {
		ids, err := parseNoteIDs(args)
		if err != nil {
			return err
		}
		for _, id := range ids {
			note, err := appSvc.Notes.GetByID(id)
			if err != nil {
				logger.Debug("Skipping note %d: %v", id, err)
				fmt.Printf("Note %d not found, skipping\n", id)
				continue
			}
			targets = append(targets, note)
		}
	}

	if len(targets) == 0 {
		fmt.Println("Nothing to delete.")
		return nil
	}

	fmt.Println("About to delete:")
	for _, note := range targets {
		fmt.Printf("  [%d] %s\n", note.ID, displayTitle(note.Title))
	}

	if !forceDelete {
		question := fmt.Sprintf("Delete %d note(s)?", len(targets))
		if deleteAll {
			question = fmt.Sprintf("Delete all %d notes? This cannot be undone.", len(targets))
		}
		if !confirm(os.Stdin, os.Stdout, question) {
			fmt.Println("Nothing deleted.")
			return nil
		}
	}

	deleted := 0
	for _, note := range targets {
		if err := appSvc.Notes.Delete(note.ID); err != nil {
			logger.Error("Failed to delete note %d: %v", note.ID, err)
			fmt.Printf("✗ [%d] %v\n", note.ID, err)
			continue
		}
		fmt.Printf("✓ [%d] deleted\n", note.ID)
		deleted++
	}

	fmt.Printf("\nDeleted %d of %d note(s).\n", deleted, len(targets))
	if deleted < len(targets) {
		return fmt.Errorf("%d note(s) could not be deleted", len(targets)-deleted)
	}
	return nil
}

// parseNoteIDs parses every argument, dropping repeats and keeping the
// order they were given in.
func parseNoteIDs(args []string) ([]int, error) {
	seen := make(map[int]bool, len(args))
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseNoteID(arg)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// confirm asks a yes/no question; only "y" or "yes" counts as yes.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s (y/N): ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func displayTitle(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return title
}
