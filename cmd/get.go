package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	interrors "github.com/streed/notecards/internal/errors"
)

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get a note by ID",
	Long:  `Display the full body of a note by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func parseNoteID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", interrors.ErrInvalidNoteID, arg)
	}
	return id, nil
}

func runGet(_ *cobra.Command, args []string) error {
	id, err := parseNoteID(args[0])
	if err != nil {
		return err
	}

	note, err := appSvc.Notes.GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}

	fmt.Printf("================================================================================\n")
	fmt.Printf("ID: %d\n", note.ID)
	fmt.Printf("Title: %s\n", note.Title)
	if note.Link != "" {
		fmt.Printf("Link: %s\n", note.Link)
	}
	fmt.Printf("Created: %s\n", note.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated: %s\n", note.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("================================================================================\n\n")

	fmt.Println(note.Body)
	fmt.Println()

	return nil
}
