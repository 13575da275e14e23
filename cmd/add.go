package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new note",
	Long: `Add a new note. A note needs a title, a body, or both.

The body can be provided in two ways:
1. Via --body flag: notecards add -t "Title" -b "Body"
2. Via stdin: echo "Body" | notecards add -t "Title"`,
	RunE: runAdd,
}

var (
	title string
	body  string
	link  string
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&title, "title", "t", "", "Note title")
	addCmd.Flags().StringVarP(&body, "body", "b", "", "Note body")
	addCmd.Flags().StringVarP(&link, "link", "l", "", "Optional link kept with the note")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if body == "" {
		stat, _ := os.Stdin.Stat()
		if stat != nil && (stat.Mode()&os.ModeCharDevice) == 0 {
			// Data is being piped to stdin
			piped, err := readBody(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read body from stdin: %w", err)
			}
			body = piped
		}
	}

	note, err := appSvc.Notes.Create(title, body, link)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	fmt.Printf("Note created successfully!\n")
	fmt.Printf("ID: %d\n", note.ID)
	if note.Title != "" {
		fmt.Printf("Title: %s\n", note.Title)
	}
	fmt.Printf("Created: %s\n", note.CreatedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func readBody(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return strings.Join(lines, "\n"), scanner.Err()
}
