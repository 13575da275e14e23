package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/streed/notecards/internal/importer"
	"github.com/streed/notecards/internal/logger"
	"github.com/streed/notecards/internal/models"
	"github.com/streed/notecards/internal/services"
)

var editCmd = &cobra.Command{
	Use:   "edit <note-id>",
	Short: "Edit an existing note",
	Long: `Edit a note in your default editor.

The note will open in your $EDITOR (or $VISUAL, or the first common editor found)
in the same format the import command reads:

  ---
  title: Groceries
  link: https://example.com/list
  ---
  milk, eggs

Everything after the closing "---" becomes the body. If nothing changed the note
is left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var editor string

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editor, "editor", "e", "", "Specify editor to use (overrides $EDITOR)")
}

func runEdit(_ *cobra.Command, args []string) error {
	noteID, err := parseNoteID(args[0])
	if err != nil {
		return err
	}

	note, err := appSvc.Notes.GetByID(noteID)
	if err != nil {
		return fmt.Errorf("failed to get note %d: %w", noteID, err)
	}

	original, err := importer.Format(documentFor(note))
	if err != nil {
		return err
	}

	edited, err := editInEditor(original, noteID)
	if err != nil {
		return fmt.Errorf("failed to edit note: %w", err)
	}
	if bytes.Equal(original, edited) {
		fmt.Println("No changes detected.")
		return nil
	}

	update, err := editedUpdate(note, edited)
	if err != nil {
		return err
	}

	updated, err := appSvc.Notes.Update(noteID, update)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	fmt.Println("\n✓ Note updated successfully")
	if update.Title != nil {
		fmt.Printf("  Title changed from: %s\n", note.Title)
		fmt.Printf("                  to: %s\n", updated.Title)
	}
	if update.Link != nil {
		fmt.Printf("  Link changed to: %s\n", updated.Link)
	}
	if update.Body != nil {
		diff := len(updated.Body) - len(note.Body)
		switch {
		case diff > 0:
			fmt.Printf("  Body increased by %d characters\n", diff)
		case diff < 0:
			fmt.Printf("  Body decreased by %d characters\n", -diff)
		default:
			fmt.Println("  Body modified (same length)")
		}
	}

	return nil
}

func documentFor(note *models.Note) *importer.Document {
	return &importer.Document{Title: note.Title, Link: note.Link, Body: note.Body}
}

// editedUpdate turns the edited file into a partial update holding only the
// fields that differ from note.
func editedUpdate(note *models.Note, edited []byte) (services.NoteUpdate, error) {
	doc, err := importer.Parse(bytes.NewReader(edited))
	if err != nil {
		return services.NoteUpdate{}, fmt.Errorf("failed to read edited note: %w", err)
	}

	var update services.NoteUpdate
	if title := strings.TrimSpace(doc.Title); title != note.Title {
		update.Title = &title
	}
	if link := strings.TrimSpace(doc.Link); link != note.Link {
		update.Link = &link
	}
	if body := strings.TrimSpace(doc.Body); body != strings.TrimSpace(note.Body) {
		update.Body = &body
	}
	return update, nil
}

// editInEditor writes text to a temp file, opens it and returns what was saved.
func editInEditor(text []byte, noteID int) ([]byte, error) {
	tempFile, err := os.CreateTemp("", fmt.Sprintf("notecards-%d-*.md", noteID))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(text); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tempFile.Close()

	if err := openInEditor(tempFile.Name()); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tempFile.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return edited, nil
}

// openInEditor opens a file in the user's editor
func openInEditor(filename string) error {
	editorCmd := resolveEditor()
	if editorCmd == "" {
		return fmt.Errorf("no editor found. Set $EDITOR or use the --editor flag")
	}

	logger.Debug("Opening file in editor: %s %s", editorCmd, filename)

	// Handle editors that might have arguments (e.g., "code --wait")
	parts := strings.Fields(editorCmd)
	cmd := exec.Command(parts[0], append(parts[1:], filename)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editorCmd, err)
	}
	return nil
}

// resolveEditor picks the --editor flag, then $EDITOR, then $VISUAL, then
// the first common editor on PATH.
func resolveEditor() string {
	if editor != "" {
		return editor
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	if e := os.Getenv("VISUAL"); e != "" {
		return e
	}
	for _, e := range []string{"vim", "vi", "nano", "emacs"} {
		if _, err := exec.LookPath(e); err == nil {
			return e
		}
	}
	return ""
}
