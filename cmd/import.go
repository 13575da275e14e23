package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/streed/notecards/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <glob...>",
	Short: "Import markdown files as notes",
	Long: `Import markdown files as new notes. Each argument is a file path or a glob;
"**" matches any number of directories.

A file may start with a YAML front matter block giving the title and link:

  ---
  title: Groceries
  link: https://example.com/list
  ---
  milk, eggs

Without a title the file name (minus extension) is used.

Examples:
  notecards import notes/today.md
  notecards import 'journal/**/*.md'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	paths, err := importer.Expand(args)
	if err != nil {
		return fmt.Errorf("failed to expand patterns: %w", err)
	}
	if len(paths) == 0 {
		fmt.Println("No files matched.")
		return nil
	}

	results := importer.ImportFiles(paths, appSvc.Notes)
	failed := printImportResults(os.Stdout, results)

	fmt.Printf("\nImported %d of %d files.\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to import", failed)
	}
	return nil
}

// printImportResults writes one line per file and returns the failure count.
func printImportResults(w io.Writer, results []importer.Result) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "✗ %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Fprintf(w, "✓ %s → [%d] %s\n", r.Path, r.Note.ID, r.Note.Title)
	}
	return failed
}
