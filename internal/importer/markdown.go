// Package importer creates notes from markdown files with optional YAML
// front matter.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/streed/notecards/internal/logger"
	"github.com/streed/notecards/internal/models"
)

// ErrUnclosedFrontMatter is returned when a file opens a front matter block
// and never closes it.
var ErrUnclosedFrontMatter = errors.New("front matter started but no closing delimiter found")

// Document is one parsed markdown file.
type Document struct {
	Title string `yaml:"title"`
	Link  string `yaml:"link"`
	Body  string `yaml:"-"`
}

// Parse reads a markdown document. A leading "---" line opens a YAML block
// that ends at the next "---" line; everything after it is the body.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		doc.Body = string(data)
		return doc, nil
	}

	lines := strings.SplitAfter(string(data), "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, ErrUnclosedFrontMatter
	}

	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "")), doc); err != nil {
		return nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	doc.Body = strings.Join(lines[end+1:], "")
	doc.Body = strings.TrimPrefix(doc.Body, "\n")
	doc.Body = strings.TrimPrefix(doc.Body, "\r\n")
	return doc, nil
}

// Format renders doc in the form Parse reads back.
func Format(doc *Document) ([]byte, error) {
	meta, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n")
	buf.WriteString(doc.Body)
	return buf.Bytes(), nil
}

// Expand resolves each pattern (which may use ** to cross directories) to
// regular files. The result is sorted and free of duplicates.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// NoteCreator stores a new note. *services.NotesService satisfies it.
type NoteCreator interface {
	Create(title, body, link string) (*models.Note, error)
}

// Result reports what happened to one imported file.
type Result struct {
	Path string
	Note *models.Note
	Err  error
}

// ImportFiles creates one note per file. A file without a front matter title
// is titled after its file name. Failures are reported per file and do not
// stop the import.
func ImportFiles(paths []string, creator NoteCreator) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		note, err := importFile(path, creator)
		if err != nil {
			logger.Debug("Import of %s failed: %v", path, err)
		}
		results = append(results, Result{Path: path, Note: note, Err: err})
	}
	return results
}

func importFile(path string, creator NoteCreator) (*models.Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return creator.Create(title, strings.TrimSpace(doc.Body), strings.TrimSpace(doc.Link))
}
