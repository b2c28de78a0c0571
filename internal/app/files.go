package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/tui-listbind/internal/export"
	import_parser "github.com/pstuifzand/tui-listbind/internal/import"
	"github.com/pstuifzand/tui-listbind/internal/storage"
)

// openDocument loads the list at path. Markdown and text files are imported
// and saved next to the original as JSON.
func openDocument(path string) (*storage.JSONStore, *storage.Document, error) {
	format := import_parser.DetectFormat(path)
	if format == import_parser.FormatNone {
		store := storage.NewJSONStore(path)
		doc, err := store.Load()
		return store, doc, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := import_parser.ImportFile(string(content), format)
	if err != nil {
		return nil, nil, err
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if doc.Title == "" {
		doc.Title = filepath.Base(base)
	}
	return storage.NewJSONStore(base + ".json"), doc, nil
}

// markdownPath is where the list is exported to
func (a *App) markdownPath() string {
	if a.store.FilePath == "" {
		return "list.md"
	}
	return strings.TrimSuffix(a.store.FilePath, filepath.Ext(a.store.FilePath)) + ".md"
}

func (a *App) exportMarkdown() {
	path := a.markdownPath()
	if err := export.ExportToMarkdown(a.doc, path); err != nil {
		a.status.Error(err.Error())
		return
	}
	a.status.Info("Exported to " + path)
}
