package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/storage"
)

// ExportToMarkdown writes a list to a markdown file. Section headers become
// "## " headings, rows become task list items and footers follow in italics.
func ExportToMarkdown(doc *storage.Document, filePath string) error {
	if err := os.WriteFile(filePath, []byte(Markdown(doc)), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}

// Markdown renders a list as markdown
func Markdown(doc *storage.Document) string {
	var sb strings.Builder
	if doc.Title != "" {
		sb.WriteString("# ")
		sb.WriteString(doc.Title)
		sb.WriteString("\n")
	}

	for _, section := range doc.Sections {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		if section.Header != "" {
			sb.WriteString("## ")
			sb.WriteString(section.Header)
			sb.WriteString("\n\n")
		}
		for _, row := range section.Rows {
			writeRowAsMarkdown(&sb, row)
		}
		if section.Footer != "" {
			fmt.Fprintf(&sb, "\n_%s_\n", section.Footer)
		}
	}
	return sb.String()
}

// writeRowAsMarkdown writes a row as a task list item with its tags
func writeRowAsMarkdown(sb *strings.Builder, row *model.TextRow) {
	// Skip empty rows
	if strings.TrimSpace(row.Text) == "" {
		return
	}

	if row.Attributes["status"] == "done" {
		sb.WriteString("- [x] ")
	} else {
		sb.WriteString("- [ ] ")
	}
	sb.WriteString(row.Text)
	for _, tag := range row.Tags {
		sb.WriteString(" #")
		sb.WriteString(tag)
	}
	sb.WriteString("\n")
}
