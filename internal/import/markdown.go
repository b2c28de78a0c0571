package import_parser

import (
	"bufio"
	"strings"

	"github.com/pstuifzand/tui-listbind/internal/storage"
)

// MarkdownParser imports markdown files. The first "# " heading is the list
// title, other headings start sections, list items become rows and an
// italic line after the rows is the section footer.
type MarkdownParser struct{}

func (p *MarkdownParser) Name() string {
	return "Markdown"
}

// Parse converts markdown content to a list
func (p *MarkdownParser) Parse(content string) (*storage.Document, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	b := newBuilder()

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		// Skip empty lines
		if trimmed == "" {
			continue
		}

		if level, text := parseHeader(trimmed); level >= 0 {
			if level == 0 && b.doc.Title == "" && len(b.doc.Sections) == 0 {
				b.doc.Title = text
			} else {
				b.section(text)
			}
			continue
		}

		if text, done, ok := parseListItem(trimmed); ok {
			b.row(text, done)
			continue
		}

		if footer, ok := parseFooter(trimmed); ok && b.current != nil {
			b.current.Footer = footer
			continue
		}

		// Plain text is a row too
		b.row(trimmed, false)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.doc, nil
}

// parseHeader extracts level and text from markdown header
func parseHeader(line string) (level int, text string) {
	for level < len(line) && line[level] == '#' {
		level++
	}

	// "#tag" is text, not a heading
	if level == 0 || level >= len(line) || line[level] != ' ' {
		return -1, ""
	}

	return level - 1, strings.TrimSpace(line[level:]) // Convert to 0-based level
}

// parseListItem extracts the text of a list item. Task list items report
// whether they are checked. Nesting is flattened.
func parseListItem(line string) (text string, done bool, ok bool) {
	if len(line) < 2 || !strings.ContainsRune("-*+", rune(line[0])) || line[1] != ' ' {
		return "", false, false
	}
	text = strings.TrimSpace(line[2:])

	switch {
	case strings.HasPrefix(text, "[ ] "):
		text = text[4:]
	case strings.HasPrefix(text, "[x] "), strings.HasPrefix(text, "[X] "):
		text, done = text[4:], true
	}
	return strings.TrimSpace(text), done, true
}

// parseFooter extracts the text of a line wrapped in underscores
func parseFooter(line string) (string, bool) {
	if len(line) < 3 || line[0] != '_' || line[len(line)-1] != '_' {
		return "", false
	}
	return strings.TrimSpace(line[1 : len(line)-1]), true
}
