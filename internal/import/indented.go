package import_parser

import (
	"bufio"
	"strings"

	"github.com/pstuifzand/tui-listbind/internal/storage"
)

// IndentedTextParser imports plain text files. Unindented lines are section
// headers and indented lines are the rows of the section above them.
type IndentedTextParser struct{}

func (p *IndentedTextParser) Name() string {
	return "Indented Text"
}

// Parse converts indented text to a list
func (p *IndentedTextParser) Parse(content string) (*storage.Document, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	b := newBuilder()

	for scanner.Scan() {
		line := scanner.Text()
		text := strings.TrimSpace(line)

		// Skip empty lines
		if text == "" {
			continue
		}

		if getIndentLevel(line) == 0 {
			b.section(text)
			continue
		}
		b.row(text, false)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.doc, nil
}

// getIndentLevel counts leading whitespace, a tab counting as two spaces
func getIndentLevel(line string) int {
	indent := 0
	for _, ch := range line {
		switch ch {
		case ' ':
			indent++
		case '\t':
			indent += 2
		default:
			return indent
		}
	}
	return indent
}
