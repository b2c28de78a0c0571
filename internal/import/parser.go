package import_parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/storage"
)

// ImportFormat represents different file formats that can be imported
type ImportFormat string

const (
	FormatNone         ImportFormat = ""
	FormatMarkdown     ImportFormat = "markdown"
	FormatIndentedText ImportFormat = "indented"
)

// Parser interface for different import formats
type Parser interface {
	Parse(content string) (*storage.Document, error)
	Name() string
}

// ImportFile parses content in the given format into a list
func ImportFile(content string, format ImportFormat) (*storage.Document, error) {
	var parser Parser

	switch format {
	case FormatMarkdown:
		parser = &MarkdownParser{}
	case FormatIndentedText:
		parser = &IndentedTextParser{}
	default:
		return nil, fmt.Errorf("unsupported import format: %q", format)
	}

	doc, err := parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse error (%s): %w", parser.Name(), err)
	}

	return doc, nil
}

// DetectFormat detects the import format from the file extension. Other
// files, including saved JSON lists, are FormatNone.
func DetectFormat(filename string) ImportFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt":
		return FormatIndentedText
	}
	return FormatNone
}

// builder collects sections in order; rows before the first header go to a
// section without one
type builder struct {
	doc     *storage.Document
	current *storage.SectionData
}

func newBuilder() *builder {
	return &builder{doc: storage.NewDocument("")}
}

func (b *builder) section(header string) *storage.SectionData {
	b.current = &storage.SectionData{
		ID:     fmt.Sprintf("section-%d", len(b.doc.Sections)+1),
		Header: header,
	}
	b.doc.Sections = append(b.doc.Sections, b.current)
	return b.current
}

func (b *builder) row(text string, done bool) {
	text, tags := splitTags(text)
	if text == "" {
		return
	}
	if b.current == nil {
		b.section("")
	}
	row := model.NewTextRow(text)
	row.Tags = tags
	if done {
		row.Attributes["status"] = "done"
	}
	b.current.Rows = append(b.current.Rows, row)
}

// splitTags peels trailing "#tag" words off text
func splitTags(text string) (string, []string) {
	words := strings.Fields(text)
	end := len(words)
	for end > 0 && len(words[end-1]) > 1 && strings.HasPrefix(words[end-1], "#") {
		end--
	}
	var tags []string
	for _, w := range words[end:] {
		tags = append(tags, w[1:])
	}
	return strings.Join(words[:end], " "), tags
}
