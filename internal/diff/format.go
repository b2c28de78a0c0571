package diff

import "fmt"

// DiffLineType indicates the type of diff line for rendering
type DiffLineType int

const (
	DiffTypeHeader DiffLineType = iota
	DiffTypeInsert
	DiffTypeDelete
	DiffTypeMove
	DiffTypeReplace
	DiffTypeDetail
	DiffTypeSummary
	DiffTypeBlank
)

// DiffLine represents a rendered line in diff output
type DiffLine struct {
	Type    DiffLineType
	Content string
	Indent  int // Indentation level
}

// Describe renders an item for display; nil falls back to its key
type Describe[T any] func(item T) string

// BuildLines converts an edit script into display lines.
// This is suitable for both CLI and TUI output.
func BuildLines[T Keyed[T]](edits []Edit[T], indent int, describe Describe[T]) []DiffLine {
	var lines []DiffLine
	for _, e := range edits {
		lines = append(lines, formatEdit(e, indent, describe)...)
	}
	return lines
}

func formatEdit[T Keyed[T]](e Edit[T], indent int, describe Describe[T]) []DiffLine {
	label := func(item T) string {
		if describe != nil {
			return truncateText(describe(item), 60)
		}
		return item.Key()
	}

	switch e.Op {
	case OpInsert:
		return []DiffLine{{Type: DiffTypeInsert, Indent: indent,
			Content: fmt.Sprintf("+ [%d] %s", e.To, label(e.Item))}}
	case OpDelete:
		return []DiffLine{{Type: DiffTypeDelete, Indent: indent,
			Content: fmt.Sprintf("- [%d] %s", e.From, label(e.Old))}}
	case OpMove:
		return []DiffLine{{Type: DiffTypeMove, Indent: indent,
			Content: fmt.Sprintf("~ [%d -> %d] %s", e.From, e.To, label(e.Item))}}
	case OpReplace:
		lines := []DiffLine{{Type: DiffTypeReplace, Indent: indent,
			Content: fmt.Sprintf("* [%d] %s", e.To, e.Item.Key())}}
		if describe != nil {
			lines = append(lines,
				DiffLine{Type: DiffTypeDetail, Indent: indent + 1, Content: "OLD: " + label(e.Old)},
				DiffLine{Type: DiffTypeDetail, Indent: indent + 1, Content: "NEW: " + label(e.Item)},
			)
		}
		return lines
	}
	return nil
}

// SummaryLine returns a summary line for a tally
func SummaryLine(c Counts) DiffLine {
	return DiffLine{Type: DiffTypeSummary, Content: c.String()}
}

// Render flattens lines into indented text
func Render(lines []DiffLine) string {
	var out []byte
	for _, line := range lines {
		for i := 0; i < line.Indent; i++ {
			out = append(out, "  "...)
		}
		out = append(out, line.Content...)
		out = append(out, '\n')
	}
	return string(out)
}

// truncateText shortens text to maxLen runes, adding an ellipsis
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}
