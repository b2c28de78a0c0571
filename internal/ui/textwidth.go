package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Widths are display columns, not bytes or runes.

// RuneWidth returns the display width of r: 2 for wide runes, 0 for
// combining and control runes
func RuneWidth(r rune) int {
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 0
}

// StringWidth returns the display width of s
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth cuts s to at most maxWidth columns without splitting runes
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "")
}

// TruncateToWidthWithEllipsis cuts s to maxWidth columns ending in "…" when it is too wide
func TruncateToWidthWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// PadStringToWidth pads s with spaces to width columns; wider strings are returned as-is
func PadStringToWidth(s string, width int) string {
	if StringWidth(s) >= width {
		return s
	}
	return runewidth.FillRight(s, width)
}

// WrapText breaks text into lines of at most width columns, preferring
// breaks at spaces. Runes wider than width get a line of their own.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, strings.TrimRight(line.String(), " "))
		line.Reset()
		lineWidth = 0
	}
	for _, word := range strings.SplitAfter(text, " ") {
		trimmed := strings.TrimRight(word, " ")
		tw := StringWidth(trimmed)
		if lineWidth > 0 && lineWidth+tw > width {
			flush()
		}
		if tw <= width-lineWidth {
			line.WriteString(word)
			lineWidth += StringWidth(word)
			continue
		}
		// word longer than a line
		for _, r := range trimmed {
			rw := RuneWidth(r)
			if lineWidth+rw > width && lineWidth > 0 {
				flush()
			}
			line.WriteRune(r)
			lineWidth += rw
		}
		line.WriteString(word[len(trimmed):])
		lineWidth += len(word) - len(trimmed)
	}
	if line.Len() > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}
