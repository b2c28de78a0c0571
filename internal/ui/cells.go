package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Cell is a view the ListView knows how to draw
type Cell interface {
	Draw(s *Screen, x, y, width, height int, state CellState)
}

// Measurer is implemented by cells that size themselves for automatic heights
type Measurer interface {
	Measure(width int) int
}

// Flash is a short color highlight after a row was inserted or reloaded
type Flash struct {
	Color    tcell.Color
	Progress float64 // 0 just changed, 1 settled
}

// CellState is the per-frame state of the row a cell draws
type CellState struct {
	Cursor   bool
	Selected bool
	Flash    *Flash
}

func (st CellState) style(s *Screen) tcell.Style {
	style := s.RowStyle()
	switch {
	case st.Cursor:
		style = s.RowCursorStyle()
	case st.Selected:
		style = s.RowSelectedStyle()
	}
	if st.Flash != nil && !st.Cursor {
		style = s.FlashStyle(style, st.Flash.Color, st.Flash.Progress)
	}
	return style
}

// TextCell shows a row's text wrapped to the cell width, followed by its tags
type TextCell struct {
	Text string
	Tags []string
	Done bool
}

// NewTextCell creates an empty text cell
func NewTextCell() *TextCell {
	return &TextCell{}
}

func (c *TextCell) marker() string {
	if c.Done {
		return "✓ "
	}
	return "• "
}

func (c *TextCell) content() string {
	if len(c.Tags) == 0 {
		return c.Text
	}
	return c.Text + "  #" + strings.Join(c.Tags, " #")
}

// Measure returns the number of lines the cell needs at width
func (c *TextCell) Measure(width int) int {
	return max(len(WrapText(c.content(), width-StringWidth(c.marker()))), 1)
}

// Draw draws the cell
func (c *TextCell) Draw(s *Screen, x, y, width, height int, state CellState) {
	style := state.style(s)
	s.Fill(x, y, width, height, style)

	marker := c.marker()
	indent := s.DrawString(x, y, marker, style)
	lines := WrapText(c.content(), width-indent)
	for i := 0; i < len(lines) && i < height; i++ {
		s.DrawStringLimited(x+indent, y+i, lines[i], width-indent, style)
	}
}

// TitleView draws a section header or footer title
type TitleView struct {
	Title  string
	Footer bool
}

// NewTitleView creates a title view; footer selects the footer style
func NewTitleView(footer bool) *TitleView {
	return &TitleView{Footer: footer}
}

// Draw draws the title on the first line of the cell
func (v *TitleView) Draw(s *Screen, x, y, width, height int, state CellState) {
	style := s.HeaderStyle()
	if v.Footer {
		style = s.FooterStyle()
	}
	s.Fill(x, y, width, height, s.BackgroundStyle())
	if v.Footer {
		s.DrawStringLimited(x+2, y, v.Title, width-2, style)
		return
	}
	s.DrawStringLimited(x, y, TruncateToWidthWithEllipsis(v.Title, width), width, style)
}

// SpacerView fills its lines with a background color
type SpacerView struct {
	Color string
}

// NewSpacerView creates a spacer view
func NewSpacerView() *SpacerView {
	return &SpacerView{}
}

// Draw fills the cell area
func (v *SpacerView) Draw(s *Screen, x, y, width, height int, state CellState) {
	s.Fill(x, y, width, height, s.SpacerStyle(v.Color))
}
