package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-listbind/internal/diff"
	"github.com/pstuifzand/tui-listbind/internal/plan"
)

// PlanView displays the last reconciliation plan
type PlanView struct {
	visible      bool
	title        string
	lines        []diff.DiffLine
	scrollOffset int
	maxHeight    int
}

// NewPlanView creates a hidden plan view
func NewPlanView() *PlanView {
	return &PlanView{}
}

// Show displays p under title
func (pv *PlanView) Show(p *plan.Plan, title string) {
	pv.title = title
	pv.lines = p.Lines()
	pv.scrollOffset = 0
	pv.visible = true
}

// Hide closes the plan view
func (pv *PlanView) Hide() {
	pv.visible = false
}

// IsVisible returns whether the plan view is currently visible
func (pv *PlanView) IsVisible() bool {
	return pv.visible
}

// Lines returns the lines being displayed
func (pv *PlanView) Lines() []diff.DiffLine {
	return pv.lines
}

// HandleKeyEvent processes keyboard input
func (pv *PlanView) HandleKeyEvent(ev *tcell.EventKey) {
	if !pv.visible {
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		pv.Hide()
	case tcell.KeyUp, tcell.KeyCtrlK:
		pv.scroll(-1)
	case tcell.KeyDown, tcell.KeyCtrlJ:
		pv.scroll(1)
	case tcell.KeyPgUp, tcell.KeyCtrlU:
		pv.scroll(-pv.maxHeight / 2)
	case tcell.KeyPgDn, tcell.KeyCtrlD:
		pv.scroll(pv.maxHeight / 2)
	case tcell.KeyHome:
		pv.scrollOffset = 0
	case tcell.KeyEnd:
		pv.scrollOffset = pv.maxScroll()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'p':
			pv.Hide()
		case 'j':
			pv.scroll(1)
		case 'k':
			pv.scroll(-1)
		}
	}
}

// maxScroll accounts for the border, title and footer lines
func (pv *PlanView) maxScroll() int {
	return max(len(pv.lines)-pv.maxHeight+4, 0)
}

func (pv *PlanView) scroll(lines int) {
	pv.scrollOffset = min(max(pv.scrollOffset+lines, 0), pv.maxScroll())
}

// Render draws the plan view on the screen
func (pv *PlanView) Render(screen *Screen) {
	if !pv.visible {
		return
	}

	width, height := screen.Size()
	pv.maxHeight = height

	boxWidth := width - 4
	boxHeight := height - 4
	startX, startY := 2, 2
	if boxWidth < 20 || boxHeight < 5 {
		return
	}

	screen.Fill(startX, startY, boxWidth, boxHeight, screen.HelpStyle())
	drawBox(screen, startX, startY, boxWidth, boxHeight, screen.HelpBorderStyle())
	screen.DrawStringLimited(startX+1, startY, " "+pv.title+" ", boxWidth-2, screen.HelpTitleStyle())

	pv.renderContent(screen, startX+1, startY+2, boxWidth-2, boxHeight-4)

	footer := "j/k/↓/↑: scroll | Ctrl+U/D: page | q/Esc: close"
	screen.DrawStringLimited(startX+1, startY+boxHeight-1, footer, boxWidth-2, screen.HelpBorderStyle())
}

func (pv *PlanView) renderContent(screen *Screen, x, y, width, height int) {
	end := min(pv.scrollOffset+height, len(pv.lines))
	for i := pv.scrollOffset; i < end; i++ {
		line := pv.lines[i]
		text := strings.Repeat("  ", line.Indent) + line.Content
		screen.DrawStringLimited(x, y+i-pv.scrollOffset, TruncateToWidthWithEllipsis(text, width), width, pv.style(screen, line.Type))
	}

	if len(pv.lines) > height && height > 0 {
		screen.SetCell(x+width-1, y+pv.scrollOffset*height/len(pv.lines), '█', screen.HelpBorderStyle())
	}
}

func (pv *PlanView) style(screen *Screen, t diff.DiffLineType) tcell.Style {
	c := screen.Theme.Colors
	switch t {
	case diff.DiffTypeHeader, diff.DiffTypeSummary:
		return screen.PlanStyle(c.PlanHeader).Bold(true)
	case diff.DiffTypeInsert:
		return screen.PlanStyle(c.PlanInsert)
	case diff.DiffTypeDelete:
		return screen.PlanStyle(c.PlanDelete)
	case diff.DiffTypeMove:
		return screen.PlanStyle(c.PlanMove)
	case diff.DiffTypeReplace:
		return screen.PlanStyle(c.PlanReplace)
	case diff.DiffTypeDetail:
		return screen.HelpStyle().Dim(true)
	default:
		return screen.HelpStyle()
	}
}

// drawBox draws a simple box border
func drawBox(screen *Screen, x, y, width, height int, style tcell.Style) {
	screen.SetCell(x, y, '┌', style)
	screen.SetCell(x+width-1, y, '┐', style)
	screen.SetCell(x, y+height-1, '└', style)
	screen.SetCell(x+width-1, y+height-1, '┘', style)
	for i := 1; i < width-1; i++ {
		screen.SetCell(x+i, y, '─', style)
		screen.SetCell(x+i, y+height-1, '─', style)
	}
	for i := 1; i < height-1; i++ {
		screen.SetCell(x, y+i, '│', style)
		screen.SetCell(x+width-1, y+i, '│', style)
	}
}
