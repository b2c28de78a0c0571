package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-listbind/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	Theme       *theme.Theme
}

// NewScreen creates and initializes a terminal screen with theme t
func NewScreen(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFrom(tcellScreen, t)
}

// NewScreenFrom initializes an existing tcell screen, such as a simulation screen
func NewScreenFrom(tcellScreen tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.Default()
	}
	return &Screen{tcellScreen: tcellScreen, Theme: t}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// Fill paints a rectangle with spaces in style
func (s *Screen) Fill(x, y, width, height int, style tcell.Style) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			s.SetCell(col, row, ' ', style)
		}
	}
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	w, h := s.tcellScreen.Size()
	if x >= 0 && x < w && y >= 0 && y < h {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws text at the given position and returns the columns used.
// Wide runes take two columns.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	col := 0
	for _, r := range text {
		rw := RuneWidth(r)
		if rw == 0 {
			continue
		}
		s.SetCell(x+col, y, r, style)
		col += rw
	}
	return col
}

// DrawStringLimited draws text truncated to maxWidth columns
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	return s.DrawString(x, y, TruncateToWidth(text, maxWidth), style)
}

// PollEvent polls for the next event (key press, mouse, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// callbackEvent carries a function onto the event loop
type callbackEvent struct {
	tcell.EventTime
	fn func()
}

// Post schedules fn to run on the event loop. The loop must pass events to
// RunCallback.
func (s *Screen) Post(fn func()) error {
	ev := &callbackEvent{fn: fn}
	ev.SetEventNow()
	return s.tcellScreen.PostEvent(ev)
}

// RunCallback runs ev if it was posted with Post and reports whether it did
func RunCallback(ev tcell.Event) bool {
	cb, ok := ev.(*callbackEvent)
	if !ok {
		return false
	}
	cb.fn()
	return true
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Sync redraws the whole terminal
func (s *Screen) Sync() {
	s.tcellScreen.Sync()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	return s.tcellScreen.Size()
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	w, _ := s.tcellScreen.Size()
	return w
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, h := s.tcellScreen.Size()
	return h
}

// Theme-aware style methods

func (s *Screen) colors() theme.Colors {
	return s.Theme.Colors
}

// BackgroundStyle returns the default background style for the application
func (s *Screen) BackgroundStyle() tcell.Style {
	return tcell.StyleDefault.Background(s.colors().Background)
}

// RowStyle returns the style for a row
func (s *Screen) RowStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().RowText, s.colors().Background)
}

// RowCursorStyle returns the style for the row under the cursor
func (s *Screen) RowCursorStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().RowCursor, s.colors().Background).Reverse(true)
}

// RowSelectedStyle returns the style for selected rows
func (s *Screen) RowSelectedStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().RowSelected, s.colors().Background).Bold(true)
}

// FlashStyle returns base with its foreground blended from flash towards the
// row color; progress runs from 0 (just changed) to 1 (settled)
func (s *Screen) FlashStyle(base tcell.Style, flash tcell.Color, progress float64) tcell.Style {
	fg, _, _ := base.Decompose()
	return base.Foreground(theme.Blend(flash, fg, progress))
}

// HeaderStyle returns the style for section headers
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().HeaderTitle, s.colors().Background).Bold(true)
}

// FooterStyle returns the style for section footers
func (s *Screen) FooterStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().FooterText, s.colors().Background).Dim(true)
}

// SpacerStyle returns the style for spacer lines with a background color name
func (s *Screen) SpacerStyle(color string) tcell.Style {
	bg := s.colors().SectionSpacer
	if color != "" {
		bg = theme.ParseColorString(color)
	}
	return tcell.StyleDefault.Background(bg)
}

// FilterLabelStyle returns the style for the filter prompt
func (s *Screen) FilterLabelStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().FilterLabel)
}

// FilterTextStyle returns the style for the filter text
func (s *Screen) FilterTextStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().FilterText)
}

// HelpStyle returns the style for help background
func (s *Screen) HelpStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().HelpContent, s.colors().HelpBackground)
}

// HelpBorderStyle returns the style for help borders
func (s *Screen) HelpBorderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().HelpBorder, s.colors().HelpBackground)
}

// HelpTitleStyle returns the style for help title
func (s *Screen) HelpTitleStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().HelpTitle, s.colors().HelpBackground).Bold(true)
}

// StatusModeStyle returns the style for mode indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().StatusMode).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().StatusMessage)
}

// StatusErrorStyle returns the style for error messages
func (s *Screen) StatusErrorStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().StatusError)
}

// PlanStyle returns the style for a plan line of the given color
func (s *Screen) PlanStyle(c tcell.Color) tcell.Style {
	return theme.ColorPairToStyle(c, s.colors().HelpBackground)
}
