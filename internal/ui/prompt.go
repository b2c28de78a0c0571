package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-listbind/internal/history"
)

// PromptResult is the outcome of a key press in a prompt
type PromptResult uint8

const (
	PromptEditing PromptResult = iota
	PromptDone
	PromptCancelled
)

// Prompt is a single line text input shown above the status line
type Prompt struct {
	label  string
	text   []rune
	cursor int
	active bool
	// OnChange is called after every edit, for incremental filters
	OnChange func(text string)
	history  *history.History
}

// NewPrompt creates an inactive prompt
func NewPrompt() *Prompt {
	return &Prompt{}
}

// Start activates the prompt with label and initial text, cursor at the end
func (p *Prompt) Start(label, text string) {
	p.label = label
	p.text = []rune(text)
	p.cursor = len(p.text)
	p.active = true
	p.OnChange = nil
	p.history = nil
}

// SetHistory lets Up and Down recall entries of h until the prompt restarts
func (p *Prompt) SetHistory(h *history.History) {
	p.history = h
	if h != nil {
		h.Reset()
	}
}

func (p *Prompt) recall(entry string, ok bool) {
	if !ok {
		return
	}
	p.text = []rune(entry)
	p.cursor = len(p.text)
	p.changed()
}

// Stop deactivates the prompt
func (p *Prompt) Stop() {
	p.active = false
}

// IsActive returns whether the prompt takes input
func (p *Prompt) IsActive() bool {
	return p.active
}

// Label returns the prompt label
func (p *Prompt) Label() string {
	return p.label
}

// Text returns the current input
func (p *Prompt) Text() string {
	return string(p.text)
}

// HandleKey edits the input. Enter finishes and Escape cancels; both
// deactivate the prompt.
func (p *Prompt) HandleKey(ev *tcell.EventKey) PromptResult {
	switch ev.Key() {
	case tcell.KeyEnter:
		p.active = false
		return PromptDone
	case tcell.KeyEscape:
		p.active = false
		return PromptCancelled
	case tcell.KeyUp:
		if p.history != nil {
			p.recall(p.history.Previous())
		}
	case tcell.KeyDown:
		if p.history != nil {
			p.recall(p.history.Next())
		}
	case tcell.KeyLeft:
		p.cursor = max(p.cursor-1, 0)
	case tcell.KeyRight:
		p.cursor = min(p.cursor+1, len(p.text))
	case tcell.KeyHome, tcell.KeyCtrlA:
		p.cursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		p.cursor = len(p.text)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.cursor > 0 {
			p.text = append(p.text[:p.cursor-1], p.text[p.cursor:]...)
			p.cursor--
			p.changed()
		}
	case tcell.KeyDelete:
		if p.cursor < len(p.text) {
			p.text = append(p.text[:p.cursor], p.text[p.cursor+1:]...)
			p.changed()
		}
	case tcell.KeyCtrlU:
		p.text = p.text[:0]
		p.cursor = 0
		p.changed()
	case tcell.KeyRune:
		p.text = append(p.text[:p.cursor], append([]rune{ev.Rune()}, p.text[p.cursor:]...)...)
		p.cursor++
		p.changed()
	}
	return PromptEditing
}

func (p *Prompt) changed() {
	if p.OnChange != nil {
		p.OnChange(string(p.text))
	}
}

// Render draws the prompt on row y
func (p *Prompt) Render(screen *Screen, y int) {
	if !p.active {
		return
	}
	width := screen.GetWidth()
	screen.Fill(0, y, width, 1, screen.BackgroundStyle())

	x := screen.DrawString(0, y, p.label, screen.FilterLabelStyle())
	before := string(p.text[:p.cursor])
	screen.DrawStringLimited(x, y, string(p.text), width-x, screen.FilterTextStyle())

	cx := x + StringWidth(before)
	if cx < width {
		r := ' '
		if p.cursor < len(p.text) {
			r = p.text[p.cursor]
		}
		screen.SetCell(cx, y, r, screen.FilterTextStyle().Reverse(true))
	}
}
