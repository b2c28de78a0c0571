package ui

import "fmt"

// KeyBindingInfo is a keybinding shown on the help screen
type KeyBindingInfo interface {
	GetKey() string
	GetDescription() string
}

// HelpScreen manages the help display
type HelpScreen struct {
	visible     bool
	keybindings []KeyBindingInfo
}

// NewHelpScreen creates a new HelpScreen
func NewHelpScreen() *HelpScreen {
	return &HelpScreen{}
}

// SetKeybindings sets the keybindings to display
func (h *HelpScreen) SetKeybindings(keybindings []KeyBindingInfo) {
	h.keybindings = keybindings
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// GetKeybindings returns a formatted list of keybindings
func (h *HelpScreen) GetKeybindings() []string {
	result := []string{"Keybindings:", ""}
	for _, kb := range h.keybindings {
		result = append(result, fmt.Sprintf("  %-8s - %s", kb.GetKey(), kb.GetDescription()))
	}

	result = append(result,
		"",
		"Special Keys:",
		"  Ctrl+S   - Save",
		"  Escape   - Cancel input or close",
		"  Enter    - Confirm input",
	)
	return result
}

// Render renders the help screen
func (h *HelpScreen) Render(screen *Screen) {
	if !h.visible {
		return
	}

	contentStyle := screen.HelpStyle()
	borderStyle := screen.HelpBorderStyle()

	width, height := screen.Size()
	screen.Fill(0, 0, width, height, contentStyle)

	startX, startY := 5, 2
	boxWidth := width - 10
	boxHeight := height - 4
	if boxWidth < 20 || boxHeight < 5 {
		return
	}

	keybindings := h.GetKeybindings()
	boxHeight = min(boxHeight, len(keybindings)+4)
	drawBox(screen, startX, startY, boxWidth, boxHeight, borderStyle)

	screen.DrawString(startX+2, startY+1, " Keybindings (? to close) ", screen.HelpTitleStyle())
	screen.SetCell(startX, startY+2, '├', borderStyle)
	for i := 1; i < boxWidth-1; i++ {
		screen.SetCell(startX+i, startY+2, '─', borderStyle)
	}
	screen.SetCell(startX+boxWidth-1, startY+2, '┤', borderStyle)

	y := startY + 3
	for _, line := range keybindings {
		if y >= startY+boxHeight-1 {
			break
		}
		screen.DrawStringLimited(startX+2, y, line, boxWidth-4, contentStyle)
		y++
	}
}
