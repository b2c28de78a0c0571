package app

import (
	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/ui"
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// GetKey returns the key of this keybinding
func (kb *KeyBinding) GetKey() string {
	if kb.Key == ' ' {
		return "space"
	}
	return string(kb.Key)
}

// GetDescription returns the description of this keybinding
func (kb *KeyBinding) GetDescription() string {
	return kb.Description
}

// PendingKeyBinding represents a pending key (like 'g') that waits for a second key
type PendingKeyBinding struct {
	Prefix      rune
	Description string
	Sequences   []KeyBinding
}

// Lookup returns the binding for the second key, or nil
func (pkb *PendingKeyBinding) Lookup(key rune) *KeyBinding {
	for i := range pkb.Sequences {
		if pkb.Sequences[i].Key == key {
			return &pkb.Sequences[i]
		}
	}
	return nil
}

// sequenceHelp describes a two key sequence in the help screen
type sequenceHelp struct {
	keys        string
	description string
}

func (s sequenceHelp) GetKey() string         { return s.keys }
func (s sequenceHelp) GetDescription() string { return s.description }

// InitializeKeybindings sets up all the key bindings
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{'j', "Move down", func(app *App) { app.list.MoveCursor(1) }},
		{'k', "Move up", func(app *App) { app.list.MoveCursor(-1) }},
		{'G', "Go to last row", func(app *App) { app.list.CursorLast() }},
		{'J', "Move row down", func(app *App) { app.moveCursorRow(1) }},
		{'K', "Move row up", func(app *App) { app.moveCursorRow(-1) }},
		{'o', "Insert new row after", func(app *App) { app.startPrompt("New: ", "", app.insertRowAfterCursor) }},
		{'i', "Edit row", func(app *App) {
			if row, _, _ := app.cursorRow(); row != nil {
				app.startPrompt("Edit: ", row.Text, app.editCursorRow)
			}
		}},
		{'d', "Delete selected rows or the current row", (*App).deleteSelection},
		{'x', "Toggle done", func(app *App) { app.invokeAction(actionToggleDone) }},
		{' ', "Toggle selection", (*App).toggleCursorSelection},
		{'s', "Shuffle rows in section", (*App).shuffleRows},
		{'S', "Shuffle sections", (*App).shuffleSections},
		{'N', "New section", func(app *App) { app.startPrompt("Section: ", "", app.addSection) }},
		{'R', "Rename section header", func(app *App) { app.invokeHeaderAction(actionRename) }},
		{'/', "Filter rows", (*App).startFilterPrompt},
		{'p', "Show last update plan", (*App).showPlan},
		{'E', "Export to markdown", (*App).exportMarkdown},
		{'u', "Restore previous backup", (*App).restoreBackup},
		{'?', "Toggle help", func(app *App) { app.help.Toggle() }},
		{'q', "Quit", (*App).Quit},
	}
}

// InitializePendingKeybindings sets up the two key sequences
func (a *App) InitializePendingKeybindings() []PendingKeyBinding {
	return []PendingKeyBinding{{
		Prefix:      'g',
		Description: "Go to... (g + key)",
		Sequences: []KeyBinding{
			{'g', "Go to first row", func(app *App) { app.list.CursorFirst() }},
			{'p', "Go to previous section", func(app *App) { app.jumpSection(-1) }},
			{'n', "Go to next section", func(app *App) { app.jumpSection(1) }},
		},
	}}
}

// GetKeybindingByKey returns the keybinding for a key, or nil
func (a *App) GetKeybindingByKey(key rune) *KeyBinding {
	for i := range a.keybindings {
		if a.keybindings[i].Key == key {
			return &a.keybindings[i]
		}
	}
	return nil
}

// GetPendingKeybindingByPrefix returns the pending keybinding for a prefix, or nil
func (a *App) GetPendingKeybindingByPrefix(prefix rune) *PendingKeyBinding {
	for i := range a.pendingKeybindings {
		if a.pendingKeybindings[i].Prefix == prefix {
			return &a.pendingKeybindings[i]
		}
	}
	return nil
}

// handleRune runs the binding for a typed key, completing a pending sequence first
func (a *App) handleRune(r rune) {
	if prefix := a.pendingKey; prefix != 0 {
		a.pendingKey = 0
		if pkb := a.GetPendingKeybindingByPrefix(prefix); pkb != nil {
			if kb := pkb.Lookup(r); kb != nil {
				kb.Handler(a)
			}
		}
		return
	}
	if pkb := a.GetPendingKeybindingByPrefix(r); pkb != nil {
		a.pendingKey = r
		return
	}
	if kb := a.GetKeybindingByKey(r); kb != nil {
		kb.Handler(a)
	}
}

// helpEntries lists single keys and sequences for the help screen
func (a *App) helpEntries() []ui.KeyBindingInfo {
	var entries []ui.KeyBindingInfo
	for i := range a.keybindings {
		entries = append(entries, &a.keybindings[i])
	}
	for _, pkb := range a.pendingKeybindings {
		for _, kb := range pkb.Sequences {
			entries = append(entries, sequenceHelp{keys: string(pkb.Prefix) + string(kb.Key), description: kb.Description})
		}
	}
	return entries
}

// jumpSection moves the cursor to the first row of a neighbouring section
// that has rows
func (a *App) jumpSection(delta int) {
	path, ok := a.list.Cursor()
	if !ok {
		return
	}
	for s := path.Section + delta; s >= 0 && s < a.mgr.NumberOfSections(); s += delta {
		if a.mgr.NumberOfRows(s) > 0 {
			a.list.SetCursor(model.Path(s, 0))
			return
		}
	}
}
