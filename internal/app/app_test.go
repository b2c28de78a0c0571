package app

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listbind/internal/config"
	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/socket"
	"github.com/pstuifzand/tui-listbind/internal/storage"
	"github.com/pstuifzand/tui-listbind/internal/ui"
)

type testApp struct {
	*App
	sim  tcell.SimulationScreen
	path string
}

// newTestApp starts an app on a simulation screen. A nil doc starts from a
// missing file.
func newTestApp(t *testing.T, doc *storage.Document) *testApp {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "list.json")
	if doc != nil {
		require.NoError(t, storage.NewJSONStore(path).Save(doc))
	}

	cfg := config.Default()
	cfg.AnimationsEnabled = false

	log := logrus.New()
	log.SetOutput(io.Discard)

	sim := tcell.NewSimulationScreen("UTF-8")
	a, err := New(Options{FilePath: path, Config: cfg, Log: log, Screen: sim})
	require.NoError(t, err)
	sim.SetSize(60, 20)
	t.Cleanup(func() { a.Close() })
	return &testApp{App: a, sim: sim, path: path}
}

func (ta *testApp) press(keys ...rune) {
	for _, r := range keys {
		ta.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func (ta *testApp) pressKey(key tcell.Key) {
	ta.handleKey(tcell.NewEventKey(key, 0, tcell.ModNone))
}

func (ta *testApp) typeText(text string) {
	for _, r := range text {
		ta.press(r)
	}
}

func (ta *testApp) screenText() string {
	ta.render()
	cells, width, height := ta.sim.GetContents()
	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if runes := cells[y*width+x].Runes; len(runes) > 0 {
				b.WriteRune(runes[0])
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func groceries() *storage.Document {
	doc := storage.NewDocument("Groceries")
	doc.Sections = []*storage.SectionData{
		{ID: "dairy", Header: "Dairy", Rows: []*model.TextRow{
			{ID: "milk", Text: "Milk", Tags: []string{"cold"}},
			{ID: "cheese", Text: "Cheese", Tags: []string{"cold"}},
		}},
		{ID: "bakery", Header: "Bakery", Footer: "Before noon", Rows: []*model.TextRow{
			{ID: "bread", Text: "Bread"},
			{ID: "buns", Text: "Buns"},
		}},
	}
	return doc
}

func rowTexts(sd *storage.SectionData) []string {
	var texts []string
	for _, r := range sd.Rows {
		texts = append(texts, r.Text)
	}
	return texts
}

func TestNewStartsWithSampleDocument(t *testing.T) {
	a := newTestApp(t, nil)

	assert.Equal(t, 3, a.mgr.NumberOfSections())
	assert.Equal(t, 3, a.mgr.NumberOfRows(0))

	text := a.screenText()
	assert.Contains(t, text, "Inbox")
	assert.Contains(t, text, "Welcome to tui-listbind")
	assert.Contains(t, text, "✓ Write the shopping list")
	assert.Contains(t, text, "Shop on saturday")
}

func TestSectionsGetSpacerFootersExceptLast(t *testing.T) {
	a := newTestApp(t, groceries())

	view, err := a.mgr.FooterView(0)
	require.NoError(t, err)
	assert.IsType(t, &ui.SpacerView{}, view)

	view, err = a.mgr.FooterView(1)
	require.NoError(t, err)
	require.IsType(t, &ui.TitleView{}, view)
	assert.Equal(t, "Before noon", view.(*ui.TitleView).Title)
}

func TestInsertRowMovesCursorToNewRow(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('o')
	require.True(t, a.prompt.IsActive())
	a.typeText("Butter")
	a.pressKey(tcell.KeyEnter)

	assert.Equal(t, []string{"Milk", "Butter", "Cheese"}, rowTexts(a.doc.Sections[0]))
	path, ok := a.list.Cursor()
	require.True(t, ok)
	assert.Equal(t, model.Path(0, 1), path)
	assert.True(t, a.dirty)
	assert.Zero(t, a.list.Stats().Inconsistent)
}

func TestEditRowKeepsKey(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('i')
	a.pressKey(tcell.KeyCtrlU)
	a.typeText("Oat milk")
	a.pressKey(tcell.KeyEnter)

	row := a.doc.Sections[0].Rows[0]
	assert.Equal(t, "milk", row.ID)
	assert.Equal(t, "Oat milk", row.Text)
	assert.Contains(t, a.screenText(), "Oat milk")
}

func TestToggleDoneUsesCheckedTemplate(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('x')
	assert.Equal(t, statusDone, a.doc.Sections[0].Rows[0].Attributes[statusAttr])

	view, err := a.mgr.ViewFor(model.Path(0, 0))
	require.NoError(t, err)
	require.IsType(t, &ui.TextCell{}, view)
	assert.True(t, view.(*ui.TextCell).Done)

	a.press('x')
	assert.Equal(t, statusTodo, a.doc.Sections[0].Rows[0].Attributes[statusAttr])
}

func TestDeleteSelectedRows(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press(' ', 'j', ' ')
	assert.Len(t, a.mgr.SelectedModels(), 2)

	a.press('d')
	assert.Empty(t, a.doc.Sections[0].Rows)
	assert.Equal(t, 2, a.mgr.NumberOfSections(), "empty section keeps its header")
	assert.Empty(t, a.list.SelectedPaths())

	msg, ok := a.status.Current()
	require.True(t, ok)
	assert.Equal(t, "2 rows deleted", msg.Text)
}

func TestDeleteWithoutSelectionRemovesCursorRow(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('j', 'd')
	assert.Equal(t, []string{"Milk"}, rowTexts(a.doc.Sections[0]))
}

func TestMoveRowDown(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('J')
	assert.Equal(t, []string{"Cheese", "Milk"}, rowTexts(a.doc.Sections[0]))

	path, _ := a.list.Cursor()
	assert.Equal(t, model.Path(0, 1), path, "cursor follows the moved row")
}

func TestFilterShowsMatchingRows(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('/')
	a.typeText("#cold")
	assert.Equal(t, 1, a.mgr.NumberOfSections(), "filter applies while typing")
	a.pressKey(tcell.KeyEnter)

	assert.Equal(t, "#cold", a.filter)
	assert.Equal(t, 2, a.mgr.Snapshot().TotalRows())
	assert.Equal(t, []string{"#cold"}, a.filterHistory.Entries())
	saved, err := a.histories.Load(filterHistoryFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"#cold"}, saved)

	a.pressKey(tcell.KeyEscape)
	assert.Empty(t, a.filter)
	assert.Equal(t, 4, a.mgr.Snapshot().TotalRows())
}

func TestRenameSectionThroughHeaderAction(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('R')
	require.True(t, a.prompt.IsActive())
	assert.Equal(t, "Dairy", a.prompt.Text())

	a.pressKey(tcell.KeyCtrlU)
	a.typeText("Fridge")
	a.pressKey(tcell.KeyEnter)

	assert.Equal(t, "Fridge", a.doc.Sections[0].Header)
	assert.Contains(t, a.screenText(), "Fridge")
}

func TestAddSectionAfterCursorSection(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('N')
	a.typeText("Frozen")
	a.pressKey(tcell.KeyEnter)

	require.Len(t, a.doc.Sections, 3)
	assert.Equal(t, "Frozen", a.doc.Sections[1].Header)
	// an empty section is shown with its header only
	assert.Equal(t, 3, a.mgr.NumberOfSections())
	assert.Equal(t, 0, a.mgr.NumberOfRows(1))
}

func TestGoToSections(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('g', 'n')
	path, _ := a.list.Cursor()
	assert.Equal(t, model.Path(1, 0), path)

	a.press('G')
	path, _ = a.list.Cursor()
	assert.Equal(t, model.Path(1, 1), path)

	a.press('g', 'g')
	path, _ = a.list.Cursor()
	assert.Equal(t, model.Path(0, 0), path)
}

func TestShowPlanAfterEdit(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('J', 'p')
	require.True(t, a.plans.IsVisible())

	var texts []string
	for _, line := range a.plans.Lines() {
		texts = append(texts, line.Content)
	}
	assert.Contains(t, strings.Join(texts, "\n"), `Section "dairy"`)
}

func TestSocketCommands(t *testing.T) {
	a := newTestApp(t, groceries())

	resp := a.runSocketCommand(socket.Message{Command: socket.CommandAddRow, Text: "Croissant", Section: "bakery", Tags: []string{"sweet"}})
	require.True(t, resp.Success, resp.Message)
	key := resp.Message
	assert.Equal(t, []string{"Bread", "Buns", "Croissant"}, rowTexts(a.doc.Sections[1]))

	resp = a.runSocketCommand(socket.Message{Command: socket.CommandAddRow, Text: "Yogurt", Section: "DAIRY"})
	require.True(t, resp.Success)
	assert.Len(t, a.doc.Sections[0].Rows, 3)

	resp = a.runSocketCommand(socket.Message{Command: socket.CommandList})
	require.True(t, resp.Success)
	assert.Contains(t, resp.Rows, key+"\tCroissant")
	assert.Len(t, resp.Rows, 6)

	resp = a.runSocketCommand(socket.Message{Command: socket.CommandRemoveRow, Key: key})
	assert.True(t, resp.Success)
	resp = a.runSocketCommand(socket.Message{Command: socket.CommandRemoveRow, Key: key})
	assert.False(t, resp.Success)

	resp = a.runSocketCommand(socket.Message{Command: socket.CommandAddRow, Text: "x", Section: "nowhere"})
	assert.False(t, resp.Success)
}

func TestSocketListAnswersOnResponseChannel(t *testing.T) {
	a := newTestApp(t, groceries())

	ch := make(chan *socket.Response, 1)
	a.handleSocketMessage(socket.Message{Command: socket.CommandList, ResponseChan: ch})

	resp := <-ch
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"milk\tMilk", "cheese\tCheese", "bread\tBread", "buns\tBuns"}, resp.Rows)
}

func TestSaveWritesFileAndBackup(t *testing.T) {
	a := newTestApp(t, groceries())

	a.press('x')
	require.NoError(t, a.Save())
	assert.False(t, a.dirty)

	saved, err := storage.NewJSONStore(a.path).Load()
	require.NoError(t, err)
	assert.Equal(t, statusDone, saved.Sections[0].Rows[0].Attributes[statusAttr])

	backups, err := a.backups.FindBackupsForFile(a.path)
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestRestoreBackupReplacesDocument(t *testing.T) {
	a := newTestApp(t, groceries())

	old := groceries()
	old.Sections = old.Sections[1:]
	abs, err := filepath.Abs(a.path)
	require.NoError(t, err)
	old.OriginalFilename = abs
	data, err := json.Marshal(old)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(storage.GetBackupDir(), "20250102_030405_abc.lbd"), data, 0o644))

	// edit first so the newest backup is not skipped as the saved state
	a.press('J')
	a.press('u')

	require.Len(t, a.doc.Sections, 1)
	assert.Equal(t, "bakery", a.doc.Sections[0].ID)
	assert.Equal(t, 1, a.mgr.NumberOfSections())
	assert.True(t, a.dirty)

	a.press('u')
	msg, _ := a.status.Current()
	assert.Equal(t, "No older backups", msg.Text)
}

func TestHelpListsSequences(t *testing.T) {
	a := newTestApp(t, groceries())

	lines := strings.Join(a.help.GetKeybindings(), "\n")
	assert.Contains(t, lines, "gg")
	assert.Contains(t, lines, "space")

	a.press('?')
	assert.True(t, a.help.IsVisible())
	a.press('j')
	path, _ := a.list.Cursor()
	assert.Equal(t, model.Path(0, 0), path, "keys go to the help screen while it is open")
	a.pressKey(tcell.KeyEscape)
	assert.False(t, a.help.IsVisible())
}

func TestImportMarkdownAndExport(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "weekend.md")
	require.NoError(t, os.WriteFile(mdPath, []byte("## Chores\n\n- [ ] Mow the lawn\n- [x] Wash the car #car\n"), 0o644))

	cfg := config.Default()
	cfg.AnimationsEnabled = false
	log := logrus.New()
	log.SetOutput(io.Discard)
	a, err := New(Options{FilePath: mdPath, Config: cfg, Log: log, Screen: tcell.NewSimulationScreen("UTF-8")})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	assert.Equal(t, "weekend", a.doc.Title)
	assert.Equal(t, filepath.Join(dir, "weekend.json"), a.store.FilePath)
	assert.Equal(t, 2, a.mgr.NumberOfRows(0))

	a.handleKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	a.handleKey(tcell.NewEventKey(tcell.KeyRune, 'E', tcell.ModNone))

	data, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Equal(t, "# weekend\n\n## Chores\n\n- [x] Mow the lawn\n- [x] Wash the car #car\n", string(data))
}
