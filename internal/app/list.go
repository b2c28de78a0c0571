package app

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/pstuifzand/tui-listbind/internal/binding"
	"github.com/pstuifzand/tui-listbind/internal/events"
	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/plan"
	"github.com/pstuifzand/tui-listbind/internal/search"
	"github.com/pstuifzand/tui-listbind/internal/storage"
	"github.com/pstuifzand/tui-listbind/internal/table"
	"github.com/pstuifzand/tui-listbind/internal/ui"
)

const (
	textTemplate    = "text"
	doneTemplate    = "done"
	checkedTemplate = "checked"
	titleTemplate   = "title"
	footerTemplate  = "footer"
	spacerTemplate  = "spacer"

	actionOpen       = "open"
	actionToggleDone = "toggle_done"
	actionRename     = "rename"

	statusAttr = "status"
	statusDone = "done"
	statusTodo = "todo"
)

func isDone(r *model.TextRow) bool {
	return r.Attributes[statusAttr] == statusDone
}

func configureCell(v binding.View, r *model.TextRow) {
	c := v.(*ui.TextCell)
	c.Text = r.Text
	c.Tags = r.Tags
	c.Done = isDone(r)
}

// rowRules draws finished rows from the externally defined "checked"
// template and every other text row inline
func rowRules() []binding.RowRule {
	done := binding.RowFor(doneTemplate, binding.External(checkedTemplate), binding.AutoSize(), configureCell)
	isText := done.Match
	done.Match = func(path model.IndexPath, row model.Row) bool {
		return isText(path, row) && isDone(row.(*model.TextRow))
	}
	return []binding.RowRule{
		done,
		binding.RowFor(textTemplate, binding.Inline(), binding.AutoSize(), configureCell),
	}
}

func titleRule(template string) binding.HeaderFooterRule {
	return binding.HeaderFooterFor(template, binding.Inline(), binding.Fixed(1), func(v binding.View, h *model.TitleHeaderFooter) {
		v.(*ui.TitleView).Title = h.Title
	})
}

func headerRules() []binding.HeaderFooterRule {
	return []binding.HeaderFooterRule{titleRule(titleTemplate)}
}

func footerRules() []binding.HeaderFooterRule {
	spacer := binding.HeaderFooterFor(spacerTemplate,
		binding.ByType(func() binding.View { return ui.NewSpacerView() }),
		binding.Fixed(1),
		func(v binding.View, s *model.SpacerHeaderFooter) {
			v.(*ui.SpacerView).Color = s.Color
		})
	return []binding.HeaderFooterRule{titleRule(footerTemplate), spacer}
}

func sampleDocument(title string) *storage.Document {
	doc := storage.NewDocument(title)
	row := func(text string, tags ...string) *model.TextRow {
		r := model.NewTextRow(text)
		r.Tags = tags
		return r
	}
	done := row("Write the shopping list")
	done.Attributes[statusAttr] = statusDone

	doc.Sections = []*storage.SectionData{
		{ID: "inbox", Header: "Inbox", Rows: []*model.TextRow{
			row("Welcome to tui-listbind"),
			row("Press ? for help"),
			done,
		}},
		{ID: "groceries", Header: "Groceries", Footer: "Shop on saturday", Rows: []*model.TextRow{
			row("Oat milk", "dairy"),
			row("Bread"),
			row("Apples", "fruit"),
		}},
		{ID: "later", Header: "Later", Rows: []*model.TextRow{
			row("Paint the fence", "house"),
		}},
	}
	return doc
}

// displaySnapshot is the document as shown: sections other than the last get
// a spacer footer, then the filter applies
func (a *App) displaySnapshot() (model.Snapshot, error) {
	snap := a.doc.Snapshot()
	for i, s := range snap {
		if i < len(snap)-1 && s.Footer == nil {
			s.Footer = &model.SpacerHeaderFooter{ID: s.ID + ":spacer"}
		}
	}
	if a.filter == "" {
		return snap, nil
	}
	return search.FilterQuery(snap, a.filter, false)
}

// refresh hands the current document to the list manager
func (a *App) refresh() {
	next, err := a.displaySnapshot()
	if err != nil {
		a.status.Error("Filter: " + err.Error())
		return
	}
	p, err := plan.Build(a.submitted, next)
	if err != nil {
		a.status.Error(err.Error())
		return
	}

	if err := a.mgr.Reload(next); err != nil {
		if errors.Is(err, table.ErrReconciliationInFlight) {
			a.stale = true
			return
		}
		a.status.Error(err.Error())
		return
	}
	a.stale = false
	a.submitted = next
	a.lastPlan = p
}

func (a *App) changed() {
	a.dirty = true
	a.refresh()
}

func (a *App) setFilter(query string) {
	a.filter = strings.TrimSpace(query)
	a.refresh()
}

const filterHistoryFile = "filter.toml"

// startFilterPrompt filters while typing; Enter keeps the query in the
// filter history
func (a *App) startFilterPrompt() {
	a.startPrompt("Filter: ", a.filter, func(text string) {
		a.setFilter(text)
		a.filterHistory.Add(a.filter)
		if a.histories == nil {
			return
		}
		if err := a.histories.Save(filterHistoryFile, a.filterHistory.Entries()); err != nil {
			a.log.WithError(err).Warn("failed to save filter history")
		}
	})
	a.prompt.SetHistory(a.filterHistory)
	a.prompt.OnChange = a.setFilter
}

// focus moves the cursor to the row with key once it is displayed
func (a *App) focus(key string) {
	if path, ok := a.mgr.Snapshot().PathOf(key); ok {
		a.list.SetCursor(path)
	}
}

// locate returns the document section holding key and the row's index
func (a *App) locate(key string) (*storage.SectionData, int) {
	for _, sd := range a.doc.Sections {
		for i, r := range sd.Rows {
			if r.ID == key {
				return sd, i
			}
		}
	}
	return nil, -1
}

// cursorRow returns the row under the cursor with its document position
func (a *App) cursorRow() (*model.TextRow, *storage.SectionData, int) {
	path, ok := a.list.Cursor()
	if !ok {
		return nil, nil, -1
	}
	row, err := a.mgr.ModelAt(path)
	if err != nil {
		return nil, nil, -1
	}
	sd, idx := a.locate(row.Key())
	if sd == nil {
		return nil, nil, -1
	}
	return sd.Rows[idx], sd, idx
}

// cursorSection returns the document section under the cursor, or the first
func (a *App) cursorSection() *storage.SectionData {
	if path, ok := a.list.Cursor(); ok {
		if snap := a.mgr.Snapshot(); path.Section < len(snap) {
			if sd := a.sectionByID(snap[path.Section].ID); sd != nil {
				return sd
			}
		}
	}
	if len(a.doc.Sections) == 0 {
		return nil
	}
	return a.doc.Sections[0]
}

func (a *App) sectionByID(id string) *storage.SectionData {
	for _, sd := range a.doc.Sections {
		if sd.ID == id {
			return sd
		}
	}
	return nil
}

// findSection matches a section by ID or case-insensitive header. An empty
// name is the first section.
func (a *App) findSection(name string) *storage.SectionData {
	if len(a.doc.Sections) == 0 {
		return nil
	}
	if name == "" {
		return a.doc.Sections[0]
	}
	if sd := a.sectionByID(name); sd != nil {
		return sd
	}
	for _, sd := range a.doc.Sections {
		if strings.EqualFold(sd.Header, name) {
			return sd
		}
	}
	return nil
}

// insertRowAfterCursor adds a row below the cursor row, or at the end of the
// cursor's section
func (a *App) insertRowAfterCursor(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	row := model.NewTextRow(text)
	if _, sd, idx := a.cursorRow(); sd != nil {
		sd.Rows = slices.Insert(sd.Rows, idx+1, row)
	} else if sd := a.cursorSection(); sd != nil {
		sd.Rows = append(sd.Rows, row)
	} else {
		a.doc.Sections = append(a.doc.Sections, &storage.SectionData{ID: newSectionID(), Rows: []*model.TextRow{row}})
	}
	a.changed()
	a.focus(row.ID)
	a.status.Info("Added row")
}

// editCursorRow replaces the text of the cursor row
func (a *App) editCursorRow(text string) {
	row, sd, idx := a.cursorRow()
	if row == nil || text == row.Text {
		return
	}
	sd.Rows[idx] = row.WithText(text)
	a.changed()
}

// deleteRows removes the rows with the given keys and reports how many were found
func (a *App) deleteRows(keys ...string) int {
	n := 0
	for _, key := range keys {
		if sd, idx := a.locate(key); sd != nil {
			sd.Rows = slices.Delete(sd.Rows, idx, idx+1)
			n++
		}
	}
	if n > 0 {
		a.changed()
	}
	return n
}

// deleteSelection deletes the selected rows or else the cursor row
func (a *App) deleteSelection() {
	var keys []string
	for _, row := range a.mgr.SelectedModels() {
		keys = append(keys, row.Key())
	}
	if len(keys) == 0 {
		if row, _, _ := a.cursorRow(); row != nil {
			keys = append(keys, row.ID)
		}
	}
	a.list.ClearSelection()
	if n := a.deleteRows(keys...); n > 0 {
		a.status.Info(pluralize(n, "row") + " deleted")
	}
}

func (a *App) toggleDone(key string) {
	sd, idx := a.locate(key)
	if sd == nil {
		return
	}
	row := sd.Rows[idx]
	status := statusDone
	if isDone(row) {
		status = statusTodo
	}
	sd.Rows[idx] = row.WithAttribute(statusAttr, status)
	a.changed()
}

// moveCursorRow swaps the cursor row with its neighbour in the section
func (a *App) moveCursorRow(delta int) {
	row, sd, idx := a.cursorRow()
	if row == nil {
		return
	}
	to := idx + delta
	if to < 0 || to >= len(sd.Rows) {
		return
	}
	sd.Rows[idx], sd.Rows[to] = sd.Rows[to], sd.Rows[idx]
	a.changed()
}

func (a *App) shuffleRows() {
	sd := a.cursorSection()
	if sd == nil {
		return
	}
	rand.Shuffle(len(sd.Rows), func(i, j int) {
		sd.Rows[i], sd.Rows[j] = sd.Rows[j], sd.Rows[i]
	})
	a.changed()
	a.status.Info("Shuffled " + sectionName(sd))
}

func (a *App) shuffleSections() {
	rand.Shuffle(len(a.doc.Sections), func(i, j int) {
		a.doc.Sections[i], a.doc.Sections[j] = a.doc.Sections[j], a.doc.Sections[i]
	})
	a.changed()
	a.status.Info("Shuffled sections")
}

// addSection adds an empty section with header title after the cursor's section
func (a *App) addSection(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	sd := &storage.SectionData{ID: newSectionID(), Header: title}
	at := len(a.doc.Sections)
	if cur := a.cursorSection(); cur != nil {
		at = slices.Index(a.doc.Sections, cur) + 1
	}
	a.doc.Sections = slices.Insert(a.doc.Sections, at, sd)
	a.changed()
	a.status.Info("Added section " + title)
}

func (a *App) renameSection(id, title string) {
	sd := a.sectionByID(id)
	if sd == nil || sd.Header == title {
		return
	}
	sd.Header = strings.TrimSpace(title)
	a.changed()
}

// addRow appends a row to the named section and returns its key
func (a *App) addRow(section, text string, tags []string, attributes map[string]string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("row text cannot be empty")
	}
	sd := a.findSection(section)
	if sd == nil {
		return "", errors.New("unknown section: " + section)
	}
	row := model.NewTextRow(text)
	row.Tags = tags
	for k, v := range attributes {
		row.Attributes[k] = v
	}
	sd.Rows = append(sd.Rows, row)
	a.changed()
	return row.ID, nil
}

// rowKeys lists every row as "key<TAB>text" in document order
func (a *App) rowKeys() []string {
	var keys []string
	for _, sd := range a.doc.Sections {
		for _, r := range sd.Rows {
			keys = append(keys, r.ID+"\t"+r.Text)
		}
	}
	return keys
}

func (a *App) toggleCursorSelection() {
	path, selected, ok := a.list.ToggleSelected()
	if !ok {
		return
	}
	var err error
	if selected {
		err = a.mgr.Select(path)
	} else {
		err = a.mgr.Deselect(path)
	}
	if err != nil {
		a.status.Error(err.Error())
	}
}

func (a *App) invokeAction(cta string) {
	if path, ok := a.list.Cursor(); ok {
		if err := a.mgr.InvokeAction(path, cta); err != nil {
			a.status.Error(err.Error())
		}
	}
}

func (a *App) invokeHeaderAction(cta string) {
	path, ok := a.list.Cursor()
	if !ok {
		return
	}
	if err := a.mgr.InvokeHeaderFooterAction(path.Section, false, cta); err != nil {
		a.status.Error(err.Error())
	}
}

// handleEvent reacts to row and header events emitted by the list manager
func (a *App) handleEvent(ev events.Event) {
	a.log.WithField("event", ev.String()).Debug("list event")

	switch ev.Kind {
	case events.KindSelect:
		a.status.Info(pluralize(len(a.list.SelectedPaths()), "row") + " selected")
	case events.KindDeselect:
		a.status.Info("Deselected " + plan.DescribeRow(ev.Row))
	case events.KindAction:
		switch ev.CTA {
		case actionToggleDone:
			a.toggleDone(ev.Row.Key())
		case actionOpen:
			a.status.Info(plan.DescribeRow(ev.Row))
		}
	case events.KindHeaderFooterAction:
		if ev.CTA != actionRename {
			return
		}
		snap := a.mgr.Snapshot()
		if ev.Path.Section >= len(snap) {
			return
		}
		id := snap[ev.Path.Section].ID
		current := ""
		if sd := a.sectionByID(id); sd != nil {
			current = sd.Header
		}
		a.startPrompt("Header: ", current, func(text string) {
			a.renameSection(id, text)
		})
	}
}

func (a *App) showPlan() {
	if a.lastPlan == nil {
		a.status.Info("No updates yet")
		return
	}
	a.plans.Show(a.lastPlan, "Last update: "+a.lastPlan.Summary())
}

func sectionName(sd *storage.SectionData) string {
	if sd.Header != "" {
		return sd.Header
	}
	return sd.ID
}

func newSectionID() string {
	return "section_" + ulid.Make().String()
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
