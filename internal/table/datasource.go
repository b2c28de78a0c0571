package table

import (
	"fmt"

	"github.com/pstuifzand/tui-listbind/internal/binding"
	"github.com/pstuifzand/tui-listbind/internal/events"
	"github.com/pstuifzand/tui-listbind/internal/model"
)

// NumberOfSections returns the number of sections in the current snapshot
func (m *Manager) NumberOfSections() int {
	return m.sections.SectionCount()
}

// NumberOfRows returns the number of rows in section
func (m *Manager) NumberOfRows(section int) int {
	return m.sections.RowCount(section)
}

// ModelAt returns the row at path
func (m *Manager) ModelAt(path model.IndexPath) (model.Row, error) {
	row, ok := m.sections.Row(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIndexOutOfRange, path)
	}
	return row, nil
}

// SelectedModels returns the rows at the surface's selected paths. Paths the
// current snapshot does not contain are skipped.
func (m *Manager) SelectedModels() []model.Row {
	src, ok := m.surface.(SelectionSource)
	if !ok {
		return nil
	}
	var rows []model.Row
	for _, path := range src.SelectedPaths() {
		if row, ok := m.sections.Row(path); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// ViewFor returns a configured view for the row at path
func (m *Manager) ViewFor(path model.IndexPath) (binding.View, error) {
	row, err := m.ModelAt(path)
	if err != nil {
		return nil, err
	}
	rule, err := m.resolver.RowTemplate(path, row)
	if err != nil {
		return nil, err
	}
	view := m.dequeue(rule.Template, rule.Source, path)
	if view != nil && rule.Configure != nil {
		rule.Configure(view, row)
	}
	return view, nil
}

// RowHeight returns the size of the row at path, 0 outside the snapshot
func (m *Manager) RowHeight(path model.IndexPath) int {
	row, ok := m.sections.Row(path)
	if !ok {
		return 0
	}
	return m.resolver.RowSize(path, row)
}

// HeaderView returns a configured header view. Both results are nil when the
// section has no header or no header rules are set.
func (m *Manager) HeaderView(section int) (binding.View, error) {
	item := m.header(section)
	rule, err := m.resolver.HeaderTemplate(section, item)
	if rule == nil || err != nil {
		return nil, err
	}
	return m.headerFooterView(rule, section, item), nil
}

// HeaderHeight returns the header size, 0 without a header
func (m *Manager) HeaderHeight(section int) int {
	return m.resolver.HeaderSize(section, m.header(section))
}

// FooterView returns a configured footer view
func (m *Manager) FooterView(section int) (binding.View, error) {
	item := m.footer(section)
	rule, err := m.resolver.FooterTemplate(section, item)
	if rule == nil || err != nil {
		return nil, err
	}
	return m.headerFooterView(rule, section, item), nil
}

// FooterHeight returns the footer size, 0 without a footer
func (m *Manager) FooterHeight(section int) int {
	return m.resolver.FooterSize(section, m.footer(section))
}

// HeaderTitle returns the header title when the header is a title
func (m *Manager) HeaderTitle(section int) string {
	return title(m.header(section))
}

// FooterTitle returns the footer title when the footer is a title
func (m *Manager) FooterTitle(section int) string {
	return title(m.footer(section))
}

// Listen registers handler under key, replacing an earlier one
func (m *Manager) Listen(key string, handler events.Handler) {
	m.listeners.Listen(key, handler)
}

// Unlisten removes the handler registered under key
func (m *Manager) Unlisten(key string) {
	m.listeners.Unlisten(key)
}

// Select notifies listeners that the row at path was selected
func (m *Manager) Select(path model.IndexPath) error {
	return m.emitRow(events.KindSelect, path, "")
}

// Deselect notifies listeners that the row at path was deselected
func (m *Manager) Deselect(path model.IndexPath) error {
	return m.emitRow(events.KindDeselect, path, "")
}

// InvokeAction notifies listeners of a custom action on the row at path
func (m *Manager) InvokeAction(path model.IndexPath, cta string) error {
	return m.emitRow(events.KindAction, path, cta)
}

// InvokeHeaderFooterAction notifies listeners of a custom action on the
// header (footer false) or footer of section.
func (m *Manager) InvokeHeaderFooterAction(section int, footer bool, cta string) error {
	if section < 0 || section >= len(m.sections) {
		return fmt.Errorf("%w: section %d", ErrIndexOutOfRange, section)
	}
	item := m.header(section)
	if footer {
		item = m.footer(section)
	}
	m.listeners.Emit(events.Event{
		Kind:         events.KindHeaderFooterAction,
		Path:         model.Path(section, -1),
		HeaderFooter: item,
		CTA:          cta,
	})
	return nil
}

func (m *Manager) emitRow(kind events.Kind, path model.IndexPath, cta string) error {
	row, err := m.ModelAt(path)
	if err != nil {
		return err
	}
	m.listeners.Emit(events.Event{Kind: kind, Path: path, Row: row, CTA: cta})
	return nil
}

func (m *Manager) headerFooterView(rule *binding.HeaderFooterRule, section int, item model.HeaderFooter) binding.View {
	view := m.dequeue(rule.Template, rule.Source, model.Path(section, -1))
	if view != nil && rule.Configure != nil {
		rule.Configure(view, item)
	}
	return view
}

func (m *Manager) dequeue(template string, source binding.Source, path model.IndexPath) binding.View {
	if d, ok := m.surface.(Dequeuer); ok {
		if view := d.Dequeue(template, path); view != nil {
			return view
		}
	}
	if source.Factory != nil {
		return source.Factory()
	}
	return nil
}

func (m *Manager) header(section int) model.HeaderFooter {
	if section < 0 || section >= len(m.sections) {
		return nil
	}
	return m.sections[section].Header
}

func (m *Manager) footer(section int) model.HeaderFooter {
	if section < 0 || section >= len(m.sections) {
		return nil
	}
	return m.sections[section].Footer
}

func title(item model.HeaderFooter) string {
	if t, ok := item.(*model.TitleHeaderFooter); ok && t != nil {
		return t.Title
	}
	return ""
}
