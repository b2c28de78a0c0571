package ui

import (
	"errors"

	"github.com/pstuifzand/tui-listbind/internal/binding"
	"github.com/pstuifzand/tui-listbind/internal/model"
)

type entryKind uint8

const (
	entryHeader entryKind = iota
	entryRow
	entryFooter
)

// entry is one laid out header, row or footer
type entry struct {
	kind   entryKind
	path   model.IndexPath
	key    string
	view   binding.View
	top    int
	height int
}

// lookup failures other than a missing template are skipped; a missing
// template is a programming error
func mustView(view binding.View, err error) binding.View {
	var noMatch *binding.NoMatchingTemplateError
	if errors.As(err, &noMatch) {
		panic(err)
	}
	if err != nil {
		return nil
	}
	return view
}

func measure(view binding.View, size, width int) int {
	if size != binding.Automatic {
		return size
	}
	if m, ok := view.(Measurer); ok {
		return max(m.Measure(width), 1)
	}
	return 1
}

// layout resolves views and heights for every section in display order
func (lv *ListView) layout(width int) []entry {
	var entries []entry
	top := 0
	add := func(e entry) {
		if e.height <= 0 {
			return
		}
		e.top = top
		top += e.height
		entries = append(entries, e)
	}

	for s := range lv.counts {
		if h := lv.source.HeaderHeight(s); h != 0 {
			view := mustView(lv.source.HeaderView(s))
			if view == nil {
				view = titleFallback(lv.source.HeaderTitle(s), false)
			}
			if view != nil {
				add(entry{kind: entryHeader, path: model.Path(s, -1), view: view, height: measure(view, h, width)})
			}
		}

		for r := 0; r < lv.counts[s]; r++ {
			path := model.Path(s, r)
			view := mustView(lv.source.ViewFor(path))
			add(entry{kind: entryRow, path: path, key: lv.keyAt(path), view: view, height: measure(view, lv.source.RowHeight(path), width)})
		}

		if h := lv.source.FooterHeight(s); h != 0 {
			view := mustView(lv.source.FooterView(s))
			if view == nil {
				view = titleFallback(lv.source.FooterTitle(s), true)
			}
			if view != nil {
				add(entry{kind: entryFooter, path: model.Path(s, -1), view: view, height: measure(view, h, width)})
			}
		}
	}
	return entries
}

func titleFallback(title string, footer bool) binding.View {
	if title == "" {
		return nil
	}
	return &TitleView{Title: title, Footer: footer}
}

// Render draws the list into the given screen area, scrolled so the cursor
// row is visible
func (lv *ListView) Render(x, y, width, height int) {
	lv.screen.Fill(x, y, width, height, lv.screen.BackgroundStyle())
	if lv.source == nil || width <= 0 || height <= 0 {
		return
	}

	lv.recycle()
	entries := lv.layout(width)
	lv.scrollToCursor(entries, height)

	for _, e := range entries {
		if e.top+e.height <= lv.offset {
			continue
		}
		if e.top >= lv.offset+height {
			break
		}

		cell, ok := e.view.(Cell)
		if !ok {
			continue
		}
		if tv, ok := e.view.(*TitleView); ok {
			tv.Footer = e.kind == entryFooter
		}

		// clip entries cut by the top or bottom edge
		top := e.top - lv.offset
		h := e.height
		if top < 0 {
			h += top
			top = 0
		}
		h = min(h, height-top)

		var state CellState
		if e.kind == entryRow {
			state = CellState{
				Cursor:   lv.cursorKey != "" && e.path == lv.cursor,
				Selected: lv.selected[e.key],
				Flash:    lv.flashState(e.key),
			}
		}
		cell.Draw(lv.screen, x, y+top, width, h, state)
	}
}

func (lv *ListView) scrollToCursor(entries []entry, height int) {
	total := 0
	if n := len(entries); n > 0 {
		total = entries[n-1].top + entries[n-1].height
	}

	for i, e := range entries {
		if e.kind != entryRow || e.path != lv.cursor {
			continue
		}
		top := e.top
		// keep the section header in view above the first row
		if e.path.Row == 0 && i > 0 && entries[i-1].kind == entryHeader {
			top = entries[i-1].top
		}
		if top < lv.offset {
			lv.offset = top
		} else if e.top+e.height > lv.offset+height {
			lv.offset = e.top + e.height - height
		}
		break
	}

	lv.offset = min(lv.offset, max(total-height, 0))
	lv.offset = max(lv.offset, 0)
}
