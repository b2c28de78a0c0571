// Package search filters list snapshots with a small query language.
package search

import (
	"github.com/pstuifzand/tui-listbind/internal/model"
)

// Filter returns a snapshot holding only the rows expr matches. Sections keep
// their keys, headers and footers so that the result diffs cleanly against
// the unfiltered snapshot. Sections left without rows are dropped unless
// keepEmpty is set. Rows that are not text rows are kept.
func Filter(snap model.Snapshot, expr FilterExpr, keepEmpty bool) model.Snapshot {
	out := make(model.Snapshot, 0, len(snap))
	for _, section := range snap {
		var rows []model.Row
		for _, row := range section.Rows {
			tr, ok := row.(*model.TextRow)
			if !ok || expr.Matches(tr) {
				rows = append(rows, row)
			}
		}
		if len(rows) == 0 && !keepEmpty {
			continue
		}
		filtered := *section
		filtered.Rows = rows
		out = append(out, &filtered)
	}
	return out
}

// FilterQuery parses query and filters snap with it
func FilterQuery(snap model.Snapshot, query string, keepEmpty bool) (model.Snapshot, error) {
	expr, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}
	return Filter(snap, expr, keepEmpty), nil
}
