package plan

import (
	"fmt"

	"github.com/pstuifzand/tui-listbind/internal/diff"
	"github.com/pstuifzand/tui-listbind/internal/model"
)

// Lines renders the plan as display lines: the section script, then one block
// per changed section with its nested row script.
func (p *Plan) Lines() []diff.DiffLine {
	if p.Empty() {
		return []diff.DiffLine{{Type: diff.DiffTypeSummary, Content: "No changes"}}
	}

	lines := []diff.DiffLine{{Type: diff.DiffTypeHeader, Content: "Sections:"}}
	lines = append(lines, diff.BuildLines(p.Sections, 1, DescribeSection)...)

	for _, change := range p.Changes {
		lines = append(lines, diff.DiffLine{Type: diff.DiffTypeBlank})
		lines = append(lines, diff.DiffLine{
			Type:    diff.DiffTypeHeader,
			Content: fmt.Sprintf("Section %q (%d -> %d):", change.Key, change.Section, change.NewSection),
		})
		if change.ReloadSection {
			lines = append(lines, diff.DiffLine{Type: diff.DiffTypeDetail, Indent: 1, Content: "reload section"})
		}
		if change.HasRows() {
			lines = append(lines, diff.BuildLines(change.Rows, 1, DescribeRow)...)
		}
	}

	lines = append(lines,
		diff.DiffLine{Type: diff.DiffTypeBlank},
		diff.DiffLine{Type: diff.DiffTypeSummary, Content: "=== Summary ==="},
		diff.DiffLine{Type: diff.DiffTypeSummary, Indent: 1, Content: "sections: " + p.SectionCounts().String()},
		diff.DiffLine{Type: diff.DiffTypeSummary, Indent: 1, Content: "rows: " + p.RowCounts().String()},
	)
	return lines
}

// DescribeRow renders a row for display
func DescribeRow(row model.Row) string {
	switch r := row.(type) {
	case *model.TextRow:
		return fmt.Sprintf("%s: %s", r.ID, r.Text)
	case fmt.Stringer:
		return r.String()
	default:
		return row.Key()
	}
}

// DescribeSection renders a section for display
func DescribeSection(s *model.Section) string {
	if title, ok := s.Header.(*model.TitleHeaderFooter); ok {
		return fmt.Sprintf("%s: %s (%d rows)", s.ID, title.Title, len(s.Rows))
	}
	return fmt.Sprintf("%s (%d rows)", s.ID, len(s.Rows))
}
