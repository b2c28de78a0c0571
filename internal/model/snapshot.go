package model

import (
	"fmt"

	"github.com/pstuifzand/tui-listbind/internal/diff"
)

// Snapshot is the full, immutable section array handed to the binding layer
type Snapshot []*Section

// SingleSection wraps rows into a snapshot with one anonymous section
func SingleSection(rows []Row) Snapshot {
	return Snapshot{{ID: DefaultSectionID, Rows: rows}}
}

// DefaultSectionID is the section ID used by SingleSection
const DefaultSectionID = "default"

// SectionCount returns the number of sections
func (s Snapshot) SectionCount() int {
	return len(s)
}

// RowCount returns the number of rows in a section, or 0 if out of range
func (s Snapshot) RowCount(section int) int {
	if section < 0 || section >= len(s) {
		return 0
	}
	return len(s[section].Rows)
}

// Row returns the row at path
func (s Snapshot) Row(path IndexPath) (Row, bool) {
	if path.Section < 0 || path.Section >= len(s) {
		return nil, false
	}
	rows := s[path.Section].Rows
	if path.Row < 0 || path.Row >= len(rows) {
		return nil, false
	}
	return rows[path.Row], true
}

// PathOf returns the path of the row with key
func (s Snapshot) PathOf(key string) (IndexPath, bool) {
	for si, section := range s {
		for ri, row := range section.Rows {
			if row.Key() == key {
				return Path(si, ri), true
			}
		}
	}
	return IndexPath{}, false
}

// TotalRows returns the number of rows across all sections
func (s Snapshot) TotalRows() int {
	total := 0
	for _, section := range s {
		total += len(section.Rows)
	}
	return total
}

// Validate checks that section keys are unique and row keys are unique within
// each section. A repeated key is reported as a wrapped *diff.DuplicateKeyError.
func (s Snapshot) Validate() error {
	for i, section := range s {
		if section == nil {
			return fmt.Errorf("section %d is nil", i)
		}
	}
	if err := diff.UniqueKeys(s, "new"); err != nil {
		return fmt.Errorf("sections: %w", err)
	}
	for _, section := range s {
		if err := diff.UniqueKeys(section.Rows, "new"); err != nil {
			return fmt.Errorf("section %q rows: %w", section.ID, err)
		}
	}
	return nil
}
