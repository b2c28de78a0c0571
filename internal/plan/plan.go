// Package plan builds two-level reconciliation plans: a section-level edit
// script, plus a nested row-level script for every section whose identity
// survived but whose content changed.
package plan

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/pstuifzand/tui-listbind/internal/diff"
	"github.com/pstuifzand/tui-listbind/internal/model"
)

// SectionChange describes a section that kept its identity but changed content
type SectionChange struct {
	Key        string
	Section    int // index in the old snapshot; nested row edits are relative to it
	NewSection int // index in the new snapshot
	Old        *model.Section
	New        *model.Section

	// Rows is the nested row script. Nil when only the header or footer changed.
	Rows []diff.Edit[model.Row]

	// ReloadSection asks for a full section reload after the batch completes.
	// Set when the header or footer changed.
	ReloadSection bool
}

// HasRows reports whether the change carries a nested row plan
func (c SectionChange) HasRows() bool {
	return c.Rows != nil
}

// Plan is a complete reconciliation plan between two snapshots
type Plan struct {
	Sections []diff.Edit[*model.Section]
	Changes  []SectionChange
}

// Build diffs two snapshots at section granularity and recurses into the rows
// of every replaced section.
func Build(prev, next model.Snapshot) (*Plan, error) {
	sections, err := diff.Diff(prev, next)
	if err != nil {
		return nil, fmt.Errorf("sections: %w", err)
	}

	p := &Plan{Sections: sections}
	for _, e := range sections {
		if e.Op != diff.OpReplace {
			continue
		}
		change := SectionChange{
			Key:        e.Item.ID,
			Section:    e.From,
			NewSection: e.To,
			Old:        e.Old,
			New:        e.Item,
		}
		headerFooterChanged := !e.Old.SameHeaderFooter(e.Item)
		sameKeys := e.Old.SameRowKeys(e.Item)

		if headerFooterChanged {
			change.ReloadSection = true
		}
		if !sameKeys || !headerFooterChanged {
			rows, err := diff.Diff(e.Old.Rows, e.Item.Rows)
			if err != nil {
				return nil, fmt.Errorf("section %q rows: %w", e.Item.ID, err)
			}
			change.Rows = rows
		}
		p.Changes = append(p.Changes, change)
	}
	return p, nil
}

// Empty reports whether applying the plan would change nothing
func (p *Plan) Empty() bool {
	return p == nil || len(p.Sections) == 0
}

// SectionCounts tallies the section-level script
func (p *Plan) SectionCounts() diff.Counts {
	return diff.Count(p.Sections)
}

// RowCounts tallies every nested row script
func (p *Plan) RowCounts() diff.Counts {
	var c diff.Counts
	for _, change := range p.Changes {
		c = c.Add(diff.Count(change.Rows))
	}
	return c
}

// Reloads returns the new indices of sections that need a deferred full reload
func (p *Plan) Reloads() []int {
	var out []int
	for _, change := range p.Changes {
		if change.ReloadSection {
			out = append(out, change.NewSection)
		}
	}
	return out
}

// Summary returns a one-line description for logs and status lines
func (p *Plan) Summary() string {
	if p.Empty() {
		return "no changes"
	}
	return fmt.Sprintf("sections: %s; rows: %s; %d section reloads",
		p.SectionCounts(), p.RowCounts(), len(p.Reloads()))
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump returns a deep, human-readable dump of the plan for debug logging
func (p *Plan) Dump() string {
	return dumper.Sdump(p)
}
