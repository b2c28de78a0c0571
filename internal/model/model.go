// Package model contains the keyed row and section models bound to a list
package model

import (
	"fmt"
)

// Row is a single keyed row model
type Row interface {
	// Key is stable for the logical lifetime of the row
	Key() string
	// ContentEquals reports value equality; equal keys with unequal content mean an in-place update
	ContentEquals(other Row) bool
}

// HeaderFooter is a keyed header or footer model
type HeaderFooter interface {
	Key() string
	ContentEquals(other HeaderFooter) bool
}

// IndexPath addresses a row within a section
type IndexPath struct {
	Section int
	Row     int
}

// String returns the path as section:row
func (p IndexPath) String() string {
	return fmt.Sprintf("%d:%d", p.Section, p.Row)
}

// Path is shorthand for building an IndexPath
func Path(section, row int) IndexPath {
	return IndexPath{Section: section, Row: row}
}

// Section is an ordered group of rows with optional header and footer
type Section struct {
	ID     string
	Rows   []Row
	Header HeaderFooter
	Footer HeaderFooter
}

// NewSection creates a section with the given ID and rows
func NewSection(id string, rows ...Row) *Section {
	return &Section{ID: id, Rows: rows}
}

// Key returns the section identity
func (s *Section) Key() string {
	return s.ID
}

// RowKeys returns the ordered row key sequence
func (s *Section) RowKeys() []string {
	keys := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		keys[i] = row.Key()
	}
	return keys
}

// SameRowKeys reports whether both sections have an identical row key sequence
func (s *Section) SameRowKeys(other *Section) bool {
	if len(s.Rows) != len(other.Rows) {
		return false
	}
	for i := range s.Rows {
		if s.Rows[i].Key() != other.Rows[i].Key() {
			return false
		}
	}
	return true
}

// SameHeaderFooter reports whether header and footer are unchanged
func (s *Section) SameHeaderFooter(other *Section) bool {
	return headerFooterEqual(s.Header, other.Header) && headerFooterEqual(s.Footer, other.Footer)
}

// ContentEquals reports whether header, footer, row keys and row contents all match
func (s *Section) ContentEquals(other *Section) bool {
	if other == nil {
		return false
	}
	if !s.SameHeaderFooter(other) || !s.SameRowKeys(other) {
		return false
	}
	for i := range s.Rows {
		if !s.Rows[i].ContentEquals(other.Rows[i]) {
			return false
		}
	}
	return true
}

func headerFooterEqual(a, b HeaderFooter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key() && a.ContentEquals(b)
}
