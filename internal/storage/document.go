package storage

import (
	"fmt"

	"github.com/pstuifzand/tui-listbind/internal/model"
)

// Document is a list stored on disk
type Document struct {
	Title            string         `json:"title"`
	Sections         []*SectionData `json:"sections"`
	OriginalFilename string         `json:"original_filename,omitempty"`
}

// SectionData is one stored section. Empty Header and Footer mean none.
type SectionData struct {
	ID     string           `json:"id"`
	Header string           `json:"header,omitempty"`
	Footer string           `json:"footer,omitempty"`
	Rows   []*model.TextRow `json:"rows"`
}

// NewDocument creates an empty document
func NewDocument(title string) *Document {
	return &Document{Title: title}
}

// Snapshot converts the document into sections for a list
func (d *Document) Snapshot() model.Snapshot {
	snap := make(model.Snapshot, 0, len(d.Sections))
	for _, sd := range d.Sections {
		rows := make([]model.Row, len(sd.Rows))
		for i, r := range sd.Rows {
			rows[i] = r
		}
		section := model.NewSection(sd.ID, rows...)
		if sd.Header != "" {
			section.Header = model.NewTitle(sd.ID+":header", sd.Header)
		}
		if sd.Footer != "" {
			section.Footer = model.NewTitle(sd.ID+":footer", sd.Footer)
		}
		snap = append(snap, section)
	}
	return snap
}

// FromSnapshot builds a document from sections holding text rows with
// optional title headers and footers
func FromSnapshot(title string, snap model.Snapshot) (*Document, error) {
	doc := NewDocument(title)
	for _, section := range snap {
		sd := &SectionData{ID: section.ID}
		if t, ok := section.Header.(*model.TitleHeaderFooter); ok {
			sd.Header = t.Title
		}
		if t, ok := section.Footer.(*model.TitleHeaderFooter); ok {
			sd.Footer = t.Title
		}
		for _, row := range section.Rows {
			tr, ok := row.(*model.TextRow)
			if !ok {
				return nil, fmt.Errorf("section %q: row %q is %T, not a text row", section.ID, row.Key(), row)
			}
			sd.Rows = append(sd.Rows, tr)
		}
		doc.Sections = append(doc.Sections, sd)
	}
	return doc, nil
}
