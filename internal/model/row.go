package model

import (
	"maps"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
)

// TextRow is a plain text row with tags and attributes
type TextRow struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Tags       []string          `json:"tags,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Created    time.Time         `json:"created"`
	Modified   time.Time         `json:"modified"`
}

// NewTextRow creates a new row with a generated key
func NewTextRow(text string) *TextRow {
	now := time.Now()
	return &TextRow{
		ID:         NewKey(),
		Text:       text,
		Attributes: make(map[string]string),
		Created:    now,
		Modified:   now,
	}
}

// NewKey generates a new sortable, unique row key
func NewKey() string {
	return "row_" + ulid.Make().String()
}

// Key implements Row
func (r *TextRow) Key() string {
	return r.ID
}

// ContentEquals compares text, tags and attributes. Timestamps are ignored.
func (r *TextRow) ContentEquals(other Row) bool {
	o, ok := other.(*TextRow)
	if !ok || o == nil {
		return false
	}
	if r.Text != o.Text || !slices.Equal(r.Tags, o.Tags) {
		return false
	}
	return maps.Equal(r.Attributes, o.Attributes)
}

// WithText returns a copy of the row with new text and a fresh modified time
func (r *TextRow) WithText(text string) *TextRow {
	c := r.clone()
	c.Text = text
	c.Modified = time.Now()
	return c
}

// WithAttribute returns a copy of the row with the attribute set
func (r *TextRow) WithAttribute(key, value string) *TextRow {
	c := r.clone()
	c.Attributes[key] = value
	c.Modified = time.Now()
	return c
}

func (r *TextRow) clone() *TextRow {
	c := *r
	c.Tags = slices.Clone(r.Tags)
	c.Attributes = make(map[string]string, len(r.Attributes))
	maps.Copy(c.Attributes, r.Attributes)
	return &c
}
