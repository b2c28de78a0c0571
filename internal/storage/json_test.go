package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listbind/internal/diff"
	"github.com/pstuifzand/tui-listbind/internal/model"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "list.json")
	store := NewJSONStore(path)
	assert.False(t, store.FileExists())

	require.NoError(t, store.Save(sampleDocument()))
	assert.True(t, store.FileExists())

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Groceries", doc.Title)

	snap := doc.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "fruit", snap[0].ID)
	assert.Equal(t, "Fruit", snap[0].Header.(*model.TitleHeaderFooter).Title)
	assert.Nil(t, snap[0].Footer)
	assert.Equal(t, "apple", snap[0].Rows[0].Key())
}

func TestLoadMissingFile(t *testing.T) {
	doc, err := NewJSONStore(filepath.Join(t.TempDir(), "missing.json")).Load()
	require.NoError(t, err)
	assert.Equal(t, "Untitled", doc.Title)
	assert.Empty(t, doc.Snapshot())
}

func TestParseRejectsDuplicatesAndNulls(t *testing.T) {
	tests := map[string]string{
		"duplicate rows":     `{"sections":[{"id":"s","rows":[{"id":"a"},{"id":"a"}]}]}`,
		"duplicate sections": `{"sections":[{"id":"s","rows":[]},{"id":"s","rows":[]}]}`,
		"null section":       `{"sections":[null]}`,
		"null row":           `{"sections":[{"id":"s","rows":[null]}]}`,
		"not json":           `{`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestParseDuplicateIsDuplicateKeyError(t *testing.T) {
	_, err := Parse([]byte(`{"sections":[{"id":"s","rows":[{"id":"a"},{"id":"b"},{"id":"a"}]}]}`))

	var dup *diff.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Key)
	assert.Equal(t, 0, dup.First)
	assert.Equal(t, 2, dup.Second)
}

func TestFromSnapshot(t *testing.T) {
	section := model.NewSection("s", &model.TextRow{ID: "a", Text: "A"})
	section.Footer = model.NewTitle("f", "done")

	doc, err := FromSnapshot("t", model.Snapshot{section})
	require.NoError(t, err)
	assert.Equal(t, "done", doc.Sections[0].Footer)
	assert.Equal(t, "", doc.Sections[0].Header)

	back := doc.Snapshot()
	assert.True(t, back[0].Rows[0].ContentEquals(section.Rows[0]))
}

type otherRow struct{}

func (otherRow) Key() string                  { return "o" }
func (otherRow) ContentEquals(model.Row) bool { return true }

func TestFromSnapshotRejectsForeignRows(t *testing.T) {
	_, err := FromSnapshot("t", model.Snapshot{model.NewSection("s", otherRow{})})
	assert.ErrorContains(t, err, "not a text row")
}

func TestSaveReadOnly(t *testing.T) {
	store := &JSONStore{FilePath: filepath.Join(t.TempDir(), "x.json"), ReadOnly: true}
	err := store.Save(sampleDocument())
	assert.True(t, errors.Is(err, ErrReadOnly))
	_, statErr := os.Stat(store.FilePath)
	assert.True(t, os.IsNotExist(statErr))
}
