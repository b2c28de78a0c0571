package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/storage"
)

func writeList(t *testing.T, name string, sections ...*storage.SectionData) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	doc := storage.NewDocument(name)
	doc.Sections = sections
	require.NoError(t, storage.NewJSONStore(path).Save(doc))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlanBetweenTwoLists(t *testing.T) {
	oldPath := writeList(t, "old.json", &storage.SectionData{ID: "a", Header: "A", Rows: []*model.TextRow{
		{ID: "1", Text: "one"},
		{ID: "2", Text: "two"},
	}})
	newPath := writeList(t, "new.json", &storage.SectionData{ID: "a", Header: "A", Rows: []*model.TextRow{
		{ID: "2", Text: "two"},
		{ID: "1", Text: "ONE"},
	}})

	out, err := execute(t, oldPath, newPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Sections:")
	assert.Contains(t, out, `Section "a" (0 -> 0):`)
	assert.Contains(t, out, "=== Summary ===")

	out, err = execute(t, "--summary", oldPath, newPath)
	require.NoError(t, err)
	assert.Contains(t, out, "sections: 0 inserted, 0 deleted, 0 moved, 1 replaced")
	assert.Contains(t, out, "0 section reloads")
}

func TestPlanWithFilter(t *testing.T) {
	path := writeList(t, "list.json",
		&storage.SectionData{ID: "a", Rows: []*model.TextRow{
			{ID: "1", Text: "milk", Tags: []string{"cold"}},
			{ID: "2", Text: "bread"},
		}},
		&storage.SectionData{ID: "b", Rows: []*model.TextRow{
			{ID: "3", Text: "buns"},
		}},
	)

	out, err := execute(t, "-s", "--filter", "#cold", path)
	require.NoError(t, err)
	assert.Contains(t, out, "sections: 0 inserted, 1 deleted")
	assert.Contains(t, out, "rows: 0 inserted, 1 deleted")
}

func TestPlanErrors(t *testing.T) {
	path := writeList(t, "list.json", &storage.SectionData{ID: "a"})

	_, err := execute(t, path)
	assert.EqualError(t, err, "need a second list or --filter")

	_, err = execute(t, path, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = execute(t, "--filter", "(", path)
	assert.ErrorContains(t, err, "filter:")

	_, err = execute(t)
	assert.Error(t, err)
}
