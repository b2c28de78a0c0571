package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrReadOnly is returned when saving a store opened on a backup file
var ErrReadOnly = errors.New("document is read-only")

// JSONStore handles JSON file persistence. Stores opened on a backup file
// are read-only.
type JSONStore struct {
	FilePath string
	ReadOnly bool
}

// NewJSONStore creates a new JSON store for the given file path
func NewJSONStore(filePath string) *JSONStore {
	return &JSONStore{
		FilePath: filePath,
		ReadOnly: IsBackupFile(filePath),
	}
}

// Load loads a document from a JSON file. A missing file is an empty document.
func (s *JSONStore) Load() (*Document, error) {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDocument("Untitled"), nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON document and checks its keys are unique
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	for i, sd := range doc.Sections {
		if sd == nil {
			return nil, fmt.Errorf("section %d is null", i)
		}
		for j, row := range sd.Rows {
			if row == nil {
				return nil, fmt.Errorf("section %q: row %d is null", sd.ID, j)
			}
		}
	}
	if err := doc.Snapshot().Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return &doc, nil
}

// Save saves a document to a JSON file
func (s *JSONStore) Save(doc *Document) error {
	if s.ReadOnly {
		return fmt.Errorf("%s: %w", s.FilePath, ErrReadOnly)
	}
	dir := filepath.Dir(s.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(s.FilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FileExists checks if the document file exists
func (s *JSONStore) FileExists() bool {
	_, err := os.Stat(s.FilePath)
	return err == nil
}
