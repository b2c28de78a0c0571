package history

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// DefaultSize is the number of entries kept per history
const DefaultSize = 50

// Manager handles loading and saving history to TOML files
type Manager struct {
	historyDir string
}

// HistoryFile represents the structure of a history TOML file
type HistoryFile struct {
	Entries []string `toml:"entries"`
}

// NewManager creates a history manager storing files in dir, or in
// ~/.local/share/tui-listbind/history when dir is empty
func NewManager(dir string) (*Manager, error) {
	historyDir := dir
	if historyDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		historyDir = filepath.Join(homeDir, ".local", "share", "tui-listbind", "history")
	}

	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return nil, err
	}

	return &Manager{
		historyDir: historyDir,
	}, nil
}

// Load loads history entries from a TOML file
func (m *Manager) Load(filename string) ([]string, error) {
	filePath := filepath.Join(m.historyDir, filename)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var histFile HistoryFile
	if err := toml.Unmarshal(data, &histFile); err != nil {
		// a corrupted file starts a new history
		return []string{}, nil
	}

	return histFile.Entries, nil
}

// Save saves history entries to a TOML file
func (m *Manager) Save(filename string, entries []string) error {
	filePath := filepath.Join(m.historyDir, filename)

	data, err := toml.Marshal(HistoryFile{Entries: entries})
	if err != nil {
		return err
	}

	return os.WriteFile(filePath, data, 0644)
}

// History is an in-memory list of entries, oldest first, with a browsing
// position used by prompts
type History struct {
	entries []string
	max     int
	pos     int
}

// New creates a history holding at most size entries
func New(entries []string, size int) *History {
	if size <= 0 {
		size = DefaultSize
	}
	h := &History{max: size}
	for _, e := range entries {
		h.Add(e)
	}
	return h
}

// Add appends entry, moving an existing copy to the end, and resets browsing
func (h *History) Add(entry string) {
	if entry == "" {
		h.Reset()
		return
	}
	h.entries = slices.DeleteFunc(h.entries, func(e string) bool { return e == entry })
	h.entries = append(h.entries, entry)
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = h.entries[over:]
	}
	h.Reset()
}

// Entries returns the entries, oldest first
func (h *History) Entries() []string {
	return slices.Clone(h.entries)
}

// Reset moves the browsing position past the newest entry
func (h *History) Reset() {
	h.pos = len(h.entries)
}

// Previous steps back to an older entry
func (h *History) Previous() (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Next steps forward to a newer entry. Stepping past the newest returns an
// empty string.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return "", true
	}
	return h.entries[h.pos], true
}
