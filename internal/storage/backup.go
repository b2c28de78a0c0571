package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Backups are named <stamp>_<session>.lbd, e.g. 20250102_030405_01jc5q.lbd.
const (
	backupExt    = ".lbd"
	backupLayout = "20060102_150405"
)

// BackupManager keeps timestamped copies of lists in one directory
type BackupManager struct {
	dir string
}

// BackupMetadata describes one backup file
type BackupMetadata struct {
	FilePath     string
	Timestamp    time.Time
	SessionID    string
	OriginalFile string // absolute path of the list the backup was taken from
}

// NewBackupManager uses dir, or GetBackupDir() when dir is empty. The
// directory is created if needed.
func NewBackupManager(dir string) (*BackupManager, error) {
	if dir == "" {
		dir = getBackupDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}
	return &BackupManager{dir: dir}, nil
}

// CreateBackup writes doc, tagged with the absolute form of originalPath,
// and returns the backup's path. doc is left untouched.
func (bm *BackupManager) CreateBackup(doc *Document, originalPath string, sessionID string) (string, error) {
	copied := *doc
	copied.OriginalFilename = absClean(originalPath)

	data, err := json.MarshalIndent(&copied, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	path := filepath.Join(bm.dir, generateBackupFilename(time.Now(), sessionID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// FindBackupsForFile lists the backups taken from originalPath, oldest
// first. An empty originalPath lists every backup. Files that do not look
// like backups are ignored.
func (bm *BackupManager) FindBackupsForFile(originalPath string) ([]BackupMetadata, error) {
	entries, err := os.ReadDir(bm.dir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}
	want := absClean(originalPath)

	var found []BackupMetadata
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		meta, ok := readBackupMetadata(filepath.Join(bm.dir, entry.Name()))
		if !ok || (want != "" && filepath.Clean(meta.OriginalFile) != want) {
			continue
		}
		found = append(found, meta)
	}
	slices.SortFunc(found, func(a, b BackupMetadata) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return found, nil
}

// IsBackupFile reports whether path names a backup in the default backup
// directory. Such files are opened read-only.
func IsBackupFile(path string) bool {
	if path == "" || filepath.Ext(path) != backupExt {
		return false
	}
	return filepath.Dir(absClean(path)) == getBackupDir()
}

// GetBackupDir returns the default backup directory
func GetBackupDir() string {
	return getBackupDir()
}

func getBackupDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "tui-listbind", "backups")
	}
	return filepath.Join(os.TempDir(), ".tui-listbind", "backups")
}

func generateBackupFilename(at time.Time, sessionID string) string {
	return at.Format(backupLayout) + "_" + sessionID + backupExt
}

// readBackupMetadata parses the file name and peeks at the stored
// original_filename. Unreadable contents leave OriginalFile empty.
func readBackupMetadata(path string) (BackupMetadata, bool) {
	name, ok := strings.CutSuffix(filepath.Base(path), backupExt)
	if !ok || len(name) <= len(backupLayout)+1 || name[len(backupLayout)] != '_' {
		return BackupMetadata{}, false
	}
	stamp, err := time.ParseInLocation(backupLayout, name[:len(backupLayout)], time.Local)
	if err != nil {
		return BackupMetadata{}, false
	}

	meta := BackupMetadata{
		FilePath:  path,
		Timestamp: stamp,
		SessionID: name[len(backupLayout)+1:],
	}
	if data, err := os.ReadFile(path); err == nil {
		var header struct {
			OriginalFilename string `json:"original_filename"`
		}
		if json.Unmarshal(data, &header) == nil {
			meta.OriginalFile = header.OriginalFilename
		}
	}
	return meta, true
}

func absClean(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
