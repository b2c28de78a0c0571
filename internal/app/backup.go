package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/pstuifzand/tui-listbind/internal/storage"
)

// newSessionID names the backups written by this process
func newSessionID() string {
	return strings.ToLower(ulid.Make().String())
}

// restoreBackup steps back through the backups of the current file and
// replaces the document with the one before the last restored backup. The
// list animates the difference like any other edit.
func (a *App) restoreBackup() {
	if a.store.FilePath == "" || a.backups == nil {
		a.status.Error("No backups for this list")
		return
	}

	backups, err := a.backups.FindBackupsForFile(a.store.FilePath)
	if err != nil {
		a.status.Error("Failed to read backups: " + err.Error())
		return
	}

	// backups are sorted oldest first; the newest matches a clean document
	idx := len(backups) - 1
	if a.restoredFrom == "" && !a.dirty {
		idx--
	}
	for i, b := range backups {
		if b.FilePath == a.restoredFrom {
			idx = i - 1
			break
		}
	}
	if idx < 0 {
		a.status.Info("No older backups")
		return
	}

	backup := backups[idx]
	data, err := os.ReadFile(backup.FilePath)
	if err != nil {
		a.status.Error(fmt.Sprintf("Failed to read backup: %v", err))
		return
	}
	doc, err := storage.Parse(data)
	if err != nil {
		a.status.Error(fmt.Sprintf("Failed to parse backup: %v", err))
		return
	}
	doc.OriginalFilename = ""

	a.log.WithField("backup", backup.FilePath).Info("restoring backup")
	a.doc = doc
	a.restoredFrom = backup.FilePath
	a.list.ClearSelection()
	a.changed()
	a.status.Info(fmt.Sprintf("Restored backup from %s", backup.Timestamp.Format("2006-01-02 15:04:05")))
}
