package backup

import (
	"os"
	"path/filepath"
	"testing"
)

func writeJSONStore(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "weekwise.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write store: %v", err)
	}
	return path
}

func TestManager_CreateAndListBackups(t *testing.T) {
	dir := t.TempDir()
	store := writeJSONStore(t, dir, `{"version": 1, "sessions": {}}`)
	m := NewManager(store)

	path, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(path) != m.GetBackupDir() {
		t.Errorf("Expected backup under %s, got %s", m.GetBackupDir(), path)
	}

	backups, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("Expected 1 backup, got %d", len(backups))
	}
	if backups[0].Size == 0 {
		t.Error("Expected a non-empty backup file")
	}
}

func TestManager_CreateBackupRejectsMissingStore(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.json"))

	if _, err := m.CreateBackup(); err == nil {
		t.Error("Expected an error for a missing store file")
	}
}

func TestManager_CreateBackupRejectsCorruptJSON(t *testing.T) {
	dir := t.TempDir()
	store := writeJSONStore(t, dir, "not json at all")
	m := NewManager(store)

	if _, err := m.CreateBackup(); err == nil {
		t.Error("Expected an error for a corrupt store file")
	}
}

func TestManager_RestoreBackup(t *testing.T) {
	dir := t.TempDir()
	store := writeJSONStore(t, dir, `{"version": 1}`)
	m := NewManager(store)

	backupPath, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	// Overwrite the live store, then restore the backup over it
	if err := os.WriteFile(store, []byte(`{"version": 2}`), 0600); err != nil {
		t.Fatalf("failed to overwrite store: %v", err)
	}
	if err := m.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	data, err := os.ReadFile(store)
	if err != nil {
		t.Fatalf("failed to read store: %v", err)
	}
	if string(data) != `{"version": 1}` {
		t.Errorf("Expected the original content back, got %s", data)
	}
}

func TestManager_ListBackupsEmptyDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "weekwise.json"))

	backups, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("Expected no backups, got %d", len(backups))
	}
}
