// ABOUTME: Tests for Repository interface implementations.
// ABOUTME: Runs the same load/save contract against SQLite, badger, and file backends.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type backendFactory struct {
	name string
	open func(t *testing.T) Repository
}

func backends() []backendFactory {
	return []backendFactory{
		{"sqlite", func(t *testing.T) Repository { return setupTestDB(t) }},
		{"kv", func(t *testing.T) Repository {
			s, err := OpenKV(filepath.Join(t.TempDir(), "kv"))
			if err != nil {
				t.Fatalf("OpenKV failed: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
		{"file", func(t *testing.T) Repository {
			s, err := NewFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("NewFileStore failed: %v", err)
			}
			return s
		}},
	}
}

func TestLoadEmpty(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repo := b.open(t)
			_, err := repo.Load()
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repo := b.open(t)

			if err := repo.Save([]byte(`{"version":1}`)); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if err := repo.Save([]byte(`{"version":2}`)); err != nil {
				t.Fatalf("second Save failed: %v", err)
			}

			got, err := repo.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if string(got) != `{"version":2}` {
				t.Errorf("Load() = %s, want latest blob", got)
			}
		})
	}
}

func TestSQLiteReopenKeepsState(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nexusfit.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := db.Save([]byte("persisted")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("Load() = %q", got)
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("database permissions = %o, want 600", info.Mode().Perm())
	}
}

func TestSQLiteBackups(t *testing.T) {
	db := setupTestDB(t)
	db.SetKeepRevisions(2)

	for _, blob := range []string{"a", "b", "c", "d"} {
		if err := db.Save([]byte(blob)); err != nil {
			t.Fatalf("Save(%s) failed: %v", blob, err)
		}
	}

	revs, err := db.Backups(0)
	if err != nil {
		t.Fatalf("Backups failed: %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("Expected 2 revisions, got %d", len(revs))
	}
	if string(revs[0].Data) != "c" || string(revs[1].Data) != "b" {
		t.Errorf("revisions = %q, %q; want c, b", revs[0].Data, revs[1].Data)
	}
	if revs[0].SavedAt.IsZero() {
		t.Error("expected SavedAt to be parsed")
	}

	limited, err := db.Backups(1)
	if err != nil {
		t.Fatalf("Backups(1) failed: %v", err)
	}
	if len(limited) != 1 || string(limited[0].Data) != "c" {
		t.Errorf("Backups(1) = %+v", limited)
	}
}

func TestSQLiteNoRevisions(t *testing.T) {
	db := setupTestDB(t)
	db.SetKeepRevisions(0)

	_ = db.Save([]byte("a"))
	_ = db.Save([]byte("b"))

	revs, err := db.Backups(0)
	if err != nil {
		t.Fatalf("Backups failed: %v", err)
	}
	if len(revs) != 0 {
		t.Errorf("Expected no revisions, got %d", len(revs))
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Save([]byte("{}")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != StateKey+".json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v", names)
	}
}

// setupTestDB creates a temporary SQLite database for testing.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "nexusfit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "nexusfit.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
