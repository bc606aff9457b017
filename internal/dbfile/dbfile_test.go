package dbfile

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// createDatabase creates a valid SQLite database file with one table.
func createDatabase(tb testing.TB, path string) {
	tb.Helper()

	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		tb.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)"); err != nil {
		tb.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO t (v) VALUES ('row')"); err != nil {
		tb.Fatalf("insert row: %v", err)
	}
}

func TestDatabases(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createDatabase(t, filepath.Join(dir, "shared-local-instance.db"))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := Databases(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("found %d database files, want 1", len(paths))
	}
}

func TestDatabases_MissingDir(t *testing.T) {
	t.Parallel()

	paths, err := Databases(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("found %d database files in missing dir, want 0", len(paths))
	}
}

func TestCheckIntegrity_HealthyDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createDatabase(t, filepath.Join(dir, "shared-local-instance.db"))

	if err := CheckIntegrity(context.Background(), dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckIntegrity_EmptyDirPasses(t *testing.T) {
	t.Parallel()

	if err := CheckIntegrity(context.Background(), t.TempDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckIntegrity_NotADatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "garbage.db"), []byte("not sqlite at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CheckIntegrity(context.Background(), dir); err == nil {
		t.Fatal("expected error for a non-database .db file")
	}
}

func TestRemoveDatabases(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shared-local-instance.db")
	createDatabase(t, dbPath)
	// Companion files from an unclean shutdown.
	if err := os.WriteFile(dbPath+"-wal", []byte("wal"), 0o644); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RemoveDatabases(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dbPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("database file should be removed")
	}
	if _, err := os.Stat(dbPath + "-wal"); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("WAL file should be removed")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatal("non-database files must be preserved")
	}
}

func TestRemoveDatabases_EmptyDirIsNoop(t *testing.T) {
	t.Parallel()

	if err := RemoveDatabases(t.TempDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
