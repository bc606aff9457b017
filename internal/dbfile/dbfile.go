package dbfile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/giantswarm/dynamolocal/internal/sentinel"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"
)

// ErrDatabaseCorrupt is returned by CheckIntegrity when a database file
// fails SQLite's quick integrity check.
const ErrDatabaseCorrupt = sentinel.Error("database file failed integrity check")

// Databases returns the paths of the SQLite database files present directly
// inside dir. The emulator names its files <accessKey>_<region>.db, or
// shared-local-instance.db in shared mode; matching on the extension covers
// both. A missing directory yields an empty list.
func Databases(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.db"))
	if err != nil {
		return nil, fmt.Errorf("list database files in %s: %w", dir, err)
	}
	return matches, nil
}

// CheckIntegrity runs PRAGMA quick_check against every database file in dir.
// Returns ErrDatabaseCorrupt (wrapped with the file path) on the first file
// that fails the check. A directory without database files passes.
func CheckIntegrity(ctx context.Context, dir string) error {
	paths, err := Databases(dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := checkOne(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// checkOne opens a single database read-only and runs the quick check.
func checkOne(ctx context.Context, path string) error {
	// immutable is deliberately not set: a WAL file from an unclean
	// shutdown must be replayed for the check to see consistent data.
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close() //nolint:errcheck // read-only session; close errors carry no signal

	// Single connection, short-lived session rather than a pool.
	db.SetMaxOpenConns(1)

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		return fmt.Errorf("quick_check %s: %w", path, err)
	}
	if result != "ok" {
		return fmt.Errorf("%s: %w: %s", path, ErrDatabaseCorrupt, result)
	}
	return nil
}

// RemoveDatabases deletes every database file in dir together with its
// companion WAL and SHM files. Missing files are silently ignored, so a
// fresh directory is a no-op.
func RemoveDatabases(dir string) error {
	paths, err := Databases(dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		for _, p := range []string{path, path + "-wal", path + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}
	}
	return nil
}
