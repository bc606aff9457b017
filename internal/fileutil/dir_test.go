package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directories", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		target := filepath.Join(base, "a", "b", "c")
		if err := EnsureDir(target); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		info, err := os.Stat(target)
		if err != nil {
			t.Fatalf("stat created dir: %v", err)
		}
		if !info.IsDir() {
			t.Fatal("expected a directory")
		}
	})

	t.Run("existing directory is a no-op", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		if err := EnsureDir(base); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("file in the way returns error", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		blocker := filepath.Join(base, "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := EnsureDir(filepath.Join(blocker, "child")); err == nil {
			t.Fatal("expected error when a file blocks the path")
		}
	})
}

func TestEnsureDirForFile(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	file := filepath.Join(base, "sub", "file.txt")
	if err := EnsureDirForFile(file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write into ensured dir: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	file := filepath.Join(base, "present")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct {
		path string
		want bool
	}{
		"regular file":  {path: file, want: true},
		"missing file":  {path: filepath.Join(base, "absent"), want: false},
		"directory":     {path: base, want: false},
		"empty path":    {path: "", want: false},
		"nested absent": {path: filepath.Join(base, "a", "b"), want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := FileExists(tc.path); got != tc.want {
				t.Errorf("FileExists(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}
