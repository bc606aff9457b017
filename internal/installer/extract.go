package installer

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/giantswarm/dynamolocal/internal/fileutil"
)

// ErrUnsafeArchivePath is returned when a tar member would resolve outside
// the destination directory.
var ErrUnsafeArchivePath = errors.New("archive member escapes destination directory")

// extractTarGz streams a gzip-compressed tar archive into dest. The archive
// is never buffered in full; each member is written as it is read.
//
// Member paths are confined to dest: absolute paths and ".." traversal are
// rejected. Regular files, directories and symlinks are extracted; other
// member types (devices, FIFOs) are skipped.
func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close() //nolint:errcheck // read-side close; errors already surfaced by tar reads

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar stream: %w", err)
		}

		target, err := securePath(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fileutil.EnsureDir(target); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := writeSymlink(dest, target, hdr.Linkname); err != nil {
				return err
			}
		default:
			// Devices, FIFOs and hard links do not occur in the emulator
			// distribution; skip rather than fail on exotic members.
		}
	}
}

// securePath joins name onto dest and verifies the result stays inside dest.
func securePath(dest, name string) (string, error) {
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeArchivePath, name)
	}
	return filepath.Join(dest, cleaned), nil
}

// writeFile writes one regular archive member to target, creating parent
// directories as needed.
func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := fileutil.EnsureDirForFile(target); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		return fmt.Errorf("write %s: %w", target, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", target, closeErr)
	}
	return nil
}

// writeSymlink creates a symlink at target pointing to linkname, rejecting
// link targets that resolve outside dest. The emulator archive links shared
// library versions within its native-library directory.
func writeSymlink(dest, target, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("%w: symlink %s -> %s", ErrUnsafeArchivePath, target, linkname)
	}
	resolved := filepath.Clean(filepath.Join(filepath.Dir(target), linkname))
	base := filepath.Clean(dest)
	if resolved != base && !strings.HasPrefix(resolved, base+string(filepath.Separator)) {
		return fmt.Errorf("%w: symlink %s -> %s", ErrUnsafeArchivePath, target, linkname)
	}
	if err := fileutil.EnsureDirForFile(target); err != nil {
		return err
	}
	// Re-extraction over an existing link would otherwise fail with EEXIST.
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("replace symlink %s: %w", target, err)
	}
	if err := os.Symlink(linkname, target); err != nil {
		return fmt.Errorf("create symlink %s: %w", target, err)
	}
	return nil
}
