package installer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/giantswarm/dynamolocal/internal/fileutil"
)

// lockFileName is the name of the file lock created inside the install
// directory to serialize concurrent extractions into the same path.
const lockFileName = ".install.lock"

// Config holds the configuration for an Installer.
type Config struct {
	// InstallPath is the directory that receives the extracted archive.
	InstallPath string

	// DownloadURL is the archive source: an HTTP(S) URL, or a path to a
	// local archive file which takes precedence when it exists.
	DownloadURL string

	// EntryPoint is the archive member, relative to InstallPath, whose
	// presence marks the installation as complete (e.g. "DynamoDBLocal.jar").
	EntryPoint string

	// HTTPClient is used for archive downloads. Optional; the default
	// client does not follow redirects, per the download contract, and is
	// bounded by DownloadTimeout.
	HTTPClient *http.Client

	// DownloadTimeout bounds the archive download, including the body
	// read, when the default client is used. Zero means no client-side
	// limit. Ignored when HTTPClient is set.
	DownloadTimeout time.Duration

	// Logger (optional, defaults to slog.Default()).
	Logger *slog.Logger
}

// validate checks that all required Config fields are set.
func (c Config) validate() error {
	var errs []error

	if c.InstallPath == "" {
		errs = append(errs, errors.New("install path must not be empty"))
	}
	if c.DownloadURL == "" {
		errs = append(errs, errors.New("download URL must not be empty"))
	}
	if c.EntryPoint == "" {
		errs = append(errs, errors.New("entry point must not be empty"))
	}

	return errors.Join(errs...)
}

// Installer performs idempotent installation of the emulator archive.
type Installer struct {
	config Config
	client *http.Client
	log    *slog.Logger
}

// New creates an Installer with the given configuration. New performs no
// I/O; all side effects are deferred to EnsureInstalled. Returns an error if
// any required field is missing.
func New(cfg Config) (*Installer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid installer config: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = newNoRedirectClient(cfg.DownloadTimeout)
	}
	return &Installer{config: cfg, client: client, log: log}, nil
}

// EntryPointPath returns the absolute path of the installed entry point.
func (i *Installer) EntryPointPath() string {
	return filepath.Join(i.config.InstallPath, i.config.EntryPoint)
}

// IsInstalled reports whether the entry point already exists under the
// configured install path.
func (i *Installer) IsInstalled() bool {
	return fileutil.FileExists(i.EntryPointPath())
}

// EnsureInstalled makes sure the install path contains the extracted
// emulator runtime. No-op when the entry point is already present; otherwise
// it creates the install directory, acquires the install file lock, fetches
// the archive, and streams it through gzip and tar into the directory.
//
// All failure paths — directory creation, lock acquisition, download status,
// stream errors — propagate through the returned error. The context cancels
// lock acquisition and the download.
func (i *Installer) EnsureInstalled(ctx context.Context) error {
	if i.IsInstalled() {
		return nil
	}

	if err := fileutil.EnsureDir(i.config.InstallPath); err != nil {
		return fmt.Errorf("install: %w", err)
	}

	lock, err := acquireFileLock(ctx, filepath.Join(i.config.InstallPath, lockFileName))
	if err != nil {
		return fmt.Errorf("install: %w", err)
	}
	defer releaseFileLock(i.log, lock)

	// Another process may have completed the installation while this one
	// waited for the lock.
	if i.IsInstalled() {
		return nil
	}

	i.log.Info("installing emulator archive",
		"source", i.config.DownloadURL, "path", i.config.InstallPath)

	src, err := i.openSource(ctx)
	if err != nil {
		return fmt.Errorf("install: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			i.log.Warn("close archive source", "error", closeErr)
		}
	}()

	if err := extractTarGz(src, i.config.InstallPath); err != nil {
		return fmt.Errorf("install: %w", err)
	}

	if !i.IsInstalled() {
		return fmt.Errorf("install: archive did not contain %s", i.config.EntryPoint)
	}

	i.log.Info("installation complete", "path", i.config.InstallPath)
	return nil
}
