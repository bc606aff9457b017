package core

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ManagerConfig holds configuration for Manager instances.
//
// Concurrency contract: all fields are immutable after construction via
// NewManagerWithConfig. Launch goroutines read JavaBinary, InstallPath and
// the timeouts without synchronization, relying on this guarantee.
type ManagerConfig struct {
	// InstallPath is the directory holding (or receiving) the extracted
	// emulator runtime. It is also the working directory of every launched
	// process.
	InstallPath string

	// DownloadURL is the archive source for Install: an HTTP(S) URL, or a
	// path to a local archive file which takes precedence when it exists.
	DownloadURL string

	// JavaBinary is the Java runtime used to launch the emulator, as a
	// path or a name resolved through PATH.
	JavaBinary string

	// StopTimeout bounds each stop operation: the wait for process exit
	// after the termination signal. Default: 10 seconds.
	StopTimeout time.Duration

	// ReadyTimeout bounds Instance.WaitReady's TCP poll.
	// Default: 1 minute.
	ReadyTimeout time.Duration

	// InstallTimeout bounds the whole Install operation, including file
	// lock acquisition and extraction. Default: 5 minutes.
	InstallTimeout time.Duration

	// DownloadTimeout bounds the archive download within Install.
	// Default: 5 minutes.
	DownloadTimeout time.Duration

	// Logger is the manager-scoped logger. Optional; nil falls back to the
	// package-level logger (see SetLogger).
	Logger *slog.Logger

	// Metrics receives lifecycle observations. Optional; nil disables
	// metrics via NoopMetrics.
	Metrics MetricsCollector
}

// Validate checks all ManagerConfig invariants and returns an error
// describing every violation found. It uses errors.Join to report multiple
// issues at once, allowing callers to fix all problems in a single pass.
//
// Validate is called by NewManagerWithConfig, which panics on error since
// invalid configuration is a programmer error.
func (c ManagerConfig) Validate() error {
	var errs []error

	if c.InstallPath == "" {
		errs = append(errs, errors.New("install path must not be empty"))
	}
	if c.DownloadURL == "" {
		errs = append(errs, errors.New("download URL must not be empty"))
	}
	if c.JavaBinary == "" {
		errs = append(errs, errors.New("java binary must not be empty"))
	}
	if c.StopTimeout <= 0 {
		errs = append(errs, fmt.Errorf("stop timeout must be greater than 0, got %s", c.StopTimeout))
	}
	if c.ReadyTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ready timeout must be greater than 0, got %s", c.ReadyTimeout))
	}
	if c.InstallTimeout <= 0 {
		errs = append(errs, fmt.Errorf("install timeout must be greater than 0, got %s", c.InstallTimeout))
	}
	if c.DownloadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("download timeout must be greater than 0, got %s", c.DownloadTimeout))
	}

	return errors.Join(errs...)
}

// LaunchConfig holds the per-launch settings accumulated from launch options.
// The zero value launches an in-memory emulator with default stdio.
type LaunchConfig struct {
	// DBPath enables persistence to the given directory; empty runs the
	// emulator in memory.
	DBPath string

	// JavaOptions are extra JVM options, inserted before -jar.
	JavaOptions []string

	// ExtraArgs are extra emulator arguments, appended last.
	ExtraArgs []string

	// Detached launches the process so it survives the host exiting, and
	// excludes it from Close.
	Detached bool

	// LogDir redirects the child's stdout and stderr to per-instance log
	// files in the given directory.
	LogDir string

	// FreshDatabase removes stale database files under DBPath before the
	// launch. Requires DBPath.
	FreshDatabase bool

	// IntegrityCheck verifies existing database files under DBPath before
	// the launch. Requires DBPath.
	IntegrityCheck bool
}

// Validate checks the LaunchConfig invariants.
func (c LaunchConfig) Validate() error {
	var errs []error

	if c.DBPath == "" && c.FreshDatabase {
		errs = append(errs, errors.New("fresh-database requires a db path"))
	}
	if c.DBPath == "" && c.IntegrityCheck {
		errs = append(errs, errors.New("db integrity check requires a db path"))
	}

	return errors.Join(errs...)
}
