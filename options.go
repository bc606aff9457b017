package dynamolocal

import (
	"fmt"
	"log/slog"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("dynamolocal: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("dynamolocal: %s must not be empty", name))
	}
}

// ManagerOption configures a Manager during construction via NewManager.
// Each With* function returns a ManagerOption that sets a specific field.
//
// Several With* functions panic on invalid input (empty paths, non-positive
// durations). These panics are intentional: option values are typically
// compile-time constants or package-level variables, so an invalid value
// indicates a programmer error rather than a runtime condition. The pattern
// mirrors [regexp.MustCompile]: fail fast during initialization instead of
// returning errors that would be universally fatal anyway.
type ManagerOption func(*managerConfig)

// WithInstallPath sets the directory holding (or receiving) the extracted
// emulator runtime. It is also the working directory of every launched
// process. Useful in CI environments where multiple projects need isolated
// install paths.
//
// Default: filepath.Join(os.TempDir(), DefaultInstallDirName).
//
// Panics if path is empty.
func WithInstallPath(path string) ManagerOption {
	requireNonEmpty("install path", path)
	return func(c *managerConfig) {
		c.InstallPath = path
	}
}

// WithDownloadURL sets the archive source for Install: an HTTP(S) URL, or a
// path to a local archive file, which takes precedence when it exists. The
// archive must be a gzip-compressed tarball containing the emulator jar and
// its native library directory.
//
// Default: DefaultDownloadURL.
//
// Panics if url is empty.
func WithDownloadURL(url string) ManagerOption {
	requireNonEmpty("download URL", url)
	return func(c *managerConfig) {
		c.DownloadURL = url
	}
}

// WithJavaBinary sets the Java runtime used to launch the emulator, as a
// path or a name resolved through PATH.
//
// Default: DefaultJavaBinary.
//
// Panics if binPath is empty.
func WithJavaBinary(binPath string) ManagerOption {
	requireNonEmpty("java binary path", binPath)
	return func(c *managerConfig) {
		c.JavaBinary = binPath
	}
}

// WithStopTimeout sets the maximum time a stop operation waits for the
// process to exit after the termination signal.
//
// Default: 10 seconds.
//
// Panics if d <= 0.
func WithStopTimeout(d time.Duration) ManagerOption {
	requirePositive("stop timeout", d)
	return func(c *managerConfig) {
		c.StopTimeout = d
	}
}

// WithReadyTimeout sets the maximum time Instance.WaitReady polls the
// emulator port before giving up.
//
// Default: 1 minute.
//
// Panics if d <= 0.
func WithReadyTimeout(d time.Duration) ManagerOption {
	requirePositive("ready timeout", d)
	return func(c *managerConfig) {
		c.ReadyTimeout = d
	}
}

// WithInstallTimeout sets the overall timeout for Install, covering lock
// acquisition, download, and extraction.
//
// Default: 5 minutes.
//
// Panics if d <= 0.
func WithInstallTimeout(d time.Duration) ManagerOption {
	requirePositive("install timeout", d)
	return func(c *managerConfig) {
		c.InstallTimeout = d
	}
}

// WithDownloadTimeout sets the timeout for the archive download within
// Install.
//
// Default: 5 minutes.
//
// Panics if d <= 0.
func WithDownloadTimeout(d time.Duration) ManagerOption {
	requirePositive("download timeout", d)
	return func(c *managerConfig) {
		c.DownloadTimeout = d
	}
}

// WithLogger sets a manager-scoped logger, overriding the package-level
// logger (see SetLogger) for this manager and its instances.
//
// Panics if l is nil; use SetLogger(nil) to reset the package-level default.
func WithLogger(l *slog.Logger) ManagerOption {
	if l == nil {
		panic("dynamolocal: logger must not be nil")
	}
	return func(c *managerConfig) {
		c.Logger = l
	}
}

// WithMetrics sets the collector that receives lifecycle observations from
// this manager. See NewPrometheusMetrics for a ready-made implementation.
//
// Panics if m is nil.
func WithMetrics(m MetricsCollector) ManagerOption {
	if m == nil {
		panic("dynamolocal: metrics collector must not be nil")
	}
	return func(c *managerConfig) {
		c.Metrics = m
	}
}

// LaunchOption configures a single Launch (or Relaunch) call. The zero
// configuration launches an in-memory emulator with stdout discarded and
// stderr inherited from the host.
type LaunchOption func(*launchConfig)

// WithDBPath makes the emulator persist its tables to the given directory
// (the -dbPath flag). The directory is created if missing.
//
// Panics if dir is empty; omit the option for the in-memory default.
func WithDBPath(dir string) LaunchOption {
	requireNonEmpty("db path", dir)
	return func(c *launchConfig) {
		c.DBPath = dir
	}
}

// WithInMemory makes the emulator keep all tables in memory (the -inMemory
// flag), discarding them on exit. This is the default; the option exists so
// callers can state it explicitly, and to override an earlier WithDBPath.
func WithInMemory() LaunchOption {
	return func(c *launchConfig) {
		c.DBPath = ""
	}
}

// WithArgs appends extra arguments to the emulator invocation, after all
// generated flags. Empty entries are filtered out.
func WithArgs(args ...string) LaunchOption {
	return func(c *launchConfig) {
		c.ExtraArgs = append(c.ExtraArgs, args...)
	}
}

// WithJavaOptions inserts extra JVM options before -jar, e.g. "-Xmx512m".
// Empty entries are filtered out.
func WithJavaOptions(opts ...string) LaunchOption {
	return func(c *launchConfig) {
		c.JavaOptions = append(c.JavaOptions, opts...)
	}
}

// WithDetached launches the process detached from the host lifetime: it
// survives the host exiting and is excluded from Close. On Linux,
// non-detached processes receive SIGTERM when the host dies.
func WithDetached() LaunchOption {
	return func(c *launchConfig) {
		c.Detached = true
	}
}

// WithLogDir redirects the child's stdout and stderr to per-instance log
// files in the given directory, instead of discarding stdout and inheriting
// the host's stderr.
//
// Panics if dir is empty.
func WithLogDir(dir string) LaunchOption {
	requireNonEmpty("log directory", dir)
	return func(c *launchConfig) {
		c.LogDir = dir
	}
}

// WithFreshDatabase removes stale database files under the configured
// database path before the launch, so the emulator starts with empty
// tables. Requires WithDBPath.
func WithFreshDatabase() LaunchOption {
	return func(c *launchConfig) {
		c.FreshDatabase = true
	}
}

// WithDBIntegrityCheck verifies existing database files under the
// configured database path before the launch, surfacing corruption as a
// Launch error (ErrDatabaseCorrupt) instead of opaque emulator failures.
// Requires WithDBPath.
func WithDBIntegrityCheck() LaunchOption {
	return func(c *launchConfig) {
		c.IntegrityCheck = true
	}
}
