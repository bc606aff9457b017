package dynamolocal

import "time"

// Default configuration values for NewManager.
// These constants are exported so callers can reference the defaults when
// building custom configurations relative to them (e.g.,
// 2 * DefaultStopTimeout).
const (
	// DefaultInstallDirName is the directory name under the system temp
	// directory that receives the extracted emulator runtime. The full
	// path is computed as filepath.Join(os.TempDir(), DefaultInstallDirName).
	DefaultInstallDirName = "dynamolocal"

	// DefaultDownloadURL is the published distribution archive of the
	// emulator, a gzip-compressed tarball.
	DefaultDownloadURL = "https://s3-us-west-2.amazonaws.com/dynamodb-local/dynamodb_local_latest.tar.gz"

	// DefaultJavaBinary is the binary name used to locate the Java runtime
	// in PATH.
	DefaultJavaBinary = "java"

	// DefaultStopTimeout is the maximum time a stop operation waits for
	// the process to exit after the termination signal.
	DefaultStopTimeout = 10 * time.Second

	// DefaultReadyTimeout is the maximum time Instance.WaitReady polls the
	// emulator port. Emulator startup is JVM startup plus table loading
	// and typically takes a few seconds.
	DefaultReadyTimeout = time.Minute

	// DefaultInstallTimeout bounds the whole Install operation, including
	// waiting for the cross-process install lock held by a concurrent
	// installer.
	DefaultInstallTimeout = 5 * time.Minute

	// DefaultDownloadTimeout bounds the archive download within Install.
	// The archive is a few hundred megabytes.
	DefaultDownloadTimeout = 5 * time.Minute
)
