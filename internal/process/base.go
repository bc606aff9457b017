package process

import (
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/giantswarm/dynamolocal/internal/sentinel"
)

// ErrAlreadyStarted is returned when SetupAndStart is called on a process
// that is already running. Callers must Stop the process before starting it
// again.
const ErrAlreadyStarted = sentinel.Error("process already started")

// ErrNilCmd is returned when SetupAndStart is called with a nil *exec.Cmd.
const ErrNilCmd = sentinel.Error("cmd must not be nil")

// ErrEmptyCmdPath is returned when SetupAndStart is called with an empty cmd.Path.
const ErrEmptyCmdPath = sentinel.Error("cmd.Path must not be empty")

// ErrEmptyWorkDir is returned when SetupAndStart is called with an empty
// working directory.
const ErrEmptyWorkDir = sentinel.Error("working directory must not be empty")

// ErrNoPID is returned when the OS reports a started process without a
// process identifier. The spawn is treated as failed.
const ErrNoPID = sentinel.Error("no process identifier obtained")

// BaseProcess provides common child-process lifecycle management. Embed this
// in package-specific process types to reuse the start/stop/exit machinery.
//
// The mutating methods (SetupAndStart, Stop, Kill, Close) are not safe for
// concurrent use; callers must serialize them. Exited, ExitErr and PID are
// safe to call from any goroutine once SetupAndStart has returned.
type BaseProcess struct {
	cmd         *exec.Cmd
	exited      chan struct{} // closed by the wait goroutine when the process exits
	waitErr     error         // cmd.Wait result; written before exited is closed
	pid         int           // recorded at start; survives Stop
	logFiles    LogFiles
	name        string
	log         *slog.Logger
	stopTimeout time.Duration // fallback timeout for auto-stop in Close
}

// NewBaseProcess creates a BaseProcess with the given name, logger, and stop
// timeout. The stopTimeout is used by Close as a safety-net timeout when
// auto-stopping a process that was not explicitly stopped; zero falls back to
// DefaultStopTimeout. If logger is nil, slog.Default() is used. Panics if
// name is empty, since an empty name produces confusing error messages
// throughout the process lifecycle.
func NewBaseProcess(name string, logger *slog.Logger, stopTimeout time.Duration) BaseProcess {
	if name == "" {
		panic("dynamolocal: process name must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return BaseProcess{name: name, log: logger, stopTimeout: stopTimeout}
}

// SetupAndStart sets the working directory and platform process attributes on
// cmd and starts it. The cmd must already have Path, Args and the stdio
// disposition set by the caller. detached skips the parent-death signal so
// the child can outlive the host process.
//
// A single goroutine calling cmd.Wait is started here so that exactly one
// Wait call is made per process. Its result is observable through Exited and
// ExitErr and is consumed by Stop and Kill.
//
// Returns ErrAlreadyStarted if the process is already running.
func (b *BaseProcess) SetupAndStart(cmd *exec.Cmd, workDir string, detached bool) error {
	if cmd == nil {
		return ErrNilCmd
	}
	if cmd.Path == "" {
		return ErrEmptyCmdPath
	}
	if workDir == "" {
		return ErrEmptyWorkDir
	}
	if b.cmd != nil {
		return ErrAlreadyStarted
	}

	cmd.Dir = workDir
	if !detached {
		configureSysProcAttr(cmd)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s process: %w", b.name, err)
	}
	if cmd.Process == nil || cmd.Process.Pid <= 0 {
		// The OS accepted the spawn but handed back no usable identifier.
		// Treat the spawn as failed rather than tracking an unkillable child.
		return fmt.Errorf("%s: %w", b.name, ErrNoPID)
	}

	b.cmd = cmd
	b.pid = cmd.Process.Pid

	// cmd.Wait must be called exactly once per started process; a second
	// call is undefined behavior. Starting the goroutine here guarantees
	// the invariant. waitErr is written before exited is closed, so readers
	// that observe the close also observe the error.
	exited := make(chan struct{})
	b.exited = exited
	go func() {
		b.waitErr = cmd.Wait()
		close(exited)
	}()

	return nil
}

// Stop terminates the process gracefully (SIGTERM, escalating to SIGKILL)
// with the given timeout. After Stop returns, IsStarted reports false
// regardless of whether the stop succeeded. Safe to call when the process was
// never started or is already stopped; returns nil immediately in those cases.
// A child that exited on its own before Stop counts as stopped whatever its
// exit code; the code stays observable through ExitErr.
func (b *BaseProcess) Stop(timeout time.Duration) error {
	if b.cmd == nil || b.cmd.Process == nil {
		b.cmd = nil
		return nil
	}
	if b.HasExited() {
		// The child already exited on its own; its exit status is
		// observable through ExitErr and is not a stop failure.
		b.cmd = nil
		return nil
	}
	err := stopGracefully(b.cmd, b.exited, timeout, b.name)
	if err == nil {
		// The process is down; an exit status caused by our own signal is
		// a successful stop, anything else surfaces as the stop error.
		err = expectSignalExit(b.waitErr, b.name)
	}
	if err != nil {
		b.log.Warn("process stop failed; process may be orphaned",
			"process", b.name, "pid", b.pid, "error", err)
	}
	b.cmd = nil
	return err
}

// Kill terminates the process forcibly (SIGKILL, no grace period) and waits
// up to timeout for it to exit. After Kill returns, IsStarted reports false.
// Safe to call when the process was never started or is already stopped.
// A child that exited on its own before Kill counts as stopped whatever its
// exit code; the code stays observable through ExitErr.
func (b *BaseProcess) Kill(timeout time.Duration) error {
	if b.cmd == nil || b.cmd.Process == nil {
		b.cmd = nil
		return nil
	}
	if b.HasExited() {
		// The child already exited on its own; its exit status is
		// observable through ExitErr and is not a stop failure.
		b.cmd = nil
		return nil
	}
	err := killForcibly(b.cmd, b.exited, timeout, b.name)
	if err == nil {
		err = expectSignalExit(b.waitErr, b.name)
	}
	if err != nil {
		b.log.Warn("process kill failed; process may be orphaned",
			"process", b.name, "pid", b.pid, "error", err)
	}
	b.cmd = nil
	return err
}

// Close closes log file handles, if any. If the process is still running
// (Stop was not called first), Close logs a warning and stops it
// automatically to prevent resource leaks. Callers should always call Stop
// before Close; the auto-stop is a safety net, not an intended code path.
func (b *BaseProcess) Close() {
	if b.cmd != nil {
		b.log.Warn("process.Close called without Stop; stopping automatically",
			"process", b.name)
		timeout := b.stopTimeout
		if timeout <= 0 {
			timeout = DefaultStopTimeout
		}
		if err := b.Stop(timeout); err != nil {
			b.log.Warn("auto-stop during Close failed",
				"process", b.name, "error", err)
		}
	}
	b.logFiles.Close()
}

// SetLogFiles hands ownership of log file handles to the process so Close
// releases them. Called by packages that redirect the child's stdio to files.
func (b *BaseProcess) SetLogFiles(l LogFiles) {
	b.logFiles = l
}

// Logger returns the logger used by this process.
func (b *BaseProcess) Logger() *slog.Logger {
	return b.log
}

// Exited returns a channel that is closed when the process exits. It is safe
// to select on from any number of goroutines. Returns nil if the process has
// never been started.
func (b *BaseProcess) Exited() <-chan struct{} {
	return b.exited
}

// ExitErr returns the error observed by cmd.Wait, or nil if the process has
// not exited (or exited cleanly). A *exec.ExitError carries the exit code of
// an abnormal exit.
func (b *BaseProcess) ExitErr() error {
	if b.exited == nil {
		return nil
	}
	select {
	case <-b.exited:
		return b.waitErr
	default:
		return nil
	}
}

// PID returns the operating system process identifier recorded at start,
// or 0 if the process was never started. The value survives Stop so callers
// can correlate log output with an already-terminated child.
func (b *BaseProcess) PID() int {
	return b.pid
}

// IsStarted reports whether the process has been started and not yet stopped.
// It does not check whether the underlying process is still alive; a child
// that exited on its own still reports true until Stop or Kill is called.
func (b *BaseProcess) IsStarted() bool {
	return b.cmd != nil
}

// HasExited reports whether the wait goroutine has observed process exit.
func (b *BaseProcess) HasExited() bool {
	if b.exited == nil {
		return false
	}
	select {
	case <-b.exited:
		return true
	default:
		return false
	}
}
