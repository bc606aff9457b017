package emulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/giantswarm/dynamolocal/internal/dbfile"
	"github.com/giantswarm/dynamolocal/internal/fileutil"
	"github.com/giantswarm/dynamolocal/internal/process"
)

// readinessPollInterval is the interval between consecutive TCP connection
// attempts when waiting for the emulator to become ready.
const readinessPollInterval = 50 * time.Millisecond

// readinessDialTimeout is the per-attempt timeout for the TCP dial used in
// readiness checks. Early attempts that fail because the emulator is not yet
// listening return immediately with a connection-refused error, so this
// timeout only guards against pathological cases.
const readinessDialTimeout = time.Second

// Config holds the configuration for an emulator process.
type Config struct {
	JavaBinary string // Path or name of the Java runtime (e.g., "java")
	InstallDir string // Directory containing the jar and native libraries; working directory at spawn
	Port       int    // Listen port, passed as -port

	// DBPath enables persistence to the given directory; empty runs the
	// emulator in memory.
	DBPath string

	JavaOptions []string // Extra JVM options, inserted before -jar
	ExtraArgs   []string // Extra emulator arguments, appended last

	// Detached skips the parent-death signal so the emulator survives the
	// host process exiting.
	Detached bool

	// LogDir redirects the child's stdout and stderr to per-process log
	// files in the given directory. When empty, stdout is discarded and
	// stderr is inherited from the host.
	LogDir string

	// FreshDatabase removes stale database files under DBPath before
	// launching, so the emulator starts with empty tables.
	FreshDatabase bool

	// IntegrityCheck runs a SQLite quick check on existing database files
	// under DBPath before launching, surfacing corruption as a launch
	// error instead of opaque emulator failures.
	IntegrityCheck bool

	// StopTimeout bounds the Close safety-net stop; zero uses the package
	// default.
	StopTimeout time.Duration

	// Logger (optional, defaults to slog.Default())
	Logger *slog.Logger
}

// validate checks that all required Config fields are set and returns an
// error describing every violation found.
func (c Config) validate() error {
	var errs []error

	if c.JavaBinary == "" {
		errs = append(errs, errors.New("java binary must not be empty"))
	}
	if c.InstallDir == "" {
		errs = append(errs, errors.New("install dir must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be in (0, 65535], got %d", c.Port))
	}
	if c.DBPath == "" && (c.FreshDatabase || c.IntegrityCheck) {
		errs = append(errs, errors.New("fresh-database and integrity-check require a db path"))
	}

	return errors.Join(errs...)
}

// Process manages one emulator process lifecycle.
type Process struct {
	config Config
	base   process.BaseProcess
}

// New creates an emulator Process with the given configuration. New performs
// no I/O; all side effects are deferred to Start. Returns an error if any
// required field is missing or invalid.
func New(cfg Config) (*Process, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid emulator config: %w", err)
	}
	name := fmt.Sprintf("dynamodb-local-%d", cfg.Port)
	return &Process{
		config: cfg,
		base:   process.NewBaseProcess(name, cfg.Logger, cfg.StopTimeout),
	}, nil
}

// Start launches the emulator process. When persistence is configured,
// Start prepares the database directory first: it is created if missing,
// optionally wiped (FreshDatabase), and optionally verified (IntegrityCheck).
//
// Stdio disposition: stdin and stdout are discarded, stderr is inherited
// from the host, unless LogDir redirects both streams to files.
func (p *Process) Start(ctx context.Context) error {
	if p.base.IsStarted() {
		return process.ErrAlreadyStarted
	}

	if p.config.DBPath != "" {
		if err := p.prepareDBPath(ctx); err != nil {
			return err
		}
	}

	args := BuildArgs(p.config.Port, p.config.DBPath, p.config.JavaOptions, p.config.ExtraArgs)

	// The context deliberately does not bind the child's lifetime: the
	// emulator outlives the Launch call, so only setup I/O observes ctx.
	cmd := exec.Command(p.config.JavaBinary, args...)
	if err := p.setupStdio(cmd); err != nil {
		return err
	}

	if err := p.base.SetupAndStart(cmd, p.config.InstallDir, p.config.Detached); err != nil {
		// Release any log file handles opened by setupStdio; nothing will
		// write to them for a process that never started.
		p.base.Close()
		return fmt.Errorf("setup and start emulator process: %w", err)
	}

	p.base.Logger().Debug("emulator started",
		"pid", p.base.PID(), "port", p.config.Port, "inMemory", p.config.DBPath == "")
	return nil
}

// prepareDBPath creates and optionally resets or verifies the persistence
// directory before spawn.
func (p *Process) prepareDBPath(ctx context.Context) error {
	if err := fileutil.EnsureDir(p.config.DBPath); err != nil {
		return fmt.Errorf("prepare db path: %w", err)
	}
	if p.config.FreshDatabase {
		if err := dbfile.RemoveDatabases(p.config.DBPath); err != nil {
			return fmt.Errorf("remove stale databases: %w", err)
		}
		return nil
	}
	if p.config.IntegrityCheck {
		if err := dbfile.CheckIntegrity(ctx, p.config.DBPath); err != nil {
			return fmt.Errorf("database preflight: %w", err)
		}
	}
	return nil
}

// setupStdio wires the child's stdio per the configured disposition.
// A nil Stdout/Stdin connects the stream to the null device.
func (p *Process) setupStdio(cmd *exec.Cmd) error {
	if p.config.LogDir == "" {
		cmd.Stdin = nil
		cmd.Stdout = nil
		cmd.Stderr = os.Stderr
		return nil
	}
	if err := fileutil.EnsureDir(p.config.LogDir); err != nil {
		return fmt.Errorf("prepare log dir: %w", err)
	}
	logFiles, err := process.NewLogFiles(p.config.LogDir, fmt.Sprintf("dynamodb-local-%d", p.config.Port))
	if err != nil {
		return fmt.Errorf("create emulator logs: %w", err)
	}
	cmd.Stdin = nil
	cmd.Stdout = logFiles.Stdout()
	cmd.Stderr = logFiles.Stderr()
	p.base.SetLogFiles(logFiles)
	return nil
}

// WaitReady polls the emulator's TCP port until it accepts connections,
// aborting early if the process exits first.
func (p *Process) WaitReady(ctx context.Context, timeout time.Duration) error {
	if err := process.WaitTCPReady(ctx, process.TCPWaitConfig{
		Port:          p.config.Port,
		Interval:      readinessPollInterval,
		Timeout:       timeout,
		DialTimeout:   readinessDialTimeout,
		Name:          "dynamodb-local",
		Logger:        p.base.Logger(),
		ProcessExited: p.base.Exited(),
	}); err != nil {
		return fmt.Errorf("emulator not ready: %w", err)
	}
	return nil
}

// Port returns the configured listen port.
func (p *Process) Port() int {
	return p.config.Port
}

// PID returns the process identifier recorded at start, or 0 before Start.
func (p *Process) PID() int {
	return p.base.PID()
}

// Detached reports whether the process was launched detached from the host
// lifetime.
func (p *Process) Detached() bool {
	return p.config.Detached
}

// Exited returns a channel closed when the process exits.
func (p *Process) Exited() <-chan struct{} {
	return p.base.Exited()
}

// ExitErr returns the observed exit error, or nil while running or after a
// clean exit.
func (p *Process) ExitErr() error {
	return p.base.ExitErr()
}

// Stop terminates the emulator gracefully (SIGTERM escalating to SIGKILL)
// within the given timeout.
func (p *Process) Stop(timeout time.Duration) error {
	return p.base.Stop(timeout)
}

// Kill terminates the emulator forcibly (SIGKILL) and waits up to timeout
// for it to exit.
func (p *Process) Kill(timeout time.Duration) error {
	return p.base.Kill(timeout)
}

// Close releases log file handles held by the process, stopping it first if
// it is somehow still running.
func (p *Process) Close() {
	p.base.Close()
}
