package dynamolocal

import "context"

// Manager coordinates installation and the lifecycle of emulator processes.
// Implementations are safe for concurrent use by multiple goroutines.
//
// Callers typically follow this lifecycle ordering:
//
//	NewManager → Launch/Stop/Relaunch (repeatable) → Close
//
// Install is optional: Launch installs on demand. Close is safe to call at
// any point. See each method's documentation for detailed error conditions.
type Manager interface {
	// Install makes sure the emulator runtime is present under the
	// configured install path, downloading and extracting the distribution
	// archive if needed. No-op when already installed. Safe to call
	// concurrently, also across processes sharing the install path.
	Install(ctx context.Context) error

	// IsInstalled reports whether the emulator runtime is already present
	// under the configured install path.
	IsInstalled() bool

	// Launch returns a running emulator instance on the given port. Port 0
	// allocates a free loopback port from the kernel; the chosen port is
	// available through the returned handle.
	//
	// If the port already has a tracked instance, that handle is returned
	// without inspecting process liveness; an instance that exited on its
	// own stays tracked until Stop. Otherwise Launch installs the runtime
	// if needed, spawns the emulator, registers it, and returns the new
	// handle. Concurrent Launch calls on the same port resolve to a single
	// spawn.
	//
	// Install and spawn failures are reported through the returned error;
	// runtime failures after a successful spawn are observable through the
	// handle's Exited and ExitErr.
	Launch(ctx context.Context, port int, opts ...LaunchOption) (Instance, error)

	// Stop terminates the instance tracked for port and removes it from
	// the registry. The process is killed outright and Stop waits for it
	// to exit, bounded by the stop timeout, so the port is free for reuse
	// when Stop returns. No-op if the port is untracked.
	Stop(ctx context.Context, port int) error

	// StopChild terminates an arbitrary instance handle gracefully:
	// SIGTERM first, escalating to SIGKILL if the process does not exit
	// within the grace period. If the instance is tracked under its port,
	// the registry entry is removed as well.
	StopChild(ctx context.Context, inst Instance) error

	// Relaunch stops the instance tracked for port, if any, and launches a
	// new one with the given options. Because Stop waits for process exit,
	// the new process never races the old one for the port.
	Relaunch(ctx context.Context, port int, opts ...LaunchOption) (Instance, error)

	// Close terminates all tracked non-detached instances in parallel and
	// empties the registry. Detached instances keep running. Idempotent:
	// the first call performs the cleanup, every call returns the first
	// call's result. Subsequent Launch, Install and Relaunch calls return
	// ErrClosed.
	Close() error
}

// Instance is a handle on one launched emulator process. Handles stay valid
// after the process exits; exit is observed through Exited and ExitErr
// rather than by invalidating the handle.
type Instance interface {
	// Port returns the port the emulator was launched on.
	Port() int

	// PID returns the operating system process identifier recorded at
	// launch. The value survives process termination.
	PID() int

	// Detached reports whether the instance was launched detached: it
	// survives the host process exiting and is excluded from Close.
	Detached() bool

	// Endpoint returns the emulator's HTTP endpoint on the loopback
	// interface, e.g. "http://127.0.0.1:8000".
	Endpoint() string

	// Exited returns a channel that is closed when the process exits,
	// whatever the cause. Safe to select on from any number of goroutines.
	Exited() <-chan struct{}

	// ExitErr returns the error observed when the process exited: nil
	// while the process is running or after a clean exit, a
	// *exec.ExitError after an abnormal one.
	ExitErr() error

	// WaitReady polls the emulator's TCP port until it accepts
	// connections, bounded by the manager's ready timeout. It aborts early
	// if the process exits, since a dead process never becomes ready.
	WaitReady(ctx context.Context) error
}
