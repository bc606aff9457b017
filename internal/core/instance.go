package core

import (
	"context"
	"fmt"
	"time"

	"github.com/giantswarm/dynamolocal/internal/emulator"
)

// Instance is a handle on one launched emulator process. Handles are created
// by Manager.Launch and stay valid after the process exits; exit is observed
// through Exited and ExitErr rather than by invalidating the handle.
//
// The lifecycle methods (Manager.Stop, Manager.StopChild) terminate the
// process; the handle itself only observes.
type Instance struct {
	proc         *emulator.Process
	readyTimeout time.Duration
}

// newInstance wraps a started emulator process in a handle.
func newInstance(proc *emulator.Process, readyTimeout time.Duration) *Instance {
	return &Instance{proc: proc, readyTimeout: readyTimeout}
}

// Port returns the port the emulator was launched on.
func (i *Instance) Port() int {
	return i.proc.Port()
}

// PID returns the operating system process identifier recorded at launch.
// The value survives process termination.
func (i *Instance) PID() int {
	return i.proc.PID()
}

// Detached reports whether the instance was launched detached: it survives
// the host process exiting and is excluded from Manager.Close.
func (i *Instance) Detached() bool {
	return i.proc.Detached()
}

// Endpoint returns the emulator's HTTP endpoint on the loopback interface.
func (i *Instance) Endpoint() string {
	return fmt.Sprintf("http://127.0.0.1:%d", i.proc.Port())
}

// Exited returns a channel that is closed when the process exits, whatever
// the cause. Safe to select on from any number of goroutines.
func (i *Instance) Exited() <-chan struct{} {
	return i.proc.Exited()
}

// ExitErr returns the error observed when the process exited: nil while the
// process is running or after a clean exit, a *exec.ExitError after an
// abnormal one.
func (i *Instance) ExitErr() error {
	return i.proc.ExitErr()
}

// WaitReady polls the emulator's TCP port until it accepts connections,
// bounded by the manager's ready timeout. It aborts early if the process
// exits, since a dead process never becomes ready.
func (i *Instance) WaitReady(ctx context.Context) error {
	return i.proc.WaitReady(ctx, i.readyTimeout)
}

// stop terminates the process gracefully (SIGTERM escalating to SIGKILL)
// and releases its log file handles.
func (i *Instance) stop(timeout time.Duration) error {
	err := i.proc.Stop(timeout)
	i.proc.Close()
	return err
}

// kill terminates the process forcibly (SIGKILL), waits for exit bounded by
// timeout, and releases its log file handles.
func (i *Instance) kill(timeout time.Duration) error {
	err := i.proc.Kill(timeout)
	i.proc.Close()
	return err
}
