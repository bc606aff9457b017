package process

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// DefaultStopTimeout is the fallback timeout for stopping a process, used
// when no explicit stop timeout is configured.
const DefaultStopTimeout = 10 * time.Second

// termGracePeriod is the maximum time to wait for a process to exit after
// SIGTERM before escalating to SIGKILL. The actual grace period is capped
// at the overall timeout.
const termGracePeriod = 5 * time.Second

// killDrainTimeout is the hard upper bound for waiting on the exited channel
// after SIGKILL has been sent (or after the process has already exited).
// SIGKILL cannot be caught, so the process should exit almost immediately;
// this timeout is a safety net against cmd.Wait never returning due to stuck
// I/O or kernel issues.
const killDrainTimeout = 10 * time.Second

// drainExited waits for the exited channel to close, with timeout as a hard
// upper bound. Returns true if the channel closed in time.
func drainExited(exited <-chan struct{}, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-exited:
		return true
	case <-t.C:
		return false
	}
}

// expectSignalExit interprets an error from cmd.Wait after a termination
// signal was sent. Exit statuses caused by SIGTERM or SIGKILL are expected
// and treated as successful stops.
func expectSignalExit(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			sig := status.Signal()
			if sig == syscall.SIGTERM || sig == syscall.SIGKILL {
				return nil
			}
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}

// stopGracefully implements the SIGTERM-then-SIGKILL shutdown sequence.
// It relies on the single wait goroutine started in SetupAndStart: waitErr is
// written before exited is closed, so once the channel delivers, reading the
// wait error here is race-free.
//
// Flow:
//  1. Send SIGTERM for graceful shutdown.
//  2. Schedule SIGKILL via time.AfterFunc after a grace period (canceled if
//     the process exits first).
//  3. Wait for process exit or total timeout.
//
// Worst-case blocking duration is timeout + killDrainTimeout, when the main
// timeout expires and the post-SIGKILL drain also blocks for its full
// duration. Callers allocating time budgets should account for this.
func stopGracefully(cmd *exec.Cmd, exited <-chan struct{}, timeout time.Duration, name string) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if exited == nil {
		return fmt.Errorf("%s: exited channel must not be nil", name)
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Process already exited; drain the wait goroutine with a hard
		// upper bound to avoid blocking indefinitely.
		if !drainExited(exited, killDrainTimeout) {
			return fmt.Errorf("%s: timed out draining process after signal failure", name)
		}
		return nil
	}

	// grace is clamped to timeout so SIGKILL always fires before the total
	// timeout expires, giving the drain a window to collect the exit status.
	// Kill on an already-finished process returns a harmless "process
	// already finished" error that we discard.
	grace := min(termGracePeriod, timeout)
	killTimer := time.AfterFunc(grace, func() {
		_ = cmd.Process.Kill()
	})
	defer killTimer.Stop()

	totalTimer := time.NewTimer(timeout)
	defer totalTimer.Stop()

	select {
	case <-exited:
		return nil
	case <-totalTimer.C:
		if !drainExited(exited, killDrainTimeout) {
			return fmt.Errorf("%s: timed out waiting for process to exit after SIGKILL", name)
		}
		return nil
	}
}

// killForcibly sends SIGKILL immediately and waits up to timeout for the
// process to exit. Used by the registry stop path, where the contract is a
// forceful kill rather than a graceful shutdown.
func killForcibly(cmd *exec.Cmd, exited <-chan struct{}, timeout time.Duration, name string) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if exited == nil {
		return fmt.Errorf("%s: exited channel must not be nil", name)
	}

	// Kill on an already-finished process returns "process already
	// finished", which only means the wait goroutine has the exit status
	// already (or will momentarily). Fall through to the drain either way.
	_ = cmd.Process.Kill()

	if !drainExited(exited, timeout) {
		return fmt.Errorf("%s: timed out waiting for process to exit after SIGKILL", name)
	}
	return nil
}
