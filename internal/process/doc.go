// Package process provides utilities for managing external process lifecycle.
//
// It defines BaseProcess for common start/stop/exit-observation behavior,
// WaitTCPReady for polling TCP readiness, and LogFiles for optional
// redirection of a child's stdout/stderr to per-process log files.
package process
