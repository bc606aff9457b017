package dynamolocal

import "github.com/giantswarm/dynamolocal/internal/core"

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrClosed is returned by Launch, Install and Relaunch after Close
	// has been called on the Manager.
	ErrClosed = core.ErrClosed

	// ErrDatabaseCorrupt is returned (wrapped) by Launch when
	// WithDBIntegrityCheck finds a database file that fails its integrity
	// check.
	ErrDatabaseCorrupt = core.ErrDatabaseCorrupt

	// ErrAlreadyStarted indicates an attempt to start a process that is
	// already running.
	ErrAlreadyStarted = core.ErrAlreadyStarted
)

// ErrProcessExited is returned (wrapped) by Instance.WaitReady when the
// process exits before becoming ready.
var ErrProcessExited = core.ErrProcessExited
