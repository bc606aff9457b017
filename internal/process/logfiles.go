package process

import (
	"fmt"
	"os"
	"path/filepath"
)

// LogFiles manages stdout/stderr file handles for a process whose output is
// redirected to files instead of the host's streams.
type LogFiles struct {
	stdoutFile *os.File
	stderrFile *os.File
	dir        string
	stdoutName string // e.g., "dynamodb-local-8000.stdout.log"
	stderrName string // e.g., "dynamodb-local-8000.stderr.log"
}

// NewLogFiles creates and opens log files for a process in dir. The name is
// used to derive the file names (e.g., "dynamodb-local-8000").
func NewLogFiles(dir, name string) (LogFiles, error) {
	l := LogFiles{
		dir:        dir,
		stdoutName: name + ".stdout.log",
		stderrName: name + ".stderr.log",
	}
	if err := l.create(); err != nil {
		return LogFiles{}, err
	}
	return l, nil
}

// create creates both log files. Handles are assigned only after both
// creates succeed.
func (l *LogFiles) create() error {
	stdoutFile, err := os.Create(l.StdoutPath())
	if err != nil {
		return fmt.Errorf("create stdout log: %w", err)
	}
	stderrFile, err := os.Create(l.StderrPath())
	if err != nil {
		_ = stdoutFile.Close()
		return fmt.Errorf("create stderr log: %w", err)
	}
	l.stdoutFile = stdoutFile
	l.stderrFile = stderrFile
	return nil
}

// Close closes both log file handles and nils them to prevent double-close.
func (l *LogFiles) Close() {
	if l.stdoutFile != nil {
		_ = l.stdoutFile.Close()
		l.stdoutFile = nil
	}
	if l.stderrFile != nil {
		_ = l.stderrFile.Close()
		l.stderrFile = nil
	}
}

// Stdout returns the open stdout file handle, or nil before create.
func (l *LogFiles) Stdout() *os.File { return l.stdoutFile }

// Stderr returns the open stderr file handle, or nil before create.
func (l *LogFiles) Stderr() *os.File { return l.stderrFile }

// StdoutPath returns the absolute path to the stdout log file.
func (l *LogFiles) StdoutPath() string {
	return filepath.Join(l.dir, l.stdoutName)
}

// StderrPath returns the absolute path to the stderr log file.
func (l *LogFiles) StderrPath() string {
	return filepath.Join(l.dir, l.stderrName)
}
