package process

import (
	"errors"
	"os/exec"
	"testing"
	"time"
)

func TestSetupAndStart_Validation(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cmd     func() *exec.Cmd
		workDir string
		wantErr error
	}{
		"nil cmd": {
			cmd:     func() *exec.Cmd { return nil },
			workDir: "/tmp",
			wantErr: ErrNilCmd,
		},
		"empty cmd path": {
			cmd:     func() *exec.Cmd { return &exec.Cmd{} },
			workDir: "/tmp",
			wantErr: ErrEmptyCmdPath,
		},
		"empty work dir": {
			cmd:     func() *exec.Cmd { return exec.Command("sleep", "1") },
			workDir: "",
			wantErr: ErrEmptyWorkDir,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			base := NewBaseProcess("test-proc", nil, time.Second)
			err := base.SetupAndStart(tc.cmd(), tc.workDir, false)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSetupAndStart_AlreadyStarted(t *testing.T) {
	t.Parallel()

	base := NewBaseProcess("test-proc", nil, time.Second)
	if err := base.SetupAndStart(exec.Command("sleep", "60"), t.TempDir(), false); err != nil {
		t.Fatalf("first start: %v", err)
	}
	defer func() { _ = base.Kill(5 * time.Second) }()

	err := base.SetupAndStart(exec.Command("sleep", "60"), t.TempDir(), false)
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("error = %v, want ErrAlreadyStarted", err)
	}
}

func TestBaseProcess_PIDAndExit(t *testing.T) {
	t.Parallel()

	base := NewBaseProcess("test-proc", nil, time.Second)
	if base.PID() != 0 {
		t.Fatalf("PID before start = %d, want 0", base.PID())
	}
	if err := base.SetupAndStart(exec.Command("true"), t.TempDir(), false); err != nil {
		t.Fatalf("start: %v", err)
	}
	if base.PID() <= 0 {
		t.Fatalf("PID after start = %d, want > 0", base.PID())
	}

	select {
	case <-base.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit in time")
	}
	if !base.HasExited() {
		t.Fatal("HasExited should report true after exit")
	}
	if err := base.ExitErr(); err != nil {
		t.Fatalf("clean exit should have nil ExitErr, got %v", err)
	}
	// Self-exit does not clear the started flag; Stop does.
	if !base.IsStarted() {
		t.Fatal("IsStarted should remain true until Stop")
	}
}

func TestBaseProcess_ExitErrCarriesExitCode(t *testing.T) {
	t.Parallel()

	base := NewBaseProcess("test-proc", nil, time.Second)
	if err := base.SetupAndStart(exec.Command("sh", "-c", "exit 3"), t.TempDir(), false); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-base.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit in time")
	}

	var exitErr *exec.ExitError
	if !errors.As(base.ExitErr(), &exitErr) {
		t.Fatalf("expected *exec.ExitError, got %v", base.ExitErr())
	}
	if exitErr.ExitCode() != 3 {
		t.Fatalf("exit code = %d, want 3", exitErr.ExitCode())
	}
}

func TestBaseProcess_StopTerminatesRunningProcess(t *testing.T) {
	t.Parallel()

	base := NewBaseProcess("test-proc", nil, time.Second)
	if err := base.SetupAndStart(exec.Command("sleep", "60"), t.TempDir(), false); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := base.Stop(5 * time.Second); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if base.IsStarted() {
		t.Fatal("IsStarted should report false after Stop")
	}
	// Stop on an already-stopped process is a no-op.
	if err := base.Stop(time.Second); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestBaseProcess_KillTerminatesRunningProcess(t *testing.T) {
	t.Parallel()

	base := NewBaseProcess("test-proc", nil, time.Second)
	if err := base.SetupAndStart(exec.Command("sleep", "60"), t.TempDir(), false); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := base.Kill(5 * time.Second); err != nil {
		t.Fatalf("kill: %v", err)
	}
	if base.IsStarted() {
		t.Fatal("IsStarted should report false after Kill")
	}
}

func TestBaseProcess_StopAfterSelfExitIgnoresExitCode(t *testing.T) {
	t.Parallel()

	base := NewBaseProcess("test-proc", nil, time.Second)
	if err := base.SetupAndStart(exec.Command("sh", "-c", "exit 7"), t.TempDir(), false); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-base.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit in time")
	}

	if err := base.Stop(time.Second); err != nil {
		t.Fatalf("stop of self-exited process must succeed, got %v", err)
	}
	if base.IsStarted() {
		t.Fatal("IsStarted should report false after Stop")
	}

	// The crash code stays observable after the stop.
	var exitErr *exec.ExitError
	if !errors.As(base.ExitErr(), &exitErr) || exitErr.ExitCode() != 7 {
		t.Fatalf("ExitErr = %v, want exit status 7", base.ExitErr())
	}
}

func TestBaseProcess_KillAfterSelfExitIgnoresExitCode(t *testing.T) {
	t.Parallel()

	base := NewBaseProcess("test-proc", nil, time.Second)
	if err := base.SetupAndStart(exec.Command("sh", "-c", "exit 7"), t.TempDir(), false); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-base.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit in time")
	}

	if err := base.Kill(time.Second); err != nil {
		t.Fatalf("kill of self-exited process must succeed, got %v", err)
	}
	if base.IsStarted() {
		t.Fatal("IsStarted should report false after Kill")
	}
}

func TestNewBaseProcess_PanicsOnEmptyName(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty name")
		}
	}()
	NewBaseProcess("", nil, time.Second)
}
