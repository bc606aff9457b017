package process

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// listenOnFreePort returns an open listener on a kernel-chosen loopback port.
func listenOnFreePort(t *testing.T) net.Listener {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestWaitTCPReady_ConfigValidation(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg          TCPWaitConfig
		wantContains string
	}{
		"zero interval": {
			cfg:          TCPWaitConfig{Port: 8000, Interval: 0, Timeout: time.Second, Name: "test-proc"},
			wantContains: "interval must be positive",
		},
		"negative interval": {
			cfg:          TCPWaitConfig{Port: 8000, Interval: -time.Second, Timeout: time.Second, Name: "test-proc"},
			wantContains: "interval must be positive",
		},
		"zero timeout": {
			cfg:          TCPWaitConfig{Port: 8000, Interval: time.Millisecond, Timeout: 0, Name: "test-proc"},
			wantContains: "timeout must be positive",
		},
		"empty name": {
			cfg:          TCPWaitConfig{Port: 8000, Interval: time.Millisecond, Timeout: time.Second},
			wantContains: "name must not be empty",
		},
		"zero port": {
			cfg:          TCPWaitConfig{Interval: time.Millisecond, Timeout: time.Second, Name: "test-proc"},
			wantContains: "port must be in",
		},
		"out of range port": {
			cfg:          TCPWaitConfig{Port: 70000, Interval: time.Millisecond, Timeout: time.Second, Name: "test-proc"},
			wantContains: "port must be in",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := WaitTCPReady(context.Background(), tc.cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantContains) {
				t.Fatalf("error %q does not contain %q", err, tc.wantContains)
			}
		})
	}
}

func TestWaitTCPReady_SucceedsWhenListening(t *testing.T) {
	t.Parallel()

	l := listenOnFreePort(t)
	port := l.Addr().(*net.TCPAddr).Port

	err := WaitTCPReady(context.Background(), TCPWaitConfig{
		Port:     port,
		Interval: time.Millisecond,
		Timeout:  5 * time.Second,
		Name:     "test-proc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitTCPReady_RetriesUntilListenerAppears(t *testing.T) {
	t.Parallel()

	l := listenOnFreePort(t)
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()

	// Re-listen on the same port after a few poll intervals have failed.
	ready := make(chan net.Listener, 1)
	go func() {
		time.Sleep(50 * time.Millisecond)
		late, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			ready <- nil
			return
		}
		ready <- late
	}()

	err := WaitTCPReady(context.Background(), TCPWaitConfig{
		Port:     port,
		Interval: 5 * time.Millisecond,
		Timeout:  5 * time.Second,
		Name:     "test-proc",
	})
	if late := <-ready; late != nil {
		defer func() { _ = late.Close() }()
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitTCPReady_AbortsWhenProcessExits(t *testing.T) {
	t.Parallel()

	l := listenOnFreePort(t)
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()

	exited := make(chan struct{})
	close(exited)

	err := WaitTCPReady(context.Background(), TCPWaitConfig{
		Port:          port,
		Interval:      time.Millisecond,
		Timeout:       5 * time.Second,
		Name:          "test-proc",
		ProcessExited: exited,
	})
	if !errors.Is(err, ErrProcessExited) {
		t.Fatalf("expected ErrProcessExited, got %v", err)
	}
}

func TestWaitTCPReady_TimesOut(t *testing.T) {
	t.Parallel()

	l := listenOnFreePort(t)
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()

	err := WaitTCPReady(context.Background(), TCPWaitConfig{
		Port:     port,
		Interval: time.Millisecond,
		Timeout:  50 * time.Millisecond,
		Name:     "test-proc",
	})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}
