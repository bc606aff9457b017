package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// defaultDialTimeout bounds each readiness dial when TCPWaitConfig leaves
// DialTimeout zero. A port nobody listens on refuses immediately, so this
// only guards pathological network states.
const defaultDialTimeout = time.Second

// Sentinel errors returned by WaitTCPReady for invalid configuration and
// process lifecycle conditions. Callers can match these with errors.Is
// through wrapped error chains.
var (
	// ErrIntervalNotPositive indicates a non-positive poll interval.
	ErrIntervalNotPositive = errors.New("interval must be positive")

	// ErrTimeoutNotPositive indicates a non-positive timeout.
	ErrTimeoutNotPositive = errors.New("timeout must be positive")

	// ErrProcessExited indicates the process exited before becoming ready.
	ErrProcessExited = errors.New("process exited before becoming ready")
)

// TCPWaitConfig configures WaitTCPReady.
type TCPWaitConfig struct {
	Port          int             // Loopback port to dial
	Interval      time.Duration   // Poll interval
	Timeout       time.Duration   // Overall timeout
	DialTimeout   time.Duration   // Per-attempt dial bound; zero uses defaultDialTimeout
	Name          string          // For logging (e.g., "dynamodb-local")
	Logger        *slog.Logger    // Optional logger (defaults to slog.Default())
	ProcessExited <-chan struct{} // If non-nil, abort immediately when closed (process died)
}

// WaitTCPReady polls the loopback TCP port until it accepts a connection or
// the timeout elapses. A process that starts listening is considered ready;
// the connection is closed right after the dial succeeds.
func WaitTCPReady(ctx context.Context, cfg TCPWaitConfig) error {
	if cfg.Name == "" {
		return errors.New("wait ready: name must not be empty")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("wait for %s: port must be in (0, 65535], got %d", cfg.Name, cfg.Port)
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Name, ErrIntervalNotPositive)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Name, ErrTimeoutNotPositive)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)

	// attempt is safe to increment without synchronization because
	// PollUntilContextTimeout invokes the condition function sequentially.
	attempt := 0
	if err := wait.PollUntilContextTimeout(ctx, cfg.Interval, cfg.Timeout, true,
		func(pollCtx context.Context) (bool, error) {
			// A dead process never starts listening; abort instead of
			// polling out the full timeout.
			if cfg.ProcessExited != nil {
				select {
				case <-cfg.ProcessExited:
					return false, fmt.Errorf("process %s: %w", cfg.Name, ErrProcessExited)
				default:
				}
			}

			attempt++
			conn, err := dialer.DialContext(pollCtx, "tcp", addr)
			if err != nil {
				log.Debug("readiness dial failed",
					"name", cfg.Name, "port", cfg.Port, "attempt", attempt, "error", err)
				return false, nil
			}
			_ = conn.Close()
			log.Debug("wait succeeded", "name", cfg.Name, "port", cfg.Port, "attempt", attempt)
			return true, nil
		}); err != nil {
		return fmt.Errorf("wait for %s readiness on port %d: %w", cfg.Name, cfg.Port, err)
	}
	return nil
}
