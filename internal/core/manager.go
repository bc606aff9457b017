package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/dynamolocal/internal/dbfile"
	"github.com/giantswarm/dynamolocal/internal/emulator"
	"github.com/giantswarm/dynamolocal/internal/installer"
	"github.com/giantswarm/dynamolocal/internal/netutil"
	"github.com/giantswarm/dynamolocal/internal/process"
	"github.com/giantswarm/dynamolocal/internal/registry"
	"github.com/giantswarm/dynamolocal/internal/sentinel"
)

// ErrClosed is returned by Launch, Install and Relaunch after Close has been
// called on the Manager.
const ErrClosed = sentinel.Error("manager is closed")

// ErrDatabaseCorrupt is re-exported from dbfile so the public API imports
// only from core, preserving the layering: public API → core → dbfile.
const ErrDatabaseCorrupt = dbfile.ErrDatabaseCorrupt

// ErrAlreadyStarted is re-exported from process so the public API imports
// only from core, preserving the layering: public API → core → process.
const ErrAlreadyStarted = process.ErrAlreadyStarted

// ErrProcessExited is re-exported from process so the public API imports
// only from core, preserving the layering: public API → core → process.
var ErrProcessExited = process.ErrProcessExited

// Manager coordinates installation and the lifecycle of emulator processes,
// tracking them in a port-keyed registry. It is safe for concurrent use by
// multiple goroutines, and multiple independent Managers may coexist in one
// process: each owns its own configuration and registry.
//
// Synchronization strategy:
//   - closed is an atomic flag set by Close; Launch and Install check it on
//     entry. Close drains the registry exactly once via closeOnce.
//   - the registry serializes per-port launches through port reservations,
//     so two concurrent Launch calls on one port spawn one process.
type Manager struct {
	cfg ManagerConfig

	inst    *installer.Installer
	reg     *registry.Registry[*Instance]
	log     *slog.Logger
	metrics MetricsCollector

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewManagerWithConfig creates a Manager with the provided configuration.
// This performs no I/O; installation and process spawning happen in Install
// and Launch.
//
// Panics if cfg.Validate() reports any errors. Invalid configuration is a
// programmer error that should be caught at construction time, similar to
// regexp.MustCompile.
func NewManagerWithConfig(cfg ManagerConfig) *Manager {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("dynamolocal: invalid manager config: %v", err))
	}

	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	inst, err := installer.New(installer.Config{
		InstallPath:     cfg.InstallPath,
		DownloadURL:     cfg.DownloadURL,
		EntryPoint:      emulator.EntryPointJar,
		DownloadTimeout: cfg.DownloadTimeout,
		Logger:          log,
	})
	if err != nil {
		// Unreachable after Validate; kept as a guard against field drift
		// between ManagerConfig and installer.Config.
		panic(fmt.Sprintf("dynamolocal: invalid installer config: %v", err))
	}

	return &Manager{
		cfg:     cfg,
		inst:    inst,
		reg:     registry.New[*Instance](log),
		log:     log,
		metrics: metrics,
	}
}

// IsInstalled reports whether the emulator runtime is already present under
// the configured install path.
func (m *Manager) IsInstalled() bool {
	return m.inst.IsInstalled()
}

// Install makes sure the emulator runtime is present under the configured
// install path, downloading and extracting the distribution archive if
// needed. No-op when already installed. Safe to call concurrently, also
// across processes sharing the install path; extraction is serialized by a
// file lock.
//
// The operation is bounded by the configured install timeout in addition to
// ctx.
func (m *Manager) Install(ctx context.Context) error {
	if m.closed.Load() {
		return ErrClosed
	}

	installCtx, cancel := context.WithTimeout(ctx, m.cfg.InstallTimeout)
	defer cancel()

	start := time.Now()
	err := m.inst.EnsureInstalled(installCtx)
	m.metrics.RecordInstall(time.Since(start), err)
	return err
}

// Launch returns a running emulator instance on the given port. Port 0
// allocates a free loopback port from the kernel; the chosen port is
// available through the returned handle.
//
// If the port already has a tracked instance, that handle is returned
// without inspecting process liveness; an instance that exited on its own
// stays tracked until Stop. Otherwise Launch installs the runtime if needed,
// spawns the emulator, registers it, and returns the new handle.
//
// Concurrent Launch calls on the same port resolve to a single spawn: the
// losers wait for the winner and return its handle (or retry if the winner
// failed). All install and spawn failures are reported through the returned
// error; runtime failures after a successful spawn are observable through
// the handle's Exited and ExitErr.
func (m *Manager) Launch(ctx context.Context, port int, launchCfg LaunchConfig) (*Instance, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if err := launchCfg.Validate(); err != nil {
		return nil, fmt.Errorf("launch on port %d: %w", port, err)
	}
	if port == 0 {
		free, err := netutil.FreePort()
		if err != nil {
			return nil, fmt.Errorf("launch: allocate port: %w", err)
		}
		port = free
	}

	// Reserve the port, or adopt the result of a concurrent launch.
	for {
		existing, wait, reserved := m.reg.TryReserve(port)
		if reserved {
			break
		}
		if wait == nil {
			return existing, nil
		}
		select {
		case <-wait:
			// The in-flight launch resolved; re-check the registry.
		case <-ctx.Done():
			return nil, fmt.Errorf("launch on port %d: %w", port, ctx.Err())
		}
	}

	inst, err := m.launchReserved(ctx, port, launchCfg)
	if err != nil {
		m.reg.Cancel(port)
		m.metrics.RecordLaunch(port, err)
		return nil, err
	}

	if !m.reg.Commit(port, inst) {
		// Close drained the registry while this launch was in flight;
		// nothing would ever stop the fresh child, so kill it here and
		// report the launch as lost to the shutdown.
		if killErr := inst.kill(m.cfg.StopTimeout); killErr != nil {
			m.log.Warn("stop of instance launched during close failed",
				"port", port, "pid", inst.PID(), "error", killErr)
		}
		m.metrics.RecordLaunch(port, ErrClosed)
		return nil, fmt.Errorf("launch on port %d: %w", port, ErrClosed)
	}
	m.metrics.RecordLaunch(port, nil)
	m.metrics.SetTracked(m.reg.Len())
	m.log.Info("emulator launched",
		"port", port, "pid", inst.PID(), "detached", inst.Detached())
	return inst, nil
}

// launchReserved installs the runtime and spawns the emulator for a port the
// caller has reserved. The caller resolves the reservation based on the
// returned error.
func (m *Manager) launchReserved(ctx context.Context, port int, launchCfg LaunchConfig) (*Instance, error) {
	if err := m.Install(ctx); err != nil {
		return nil, fmt.Errorf("launch on port %d: %w", port, err)
	}

	proc, err := emulator.New(emulator.Config{
		JavaBinary:     m.cfg.JavaBinary,
		InstallDir:     m.cfg.InstallPath,
		Port:           port,
		DBPath:         launchCfg.DBPath,
		JavaOptions:    launchCfg.JavaOptions,
		ExtraArgs:      launchCfg.ExtraArgs,
		Detached:       launchCfg.Detached,
		LogDir:         launchCfg.LogDir,
		FreshDatabase:  launchCfg.FreshDatabase,
		IntegrityCheck: launchCfg.IntegrityCheck,
		StopTimeout:    m.cfg.StopTimeout,
		Logger:         m.log,
	})
	if err != nil {
		return nil, fmt.Errorf("launch on port %d: %w", port, err)
	}
	if err := proc.Start(ctx); err != nil {
		return nil, fmt.Errorf("launch on port %d: %w", port, err)
	}

	return newInstance(proc, m.cfg.ReadyTimeout), nil
}

// Stop terminates the instance tracked for port and removes it from the
// registry. The process is killed outright and Stop waits for it to exit,
// bounded by the configured stop timeout, so the port is free for reuse when
// Stop returns. No-op if the port is untracked.
func (m *Manager) Stop(ctx context.Context, port int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("stop port %d: %w", port, err)
	}

	inst, ok := m.reg.Remove(port)
	if !ok {
		m.log.Debug("stop requested for untracked port", "port", port)
		return nil
	}
	m.metrics.SetTracked(m.reg.Len())

	err := inst.kill(m.cfg.StopTimeout)
	m.metrics.RecordStop(port, err)
	if err != nil {
		return fmt.Errorf("stop port %d: %w", port, err)
	}
	m.log.Info("emulator stopped", "port", port, "pid", inst.PID())
	return nil
}

// StopChild terminates an arbitrary instance handle gracefully: SIGTERM
// first, escalating to SIGKILL if the process does not exit within the grace
// period. If the instance is tracked in the registry under its port, the
// entry is removed as well.
func (m *Manager) StopChild(ctx context.Context, inst *Instance) error {
	if inst == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("stop child on port %d: %w", inst.Port(), err)
	}

	port := inst.Port()
	if tracked, ok := m.reg.Get(port); ok && tracked == inst {
		m.reg.Remove(port)
		m.metrics.SetTracked(m.reg.Len())
	}

	err := inst.stop(m.cfg.StopTimeout)
	m.metrics.RecordStop(port, err)
	if err != nil {
		return fmt.Errorf("stop child on port %d: %w", port, err)
	}
	return nil
}

// Relaunch stops the instance tracked for port, if any, and launches a new
// one with the given settings. Because Stop waits for process exit, the new
// process never races the old one for the port.
func (m *Manager) Relaunch(ctx context.Context, port int, launchCfg LaunchConfig) (*Instance, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}

	if err := m.Stop(ctx, port); err != nil {
		return nil, fmt.Errorf("relaunch port %d: %w", port, err)
	}
	return m.Launch(ctx, port, launchCfg)
}

// Close terminates all tracked non-detached instances and empties the
// registry. Detached instances are dropped from tracking but keep running.
// Subsequent Launch, Install and Relaunch calls return ErrClosed. A Launch
// in flight when Close drains the registry has its fresh child killed at
// commit time and returns ErrClosed as well, so no process outlives Close
// unobserved.
//
// Close is idempotent: the first call performs the cleanup, every call
// returns the first call's result. Instances are killed in parallel, so the
// worst-case duration is one stop timeout rather than one per instance.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)

		drained := m.reg.Drain()
		m.metrics.SetTracked(0)

		var g errgroup.Group
		for port, inst := range drained {
			if inst.Detached() {
				m.log.Debug("leaving detached emulator running", "port", port, "pid", inst.PID())
				continue
			}
			g.Go(func() error {
				err := inst.kill(m.cfg.StopTimeout)
				m.metrics.RecordStop(port, err)
				if err != nil {
					return fmt.Errorf("stop port %d: %w", port, err)
				}
				return nil
			})
		}
		m.closeErr = g.Wait()
		m.log.Info("manager closed", "tracked", len(drained))
	})
	return m.closeErr
}
