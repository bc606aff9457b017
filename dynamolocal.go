package dynamolocal

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/giantswarm/dynamolocal/internal/core"
)

// Compile-time interface satisfaction checks.
var (
	_ Manager  = (*managerWrapper)(nil)
	_ Instance = (*instanceWrapper)(nil)
)

// errForeignInstance is returned by StopChild when handed an Instance that
// was not produced by this package.
var errForeignInstance = errors.New("dynamolocal: instance was not created by a Manager from this package")

// managerWrapper wraps core.Manager to implement the Manager interface.
// This allows returning the Instance interface from Launch instead of
// *core.Instance.
//
// The core.Manager is stored as a named (unexported) field rather than
// embedded to prevent callers from using type assertions to access internal
// methods that are not part of the public Manager interface.
type managerWrapper struct {
	mgr *core.Manager
}

// Install wraps core.Manager.Install.
func (w *managerWrapper) Install(ctx context.Context) error {
	return w.mgr.Install(ctx)
}

// IsInstalled wraps core.Manager.IsInstalled.
func (w *managerWrapper) IsInstalled() bool {
	return w.mgr.IsInstalled()
}

// Launch implements Manager.Launch, returning the Instance interface.
//
//nolint:ireturn // Returns Instance interface by design for testability (mockable).
func (w *managerWrapper) Launch(ctx context.Context, port int, opts ...LaunchOption) (Instance, error) {
	inst, err := w.mgr.Launch(ctx, port, buildLaunchConfig(opts))
	if err != nil {
		return nil, err
	}
	return &instanceWrapper{inst: inst}, nil
}

// Stop wraps core.Manager.Stop.
func (w *managerWrapper) Stop(ctx context.Context, port int) error {
	return w.mgr.Stop(ctx, port)
}

// StopChild implements Manager.StopChild. The handle must originate from
// this package; handles from other Manager instances are accepted as well,
// matching the original contract that any child handle can be stopped.
func (w *managerWrapper) StopChild(ctx context.Context, inst Instance) error {
	if inst == nil {
		return nil
	}
	wrapper, ok := inst.(*instanceWrapper)
	if !ok {
		return errForeignInstance
	}
	return w.mgr.StopChild(ctx, wrapper.inst)
}

// Relaunch implements Manager.Relaunch, returning the Instance interface.
//
//nolint:ireturn // Returns Instance interface by design for testability (mockable).
func (w *managerWrapper) Relaunch(ctx context.Context, port int, opts ...LaunchOption) (Instance, error) {
	inst, err := w.mgr.Relaunch(ctx, port, buildLaunchConfig(opts))
	if err != nil {
		return nil, err
	}
	return &instanceWrapper{inst: inst}, nil
}

// Close wraps core.Manager.Close.
func (w *managerWrapper) Close() error {
	return w.mgr.Close()
}

// instanceWrapper wraps core.Instance to implement the Instance interface.
//
// The core.Instance is stored as a named (unexported) field rather than
// embedded to prevent callers from using type assertions to access internal
// methods that are not part of the public Instance interface.
type instanceWrapper struct {
	inst *core.Instance
}

// Port delegates to the underlying core.Instance.
func (w *instanceWrapper) Port() int { return w.inst.Port() }

// PID delegates to the underlying core.Instance.
func (w *instanceWrapper) PID() int { return w.inst.PID() }

// Detached delegates to the underlying core.Instance.
func (w *instanceWrapper) Detached() bool { return w.inst.Detached() }

// Endpoint delegates to the underlying core.Instance.
func (w *instanceWrapper) Endpoint() string { return w.inst.Endpoint() }

// Exited delegates to the underlying core.Instance.
func (w *instanceWrapper) Exited() <-chan struct{} { return w.inst.Exited() }

// ExitErr delegates to the underlying core.Instance.
func (w *instanceWrapper) ExitErr() error { return w.inst.ExitErr() }

// WaitReady delegates to the underlying core.Instance.
func (w *instanceWrapper) WaitReady(ctx context.Context) error {
	return w.inst.WaitReady(ctx)
}

// buildLaunchConfig applies launch options to a zero launch configuration.
func buildLaunchConfig(opts []LaunchOption) core.LaunchConfig {
	var cfg launchConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg.toCoreConfig()
}

// defaultManagerConfig returns a managerConfig populated with all default
// values. Both NewManager and test helpers use this to avoid duplicating
// the default field assignments.
func defaultManagerConfig() managerConfig {
	return managerConfig{core.ManagerConfig{
		InstallPath:     filepath.Join(os.TempDir(), DefaultInstallDirName),
		DownloadURL:     DefaultDownloadURL,
		JavaBinary:      DefaultJavaBinary,
		StopTimeout:     DefaultStopTimeout,
		ReadyTimeout:    DefaultReadyTimeout,
		InstallTimeout:  DefaultInstallTimeout,
		DownloadTimeout: DefaultDownloadTimeout,
	}}
}

// NewManager creates a Manager with the given options. Each call returns an
// independent manager with its own configuration and its own registry of
// instances; parallel tests can run isolated managers with different install
// paths. This performs no I/O; installation happens on Install or on the
// first Launch.
//
// Panics if any option receives an invalid value. See individual With*
// functions for constraints.
//
//nolint:ireturn // Returns Manager interface by design for testability (mockable).
func NewManager(opts ...ManagerOption) Manager {
	cfg := defaultManagerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &managerWrapper{mgr: core.NewManagerWithConfig(cfg.toCoreConfig())}
}
