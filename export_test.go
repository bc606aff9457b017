package dynamolocal

import (
	"log/slog"
	"time"
)

// ConfigSnapshot holds a copy of managerConfig fields for test assertions.
// Exported only via export_test.go so that the _test package can verify
// option closures actually mutate the config without accessing internals.
type ConfigSnapshot struct {
	InstallPath     string
	DownloadURL     string
	JavaBinary      string
	StopTimeout     time.Duration
	ReadyTimeout    time.Duration
	InstallTimeout  time.Duration
	DownloadTimeout time.Duration
	Logger          *slog.Logger
	Metrics         MetricsCollector
}

// ApplyOptionsForTesting creates a default managerConfig, applies the given
// options, and returns a ConfigSnapshot of the result. This tests the option
// closures directly without constructing a Manager.
func ApplyOptionsForTesting(opts ...ManagerOption) ConfigSnapshot {
	cfg := defaultManagerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return ConfigSnapshot{
		InstallPath:     cfg.InstallPath,
		DownloadURL:     cfg.DownloadURL,
		JavaBinary:      cfg.JavaBinary,
		StopTimeout:     cfg.StopTimeout,
		ReadyTimeout:    cfg.ReadyTimeout,
		InstallTimeout:  cfg.InstallTimeout,
		DownloadTimeout: cfg.DownloadTimeout,
		Logger:          cfg.Logger,
		Metrics:         cfg.Metrics,
	}
}

// LaunchSnapshot holds a copy of launchConfig fields for test assertions.
type LaunchSnapshot struct {
	DBPath         string
	JavaOptions    []string
	ExtraArgs      []string
	Detached       bool
	LogDir         string
	FreshDatabase  bool
	IntegrityCheck bool
}

// ApplyLaunchOptionsForTesting applies the given launch options to a zero
// launch configuration and returns a LaunchSnapshot of the result.
func ApplyLaunchOptionsForTesting(opts ...LaunchOption) LaunchSnapshot {
	cfg := buildLaunchConfig(opts)

	return LaunchSnapshot{
		DBPath:         cfg.DBPath,
		JavaOptions:    cfg.JavaOptions,
		ExtraArgs:      cfg.ExtraArgs,
		Detached:       cfg.Detached,
		LogDir:         cfg.LogDir,
		FreshDatabase:  cfg.FreshDatabase,
		IntegrityCheck: cfg.IntegrityCheck,
	}
}
