package core

import "time"

// MetricsCollector receives lifecycle observations from a Manager. Implement
// it to export manager activity to a metrics backend; all methods must be
// safe for concurrent use.
type MetricsCollector interface {
	// RecordInstall observes one Install run with its duration and outcome.
	RecordInstall(d time.Duration, err error)

	// RecordLaunch observes one Launch attempt for a port. A nil error
	// means a process was spawned; registry hits are not recorded.
	RecordLaunch(port int, err error)

	// RecordStop observes one stop of a tracked or handed-in instance.
	RecordStop(port int, err error)

	// SetTracked reports the registry size after it changed.
	SetTracked(count int)
}

// NoopMetrics is a MetricsCollector that discards all observations. Used as
// the default when no collector is configured.
type NoopMetrics struct{}

var _ MetricsCollector = NoopMetrics{}

func (NoopMetrics) RecordInstall(time.Duration, error) {}
func (NoopMetrics) RecordLaunch(int, error)            {}
func (NoopMetrics) RecordStop(int, error)              {}
func (NoopMetrics) SetTracked(int)                     {}
