package dynamolocal

import (
	"log/slog"

	"github.com/giantswarm/dynamolocal/internal/core"
)

// SetLogger replaces the package-level logger used by dynamolocal. This
// allows applications to integrate dynamolocal logging with their own
// logging infrastructure. The provided logger should already carry any
// desired attributes; dynamolocal will not add additional attributes.
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute, re-derived on the next use and then cached. Call
// SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// The package-level logger is the fallback for managers constructed without
// WithLogger; a manager's own logger always takes precedence.
//
// SetLogger is safe to call concurrently with other dynamolocal operations.
// Both the custom logger and the cached default are stored as atomic
// pointers, so loads and stores are data-race-free.
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
