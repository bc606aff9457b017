// Package netutil provides small networking helpers for port allocation.
package netutil
