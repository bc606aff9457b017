// Package registry provides an in-memory mapping from port number to the
// handle of the emulator process currently bound to that port.
//
// The registry enforces at most one live entry per port and serializes
// concurrent launches on the same port through a reservation protocol:
// TryReserve marks a port as launch-in-flight, and Commit or Cancel resolves
// the reservation, waking any callers blocked on the reservation's channel.
package registry
