package netutil

import (
	"fmt"
	"net"
)

// FreePort asks the kernel for a currently unused TCP port on the loopback
// interface.
//
// The listener used to obtain the port is closed before returning, so the
// port is only probably free: another process may grab it between this call
// and the emulator binding it. Callers that need a guaranteed port should
// pass an explicitly managed one instead.
func FreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("resolve tcp address: %w", err)
	}
	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("listen on tcp address: %w", err)
	}
	tcpAddr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		_ = l.Close()
		return 0, fmt.Errorf("unexpected address type: %T", l.Addr())
	}
	if err := l.Close(); err != nil {
		return 0, fmt.Errorf("close probe listener: %w", err)
	}
	return tcpAddr.Port, nil
}
