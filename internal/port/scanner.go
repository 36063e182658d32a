package port

import (
	"fmt"
	"net"
)

// Scanner checks whether specific ports are available on the host machine.
//
// It asks the operating system directly by trying to bind the port, rather
// than parsing /proc/net/* or shelling out to lsof/ss, which may require
// elevated permissions.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortAvailable checks whether a single port is free on the host machine.
//
// We bind to all interfaces (":port" rather than "127.0.0.1:port") because
// Docker publishes ports on 0.0.0.0, so that is the address space that has
// to be free.
//
// Returns true if the port is free, false if it is in use, out of range or
// the protocol is not "tcp" or "udp".
func (s *Scanner) IsPortAvailable(port int, protocol string) bool {
	if port < 1 || port > 65535 {
		return false
	}
	addr := fmt.Sprintf(":%d", port)

	switch protocol {
	case "tcp":
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return false
		}
		_ = listener.Close()
		return true

	case "udp":
		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true

	default:
		return false
	}
}

// FindHostPortConflict returns a non-nil error describing the conflict
// when the TCP host port is already bound.
func (s *Scanner) FindHostPortConflict(port int) error {
	if s.IsPortAvailable(port, "tcp") {
		return nil
	}
	return fmt.Errorf("host port %d is already in use", port)
}
