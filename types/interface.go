package types

import (
	"io"
	"net"
	"time"
)

// PacketEndpoint is a bound UDP socket owned by a single source or sink.
type PacketEndpoint interface {
	io.Closer
	// Receive blocks until one datagram arrives and copies its payload
	// into b. A datagram larger than b is silently truncated.
	Receive(b []byte) (n int, addr *net.UDPAddr, err error)
	// Send writes b as a single datagram to addr. Best effort, no retry.
	Send(b []byte, addr *net.UDPAddr) (n int, err error)
	LocalAddr() net.Addr
	SetReadDeadline(t time.Time) error
}
