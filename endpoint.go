// Package udp implements a pair of UDP packet endpoints for streaming
// pipelines: a Source that coalesces incoming datagrams into ordered batches
// and a Sink that writes outgoing payloads one datagram per call.
package udp

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/hadi77ir/go-logging"

	"github.com/membraneframework/membrane-element-udp/log"
	"github.com/membraneframework/membrane-element-udp/types"
)

// EndpointConfig stores options for binding a local UDP socket.
type EndpointConfig struct {
	// LocalAddress is the address to bind. Nil binds the wildcard address.
	LocalAddress net.IP

	// LocalPortNo is the port to bind. Zero binds DefaultLocalPortNo.
	LocalPortNo int

	// RecvBufferSize sets the size of the operating system's receive
	// buffer associated with the socket. It also caps the payload of a
	// single received datagram. Zero means DefaultRecvBufferSize.
	RecvBufferSize int
}

func (c EndpointConfig) withDefaults() EndpointConfig {
	if c.LocalPortNo == 0 {
		c.LocalPortNo = DefaultLocalPortNo
	}
	if c.RecvBufferSize == 0 {
		c.RecvBufferSize = DefaultRecvBufferSize
	}
	return c
}

// Endpoint owns one bound UDP socket for its entire lifecycle.
type Endpoint struct {
	conn *net.UDPConn

	closeOnce sync.Once
	closeErr  error
}

var _ types.PacketEndpoint = &Endpoint{}

// Open binds the configured socket. It returns a *types.BindError if the
// address or port cannot be acquired; binding is never retried.
func (c *EndpointConfig) Open() (*Endpoint, error) {
	cfg := c.withDefaults()
	laddr := &net.UDPAddr{IP: cfg.LocalAddress, Port: cfg.LocalPortNo}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, &types.BindError{Addr: laddr.String(), Err: err}
	}
	ep := WrapEndpoint(conn)
	if err := ep.setReceiveBuffer(cfg.RecvBufferSize); err != nil {
		// A clamped OS buffer is survivable, just noisier packet loss.
		log.Log(logging.WarnLevel, fmt.Sprintf("udp: %v", err))
	}
	return ep, nil
}

// WrapEndpoint wraps an already-bound connection into an Endpoint. The
// endpoint takes ownership of the connection.
func WrapEndpoint(conn *net.UDPConn) *Endpoint {
	return &Endpoint{conn: conn}
}

// Receive blocks until one datagram arrives and copies its payload into b.
// A datagram larger than b is silently truncated to len(b).
func (e *Endpoint) Receive(b []byte) (int, *net.UDPAddr, error) {
	n, addr, err := e.conn.ReadFromUDP(b)
	if err != nil {
		return 0, nil, err
	}
	return n, addr, nil
}

// Send writes b as a single datagram to addr. Failures are reported to the
// caller and never retried.
func (e *Endpoint) Send(b []byte, addr *net.UDPAddr) (int, error) {
	if addr == nil {
		return 0, types.ErrMissingAddr
	}
	return e.conn.WriteToUDP(b, addr)
}

// LocalAddr returns the bound address, including an OS-assigned port.
func (e *Endpoint) LocalAddr() net.Addr {
	return e.conn.LocalAddr()
}

func (e *Endpoint) SetReadDeadline(t time.Time) error {
	return e.conn.SetReadDeadline(t)
}

// Close releases the socket. Calling it more than once is a no-op.
func (e *Endpoint) Close() error {
	e.closeOnce.Do(func() {
		e.closeErr = e.conn.Close()
	})
	return e.closeErr
}

// setReceiveBuffer asks the OS for a receive buffer of the given size and
// verifies what was actually granted. We check if we succeeded by querying
// the buffer size afterward; on Linux a clamped request is retried with
// SO_RCVBUFFORCE.
func (e *Endpoint) setReceiveBuffer(size int) error {
	if err := e.conn.SetReadBuffer(size); err != nil {
		return fmt.Errorf("failed to set receive buffer size: %w", err)
	}
	syscallConn, err := e.conn.SyscallConn()
	if err != nil {
		// No way of checking whether the request took effect.
		return nil
	}
	granted, err := inspectReadBuffer(syscallConn)
	if err != nil || granted == 0 {
		return nil
	}
	if granted >= size {
		return nil
	}
	_ = forceSetReceiveBuffer(syscallConn, size)
	granted, err = inspectReadBuffer(syscallConn)
	if err != nil {
		return fmt.Errorf("failed to determine receive buffer size: %w", err)
	}
	if granted < size {
		return fmt.Errorf("receive buffer clamped to %d bytes (wanted %d bytes)", granted, size)
	}
	return nil
}
