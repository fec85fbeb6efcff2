package udp

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pion/transport/v3/deadline"

	"github.com/membraneframework/membrane-element-udp/types"
)

// SinkConfig stores options for opening a Sink.
type SinkConfig struct {
	// DestinationAddress and DestinationPortNo name the peer every payload
	// is written to. They are fixed at construction, never learned from
	// incoming traffic.
	DestinationAddress net.IP
	DestinationPortNo  int

	// LocalAddress is the address to bind. Nil binds the wildcard address.
	LocalAddress net.IP

	// LocalPortNo is the port to bind. Zero lets the OS pick one.
	LocalPortNo int
}

// Sink writes payloads to a fixed destination, one datagram per call. It
// does no batching, reordering or retrying; a failed write is reported for
// that payload only and the sink stays usable.
type Sink struct {
	conn *net.UDPConn

	writeDeadline *deadline.Deadline

	doneCh   chan struct{}
	doneOnce sync.Once
	closeErr error
}

// Open connects a UDP socket to the configured destination. Failures to
// acquire the local socket surface as *types.BindError.
func (c *SinkConfig) Open() (*Sink, error) {
	if c.DestinationAddress == nil || c.DestinationPortNo == 0 {
		return nil, types.ErrMissingAddr
	}
	laddr := &net.UDPAddr{IP: c.LocalAddress, Port: c.LocalPortNo}
	raddr := &net.UDPAddr{IP: c.DestinationAddress, Port: c.DestinationPortNo}
	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return nil, &types.BindError{Addr: laddr.String(), Err: err}
	}
	return WrapSink(conn), nil
}

// WrapSink wraps an already-connected UDP socket into a Sink. The sink takes
// ownership of the connection.
func WrapSink(conn *net.UDPConn) *Sink {
	return &Sink{
		conn:          conn,
		writeDeadline: deadline.New(),
		doneCh:        make(chan struct{}),
	}
}

// write deadline only casually checked as the write lands in the OS buffer
// and won't block for long
func (s *Sink) checkWriteDeadline() error {
	select {
	case <-s.doneCh:
		return types.ErrClosedSink
	case <-s.writeDeadline.Done():
		return context.DeadlineExceeded
	default:
	}
	return nil
}

// Write sends payload as a single datagram to the configured destination.
func (s *Sink) Write(payload []byte) error {
	if err := s.checkWriteDeadline(); err != nil {
		return err
	}
	_, err := s.conn.Write(payload)
	return err
}

func (s *Sink) SetWriteDeadline(t time.Time) error {
	s.writeDeadline.Set(t)
	return nil
}

// LocalAddr returns the bound local address.
func (s *Sink) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// RemoteAddr returns the configured destination address.
func (s *Sink) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

// Close releases the socket and fails any later Write with ErrClosedSink.
// Calling it more than once is a no-op.
func (s *Sink) Close() error {
	s.doneOnce.Do(func() {
		close(s.doneCh)
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
