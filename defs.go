package udp

import (
	"net"
	"time"

	"github.com/valyala/bytebufferpool"
)

const (
	// DefaultLocalPortNo is the port a source or sink binds when none is given.
	DefaultLocalPortNo = 5000
	// DefaultRecvBufferSize caps the payload of a single received datagram.
	DefaultRecvBufferSize = 16384
	// DefaultPacketsPerBuffer is the count threshold for a batch flush.
	DefaultPacketsPerBuffer = 1

	// idleTimeout is the fixed period of the source's flush ticker. A
	// non-empty batch that has seen no arrival for at least this long is
	// flushed on the next tick.
	idleTimeout = 100 * time.Millisecond

	// eventBacklog bounds the source's event queue. Arrivals beyond it are
	// dropped, like an overrun OS socket buffer.
	eventBacklog = 1024
)

// receivedPacket is one datagram as read off the socket, backed by a pooled
// buffer owned by the source until it is dropped or emitted in a batch.
type receivedPacket struct {
	data *bytebufferpool.ByteBuffer
	addr *net.UDPAddr
}

type eventKind uint8

const (
	evPacket eventKind = iota
	evTick
	evStart
	evStop
)

// event is one unit of work for the source's run loop. Datagram arrivals,
// ticker fires and lifecycle transitions all funnel through the same
// single-consumer queue, so aggregator state is never touched concurrently.
type event struct {
	kind eventKind
	pkt  receivedPacket
}
