package udp

import (
	"net"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/membraneframework/membrane-element-udp/types"
)

// Batch is an ordered run of packets emitted downstream in one delivery,
// oldest arrival first. The consumer owns an emitted batch; once it is done
// with the payloads it should call Release to recycle their buffers.
type Batch struct {
	packets []types.Packet
	bufs    []*bytebufferpool.ByteBuffer
	pool    *bytebufferpool.Pool
}

// Packets returns the packets in arrival order. The payloads are only valid
// until Release is called.
func (b *Batch) Packets() []types.Packet {
	return b.packets
}

// Len returns the number of packets in the batch.
func (b *Batch) Len() int {
	return len(b.packets)
}

// Release returns the payload buffers to the source's pool. Calling it more
// than once is a no-op.
func (b *Batch) Release() {
	for _, buf := range b.bufs {
		b.pool.Put(buf)
	}
	b.bufs = nil
	b.packets = nil
}

// aggregator is the source's accumulation state machine. It is driven by
// exactly one goroutine, so it needs no locking: datagram arrivals grow the
// current batch and ticker fires flush it once it has gone idle. A batch is
// handed out as soon as it reaches the count threshold, so neither mechanism
// lets a packet wait longer than max(threshold arrivals, one idle period).
type aggregator struct {
	threshold   int
	idleTimeout time.Duration
	pool        *bytebufferpool.Pool
	now         func() time.Time

	packets      []types.Packet
	bufs         []*bytebufferpool.ByteBuffer
	lastActivity time.Time
}

func newAggregator(threshold int, timeout time.Duration, pool *bytebufferpool.Pool, now func() time.Time) *aggregator {
	if now == nil {
		now = time.Now
	}
	return &aggregator{
		threshold:   threshold,
		idleTimeout: timeout,
		pool:        pool,
		now:         now,
	}
}

func (a *aggregator) size() int {
	return len(a.packets)
}

// push appends one received datagram to the current batch, preserving
// arrival order, and returns the batch if the append filled it up to the
// count threshold. A count-triggered flush does not touch the ticker: the
// idle bound is measured from the last arrival, not from flush time.
func (a *aggregator) push(addr *net.UDPAddr, buf *bytebufferpool.ByteBuffer) *Batch {
	a.packets = append(a.packets, types.Packet{
		Payload: buf.B,
		Meta: types.Metadata{
			Address: addr.IP,
			Port:    addr.Port,
		},
	})
	a.bufs = append(a.bufs, buf)
	a.lastActivity = a.now()

	if len(a.packets) >= a.threshold {
		return a.take()
	}
	return nil
}

// tick checks whether the current batch has gone idle. It returns the batch,
// possibly smaller than the threshold, if no datagram has arrived for at
// least the idle timeout. An empty or still-fresh batch is left alone.
func (a *aggregator) tick() *Batch {
	if len(a.packets) == 0 {
		return nil
	}
	if a.now().Sub(a.lastActivity) < a.idleTimeout {
		return nil
	}
	return a.take()
}

// take hands out the accumulated batch and resets accumulation to empty.
func (a *aggregator) take() *Batch {
	batch := &Batch{
		packets: a.packets,
		bufs:    a.bufs,
		pool:    a.pool,
	}
	a.packets = nil
	a.bufs = nil
	return batch
}

// discard drops the accumulated batch without emitting it, returning its
// buffers to the pool. Leaving the playing state intentionally discards any
// partial batch instead of flushing it mid-teardown.
func (a *aggregator) discard() {
	for _, buf := range a.bufs {
		a.pool.Put(buf)
	}
	a.packets = nil
	a.bufs = nil
}
