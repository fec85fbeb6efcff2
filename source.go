package udp

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hadi77ir/go-logging"
	"github.com/hadi77ir/go-ringqueue"
	"github.com/valyala/bytebufferpool"

	"github.com/membraneframework/membrane-element-udp/log"
	"github.com/membraneframework/membrane-element-udp/types"
)

// BatchConsumer receives the batches a Source emits. HandleBatch is called
// from the source's run loop, one batch at a time, in emission order. The
// consumer owns the batch and should call Release once done with it.
type BatchConsumer interface {
	HandleBatch(batch *Batch)
}

// BatchConsumerFunc adapts a function into a BatchConsumer.
type BatchConsumerFunc func(batch *Batch)

func (f BatchConsumerFunc) HandleBatch(batch *Batch) { f(batch) }

// SourceConfig stores options for opening a Source.
type SourceConfig struct {
	// LocalAddress is the address to bind. Nil binds the wildcard address.
	LocalAddress net.IP

	// LocalPortNo is the port to bind. Zero binds DefaultLocalPortNo.
	LocalPortNo int

	// RecvBufferSize sets the OS receive buffer size and caps the payload
	// of a single received datagram. Zero means DefaultRecvBufferSize.
	RecvBufferSize int

	// PacketsPerBuffer is the number of packets that fills a batch and
	// triggers a flush. Zero means DefaultPacketsPerBuffer; a smaller
	// batch is still flushed once it sits idle for the flush period.
	PacketsPerBuffer int
}

func (c SourceConfig) withDefaults() (SourceConfig, error) {
	if c.PacketsPerBuffer < 0 {
		return c, types.ErrInvalidPacketsPerBuffer
	}
	if c.PacketsPerBuffer == 0 {
		c.PacketsPerBuffer = DefaultPacketsPerBuffer
	}
	if c.RecvBufferSize == 0 {
		c.RecvBufferSize = DefaultRecvBufferSize
	}
	return c, nil
}

// SourceStats is a snapshot of a source's counters.
type SourceStats struct {
	PacketsReceived int64
	BytesReceived   int64
	PacketsDropped  int64
	BatchesEmitted  int64
	SocketErrors    int64
}

// Source receives UDP datagrams on one socket and aggregates them into
// ordered batches. Datagram arrivals and ticker fires are funneled through a
// single-consumer event queue, so the aggregation state machine only ever
// runs on the run-loop goroutine.
//
// A freshly opened source is stopped: datagrams read while stopped are
// dropped. Start enters the playing state and arms the flush ticker, Stop
// leaves it and discards any partial batch.
type Source struct {
	cfg      SourceConfig
	endpoint types.PacketEndpoint
	consumer BatchConsumer

	queue   ringqueue.RingQueue[event]
	bufPool *bytebufferpool.Pool
	agg     *aggregator

	// playing is owned by the run loop; lifecycle transitions reach it as
	// queued control events.
	playing bool

	mu       sync.Mutex
	tickStop chan struct{}

	doneCh   chan struct{}
	doneOnce sync.Once
	closeErr error
	wg       sync.WaitGroup

	packetsReceived atomic.Int64
	bytesReceived   atomic.Int64
	packetsDropped  atomic.Int64
	batchesEmitted  atomic.Int64
	socketErrors    atomic.Int64
}

// Open binds the configured socket and spawns the source's loops. The source
// starts out stopped; call Start to begin emitting batches. Bind failures
// surface as *types.BindError.
func (c *SourceConfig) Open(consumer BatchConsumer) (*Source, error) {
	cfg, err := c.withDefaults()
	if err != nil {
		return nil, err
	}
	if consumer == nil {
		return nil, types.ErrNilConsumer
	}
	epCfg := EndpointConfig{
		LocalAddress:   cfg.LocalAddress,
		LocalPortNo:    cfg.LocalPortNo,
		RecvBufferSize: cfg.RecvBufferSize,
	}
	endpoint, err := epCfg.Open()
	if err != nil {
		return nil, err
	}
	return WrapSource(endpoint, cfg, consumer)
}

// WrapSource builds a Source over an already-open endpoint. On success the
// source takes ownership of the endpoint and closes it on Close.
func WrapSource(endpoint types.PacketEndpoint, cfg SourceConfig, consumer BatchConsumer) (*Source, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if endpoint == nil {
		return nil, types.ErrClosedEndpoint
	}
	if consumer == nil {
		return nil, types.ErrNilConsumer
	}

	s := &Source{
		cfg:      cfg,
		endpoint: endpoint,
		consumer: consumer,
		bufPool:  &bytebufferpool.Pool{},
		doneCh:   make(chan struct{}),
	}
	queue, err := ringqueue.NewSafe[event](eventBacklog, ringqueue.WhenFullError, ringqueue.WhenEmptyBlock, s.onQueueClose)
	if err != nil {
		return nil, err
	}
	s.queue = queue
	s.agg = newAggregator(cfg.PacketsPerBuffer, idleTimeout, s.bufPool, nil)

	s.wg.Add(2)
	go s.readLoop()
	go s.runLoop()

	return s, nil
}

// Start enters the playing state: accumulation state is reset and the flush
// ticker is armed. Starting an already playing source is a no-op.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.doneCh:
		return types.ErrClosedSource
	default:
	}
	if s.tickStop != nil {
		return nil
	}
	if err := s.pushControl(evStart); err != nil {
		return err
	}
	stop := make(chan struct{})
	s.tickStop = stop
	s.wg.Add(1)
	go s.tickLoop(stop)
	return nil
}

// Stop leaves the playing state: the flush ticker is disarmed and a partial
// batch is discarded, not flushed. Emitting a batch mid-teardown would hand
// the consumer data it no longer expects. Stopping a stopped source is a
// no-op.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tickStop == nil {
		return nil
	}
	close(s.tickStop)
	s.tickStop = nil
	return s.pushControl(evStop)
}

// pushControl enqueues a lifecycle event, waiting out transient queue-full
// conditions. The run loop drains continuously, so a retry is rare and
// short-lived.
func (s *Source) pushControl(kind eventKind) error {
	for {
		if _, err := s.queue.Push(event{kind: kind}); err == nil {
			return nil
		}
		select {
		case <-s.doneCh:
			return types.ErrClosedSource
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

// Close stops the ticker, closes the socket and the event queue, and waits
// for both loops to drain. Pending pooled buffers are recycled. Calling it
// more than once is a no-op.
func (s *Source) Close() error {
	s.doneOnce.Do(func() {
		close(s.doneCh)
		s.mu.Lock()
		if s.tickStop != nil {
			close(s.tickStop)
			s.tickStop = nil
		}
		s.mu.Unlock()

		s.closeErr = s.endpoint.Close()
		if err := s.queue.Close(); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
		s.wg.Wait()
		s.agg.discard()
	})
	return s.closeErr
}

// LocalAddr returns the bound address, including an OS-assigned port.
func (s *Source) LocalAddr() net.Addr {
	return s.endpoint.LocalAddr()
}

// Stats returns a snapshot of the source's counters.
func (s *Source) Stats() SourceStats {
	return SourceStats{
		PacketsReceived: s.packetsReceived.Load(),
		BytesReceived:   s.bytesReceived.Load(),
		PacketsDropped:  s.packetsDropped.Load(),
		BatchesEmitted:  s.batchesEmitted.Load(),
		SocketErrors:    s.socketErrors.Load(),
	}
}

// readLoop blocks on the endpoint and pushes every received datagram into
// the event queue as a pooled buffer. It exits when the endpoint is closed.
func (s *Source) readLoop() {
	defer s.wg.Done()
	for {
		buf := s.bufPool.Get()
		if cap(buf.B) < s.cfg.RecvBufferSize {
			buf.B = make([]byte, s.cfg.RecvBufferSize)
		} else {
			buf.B = buf.B[:s.cfg.RecvBufferSize]
		}

		n, addr, err := s.endpoint.Receive(buf.B)
		if err != nil {
			s.bufPool.Put(buf)
			select {
			case <-s.doneCh:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			s.socketErrors.Add(1)
			log.Log(logging.WarnLevel, fmt.Sprintf("udp: source read: %v", err))
			continue
		}

		buf.B = buf.B[:n]
		s.packetsReceived.Add(1)
		s.bytesReceived.Add(int64(n))

		if _, err := s.queue.Push(event{kind: evPacket, pkt: receivedPacket{data: buf, addr: addr}}); err != nil {
			// Queue overrun or closed, the packet is lost either way.
			s.bufPool.Put(buf)
			s.packetsDropped.Add(1)
		}
	}
}

// runLoop is the single consumer of the event queue and the only goroutine
// that touches the aggregator.
func (s *Source) runLoop() {
	defer s.wg.Done()
	for {
		ev, _, err := s.queue.Pop()
		if err != nil {
			return
		}
		switch ev.kind {
		case evStart:
			if !s.playing {
				s.playing = true
				s.agg.discard()
			}
		case evStop:
			if s.playing {
				s.playing = false
				s.agg.discard()
			}
		case evPacket:
			if !s.playing {
				s.bufPool.Put(ev.pkt.data)
				s.packetsDropped.Add(1)
				continue
			}
			if batch := s.agg.push(ev.pkt.addr, ev.pkt.data); batch != nil {
				s.emit(batch)
			}
		case evTick:
			if !s.playing {
				continue
			}
			if batch := s.agg.tick(); batch != nil {
				s.emit(batch)
			}
		}
	}
}

func (s *Source) emit(batch *Batch) {
	s.batchesEmitted.Add(1)
	s.consumer.HandleBatch(batch)
}

// tickLoop pushes a flush-check event once per idle period while the source
// is playing. The ticker free-runs: a count-triggered flush does not reset
// it, so the idle bound is measured from the last packet arrival.
func (s *Source) tickLoop(stop chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(idleTimeout)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-s.doneCh:
			return
		case <-ticker.C:
			// A failed push means the queue is full or closing. A
			// full queue has a backlog of arrivals to work off, so
			// the lost tick is redundant; the next one gets through
			// once the run loop catches up. Shutdown still ends the
			// loop through stop and doneCh above.
			_, _ = s.queue.Push(event{kind: evTick})
		}
	}
}

func (s *Source) onQueueClose(ev event) {
	if ev.kind == evPacket && ev.pkt.data != nil {
		s.bufPool.Put(ev.pkt.data)
	}
}
