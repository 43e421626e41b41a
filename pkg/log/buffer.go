package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Buffer is a fixed-size ring of pending entries drained by one background
// worker. Send never blocks: when the ring is full the oldest entry is
// overwritten and counted as dropped.
type Buffer struct {
	mu    sync.Mutex
	ring  []Entry
	head  int
	count int

	transporters []Transporter
	fallback     io.Writer

	wake    chan struct{}
	stop    chan struct{}
	stopped chan struct{}
	closed  bool // guarded by mu
	dropped atomic.Int64
}

// NewBuffer starts a worker that delivers entries to every transporter.
func NewBuffer(capacity int, transporters ...Transporter) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{
		ring:         make([]Entry, capacity),
		transporters: transporters,
		fallback:     os.Stderr,
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	go b.run()
	return b
}

// Send enqueues an entry and reports whether it was accepted. Entries sent
// after Close are rejected; accepted entries are delivered or counted as
// dropped.
func (b *Buffer) Send(entry Entry) bool {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false
	}
	if b.count == len(b.ring) {
		b.ring[b.head] = entry
		b.head = (b.head + 1) % len(b.ring)
		b.dropped.Add(1)
	} else {
		b.ring[(b.head+b.count)%len(b.ring)] = entry
		b.count++
	}
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
	return true
}

// DroppedCount returns how many entries were overwritten before delivery.
func (b *Buffer) DroppedCount() int64 {
	return b.dropped.Load()
}

// Close flushes pending entries, closes the transporters and stops the
// worker. Calling it more than once is safe.
func (b *Buffer) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.stop)
	<-b.stopped

	for _, t := range b.transporters {
		if err := t.Close(); err != nil {
			fmt.Fprintf(b.fallback, "log transporter %q close: %v\n", t.Name(), err)
		}
	}
}

func (b *Buffer) run() {
	defer close(b.stopped)
	for {
		select {
		case <-b.wake:
			b.drain()
		case <-b.stop:
			b.drain()
			return
		}
	}
}

// drain delivers everything queued at the time of the call.
func (b *Buffer) drain() {
	b.mu.Lock()
	pending := make([]Entry, 0, b.count)
	for b.count > 0 {
		pending = append(pending, b.ring[b.head])
		b.ring[b.head] = Entry{}
		b.head = (b.head + 1) % len(b.ring)
		b.count--
	}
	b.mu.Unlock()

	for _, e := range pending {
		for _, t := range b.transporters {
			if err := t.Write(e); err != nil {
				fmt.Fprintf(b.fallback, "log transporter %q failed: %v\n", t.Name(), err)
			}
		}
	}
}
