package eventstream

import (
	"sync"
	"sync/atomic"
	"time"

	"xattr_sweeper/internal/bpf"
)

// ChannelSource is an in-memory bounded Source with the same loss contract
// as the perf transport: submission never blocks, a full buffer drops the
// event. It backs the userspace call tracer and lets tests inject
// controlled drops.
type ChannelSource struct {
	ch      chan bpf.RawEvent
	timeout time.Duration
	lost    atomic.Uint64
	done    chan struct{}
	once    sync.Once
}

// NewChannelSource creates a ChannelSource holding at most capacity events.
func NewChannelSource(capacity int, timeout time.Duration) *ChannelSource {
	return &ChannelSource{
		ch:      make(chan bpf.RawEvent, capacity),
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// Submit offers an event to the channel without blocking. It reports
// whether the event was accepted; a full or closed channel drops it and
// bumps the lost counter. The producer never retries.
func (s *ChannelSource) Submit(ev bpf.RawEvent) bool {
	select {
	case <-s.done:
		s.lost.Add(1)
		return false
	default:
	}

	select {
	case s.ch <- ev:
		return true
	default:
		s.lost.Add(1)
		return false
	}
}

// Read returns the next buffered event, ErrAgain after the bounded wait,
// or ErrClosed once Close has been called and the buffer is drained.
func (s *ChannelSource) Read() (*bpf.RawEvent, error) {
	// Drain buffered events even after close.
	select {
	case ev := <-s.ch:
		return &ev, nil
	default:
	}

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case ev := <-s.ch:
		return &ev, nil
	case <-s.done:
		return nil, ErrClosed
	case <-timer.C:
		return nil, ErrAgain
	}
}

// Lost reports the number of events dropped because the buffer was full.
func (s *ChannelSource) Lost() uint64 {
	return s.lost.Load()
}

// Close shuts the channel down. Subsequent Submits are dropped; Reads
// return buffered events first, then ErrClosed.
func (s *ChannelSource) Close() error {
	s.once.Do(func() {
		close(s.done)
	})
	return nil
}
