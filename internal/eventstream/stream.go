package eventstream

import (
	"errors"
	"os"
	"sync/atomic"
	"time"

	"xattr_sweeper/internal/bpf"

	"github.com/cilium/ebpf/perf"
)

// ErrClosed is returned by Read once the source is permanently closed.
var ErrClosed = errors.New("eventstream: closed")

// ErrAgain is returned by Read when the bounded wait elapsed with no event.
// The caller is expected to check for cancellation and poll again.
var ErrAgain = errors.New("eventstream: no event within poll timeout")

// Source is a one-directional, best-effort transport of tracer events.
// Delivery is at-most-once: records may be dropped under load with no
// signal beyond the Lost counter, and ordering is only preserved among
// events from the same producer context.
type Source interface {
	// Read returns the next event, ErrAgain after the bounded wait, or
	// ErrClosed once the source is shut down.
	Read() (*bpf.RawEvent, error)
	// Lost reports how many events were dropped in transport so far.
	Lost() uint64
	Close() error
}

// PerfSource reads tracer events from a kernel perf event buffer.
// It is the production transport: one ring per CPU, records overwritten
// when the consumer polls too slowly.
type PerfSource struct {
	reader  *perf.Reader
	timeout time.Duration
	lost    atomic.Uint64
}

// NewPerfSource wraps a perf reader with a bounded poll wait.
func NewPerfSource(reader *perf.Reader, timeout time.Duration) *PerfSource {
	return &PerfSource{
		reader:  reader,
		timeout: timeout,
	}
}

// Read returns the next decoded event from the perf buffer.
// Kernel-side drops are counted and skipped rather than surfaced as errors.
func (s *PerfSource) Read() (*bpf.RawEvent, error) {
	for {
		s.reader.SetDeadline(time.Now().Add(s.timeout))

		record, err := s.reader.Read()
		if err != nil {
			if errors.Is(err, perf.ErrClosed) {
				return nil, ErrClosed
			}
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return nil, ErrAgain
			}
			return nil, err
		}

		if record.LostSamples != 0 {
			s.lost.Add(record.LostSamples)
			continue
		}

		return bpf.ParseRawEvent(record.RawSample)
	}
}

// Lost reports the number of samples the kernel dropped because the
// buffer was full.
func (s *PerfSource) Lost() uint64 {
	return s.lost.Load()
}

// Close shuts down the underlying perf reader. Pending Reads return ErrClosed.
func (s *PerfSource) Close() error {
	return s.reader.Close()
}
