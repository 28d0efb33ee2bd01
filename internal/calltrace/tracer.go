package calltrace

import (
	"xattr_sweeper/internal/bpf"
)

// Sink receives correlated events from the tracer. Submission is
// fire-and-forget: a false return means the event was dropped and the
// tracer does not retry.
type Sink interface {
	Submit(ev bpf.RawEvent) bool
}

// Tracer correlates syscall entry and exit observations into events,
// reproducing the kernel program's semantics: one event per successful
// call, nothing for failures, nothing for exits with no pending context.
type Tracer struct {
	table Table
	sink  Sink
}

// NewTracer creates a Tracer over the given table and sink.
func NewTracer(table Table, sink Sink) *Tracer {
	return &Tracer{
		table: table,
		sink:  sink,
	}
}

// HandleEnter records a pending context for the thread, truncating each
// argument at the field capacity. A pending context for the same thread
// is overwritten: the last entry before exit wins.
func (t *Tracer) HandleEnter(id ThreadID, path, name, value string) {
	t.table.Insert(id, bpf.NewRawEvent(path, name, value))
}

// HandleExit consumes the pending context for the thread. A non-zero
// return code discards without emitting; the stale context is left in
// place, bounded by the table capacity. A missing context is dropped
// silently.
func (t *Tracer) HandleExit(id ThreadID, ret int) {
	if ret != 0 {
		return
	}

	ctx, ok := t.table.Lookup(id)
	if !ok {
		return
	}

	t.sink.Submit(ctx)
	t.table.Delete(id)
}
