package calltrace

import (
	"testing"

	"xattr_sweeper/internal/bpf"
)

// collectSink records every submitted event.
type collectSink struct {
	events []bpf.RawEvent
}

func (s *collectSink) Submit(ev bpf.RawEvent) bool {
	s.events = append(s.events, ev)
	return true
}

func TestTracer_SuccessfulCallEmitsOnce(t *testing.T) {
	sink := &collectSink{}
	tr := NewTracer(NewBoundedTable(16), sink)
	id := ThreadID{Pid: 100, Tid: 100}

	tr.HandleEnter(id, "/tmp/a", "user.expire_at", "1000")
	tr.HandleExit(id, 0)

	if len(sink.events) != 1 {
		t.Fatalf("got %d events, want 1", len(sink.events))
	}
	ev := sink.events[0]
	if ev.PathString() != "/tmp/a" || ev.NameString() != "user.expire_at" || ev.ValueString() != "1000" {
		t.Errorf("event = (%q, %q, %q)", ev.PathString(), ev.NameString(), ev.ValueString())
	}

	// The context was consumed; a duplicate exit emits nothing.
	tr.HandleExit(id, 0)
	if len(sink.events) != 1 {
		t.Errorf("duplicate exit emitted an event, got %d events", len(sink.events))
	}
}

func TestTracer_FailedCallEmitsNothing(t *testing.T) {
	sink := &collectSink{}
	table := NewBoundedTable(16)
	tr := NewTracer(table, sink)
	id := ThreadID{Pid: 100, Tid: 100}

	tr.HandleEnter(id, "/tmp/a", "user.expire_at", "1000")
	tr.HandleExit(id, -13)

	if len(sink.events) != 0 {
		t.Errorf("failed call emitted %d events", len(sink.events))
	}

	// The stale context is left behind (bounded leak, overwritten later).
	if table.Len() != 1 {
		t.Errorf("table has %d entries, want 1", table.Len())
	}
}

func TestTracer_ExitWithoutContext(t *testing.T) {
	sink := &collectSink{}
	tr := NewTracer(NewBoundedTable(16), sink)

	tr.HandleExit(ThreadID{Pid: 42, Tid: 42}, 0)

	if len(sink.events) != 0 {
		t.Errorf("exit with no context emitted %d events", len(sink.events))
	}
}

func TestTracer_SecondEnterOverwrites(t *testing.T) {
	sink := &collectSink{}
	tr := NewTracer(NewBoundedTable(16), sink)
	id := ThreadID{Pid: 100, Tid: 101}

	tr.HandleEnter(id, "/tmp/a", "user.expire_at", "1000")
	tr.HandleEnter(id, "/tmp/b", "user.expire_at", "2000")
	tr.HandleExit(id, 0)

	if len(sink.events) != 1 {
		t.Fatalf("got %d events, want 1", len(sink.events))
	}
	if got := sink.events[0].PathString(); got != "/tmp/b" {
		t.Errorf("event path = %q, want /tmp/b (last enter wins)", got)
	}
}

func TestTracer_SeparateThreadsDoNotInterfere(t *testing.T) {
	sink := &collectSink{}
	tr := NewTracer(NewBoundedTable(16), sink)
	a := ThreadID{Pid: 100, Tid: 101}
	b := ThreadID{Pid: 100, Tid: 102}

	tr.HandleEnter(a, "/tmp/a", "user.expire_at", "1000")
	tr.HandleEnter(b, "/tmp/b", "user.expire_at", "2000")
	tr.HandleExit(b, 0)
	tr.HandleExit(a, 0)

	if len(sink.events) != 2 {
		t.Fatalf("got %d events, want 2", len(sink.events))
	}
	if sink.events[0].PathString() != "/tmp/b" || sink.events[1].PathString() != "/tmp/a" {
		t.Errorf("events out of order: %q, %q",
			sink.events[0].PathString(), sink.events[1].PathString())
	}
}

func TestBoundedTable_FullTableDropsNewEntries(t *testing.T) {
	table := NewBoundedTable(1)
	a := ThreadID{Pid: 1, Tid: 1}
	b := ThreadID{Pid: 2, Tid: 2}

	if !table.Insert(a, bpf.NewRawEvent("/tmp/a", "user.expire_at", "1000")) {
		t.Fatal("Insert() into empty table failed")
	}
	if table.Insert(b, bpf.NewRawEvent("/tmp/b", "user.expire_at", "2000")) {
		t.Error("Insert() accepted a new key into a full table")
	}

	// Overwriting the existing key still succeeds.
	if !table.Insert(a, bpf.NewRawEvent("/tmp/c", "user.expire_at", "3000")) {
		t.Error("Insert() overwrite failed on a full table")
	}
	ctx, ok := table.Lookup(a)
	if !ok || ctx.PathString() != "/tmp/c" {
		t.Errorf("Lookup() = (%q, %v), want /tmp/c", ctx.PathString(), ok)
	}
}

func TestBoundedTable_DeleteMissingIsNoop(t *testing.T) {
	table := NewBoundedTable(4)
	table.Delete(ThreadID{Pid: 9, Tid: 9})

	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
}
