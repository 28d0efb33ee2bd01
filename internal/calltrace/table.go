package calltrace

import (
	"sync"

	"xattr_sweeper/internal/bpf"
)

// ThreadID identifies the thread executing a traced syscall.
// It mirrors the kernel's pid_tgid composite key.
type ThreadID struct {
	Pid uint32
	Tid uint32
}

// Table stores pending call contexts keyed by thread identifier.
// Implementations must make each operation individually atomic, the way
// the kernel hash map does.
type Table interface {
	// Insert stores a context, overwriting any pending entry for the same
	// thread. It reports false when a new entry cannot fit in the table.
	Insert(id ThreadID, ctx bpf.RawEvent) bool
	// Lookup retrieves the pending context for a thread.
	Lookup(id ThreadID) (bpf.RawEvent, bool)
	// Delete removes the pending context for a thread, if any.
	Delete(id ThreadID)
}

// BoundedTable is an in-memory Table with a fixed capacity, matching the
// kernel map's max_entries behavior: overwriting an existing key always
// succeeds, a new key is dropped once the table is full.
type BoundedTable struct {
	mu       sync.Mutex
	capacity int
	entries  map[ThreadID]bpf.RawEvent
}

// NewBoundedTable creates a table holding at most capacity entries.
func NewBoundedTable(capacity int) *BoundedTable {
	return &BoundedTable{
		capacity: capacity,
		entries:  make(map[ThreadID]bpf.RawEvent, capacity),
	}
}

// Insert stores a context for a thread (last-write-wins).
func (t *BoundedTable) Insert(id ThreadID, ctx bpf.RawEvent) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[id]; !exists && len(t.entries) >= t.capacity {
		return false
	}
	t.entries[id] = ctx
	return true
}

// Lookup retrieves the pending context for a thread.
func (t *BoundedTable) Lookup(id ThreadID) (bpf.RawEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ctx, ok := t.entries[id]
	return ctx, ok
}

// Delete removes the pending context for a thread.
func (t *BoundedTable) Delete(id ThreadID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.entries, id)
}

// Len returns the number of pending contexts.
func (t *BoundedTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}
