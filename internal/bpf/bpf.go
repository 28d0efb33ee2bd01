// Package bpf provides Go bindings for the eBPF xattr tracer.
package bpf

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cilium/ebpf"
)

//go:generate go run github.com/cilium/ebpf/cmd/bpf2go -target amd64 xattrTracer ./xattr_tracer.bpf.c -- -I. -I/usr/include

// FieldLen is the capacity of each string field in the kernel-shared event
// struct. The kernel copies up to FieldLen bytes per field; anything longer
// is truncated and may arrive without a terminating NUL.
const FieldLen = 50

// RawEvent matches struct xattr_event from xattr_tracer.bpf.c.
// It is the only type exchanged across the kernel/userspace boundary.
type RawEvent struct {
	Path  [FieldLen]byte
	Name  [FieldLen]byte
	Value [FieldLen]byte
}

// RawEventSize is the wire size of a RawEvent in bytes.
const RawEventSize = 3 * FieldLen

// Field decodes a fixed-capacity byte field into a string.
// Content stops at the first NUL; a field with no NUL is taken whole
// (the truncation case). Bytes after the first NUL are undefined and
// never inspected.
func Field(b [FieldLen]byte) string {
	if i := bytes.IndexByte(b[:], 0); i >= 0 {
		return string(b[:i])
	}
	return string(b[:])
}

// PathString returns the decoded path field.
func (e *RawEvent) PathString() string { return Field(e.Path) }

// NameString returns the decoded attribute-name field.
func (e *RawEvent) NameString() string { return Field(e.Name) }

// ValueString returns the decoded attribute-value field.
func (e *RawEvent) ValueString() string { return Field(e.Value) }

// MakeField builds a fixed-capacity field from a string, truncating at
// FieldLen. Mirrors what bpf_probe_read_user_str does to long arguments.
func MakeField(s string) [FieldLen]byte {
	var b [FieldLen]byte
	copy(b[:], s)
	return b
}

// NewRawEvent builds a RawEvent from decoded strings, applying the same
// truncation the kernel program applies. Used by the userspace call tracer
// and by tests.
func NewRawEvent(path, name, value string) RawEvent {
	return RawEvent{
		Path:  MakeField(path),
		Name:  MakeField(name),
		Value: MakeField(value),
	}
}

// ParseRawEvent decodes a perf record sample into a RawEvent.
func ParseRawEvent(sample []byte) (*RawEvent, error) {
	if len(sample) < RawEventSize {
		return nil, fmt.Errorf("short event sample: %d bytes, want %d", len(sample), RawEventSize)
	}
	var ev RawEvent
	if err := binary.Read(bytes.NewReader(sample), binary.LittleEndian, &ev); err != nil {
		return nil, fmt.Errorf("parsing event: %w", err)
	}
	return &ev, nil
}

// XattrTracerObjects provides access to the loaded BPF objects.
type XattrTracerObjects = xattrTracerObjects

// XattrTracerPrograms provides access to the BPF programs.
type XattrTracerPrograms = xattrTracerPrograms

// XattrTracerMaps provides access to the BPF maps.
type XattrTracerMaps = xattrTracerMaps

// LoadXattrTracerObjects loads the BPF programs and maps.
func LoadXattrTracerObjects(obj *xattrTracerObjects, opts *ebpf.CollectionOptions) error {
	return loadXattrTracerObjects(obj, opts)
}
