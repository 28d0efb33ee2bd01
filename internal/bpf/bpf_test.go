package bpf

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func TestField_StopsAtFirstNUL(t *testing.T) {
	var b [FieldLen]byte
	copy(b[:], "/tmp/a\x00garbage-after-terminator")

	if got := Field(b); got != "/tmp/a" {
		t.Errorf("Field() = %q, want /tmp/a", got)
	}
}

func TestField_NoTerminator(t *testing.T) {
	// A source string longer than the capacity arrives truncated with no NUL.
	long := strings.Repeat("x", FieldLen*2)
	b := MakeField(long)

	got := Field(b)
	if len(got) != FieldLen {
		t.Errorf("Field() length = %d, want %d", len(got), FieldLen)
	}
	if got != long[:FieldLen] {
		t.Errorf("Field() = %q, want %q", got, long[:FieldLen])
	}
}

func TestField_Empty(t *testing.T) {
	var b [FieldLen]byte
	if got := Field(b); got != "" {
		t.Errorf("Field() = %q, want empty string", got)
	}
}

func TestNewRawEvent(t *testing.T) {
	ev := NewRawEvent("/tmp/a", "user.expire_at", "1700000000")

	if got := ev.PathString(); got != "/tmp/a" {
		t.Errorf("PathString() = %q, want /tmp/a", got)
	}
	if got := ev.NameString(); got != "user.expire_at" {
		t.Errorf("NameString() = %q, want user.expire_at", got)
	}
	if got := ev.ValueString(); got != "1700000000" {
		t.Errorf("ValueString() = %q, want 1700000000", got)
	}
}

func TestParseRawEvent_RoundTrip(t *testing.T) {
	ev := NewRawEvent("/var/data/report.csv", "user.expire_at", "1000")

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &ev); err != nil {
		t.Fatalf("encoding event: %v", err)
	}

	got, err := ParseRawEvent(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseRawEvent() error: %v", err)
	}
	if got.PathString() != "/var/data/report.csv" {
		t.Errorf("PathString() = %q", got.PathString())
	}
	if got.ValueString() != "1000" {
		t.Errorf("ValueString() = %q", got.ValueString())
	}
}

func TestParseRawEvent_ShortSample(t *testing.T) {
	if _, err := ParseRawEvent(make([]byte, RawEventSize-1)); err == nil {
		t.Error("expected error for short sample")
	}
}

func TestParseRawEvent_PaddedSample(t *testing.T) {
	// Perf records may pad the sample past the struct size.
	ev := NewRawEvent("/tmp/a", "user.expire_at", "1000")

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &ev); err != nil {
		t.Fatalf("encoding event: %v", err)
	}
	buf.Write(make([]byte, 6))

	got, err := ParseRawEvent(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseRawEvent() error: %v", err)
	}
	if got.PathString() != "/tmp/a" {
		t.Errorf("PathString() = %q, want /tmp/a", got.PathString())
	}
}
