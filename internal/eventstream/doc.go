// Package eventstream transports tracer events from the kernel boundary to
// the ingester.
//
// The transport is deliberately lossy:
//   - at-most-once delivery, no redelivery, no sequence numbers
//   - a full buffer drops the event; the producer never blocks or retries
//   - ordering is preserved only among events from the same CPU
//   - drops are observable through a counter, nothing else
//
// Two implementations share the Source contract:
//   - PerfSource: the production transport over a kernel perf event buffer
//   - ChannelSource: an in-memory double for the userspace call tracer and
//     for tests that need controlled drops
package eventstream
