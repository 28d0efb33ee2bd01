// Package calltrace models the kernel-side syscall correlation table in
// userspace.
//
// The production tracer lives in eBPF (internal/bpf): a hash map keyed by
// pid_tgid holds the context captured at syscall entry, and the exit
// handler emits exactly one event per successful call. This package
// expresses the same semantics behind Go interfaces so the pipeline can be
// driven by synthesized entry/exit pairs without a kernel tracer attached:
//
//   - Table: atomic insert/lookup/delete keyed by thread identifier
//   - BoundedTable: fixed-capacity map implementation
//   - Tracer: HandleEnter/HandleExit correlation emitting into a Sink
//
// Known, accepted races carried over from the kernel program: a second
// entry on the same thread overwrites the pending context, and a failed
// exit leaves its context in place until overwritten.
package calltrace
