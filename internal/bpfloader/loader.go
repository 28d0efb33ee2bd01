// Package bpfloader manages the lifecycle of eBPF programs and their kernel attachments.
package bpfloader

import (
	"errors"
	"fmt"
	"os"

	"xattr_sweeper/internal/bpf"

	"github.com/cilium/ebpf/link"
	"github.com/cilium/ebpf/perf"
	"github.com/cilium/ebpf/rlimit"
)

// Loader manages the lifecycle of BPF programs and their attachments.
type Loader struct {
	objs               bpf.XattrTracerObjects
	setxattrEnterLink  link.Link
	setxattrExitLink   link.Link
	lsetxattrEnterLink link.Link
	lsetxattrExitLink  link.Link
}

// New creates a new Loader and loads the BPF objects into the kernel.
// Failure here is fatal for the process: it means the kernel lacks support
// or the process lacks privileges to attach a tracer.
func New() (*Loader, error) {
	if err := rlimit.RemoveMemlock(); err != nil {
		return nil, fmt.Errorf("removing memlock limit: %w", err)
	}

	l := &Loader{}

	if err := bpf.LoadXattrTracerObjects(&l.objs, nil); err != nil {
		return nil, fmt.Errorf("loading BPF objects: %w", err)
	}

	return l, nil
}

// closeErrorf closes all attached links and returns a formatted error.
func (l *Loader) closeErrorf(errstr string, e error) error {
	// Close all links that may have been attached (nil-safe)
	// We intentionally ignore errors during cleanup here since we're already in an error path
	if l.lsetxattrExitLink != nil {
		_ = l.lsetxattrExitLink.Close() //nolint:errcheck // Best-effort cleanup in error path
	}
	if l.lsetxattrEnterLink != nil {
		_ = l.lsetxattrEnterLink.Close() //nolint:errcheck // Best-effort cleanup in error path
	}
	if l.setxattrExitLink != nil {
		_ = l.setxattrExitLink.Close() //nolint:errcheck // Best-effort cleanup in error path
	}
	if l.setxattrEnterLink != nil {
		_ = l.setxattrEnterLink.Close() //nolint:errcheck // Best-effort cleanup in error path
	}
	return fmt.Errorf("%s: %w", errstr, e)
}

// Attach attaches the BPF programs to the setxattr and lsetxattr
// entry and exit tracepoints.
func (l *Loader) Attach() error {
	var err error

	l.setxattrEnterLink, err = link.Tracepoint("syscalls", "sys_enter_setxattr", l.objs.TraceEnterSetxattr, nil)
	if err != nil {
		return l.closeErrorf("attaching sys_enter_setxattr tracepoint", err)
	}

	l.setxattrExitLink, err = link.Tracepoint("syscalls", "sys_exit_setxattr", l.objs.TraceExitSetxattr, nil)
	if err != nil {
		return l.closeErrorf("attaching sys_exit_setxattr tracepoint", err)
	}

	l.lsetxattrEnterLink, err = link.Tracepoint("syscalls", "sys_enter_lsetxattr", l.objs.TraceEnterLsetxattr, nil)
	if err != nil {
		return l.closeErrorf("attaching sys_enter_lsetxattr tracepoint", err)
	}

	l.lsetxattrExitLink, err = link.Tracepoint("syscalls", "sys_exit_lsetxattr", l.objs.TraceExitLsetxattr, nil)
	if err != nil {
		return l.closeErrorf("attaching sys_exit_lsetxattr tracepoint", err)
	}

	return nil
}

// OpenPerfBuffer opens and returns a perf buffer reader for receiving events.
func (l *Loader) OpenPerfBuffer() (*perf.Reader, error) {
	rd, err := perf.NewReader(l.objs.Events, os.Getpagesize()*64)
	if err != nil {
		return nil, fmt.Errorf("opening perf buffer: %w", err)
	}
	return rd, nil
}

// Close releases all BPF resources including links and loaded objects.
func (l *Loader) Close() error {
	var errs []error

	if l.lsetxattrExitLink != nil {
		if err := l.lsetxattrExitLink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing lsetxattr exit link: %w", err))
		}
	}

	if l.lsetxattrEnterLink != nil {
		if err := l.lsetxattrEnterLink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing lsetxattr enter link: %w", err))
		}
	}

	if l.setxattrExitLink != nil {
		if err := l.setxattrExitLink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing setxattr exit link: %w", err))
		}
	}

	if l.setxattrEnterLink != nil {
		if err := l.setxattrEnterLink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing setxattr enter link: %w", err))
		}
	}

	if err := l.objs.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing BPF objects: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during cleanup: %w", errors.Join(errs...))
	}

	return nil
}
