// Code generated by bpf2go; DO NOT EDIT.
//go:build 386 || amd64

package bpf

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/cilium/ebpf"
)

type xattrTracerXattrEvent struct {
	Path  [50]int8
	Name  [50]int8
	Value [50]int8
}

// loadXattrTracer returns the embedded CollectionSpec for xattrTracer.
func loadXattrTracer() (*ebpf.CollectionSpec, error) {
	reader := bytes.NewReader(_XattrTracerBytes)
	spec, err := ebpf.LoadCollectionSpecFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("can't load xattrTracer: %w", err)
	}

	return spec, err
}

// loadXattrTracerObjects loads xattrTracer and converts it into a struct.
//
// The following types are suitable as obj argument:
//
//	*xattrTracerObjects
//	*xattrTracerPrograms
//	*xattrTracerMaps
//
// See ebpf.CollectionSpec.LoadAndAssign documentation for details.
func loadXattrTracerObjects(obj interface{}, opts *ebpf.CollectionOptions) error {
	spec, err := loadXattrTracer()
	if err != nil {
		return err
	}

	return spec.LoadAndAssign(obj, opts)
}

// xattrTracerSpecs contains maps and programs before they are loaded into the kernel.
//
// It can be passed ebpf.CollectionSpec.Assign.
type xattrTracerSpecs struct {
	xattrTracerProgramSpecs
	xattrTracerMapSpecs
}

// xattrTracerSpecs contains programs before they are loaded into the kernel.
//
// It can be passed ebpf.CollectionSpec.Assign.
type xattrTracerProgramSpecs struct {
	TraceEnterLsetxattr *ebpf.ProgramSpec `ebpf:"trace_enter_lsetxattr"`
	TraceEnterSetxattr  *ebpf.ProgramSpec `ebpf:"trace_enter_setxattr"`
	TraceExitLsetxattr  *ebpf.ProgramSpec `ebpf:"trace_exit_lsetxattr"`
	TraceExitSetxattr   *ebpf.ProgramSpec `ebpf:"trace_exit_setxattr"`
}

// xattrTracerMapSpecs contains maps before they are loaded into the kernel.
//
// It can be passed ebpf.CollectionSpec.Assign.
type xattrTracerMapSpecs struct {
	CallContexts *ebpf.MapSpec `ebpf:"call_contexts"`
	Events       *ebpf.MapSpec `ebpf:"events"`
}

// xattrTracerObjects contains all objects after they have been loaded into the kernel.
//
// It can be passed to loadXattrTracerObjects or ebpf.CollectionSpec.LoadAndAssign.
type xattrTracerObjects struct {
	xattrTracerPrograms
	xattrTracerMaps
}

func (o *xattrTracerObjects) Close() error {
	return _XattrTracerClose(
		&o.xattrTracerPrograms,
		&o.xattrTracerMaps,
	)
}

// xattrTracerMaps contains all maps after they have been loaded into the kernel.
//
// It can be passed to loadXattrTracerObjects or ebpf.CollectionSpec.LoadAndAssign.
type xattrTracerMaps struct {
	CallContexts *ebpf.Map `ebpf:"call_contexts"`
	Events       *ebpf.Map `ebpf:"events"`
}

func (m *xattrTracerMaps) Close() error {
	return _XattrTracerClose(
		m.CallContexts,
		m.Events,
	)
}

// xattrTracerPrograms contains all programs after they have been loaded into the kernel.
//
// It can be passed to loadXattrTracerObjects or ebpf.CollectionSpec.LoadAndAssign.
type xattrTracerPrograms struct {
	TraceEnterLsetxattr *ebpf.Program `ebpf:"trace_enter_lsetxattr"`
	TraceEnterSetxattr  *ebpf.Program `ebpf:"trace_enter_setxattr"`
	TraceExitLsetxattr  *ebpf.Program `ebpf:"trace_exit_lsetxattr"`
	TraceExitSetxattr   *ebpf.Program `ebpf:"trace_exit_setxattr"`
}

func (p *xattrTracerPrograms) Close() error {
	return _XattrTracerClose(
		p.TraceEnterLsetxattr,
		p.TraceEnterSetxattr,
		p.TraceExitLsetxattr,
		p.TraceExitSetxattr,
	)
}

func _XattrTracerClose(closers ...io.Closer) error {
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Do not access this directly.
//
//go:embed xattrtracer_x86_bpfel.o
var _XattrTracerBytes []byte
