// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

// Package interp executes LLVM modules in-process over a flat byte memory.
// It covers the integer subset produced by the instrumentation pass and its
// inputs: stack slots, globals, pointer arithmetic, integer arithmetic, calls
// and structured control flow. Calls to the tracing hooks are routed to a
// tracer.Recorder.
package interp

import (
	"strings"

	"github.com/0xsoniclabs/tracemem/pass"
	"github.com/0xsoniclabs/tracemem/tracer"
	"github.com/cockroachdb/errors"
	"github.com/llir/llvm/ir"
)

// DefaultStepLimit bounds the instructions a single Call may execute.
const DefaultStepLimit = 10_000_000

// funcBase is where function addresses start; it lies far above any data.
const funcBase uint64 = 1 << 48

// External implements a function declared but not defined by the module.
type External func(mem *Memory, args []uint64) (uint64, error)

// Option configures a Machine.
type Option func(*Machine)

// WithRecorder routes hook calls to rec. Without a recorder the hooks
// perform the plain access.
func WithRecorder(rec *tracer.Recorder) Option {
	return func(m *Machine) {
		m.recorder = rec
	}
}

// WithHookNames overrides the names of the read and write hooks.
func WithHookNames(read, write string) Option {
	return func(m *Machine) {
		m.readHook = read
		m.writeHook = write
	}
}

// WithExternal binds a declared function to a Go implementation.
func WithExternal(name string, fn External) Option {
	return func(m *Machine) {
		m.externals[name] = fn
	}
}

// WithStepLimit bounds the instructions a single Call may execute.
func WithStepLimit(limit int) Option {
	return func(m *Machine) {
		m.stepLimit = limit
	}
}

// WithMemoryLimit bounds the bytes the machine may allocate.
func WithMemoryLimit(limit uint64) Option {
	return func(m *Machine) {
		m.memLimit = limit
	}
}

// Machine executes the functions of one module. It is not safe for
// concurrent use.
type Machine struct {
	module    *ir.Module
	mem       *Memory
	globals   map[*ir.Global]uint64
	funcAddrs map[*ir.Func]uint64
	funcs     map[uint64]*ir.Func
	externals map[string]External
	recorder  *tracer.Recorder
	readHook  string
	writeHook string
	stepLimit int
	memLimit  uint64
	steps     int
}

// New lays out and initializes the globals of module.
func New(module *ir.Module, opts ...Option) (*Machine, error) {
	m := &Machine{
		module:    module,
		globals:   make(map[*ir.Global]uint64),
		funcAddrs: make(map[*ir.Func]uint64),
		funcs:     make(map[uint64]*ir.Func),
		externals: make(map[string]External),
		readHook:  pass.DefaultReadHook,
		writeHook: pass.DefaultWriteHook,
		stepLimit: DefaultStepLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.mem = NewMemory(m.memLimit)

	for i, fn := range module.Funcs {
		addr := funcBase + uint64(i)*16
		m.funcAddrs[fn] = addr
		m.funcs[addr] = fn
	}
	for _, g := range module.Globals {
		size, err := sizeOf(g.ContentType)
		if err != nil {
			return nil, errors.Wrapf(err, "global @%s", g.Name())
		}
		addr, err := m.mem.Alloc(size, alignOf(g.ContentType))
		if err != nil {
			return nil, errors.Wrapf(err, "global @%s", g.Name())
		}
		m.globals[g] = addr
	}
	// initializers may take the address of any global
	for _, g := range module.Globals {
		if g.Init == nil {
			continue
		}
		if err := m.storeConstant(m.globals[g], g.Init); err != nil {
			return nil, errors.Wrapf(err, "initializer of @%s", g.Name())
		}
	}
	return m, nil
}

// Memory returns the address space of the machine.
func (m *Machine) Memory() *Memory {
	return m.mem
}

// Snapshot returns a copy of the machine's memory contents.
func (m *Machine) Snapshot() []byte {
	return m.mem.Bytes()
}

// GlobalAddress returns the address of the named global.
func (m *Machine) GlobalAddress(name string) (uint64, error) {
	for g, addr := range m.globals {
		if g.Name() == name {
			return addr, nil
		}
	}
	return 0, errors.Newf("no global named @%s", name)
}

// Steps returns the instructions executed by the last Call.
func (m *Machine) Steps() int {
	return m.steps
}

// Call runs the named function with integer or pointer arguments.
func (m *Machine) Call(name string, args ...uint64) (uint64, error) {
	fn := m.lookup(name)
	if fn == nil {
		return 0, errors.Newf("no function named @%s", name)
	}
	m.steps = 0
	return m.call(fn, args)
}

func (m *Machine) lookup(name string) *ir.Func {
	for _, fn := range m.module.Funcs {
		if fn.Name() == name {
			return fn
		}
	}
	return nil
}

func (m *Machine) call(fn *ir.Func, args []uint64) (uint64, error) {
	if len(fn.Blocks) == 0 {
		return m.callExternal(fn, args)
	}
	if len(args) < len(fn.Params) {
		return 0, errors.Newf("@%s expects %d arguments, got %d", fn.Name(), len(fn.Params), len(args))
	}

	mark := m.mem.Mark()
	defer m.mem.Release(mark)

	f := newFrame(fn)
	for i, p := range fn.Params {
		f.regs[p] = truncate(args[i], bitWidth(p.Type()))
	}
	ret, err := m.run(f)
	if err != nil {
		return 0, errors.Wrapf(err, "in @%s", fn.Name())
	}
	return ret, nil
}

func (m *Machine) callExternal(fn *ir.Func, args []uint64) (uint64, error) {
	name := fn.Name()
	switch name {
	case m.readHook:
		if len(args) != 2 {
			return 0, errors.Newf("@%s expects 2 arguments, got %d", name, len(args))
		}
		if m.recorder == nil {
			v, err := m.mem.LoadI32(args[1])
			return uint64(uint32(v)), err
		}
		v, err := m.recorder.Read(int32(args[0]), args[1], m.mem)
		return uint64(uint32(v)), err
	case m.writeHook:
		if len(args) != 3 {
			return 0, errors.Newf("@%s expects 3 arguments, got %d", name, len(args))
		}
		if m.recorder == nil {
			return 0, m.mem.StoreI32(args[1], int32(args[2]))
		}
		return 0, m.recorder.Write(int32(args[0]), args[1], int32(args[2]), m.mem)
	}
	if ext, ok := m.externals[name]; ok {
		return ext(m.mem, args)
	}
	if ext := builtin(name); ext != nil {
		return ext(m.mem, args)
	}
	if strings.HasPrefix(name, pass.IntrinsicPrefix) {
		// lifetime markers, debug info and similar have no effect here
		return 0, nil
	}
	return 0, errors.Newf("call to undefined function @%s", name)
}
