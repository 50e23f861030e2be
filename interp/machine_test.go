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

package interp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0xsoniclabs/tracemem/logger"
	"github.com/0xsoniclabs/tracemem/pass"
	"github.com/0xsoniclabs/tracemem/tracer"
	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func parse(t *testing.T, src string) *ir.Module {
	t.Helper()
	m, err := asm.ParseString("test.ll", src)
	require.NoError(t, err)
	return m
}

func loadSeries(t *testing.T) *ir.Module {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "series.ll"))
	require.NoError(t, err)
	return parse(t, string(data))
}

func newMachine(t *testing.T, m *ir.Module, opts ...Option) *Machine {
	t.Helper()
	machine, err := New(m, opts...)
	require.NoError(t, err)
	return machine
}

func TestMachine_Series(t *testing.T) {
	machine := newMachine(t, loadSeries(t))

	got, err := machine.Call("series", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(55), got)

	addr, err := machine.GlobalAddress("counter")
	require.NoError(t, err)
	counter, err := machine.Memory().LoadI32(addr)
	require.NoError(t, err)
	assert.Equal(t, int32(11), counter)
}

func TestMachine_InstrumentedModuleBehavesLikeOriginal(t *testing.T) {
	original := newMachine(t, loadSeries(t))
	want, err := original.Call("series", 10)
	require.NoError(t, err)

	instrumented := loadSeries(t)
	_, err = pass.New(pass.DefaultOptions(), logger.NewLogger("critical", "interp-test")).Run(instrumented)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	rec := tracer.NewRecorder(64, tracer.NewMockLogWriter(ctrl))
	machine := newMachine(t, instrumented, WithRecorder(rec))
	got, err := machine.Call("series", 10)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, original.Snapshot(), machine.Snapshot())

	counter, err := machine.GlobalAddress("counter")
	require.NoError(t, err)
	events := rec.Events()
	require.Len(t, events, 20)
	for i := 0; i < 10; i++ {
		assert.Equal(t, tracer.Event{Kind: tracer.Read, Seq: 0, Addr: counter, Value: int32(i + 1)}, events[2*i])
		assert.Equal(t, tracer.Event{Kind: tracer.Write, Seq: 1, Addr: counter, Value: int32(i + 2)}, events[2*i+1])
	}
}

func TestMachine_HooksWithoutRecorderAccessMemory(t *testing.T) {
	instrumented := loadSeries(t)
	_, err := pass.New(pass.DefaultOptions(), logger.NewLogger("critical", "interp-test")).Run(instrumented)
	require.NoError(t, err)

	got, err := newMachine(t, instrumented).Call("series", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(55), got)
}

func TestMachine_StepLimit(t *testing.T) {
	m := parse(t, `
define void @spin() {
entry:
  br label %loop

loop:
  br label %loop
}
`)
	_, err := newMachine(t, m, WithStepLimit(100)).Call("spin")
	assert.ErrorContains(t, err, "step limit")
}

func TestMachine_ControlFlowAndAggregates(t *testing.T) {
	m := parse(t, `
%pair = type { i8, i32 }

@table = global [3 x i32] [i32 5, i32 -7, i32 9]
@p = global %pair { i8 1, i32 40 }

define i32 @pick(i32 %k) {
entry:
  switch i32 %k, label %other [
    i32 0, label %zero
    i32 1, label %one
  ]

zero:
  br label %done

one:
  br label %done

other:
  br label %done

done:
  %r = phi i32 [ 10, %zero ], [ 20, %one ], [ 30, %other ]
  ret i32 %r
}

define i32 @fields() {
entry:
  %f = getelementptr %pair, %pair* @p, i32 0, i32 1
  %v = load i32, i32* %f
  %e = getelementptr [3 x i32], [3 x i32]* @table, i64 0, i64 1
  %w = load i32, i32* %e
  %s = add i32 %v, %w
  ret i32 %s
}

define i32 @signs(i8 %b) {
entry:
  %x = sext i8 %b to i32
  %neg = icmp slt i32 %x, 0
  %y = select i1 %neg, i32 1, i32 2
  %z = zext i8 %b to i32
  %q = sdiv i32 %x, 2
  %t = add i32 %y, %z
  %u = add i32 %t, %q
  ret i32 %u
}
`)
	machine := newMachine(t, m)
	for k, want := range map[uint64]uint64{0: 10, 1: 20, 7: 30} {
		got, err := machine.Call("pick", k)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := machine.Call("fields")
	require.NoError(t, err)
	assert.Equal(t, uint64(33), got)

	// -2: select 1, zext 254, sdiv -1
	got, err = machine.Call("signs", 0xfe)
	require.NoError(t, err)
	assert.Equal(t, uint64(254), got)
}

func TestMachine_IndirectCallsAndExternals(t *testing.T) {
	m := parse(t, `
declare i32 @host(i32)

define i32 @twice(i32 %x) {
entry:
  %r = mul i32 %x, 2
  ret i32 %r
}

define i32 @apply(i32 (i32)* %f, i32 %x) {
entry:
  %r = call i32 %f(i32 %x)
  ret i32 %r
}

define i32 @main() {
entry:
  %a = call i32 @apply(i32 (i32)* @twice, i32 21)
  %b = call i32 @host(i32 %a)
  ret i32 %b
}
`)
	host := func(_ *Memory, args []uint64) (uint64, error) {
		return args[0] + 1, nil
	}
	got, err := newMachine(t, m, WithExternal("host", host)).Call("main")
	require.NoError(t, err)
	assert.Equal(t, uint64(43), got)

	_, err = newMachine(t, m).Call("main")
	assert.ErrorContains(t, err, "undefined function @host")
}

func TestMachine_StackIsReleasedOnReturn(t *testing.T) {
	m := parse(t, `
define i32 @local(i32 %v) {
entry:
  %slot = alloca [16 x i32]
  %e = getelementptr [16 x i32], [16 x i32]* %slot, i32 0, i32 3
  store i32 %v, i32* %e
  %r = load i32, i32* %e
  ret i32 %r
}
`)
	machine := newMachine(t, m)
	before := len(machine.Snapshot())
	got, err := machine.Call("local", 77)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), got)
	assert.Len(t, machine.Snapshot(), before)
}

func TestMachine_MemoryIntrinsics(t *testing.T) {
	m := parse(t, `
@src = global [4 x i8] c"abcd"
@dst = global [4 x i8] zeroinitializer

declare void @llvm.memcpy.p0i8.p0i8.i64(i8*, i8*, i64, i1)
declare void @llvm.memset.p0i8.i64(i8*, i8, i64, i1)
declare void @llvm.donothing()

define i8 @copy() {
entry:
  %d = getelementptr [4 x i8], [4 x i8]* @dst, i64 0, i64 0
  %s = getelementptr [4 x i8], [4 x i8]* @src, i64 0, i64 0
  call void @llvm.memcpy.p0i8.p0i8.i64(i8* %d, i8* %s, i64 4, i1 false)
  call void @llvm.memset.p0i8.i64(i8* %d, i8 122, i64 1, i1 false)
  call void @llvm.donothing()
  %e = getelementptr [4 x i8], [4 x i8]* @dst, i64 0, i64 3
  %v = load i8, i8* %e
  ret i8 %v
}
`)
	machine := newMachine(t, m)
	got, err := machine.Call("copy")
	require.NoError(t, err)
	assert.Equal(t, uint64('d'), got)

	dst, err := machine.GlobalAddress("dst")
	require.NoError(t, err)
	first, err := machine.Memory().Load(dst, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64('z'), first)
}

func TestMachine_UnknownFunction(t *testing.T) {
	_, err := newMachine(t, loadSeries(t)).Call("missing")
	assert.ErrorContains(t, err, "no function named @missing")
}

func TestMachine_UnknownGlobal(t *testing.T) {
	_, err := newMachine(t, loadSeries(t)).GlobalAddress("missing")
	assert.Error(t, err)
}
