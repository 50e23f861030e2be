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

package pass

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallSiteIndex_Build(t *testing.T) {
	m := parse(t, `
declare void @llvm.donothing()
declare void @ext()

define void @leaf() {
entry:
  ret void
}

define void @mid(void ()* %fp) {
entry:
  call void @leaf()
  call void %fp()
  call void @llvm.donothing()
  ret void
}

define void @top() {
entry:
  call void @ext()
  call void @mid(void ()* @leaf)
  call void @leaf()
  ret void
}
`)
	index := NewCallSiteIndex(m)
	leaf := findFunc(t, m, "leaf")
	mid := findFunc(t, m, "mid")
	top := findFunc(t, m, "top")
	ext := findFunc(t, m, "ext")

	assert.Equal(t, []*ir.Func{leaf, ext, mid}, index.Callees())
	assert.Len(t, index.CallSites(leaf), 2)
	assert.Len(t, index.CallSites(mid), 1)
	assert.Empty(t, index.CallSites(top))
	assert.Equal(t, 4, index.NumSites())
	assert.Len(t, index.Calls(), 6)

	calls := index.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, mid, index.Caller(calls[0]))
	assert.Equal(t, top, index.Caller(calls[len(calls)-1]))
}

func TestIsIntrinsic(t *testing.T) {
	m := ir.NewModule()
	assert.True(t, IsIntrinsic(m.NewFunc("llvm.memcpy.p0i8.p0i8.i64", types.Void)))
	assert.False(t, IsIntrinsic(m.NewFunc("memcpy", types.Void)))
}
