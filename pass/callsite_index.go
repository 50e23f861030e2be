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
	"strings"

	"github.com/llir/llvm/ir"
)

// IntrinsicPrefix marks functions provided by the compiler itself.
const IntrinsicPrefix = "llvm."

// IsIntrinsic reports whether fn is a compiler intrinsic.
func IsIntrinsic(fn *ir.Func) bool {
	return strings.HasPrefix(fn.Name(), IntrinsicPrefix)
}

// CallSiteIndex maps every directly called function of a module to the call
// instructions targeting it. It is built once and never shrinks.
type CallSiteIndex struct {
	sites   map[*ir.Func][]*ir.InstCall
	callees []*ir.Func
	calls   []*ir.InstCall
	callers map[*ir.InstCall]*ir.Func
}

// NewCallSiteIndex scans every call of every defined function in m.
func NewCallSiteIndex(m *ir.Module) *CallSiteIndex {
	index := &CallSiteIndex{
		sites:   make(map[*ir.Func][]*ir.InstCall),
		callers: make(map[*ir.InstCall]*ir.Func),
	}
	for _, fn := range m.Funcs {
		for _, block := range fn.Blocks {
			for _, inst := range block.Insts {
				if call, ok := inst.(*ir.InstCall); ok {
					index.Add(fn, call)
				}
			}
		}
	}
	return index
}

// Add records call, issued from caller. Calls through function pointers,
// constant expressions and intrinsics are observed but not indexed.
func (x *CallSiteIndex) Add(caller *ir.Func, call *ir.InstCall) {
	x.calls = append(x.calls, call)
	x.callers[call] = caller

	callee, ok := call.Callee.(*ir.Func)
	if !ok || callee.Name() == "" || IsIntrinsic(callee) {
		return
	}
	if _, seen := x.sites[callee]; !seen {
		x.callees = append(x.callees, callee)
	}
	x.sites[callee] = append(x.sites[callee], call)
}

// CallSites returns the indexed calls of callee in module order.
func (x *CallSiteIndex) CallSites(callee *ir.Func) []*ir.InstCall {
	return x.sites[callee]
}

// Callees returns every indexed callee in first-seen order.
func (x *CallSiteIndex) Callees() []*ir.Func {
	return x.callees
}

// Calls returns every observed call, indexed or not.
func (x *CallSiteIndex) Calls() []*ir.InstCall {
	return x.calls
}

// Caller returns the function issuing call, or nil if call was never added.
func (x *CallSiteIndex) Caller(call *ir.InstCall) *ir.Func {
	return x.callers[call]
}

// NumSites returns the number of indexed call sites.
func (x *CallSiteIndex) NumSites() int {
	n := 0
	for _, calls := range x.sites {
		n += len(calls)
	}
	return n
}
