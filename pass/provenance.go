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
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

type paramSlot struct {
	fn       *ir.Func
	position int
}

// Oracle decides whether a pointer value is confined: derived only from a
// local stack allocation and never handed to code that could let it escape.
// Verdicts are memoized; the module must not change while an Oracle is in use.
type Oracle struct {
	index      *CallSiteIndex
	owners     map[*ir.Param]paramSlot
	verdicts   map[value.Value]bool
	inProgress map[value.Value]bool
}

// NewOracle creates an oracle over m using the call sites in index.
func NewOracle(m *ir.Module, index *CallSiteIndex) *Oracle {
	owners := make(map[*ir.Param]paramSlot)
	for _, fn := range m.Funcs {
		for i, p := range fn.Params {
			owners[p] = paramSlot{fn: fn, position: i}
		}
	}
	return &Oracle{
		index:      index,
		owners:     owners,
		verdicts:   make(map[value.Value]bool),
		inProgress: make(map[value.Value]bool),
	}
}

// Confined reports whether v provably points into a local stack slot.
func (o *Oracle) Confined(v value.Value) bool {
	if verdict, ok := o.verdicts[v]; ok {
		return verdict
	}
	// a value depending on itself through recursion is not confined
	if o.inProgress[v] {
		return false
	}
	o.inProgress[v] = true
	verdict := o.confined(v)
	delete(o.inProgress, v)
	o.verdicts[v] = verdict
	return verdict
}

func (o *Oracle) confined(v value.Value) bool {
	switch v := v.(type) {
	case *ir.InstAlloca:
		return true
	case *ir.InstGetElementPtr:
		return o.Confined(v.Src)
	case *ir.InstBitCast:
		return o.Confined(v.From)
	case *ir.Param:
		return o.confinedParam(v)
	default:
		return false
	}
}

func (o *Oracle) confinedParam(p *ir.Param) bool {
	slot, ok := o.owners[p]
	if !ok {
		return false
	}
	for _, call := range o.index.CallSites(slot.fn) {
		if slot.position >= len(call.Args) {
			return false
		}
		if !o.Confined(call.Args[slot.position]) {
			return false
		}
	}
	return true
}
