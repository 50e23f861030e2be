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
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// operandUser is implemented by every llir instruction and terminator.
type operandUser interface {
	Operands() []*value.Value
}

// Site is one instrumented memory access.
type Site struct {
	Func  string
	Seq   int32
	Write bool
}

// access is a planned replacement of the instruction at Insts[index].
type access struct {
	block *ir.Block
	index int
	inst  ir.Instruction
	seq   int32
	write bool
}

// Rewriter replaces traced loads and stores with hook calls. Sequence ids are
// unique across all functions rewritten by the same Rewriter.
type Rewriter struct {
	oracle *Oracle
	hooks  Hooks
	seq    int32
	stats  Stats
	sites  []Site
}

// NewRewriter creates a rewriter consulting oracle and calling hooks.
func NewRewriter(oracle *Oracle, hooks Hooks) *Rewriter {
	return &Rewriter{oracle: oracle, hooks: hooks}
}

// RewriteFunction instruments fn and reports whether any access was traced.
func (r *Rewriter) RewriteFunction(fn *ir.Func) bool {
	planned := r.plan(fn, true)
	r.apply(fn, planned)
	return len(planned) > 0
}

// AnalyzeFunction counts the accesses of fn without instrumenting any.
func (r *Rewriter) AnalyzeFunction(fn *ir.Func) {
	r.plan(fn, false)
}

// plan counts the accesses of fn and, if trace is set, assigns sequence ids
// to those that need tracing. fn is not modified.
func (r *Rewriter) plan(fn *ir.Func, trace bool) []access {
	var planned []access
	for _, block := range fn.Blocks {
		for i, inst := range block.Insts {
			r.stats.InstructionsAnalyzed++
			switch inst := inst.(type) {
			case *ir.InstLoad:
				r.stats.Loads++
				if trace && isI32(inst.ElemType) && !r.oracle.Confined(inst.Src) {
					planned = append(planned, r.next(fn, block, i, inst, false))
					r.stats.LoadsInstrumented++
				}
			case *ir.InstStore:
				r.stats.Stores++
				if trace && isI32(inst.Src.Type()) && !r.oracle.Confined(inst.Dst) {
					planned = append(planned, r.next(fn, block, i, inst, true))
					r.stats.StoresInstrumented++
				}
			}
		}
		if block.Term != nil {
			r.stats.InstructionsAnalyzed++
		}
	}
	return planned
}

func (r *Rewriter) next(fn *ir.Func, block *ir.Block, index int, inst ir.Instruction, write bool) access {
	a := access{block: block, index: index, inst: inst, seq: r.seq, write: write}
	r.sites = append(r.sites, Site{Func: fn.Name(), Seq: r.seq, Write: write})
	r.seq++
	return a
}

func (r *Rewriter) apply(fn *ir.Func, planned []access) {
	replaced := make(map[value.Value]value.Value)
	for _, a := range planned {
		seq := constant.NewInt(types.I32, int64(a.seq))
		if a.write {
			store := a.inst.(*ir.InstStore)
			a.block.Insts[a.index] = ir.NewCall(r.hooks.Write, seq, store.Dst, store.Src)
			continue
		}
		load := a.inst.(*ir.InstLoad)
		call := ir.NewCall(r.hooks.Read, seq, load.Src)
		call.LocalIdent = load.LocalIdent
		a.block.Insts[a.index] = call
		replaced[load] = call
	}
	if len(replaced) == 0 {
		return
	}
	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			replaceUses(inst, replaced)
		}
		if block.Term != nil {
			replaceUses(block.Term, replaced)
		}
	}
}

func replaceUses(user interface{}, replaced map[value.Value]value.Value) {
	u, ok := user.(operandUser)
	if !ok {
		return
	}
	for _, op := range u.Operands() {
		if op == nil || *op == nil {
			continue
		}
		if with, ok := replaced[*op]; ok {
			*op = with
		}
	}
}

// Stats returns the counters accumulated so far.
func (r *Rewriter) Stats() Stats {
	return r.stats
}

// Sites returns every instrumented access in sequence order.
func (r *Rewriter) Sites() []Site {
	return r.sites
}

func isI32(t types.Type) bool {
	it, ok := t.(*types.IntType)
	return ok && it.BitSize == 32
}
