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

// Package pass instruments 32-bit memory accesses of an LLVM module so that
// every load and store through a pointer that may escape its frame calls into
// the tracing runtime.
package pass

import (
	"fmt"

	"github.com/0xsoniclabs/tracemem/logger"
	"github.com/llir/llvm/ir"
)

// Options configure a Pass.
type Options struct {
	ReadHook  string
	WriteHook string
	// Excluded functions are counted but never rewritten.
	Excluded map[string]bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ReadHook:  DefaultReadHook,
		WriteHook: DefaultWriteHook,
		Excluded:  make(map[string]bool),
	}
}

// Result is the outcome of a successful Run.
type Result struct {
	Stats Stats
	Index *CallSiteIndex
	Hooks Hooks
	Sites []Site
}

// Pass instruments modules.
type Pass struct {
	opts Options
	log  logger.Logger
}

// New creates a pass. Empty hook names fall back to the defaults.
func New(opts Options, log logger.Logger) *Pass {
	if opts.ReadHook == "" {
		opts.ReadHook = DefaultReadHook
	}
	if opts.WriteHook == "" {
		opts.WriteHook = DefaultWriteHook
	}
	return &Pass{opts: opts, log: log}
}

// Run instruments m in place.
func (p *Pass) Run(m *ir.Module) (*Result, error) {
	hooks, err := DeclareHooks(m, p.opts.ReadHook, p.opts.WriteHook)
	if err != nil {
		return nil, fmt.Errorf("cannot declare tracing hooks: %w", err)
	}

	index := NewCallSiteIndex(m)
	rewriter := NewRewriter(NewOracle(m, index), hooks)

	var stats Stats
	for _, fn := range m.Funcs {
		if len(fn.Blocks) == 0 {
			stats.FunctionsSkipped++
			continue
		}
		stats.FunctionsAnalyzed++

		if p.opts.Excluded[fn.Name()] {
			p.log.Debugf("Function %s is excluded; not instrumented", fn.Name())
			rewriter.AnalyzeFunction(fn)
			continue
		}
		if rewriter.RewriteFunction(fn) {
			if err := fn.AssignIDs(); err != nil {
				return nil, fmt.Errorf("cannot renumber function %s: %w", fn.Name(), err)
			}
		}
		p.log.Debugf("Function %s analysed", fn.Name())
	}

	stats.Add(rewriter.Stats())
	stats.Calls = len(index.Calls())
	stats.CallSites = index.NumSites()

	p.log.Infof("Instrumented %d loads out of %d and %d stores out of %d in %d functions (%d skipped)",
		stats.LoadsInstrumented, stats.Loads, stats.StoresInstrumented, stats.Stores,
		stats.FunctionsAnalyzed, stats.FunctionsSkipped)

	return &Result{
		Stats: stats,
		Index: index,
		Hooks: hooks,
		Sites: rewriter.Sites(),
	}, nil
}
