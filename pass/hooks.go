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
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Default names of the runtime entry points instrumented code calls.
const (
	DefaultReadHook  = "trace_readi32"
	DefaultWriteHook = "trace_writei32"
)

var (
	i32Ptr = types.NewPointer(types.I32)
	// i32 (i32 seq, i32* addr)
	readHookSig = types.NewFunc(types.I32, types.I32, i32Ptr)
	// void (i32 seq, i32* addr, i32 value)
	writeHookSig = types.NewFunc(types.Void, types.I32, i32Ptr, types.I32)
)

// Hooks are the runtime functions instrumented accesses are routed through.
type Hooks struct {
	Read  *ir.Func
	Write *ir.Func
}

// DeclareHooks returns the read and write hooks of m, declaring them when
// missing. A same-named function with another signature is an error.
func DeclareHooks(m *ir.Module, read, write string) (Hooks, error) {
	r, err := declareHook(m, read, readHookSig, ir.NewParam("seq", types.I32), ir.NewParam("addr", i32Ptr))
	if err != nil {
		return Hooks{}, err
	}
	w, err := declareHook(m, write, writeHookSig, ir.NewParam("seq", types.I32), ir.NewParam("addr", i32Ptr), ir.NewParam("value", types.I32))
	if err != nil {
		return Hooks{}, err
	}
	return Hooks{Read: r, Write: w}, nil
}

func declareHook(m *ir.Module, name string, sig *types.FuncType, params ...*ir.Param) (*ir.Func, error) {
	for _, fn := range m.Funcs {
		if fn.Name() != name {
			continue
		}
		if !fn.Sig.Equal(sig) {
			return nil, fmt.Errorf("function %s has signature %v, expected %v", name, fn.Sig, sig)
		}
		return fn, nil
	}
	return m.NewFunc(name, sig.RetType, params...), nil
}
