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
	"github.com/cockroachdb/errors"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

type frame struct {
	fn   *ir.Func
	regs map[value.Value]uint64
}

func newFrame(fn *ir.Func) *frame {
	return &frame{fn: fn, regs: make(map[value.Value]uint64)}
}

// asBlock resolves a branch target.
func asBlock(target interface{}) (*ir.Block, error) {
	if b, ok := target.(*ir.Block); ok && b != nil {
		return b, nil
	}
	return nil, errors.Newf("unsupported branch target %v", target)
}

func (m *Machine) step() error {
	m.steps++
	if m.stepLimit > 0 && m.steps > m.stepLimit {
		return errors.Newf("step limit of %d exceeded", m.stepLimit)
	}
	return nil
}

func (m *Machine) run(f *frame) (uint64, error) {
	if len(f.fn.Blocks) == 0 {
		return 0, errors.New("function has no body")
	}
	var prev *ir.Block
	block := f.fn.Blocks[0]
	for {
		if err := m.enter(f, block, prev); err != nil {
			return 0, err
		}
		for _, inst := range block.Insts {
			if _, ok := inst.(*ir.InstPhi); ok {
				continue
			}
			if err := m.step(); err != nil {
				return 0, err
			}
			if err := m.exec(f, inst); err != nil {
				return 0, err
			}
		}
		if err := m.step(); err != nil {
			return 0, err
		}

		next, ret, done, err := m.terminate(f, block.Term)
		if err != nil {
			return 0, err
		}
		if done {
			return ret, nil
		}
		prev, block = block, next
	}
}

// enter evaluates the phi nodes of block as a group.
func (m *Machine) enter(f *frame, block, prev *ir.Block) error {
	type update struct {
		phi *ir.InstPhi
		v   uint64
	}
	var updates []update
	for _, inst := range block.Insts {
		phi, ok := inst.(*ir.InstPhi)
		if !ok {
			continue
		}
		found := false
		for _, inc := range phi.Incs {
			if pred, err := asBlock(inc.Pred); err == nil && pred == prev {
				v, err := m.eval(f, inc.X)
				if err != nil {
					return err
				}
				updates = append(updates, update{phi, v})
				found = true
				break
			}
		}
		if !found {
			return errors.Newf("phi %s has no incoming value for the taken edge", phi.Ident())
		}
	}
	for _, u := range updates {
		f.regs[u.phi] = u.v
	}
	return nil
}

func (m *Machine) terminate(f *frame, term ir.Terminator) (next *ir.Block, ret uint64, done bool, err error) {
	switch t := term.(type) {
	case *ir.TermRet:
		if t.X == nil {
			return nil, 0, true, nil
		}
		v, err := m.eval(f, t.X)
		return nil, v, true, err
	case *ir.TermBr:
		b, err := asBlock(t.Target)
		return b, 0, false, err
	case *ir.TermCondBr:
		c, err := m.eval(f, t.Cond)
		if err != nil {
			return nil, 0, false, err
		}
		target := interface{}(t.TargetFalse)
		if c&1 == 1 {
			target = t.TargetTrue
		}
		b, err := asBlock(target)
		return b, 0, false, err
	case *ir.TermSwitch:
		x, err := m.eval(f, t.X)
		if err != nil {
			return nil, 0, false, err
		}
		for _, c := range t.Cases {
			v, err := m.eval(f, c.X)
			if err != nil {
				return nil, 0, false, err
			}
			if v == x {
				b, err := asBlock(c.Target)
				return b, 0, false, err
			}
		}
		b, err := asBlock(t.TargetDefault)
		return b, 0, false, err
	case *ir.TermUnreachable:
		return nil, 0, false, errors.New("reached unreachable")
	}
	return nil, 0, false, errors.Newf("unsupported terminator %T", term)
}

func (m *Machine) exec(f *frame, inst ir.Instruction) error {
	switch inst := inst.(type) {
	case *ir.InstAlloca:
		size, err := sizeOf(inst.ElemType)
		if err != nil {
			return err
		}
		n := uint64(1)
		if inst.NElems != nil {
			if n, err = m.eval(f, inst.NElems); err != nil {
				return err
			}
		}
		addr, err := m.mem.Alloc(size*n, alignOf(inst.ElemType))
		if err != nil {
			return err
		}
		f.regs[inst] = addr

	case *ir.InstLoad:
		size, err := sizeOf(inst.ElemType)
		if err != nil {
			return err
		}
		addr, err := m.eval(f, inst.Src)
		if err != nil {
			return err
		}
		v, err := m.mem.Load(addr, size)
		if err != nil {
			return errors.Wrapf(err, "load %s", inst.Ident())
		}
		f.regs[inst] = truncate(v, bitWidth(inst.ElemType))

	case *ir.InstStore:
		size, err := sizeOf(inst.Src.Type())
		if err != nil {
			return err
		}
		v, err := m.eval(f, inst.Src)
		if err != nil {
			return err
		}
		addr, err := m.eval(f, inst.Dst)
		if err != nil {
			return err
		}
		if err := m.mem.Store(addr, size, v); err != nil {
			return errors.Wrap(err, "store")
		}

	case *ir.InstGetElementPtr:
		v, err := m.gep(f, inst.ElemType, inst.Src, inst.Indices)
		if err != nil {
			return err
		}
		f.regs[inst] = v

	case *ir.InstCall:
		return m.execCall(f, inst)

	case *ir.InstICmp:
		x, err := m.eval(f, inst.X)
		if err != nil {
			return err
		}
		y, err := m.eval(f, inst.Y)
		if err != nil {
			return err
		}
		ok, err := compare(inst.Pred, x, y, bitWidth(inst.X.Type()))
		if err != nil {
			return err
		}
		f.regs[inst] = boolValue(ok)

	case *ir.InstSelect:
		ops, err := m.operands(f, inst)
		if err != nil {
			return err
		}
		if ops[0]&1 == 1 {
			f.regs[inst] = ops[1]
		} else {
			f.regs[inst] = ops[2]
		}

	case *ir.InstBitCast:
		return m.convert(f, inst, inst.From, inst.To, false)
	case *ir.InstPtrToInt:
		return m.convert(f, inst, inst.From, inst.To, false)
	case *ir.InstIntToPtr:
		return m.convert(f, inst, inst.From, inst.To, false)
	case *ir.InstZExt:
		return m.convert(f, inst, inst.From, inst.To, false)
	case *ir.InstTrunc:
		return m.convert(f, inst, inst.From, inst.To, false)
	case *ir.InstSExt:
		return m.convert(f, inst, inst.From, inst.To, true)

	default:
		if x, y, op, ok := binaryOperands(inst); ok {
			return m.binary(f, inst.(value.Value), x, y, op)
		}
		return errors.Newf("unsupported instruction %T", inst)
	}
	return nil
}

func (m *Machine) execCall(f *frame, inst *ir.InstCall) error {
	var callee *ir.Func
	if fn, ok := inst.Callee.(*ir.Func); ok {
		callee = fn
	} else {
		addr, err := m.eval(f, inst.Callee)
		if err != nil {
			return err
		}
		if callee = m.funcs[addr]; callee == nil {
			return errors.Newf("indirect call to %#x, which is not a function", addr)
		}
	}
	args := make([]uint64, len(inst.Args))
	for i, a := range inst.Args {
		v, err := m.eval(f, a)
		if err != nil {
			return err
		}
		args[i] = v
	}
	ret, err := m.call(callee, args)
	if err != nil {
		return err
	}
	f.regs[inst] = ret
	return nil
}

func (m *Machine) convert(f *frame, inst value.Value, from value.Value, to types.Type, signed bool) error {
	v, err := m.eval(f, from)
	if err != nil {
		return err
	}
	f.regs[inst] = convertValue(v, bitWidth(from.Type()), bitWidth(to), signed)
	return nil
}

func convertValue(v, fromBits, toBits uint64, signed bool) uint64 {
	if signed {
		v = uint64(signExtend(v, fromBits))
	}
	return truncate(v, toBits)
}

func (m *Machine) operands(f *frame, inst interface{ Operands() []*value.Value }) ([]uint64, error) {
	ops := inst.Operands()
	vals := make([]uint64, len(ops))
	for i, op := range ops {
		v, err := m.eval(f, *op)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// gep computes the address of an element of an aggregate at src.
func (m *Machine) gep(f *frame, elemType types.Type, src value.Value, indices []value.Value) (uint64, error) {
	addr, err := m.eval(f, src)
	if err != nil {
		return 0, err
	}
	var cur types.Type
	for i, index := range indices {
		x, err := m.eval(f, index)
		if err != nil {
			return 0, err
		}
		idx := signExtend(x, bitWidth(index.Type()))
		if i == 0 {
			cur = elemType
			size, err := sizeOf(cur)
			if err != nil {
				return 0, err
			}
			addr += uint64(idx) * size
			continue
		}
		switch t := cur.(type) {
		case *types.StructType:
			offset, err := fieldOffset(t, int(idx))
			if err != nil {
				return 0, err
			}
			addr += offset
			cur = t.Fields[idx]
		case *types.ArrayType:
			cur = t.ElemType
			size, err := sizeOf(cur)
			if err != nil {
				return 0, err
			}
			addr += uint64(idx) * size
		case *types.VectorType:
			cur = t.ElemType
			size, err := sizeOf(cur)
			if err != nil {
				return 0, err
			}
			addr += uint64(idx) * size
		default:
			return 0, errors.Newf("cannot index into %v", cur)
		}
	}
	return addr, nil
}

// eval returns the bit pattern of v. f may be nil when v is a constant.
func (m *Machine) eval(f *frame, v value.Value) (uint64, error) {
	switch v := v.(type) {
	case *constant.Int:
		var x uint64
		if v.X.IsInt64() {
			x = uint64(v.X.Int64())
		} else {
			x = v.X.Uint64()
		}
		return truncate(x, bitWidth(v.Typ)), nil
	case *constant.Null, *constant.ZeroInitializer, *constant.Undef:
		return 0, nil
	case *ir.Global:
		return m.globals[v], nil
	case *ir.Func:
		return m.funcAddrs[v], nil
	case *constant.ExprGetElementPtr:
		indices := make([]value.Value, len(v.Indices))
		for i, index := range v.Indices {
			indices[i] = index
		}
		return m.gep(f, v.ElemType, v.Src, indices)
	case *constant.ExprBitCast:
		x, err := m.eval(f, v.From)
		return convertValue(x, bitWidth(v.From.Type()), bitWidth(v.To), false), err
	case *constant.ExprPtrToInt:
		x, err := m.eval(f, v.From)
		return convertValue(x, bitWidth(v.From.Type()), bitWidth(v.To), false), err
	case *constant.ExprIntToPtr:
		x, err := m.eval(f, v.From)
		return convertValue(x, bitWidth(v.From.Type()), bitWidth(v.To), false), err
	}
	if f != nil {
		if x, ok := f.regs[v]; ok {
			return x, nil
		}
	}
	return 0, errors.Newf("cannot evaluate %v", v)
}

// storeConstant writes the initializer c to addr.
func (m *Machine) storeConstant(addr uint64, c constant.Constant) error {
	switch c := c.(type) {
	case *constant.ZeroInitializer, *constant.Null, *constant.Undef:
		return nil
	case *constant.CharArray:
		for i, b := range c.X {
			if err := m.mem.Store(addr+uint64(i), 1, uint64(b)); err != nil {
				return err
			}
		}
		return nil
	case *constant.Array:
		at, ok := c.Type().(*types.ArrayType)
		if !ok {
			return errors.Newf("array constant of type %v", c.Type())
		}
		size, err := sizeOf(at.ElemType)
		if err != nil {
			return err
		}
		for i, elem := range c.Elems {
			if err := m.storeConstant(addr+uint64(i)*size, elem); err != nil {
				return err
			}
		}
		return nil
	case *constant.Struct:
		st, ok := c.Type().(*types.StructType)
		if !ok {
			return errors.Newf("struct constant of type %v", c.Type())
		}
		for i, field := range c.Fields {
			offset, err := fieldOffset(st, i)
			if err != nil {
				return err
			}
			if err := m.storeConstant(addr+offset, field); err != nil {
				return err
			}
		}
		return nil
	}
	size, err := sizeOf(c.Type())
	if err != nil {
		return err
	}
	v, err := m.eval(nil, c)
	if err != nil {
		return err
	}
	return m.mem.Store(addr, size, v)
}

func compare(pred enum.IPred, x, y, bits uint64) (bool, error) {
	sx, sy := signExtend(x, bits), signExtend(y, bits)
	switch pred {
	case enum.IPredEQ:
		return x == y, nil
	case enum.IPredNE:
		return x != y, nil
	case enum.IPredUGT:
		return x > y, nil
	case enum.IPredUGE:
		return x >= y, nil
	case enum.IPredULT:
		return x < y, nil
	case enum.IPredULE:
		return x <= y, nil
	case enum.IPredSGT:
		return sx > sy, nil
	case enum.IPredSGE:
		return sx >= sy, nil
	case enum.IPredSLT:
		return sx < sy, nil
	case enum.IPredSLE:
		return sx <= sy, nil
	}
	return false, errors.Newf("unsupported icmp predicate %v", pred)
}

func boolValue(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
