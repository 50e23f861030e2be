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
	"github.com/llir/llvm/ir/value"
)

// binaryOp combines two operands of the given bit width.
type binaryOp func(x, y, bits uint64) (uint64, error)

var errDivisionByZero = errors.New("integer division by zero")

func binaryOperands(inst ir.Instruction) (x, y value.Value, op binaryOp, ok bool) {
	switch inst := inst.(type) {
	case *ir.InstAdd:
		return inst.X, inst.Y, add, true
	case *ir.InstSub:
		return inst.X, inst.Y, sub, true
	case *ir.InstMul:
		return inst.X, inst.Y, mul, true
	case *ir.InstUDiv:
		return inst.X, inst.Y, udiv, true
	case *ir.InstSDiv:
		return inst.X, inst.Y, sdiv, true
	case *ir.InstURem:
		return inst.X, inst.Y, urem, true
	case *ir.InstSRem:
		return inst.X, inst.Y, srem, true
	case *ir.InstShl:
		return inst.X, inst.Y, shl, true
	case *ir.InstLShr:
		return inst.X, inst.Y, lshr, true
	case *ir.InstAShr:
		return inst.X, inst.Y, ashr, true
	case *ir.InstAnd:
		return inst.X, inst.Y, and, true
	case *ir.InstOr:
		return inst.X, inst.Y, or, true
	case *ir.InstXor:
		return inst.X, inst.Y, xor, true
	}
	return nil, nil, nil, false
}

func (m *Machine) binary(f *frame, inst value.Value, x, y value.Value, op binaryOp) error {
	a, err := m.eval(f, x)
	if err != nil {
		return err
	}
	b, err := m.eval(f, y)
	if err != nil {
		return err
	}
	bits := bitWidth(x.Type())
	v, err := op(a, b, bits)
	if err != nil {
		return errors.Wrapf(err, "%s", inst.Ident())
	}
	f.regs[inst] = truncate(v, bits)
	return nil
}

func add(x, y, _ uint64) (uint64, error) { return x + y, nil }
func sub(x, y, _ uint64) (uint64, error) { return x - y, nil }
func mul(x, y, _ uint64) (uint64, error) { return x * y, nil }
func and(x, y, _ uint64) (uint64, error) { return x & y, nil }
func or(x, y, _ uint64) (uint64, error)  { return x | y, nil }
func xor(x, y, _ uint64) (uint64, error) { return x ^ y, nil }

func udiv(x, y, _ uint64) (uint64, error) {
	if y == 0 {
		return 0, errDivisionByZero
	}
	return x / y, nil
}

func urem(x, y, _ uint64) (uint64, error) {
	if y == 0 {
		return 0, errDivisionByZero
	}
	return x % y, nil
}

func sdiv(x, y, bits uint64) (uint64, error) {
	if y == 0 {
		return 0, errDivisionByZero
	}
	return uint64(signExtend(x, bits) / signExtend(y, bits)), nil
}

func srem(x, y, bits uint64) (uint64, error) {
	if y == 0 {
		return 0, errDivisionByZero
	}
	return uint64(signExtend(x, bits) % signExtend(y, bits)), nil
}

func shl(x, y, bits uint64) (uint64, error) {
	if y >= bits {
		return 0, nil
	}
	return x << y, nil
}

func lshr(x, y, bits uint64) (uint64, error) {
	if y >= bits {
		return 0, nil
	}
	return x >> y, nil
}

func ashr(x, y, bits uint64) (uint64, error) {
	if y >= bits {
		y = bits - 1
	}
	return uint64(signExtend(x, bits) >> y), nil
}
