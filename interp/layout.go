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
	"github.com/llir/llvm/ir/types"
)

const pointerSize = 8

// sizeOf returns the allocation size of t using natural alignment.
func sizeOf(t types.Type) (uint64, error) {
	switch t := t.(type) {
	case *types.IntType:
		if t.BitSize > 64 {
			return 0, errors.Newf("integers wider than 64 bits are not supported: %v", t)
		}
		return intBytes(t.BitSize), nil
	case *types.PointerType:
		return pointerSize, nil
	case *types.ArrayType:
		elem, err := sizeOf(t.ElemType)
		if err != nil {
			return 0, err
		}
		return elem * t.Len, nil
	case *types.VectorType:
		elem, err := sizeOf(t.ElemType)
		if err != nil {
			return 0, err
		}
		return elem * t.Len, nil
	case *types.StructType:
		size, _, err := structLayout(t, len(t.Fields))
		return size, err
	}
	return 0, errors.Newf("type %v has no supported memory layout", t)
}

func alignOf(t types.Type) uint64 {
	switch t := t.(type) {
	case *types.IntType:
		return intBytes(t.BitSize)
	case *types.ArrayType:
		return alignOf(t.ElemType)
	case *types.VectorType:
		return alignOf(t.ElemType)
	case *types.StructType:
		if t.Packed {
			return 1
		}
		align := uint64(1)
		for _, f := range t.Fields {
			align = max(align, alignOf(f))
		}
		return align
	}
	return pointerSize
}

// fieldOffset returns the byte offset of field index of t.
func fieldOffset(t *types.StructType, index int) (uint64, error) {
	if index < 0 || index >= len(t.Fields) {
		return 0, errors.Newf("field %d out of range for %v", index, t)
	}
	_, offset, err := structLayout(t, index)
	return offset, err
}

// structLayout returns the total size of t and the offset of field upTo
// (or the end of the last field when upTo == len(t.Fields)).
func structLayout(t *types.StructType, upTo int) (size, offset uint64, err error) {
	for i, f := range t.Fields {
		if !t.Packed {
			size = alignTo(size, alignOf(f))
		}
		if i == upTo {
			offset = size
		}
		fs, err := sizeOf(f)
		if err != nil {
			return 0, 0, err
		}
		size += fs
	}
	if upTo == len(t.Fields) {
		offset = size
	}
	if !t.Packed {
		size = alignTo(size, alignOf(t))
	}
	return size, offset, nil
}

func intBytes(bits uint64) uint64 {
	switch {
	case bits <= 8:
		return 1
	case bits <= 16:
		return 2
	case bits <= 32:
		return 4
	}
	return 8
}

// bitWidth returns the number of significant bits of a scalar of type t.
func bitWidth(t types.Type) uint64 {
	if it, ok := t.(*types.IntType); ok {
		return it.BitSize
	}
	return 64
}

func truncate(v, bits uint64) uint64 {
	if bits >= 64 {
		return v
	}
	return v & (1<<bits - 1)
}

func signExtend(v, bits uint64) int64 {
	if bits >= 64 {
		return int64(v)
	}
	shift := 64 - bits
	return int64(v<<shift) >> shift
}
