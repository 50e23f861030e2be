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
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

const (
	// Base is the lowest valid address; zero stays an invalid pointer.
	Base uint64 = 0x1000
	// DefaultMemoryLimit caps the bytes a machine may allocate.
	DefaultMemoryLimit = 256 << 20
)

// Memory is a flat little-endian byte space starting at Base. Allocation is
// a bump pointer; Release returns everything above a mark at once.
type Memory struct {
	data  []byte
	limit uint64
}

// NewMemory creates an empty memory of at most limit bytes.
func NewMemory(limit uint64) *Memory {
	if limit == 0 {
		limit = DefaultMemoryLimit
	}
	return &Memory{limit: limit}
}

// Alloc reserves size zeroed bytes aligned to align and returns their address.
func (m *Memory) Alloc(size, align uint64) (uint64, error) {
	if size == 0 {
		size = 1
	}
	if align == 0 {
		align = 1
	}
	start := alignTo(uint64(len(m.data)), align)
	end := start + size
	if end > m.limit {
		return 0, errors.Newf("out of memory: %d bytes requested, %d in use, limit %d", size, len(m.data), m.limit)
	}
	m.data = append(m.data, make([]byte, end-uint64(len(m.data)))...)
	return Base + start, nil
}

// Mark returns the current allocation top.
func (m *Memory) Mark() uint64 {
	return uint64(len(m.data))
}

// Release frees every allocation made after mark was taken.
func (m *Memory) Release(mark uint64) {
	if mark < uint64(len(m.data)) {
		m.data = m.data[:mark]
	}
}

// Bytes returns a copy of the allocated contents.
func (m *Memory) Bytes() []byte {
	return append([]byte(nil), m.data...)
}

func (m *Memory) slice(addr, size uint64) ([]byte, error) {
	if addr < Base || addr-Base+size > uint64(len(m.data)) {
		return nil, errors.Newf("access of %d bytes at %#x is out of bounds", size, addr)
	}
	off := addr - Base
	return m.data[off : off+size], nil
}

// Load reads a little-endian integer of size 1, 2, 4 or 8 bytes.
func (m *Memory) Load(addr, size uint64) (uint64, error) {
	b, err := m.slice(addr, size)
	if err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	case 8:
		return binary.LittleEndian.Uint64(b), nil
	}
	return 0, errors.Newf("unsupported access size %d", size)
}

// Store writes the low size bytes of v in little-endian order.
func (m *Memory) Store(addr, size, v uint64) error {
	b, err := m.slice(addr, size)
	if err != nil {
		return err
	}
	switch size {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(b, v)
	default:
		return errors.Newf("unsupported access size %d", size)
	}
	return nil
}

// Copy moves n bytes from src to dst; the ranges may overlap.
func (m *Memory) Copy(dst, src, n uint64) error {
	if n == 0 {
		return nil
	}
	from, err := m.slice(src, n)
	if err != nil {
		return err
	}
	to, err := m.slice(dst, n)
	if err != nil {
		return err
	}
	copy(to, from)
	return nil
}

// Fill sets n bytes at dst to b.
func (m *Memory) Fill(dst uint64, b byte, n uint64) error {
	if n == 0 {
		return nil
	}
	to, err := m.slice(dst, n)
	if err != nil {
		return err
	}
	for i := range to {
		to[i] = b
	}
	return nil
}

// LoadI32 implements tracer.Memory.
func (m *Memory) LoadI32(addr uint64) (int32, error) {
	v, err := m.Load(addr, 4)
	return int32(uint32(v)), err
}

// StoreI32 implements tracer.Memory.
func (m *Memory) StoreI32(addr uint64, value int32) error {
	return m.Store(addr, 4, uint64(uint32(value)))
}

func alignTo(n, align uint64) uint64 {
	return (n + align - 1) / align * align
}
