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

package tracer

import (
	"unsafe"
)

// ReadI32 performs and records a load through a native pointer.
func (r *Recorder) ReadI32(seq int32, ptr *int32) int32 {
	value := *ptr
	r.Record(Event{Kind: Read, Seq: seq, Addr: addressOf(ptr), Value: value})
	return value
}

// WriteI32 performs and records a store through a native pointer.
func (r *Recorder) WriteI32(seq int32, ptr *int32, value int32) {
	r.Record(Event{Kind: Write, Seq: seq, Addr: addressOf(ptr), Value: value})
	*ptr = value
}

func addressOf(ptr *int32) uint64 {
	return uint64(uintptr(unsafe.Pointer(ptr)))
}
