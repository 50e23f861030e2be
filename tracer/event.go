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
	"fmt"
)

// Kind tells a traced load from a traced store.
type Kind uint8

const (
	Read Kind = iota
	Write
)

func (k Kind) String() string {
	switch k {
	case Read:
		return ReadPrefix
	case Write:
		return WritePrefix
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Event is a single traced 32-bit memory access. Addr is the raw address of the
// access, kept as an opaque number; it is never dereferenced after recording.
type Event struct {
	Kind  Kind
	Seq   int32
	Addr  uint64
	Value int32
}

// String renders the event in trace log format, e.g. "R:3:0x7ffd1000:42".
func (e Event) String() string {
	return fmt.Sprintf("%s:%d:%#x:%d", e.Kind, e.Seq, e.Addr, e.Value)
}
