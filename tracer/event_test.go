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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "R", Read.String())
	assert.Equal(t, "W", Write.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestEvent_StringUsesLowerCaseHexAddress(t *testing.T) {
	e := Event{Kind: Write, Seq: 17, Addr: 0x7FFDABCD, Value: -3}
	assert.Equal(t, "W:17:0x7ffdabcd:-3", e.String())
}

func TestParseLine_AcceptsDecimalAddress(t *testing.T) {
	got, err := ParseLine("W:1:4096:1")
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x1000), got.Event.Addr)
}
