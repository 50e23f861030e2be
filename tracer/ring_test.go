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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRingSimple tests placing fewer items than the capacity.
func TestRingSimple(t *testing.T) {
	ring := NewRing[int](4)

	if ring.Len() != 0 {
		t.Fatalf("ring must be empty")
	}

	if slot := ring.Place(7); slot != 0 {
		t.Fatalf("first item must occupy slot 0, got %d", slot)
	}
	ring.Place(8)

	if ring.Len() != 2 {
		t.Fatalf("unexpected length %d", ring.Len())
	}
	assert.Equal(t, []int{7, 8}, ring.Items())
	assert.Equal(t, 0, ring.Oldest())
	assert.Equal(t, 2, ring.Next())
}

// TestRingWrapAround tests that the ring keeps the most recent items only.
func TestRingWrapAround(t *testing.T) {
	ring := NewRing[int](4)
	for i := 1; i <= 6; i++ {
		ring.Place(i)
	}

	assert.Equal(t, 4, ring.Len())
	assert.Equal(t, 4, ring.Cap())
	assert.Equal(t, 2, ring.Oldest())
	assert.Equal(t, []int{3, 4, 5, 6}, ring.Items())
}

// TestRingExactlyFull tests a ring whose write index just returned to slot 0.
func TestRingExactlyFull(t *testing.T) {
	ring := NewRing[int](3)
	for i := 1; i <= 3; i++ {
		ring.Place(i)
	}

	assert.Equal(t, 0, ring.Next())
	assert.Equal(t, 0, ring.Oldest())
	assert.Equal(t, []int{1, 2, 3}, ring.Items())
}

func TestRing_ReplayOrderMatchesInsertionOrder(t *testing.T) {
	for capacity := 1; capacity <= 8; capacity++ {
		for n := 0; n <= 2*capacity; n++ {
			ring := NewRing[int](capacity)
			for i := 0; i < n; i++ {
				ring.Place(i)
			}

			var want []int
			for i := max(0, n-capacity); i < n; i++ {
				want = append(want, i)
			}
			got := ring.Items()
			if len(want) == 0 {
				assert.Empty(t, got)
				continue
			}
			assert.Equal(t, want, got, "capacity %d, items %d", capacity, n)
		}
	}
}

func TestRing_WalkReportsSlots(t *testing.T) {
	ring := NewRing[string](3)
	for _, s := range []string{"a", "b", "c", "d"} {
		ring.Place(s)
	}

	var slots []int
	err := ring.Walk(func(slot int, _ string) error {
		slots = append(slots, slot)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, slots)
}

func TestRing_WalkStopsAtFirstError(t *testing.T) {
	ring := NewRing[int](3)
	ring.Place(1)
	ring.Place(2)

	mockErr := errors.New("mock error")
	visited := 0
	err := ring.Walk(func(int, int) error {
		visited++
		return mockErr
	})
	assert.ErrorIs(t, err, mockErr)
	assert.Equal(t, 1, visited)
}

func TestRing_NonPositiveCapacityUsesDefault(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewRing[int](0).Cap())
	assert.Equal(t, DefaultCapacity, NewRing[int](-3).Cap())
}
