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

// Ring is a fixed-capacity FIFO that overwrites its oldest entry once full.
type Ring[T any] struct {
	next int // slot receiving the next item
	size int // number of occupied slots, saturates at len(data)
	data []T
}

// NewRing creates a ring holding up to capacity items. Non-positive
// capacities fall back to DefaultCapacity.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring[T]{
		data: make([]T, capacity),
	}
}

// Place puts a new item into the ring and returns the slot it occupies.
func (r *Ring[T]) Place(item T) int {
	slot := r.next
	r.data[slot] = item
	r.next = (r.next + 1) % len(r.data)
	if r.size < len(r.data) {
		r.size++
	}
	return slot
}

// Next returns the slot the next Place writes to.
func (r *Ring[T]) Next() int {
	return r.next
}

// Len returns the number of retained items.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the fixed capacity of the ring.
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// Oldest returns the slot of the oldest retained item.
func (r *Ring[T]) Oldest() int {
	return (r.next - r.size + len(r.data)) % len(r.data)
}

// Walk visits the retained items from the oldest to the newest and stops at
// the first error returned by visit.
func (r *Ring[T]) Walk(visit func(slot int, item T) error) error {
	slot := r.Oldest()
	for i := 0; i < r.size; i++ {
		if err := visit(slot, r.data[slot]); err != nil {
			return err
		}
		slot = (slot + 1) % len(r.data)
	}
	return nil
}

// Items returns a copy of the retained items, oldest first.
func (r *Ring[T]) Items() []T {
	items := make([]T, 0, r.size)
	_ = r.Walk(func(_ int, item T) error {
		items = append(items, item)
		return nil
	})
	return items
}
