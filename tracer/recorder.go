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
	"fmt"
	"time"
)

// Memory is the address space a Recorder reads from and writes to.
type Memory interface {
	LoadI32(addr uint64) (int32, error)
	StoreI32(addr uint64, value int32) error
}

// RecorderOption customizes a Recorder.
type RecorderOption func(*Recorder)

// WithClock replaces the wall clock used to stamp epochs.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// Recorder keeps the most recent memory accesses of a running program in a
// ring and replays them into a trace log on Close. It is not safe for
// concurrent use.
type Recorder struct {
	events     *Ring[Event]
	epochStart time.Time
	out        LogWriter
	now        func() time.Time
	closed     bool
}

// NewRecorder creates a recorder retaining up to capacity events and
// replaying them into out.
func NewRecorder(capacity int, out LogWriter, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		events: NewRing[Event](capacity),
		out:    out,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OpenRecorder creates the trace log at path and a recorder writing to it.
func OpenRecorder(path string, capacity int, opts ...RecorderOption) (*Recorder, error) {
	out, err := NewLogWriter(path)
	if err != nil {
		return nil, err
	}
	return NewRecorder(capacity, out, opts...), nil
}

// Record appends an event. Placing an event into slot 0 starts a new epoch.
func (r *Recorder) Record(e Event) {
	if r.events.Next() == 0 {
		r.epochStart = r.now()
	}
	r.events.Place(e)
}

// Read loads the value at addr from mem and records the access.
func (r *Recorder) Read(seq int32, addr uint64, mem Memory) (int32, error) {
	value, err := mem.LoadI32(addr)
	if err != nil {
		return 0, fmt.Errorf("traced read %d at %#x: %w", seq, addr, err)
	}
	r.Record(Event{Kind: Read, Seq: seq, Addr: addr, Value: value})
	return value, nil
}

// Write records the access and stores value at addr in mem.
func (r *Recorder) Write(seq int32, addr uint64, value int32, mem Memory) error {
	r.Record(Event{Kind: Write, Seq: seq, Addr: addr, Value: value})
	if err := mem.StoreI32(addr, value); err != nil {
		return fmt.Errorf("traced write %d at %#x: %w", seq, addr, err)
	}
	return nil
}

// Events returns the retained events, oldest first.
func (r *Recorder) Events() []Event {
	return r.events.Items()
}

// Capacity returns the number of events the recorder retains.
func (r *Recorder) Capacity() int {
	return r.events.Cap()
}

// EpochStart returns the time the current epoch began.
func (r *Recorder) EpochStart() time.Time {
	return r.epochStart
}

// Close replays the retained events into the log and closes it. Only the
// first call has any effect.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.events.Walk(func(slot int, e Event) error {
		if slot == 0 {
			if err := r.out.WriteTime(r.epochStart); err != nil {
				return err
			}
		}
		return r.out.WriteEvent(e)
	})
	return errors.Join(err, r.out.Close())
}
