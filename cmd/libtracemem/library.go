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

package main

import (
	"sync"

	"github.com/0xsoniclabs/tracemem/config"
	"github.com/0xsoniclabs/tracemem/tracer"
)

// library serializes hook calls made by the threads of the host program.
type library struct {
	mu  sync.Mutex
	rec *tracer.Recorder
}

// openLibrary creates the recorder described by the environment.
func openLibrary(getenv func(string) string) (*library, error) {
	path := getenv(config.TraceFileEnv)
	if path == "" {
		path = config.DefaultTraceFile
	}
	rec, err := tracer.OpenRecorder(path, config.ParseCapacity(getenv(config.TraceCapacityEnv)))
	if err != nil {
		return nil, err
	}
	return &library{rec: rec}, nil
}

func (l *library) read(seq int32, ptr *int32) int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rec.ReadI32(seq, ptr)
}

func (l *library) write(seq int32, ptr *int32, value int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rec.WriteI32(seq, ptr, value)
}

func (l *library) flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rec.Close()
}
