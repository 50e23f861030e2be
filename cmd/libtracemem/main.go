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

// Command libtracemem is built with -buildmode=c-shared and linked into
// instrumented programs. It provides the read and write hooks and writes the
// trace log when the program exits.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"os"
	"testing"
	"unsafe"

	"github.com/0xsoniclabs/tracemem/logger"
)

var lib *library

func init() {
	// test binaries of this package must not leave a trace log behind
	if testing.Testing() {
		return
	}
	var err error
	if lib, err = openLibrary(os.Getenv); err != nil {
		logger.NewLogger("info", "libtracemem").Fatalf("cannot open trace log; %v", err)
	}
}

//export trace_readi32
func trace_readi32(seq C.int32_t, addr *C.int32_t) C.int32_t {
	return C.int32_t(lib.read(int32(seq), (*int32)(unsafe.Pointer(addr))))
}

//export trace_writei32
func trace_writei32(seq C.int32_t, addr *C.int32_t, value C.int32_t) {
	lib.write(int32(seq), (*int32)(unsafe.Pointer(addr)), int32(value))
}

//export traceMemFlush
func traceMemFlush() {
	if lib == nil {
		return
	}
	if err := lib.flush(); err != nil {
		logger.NewLogger("info", "libtracemem").Errorf("cannot write trace log; %v", err)
	}
}

func main() {}
