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
	"strings"

	"github.com/cockroachdb/errors"
)

// builtin returns the implementation of a memory intrinsic, or nil.
func builtin(name string) External {
	switch {
	case strings.HasPrefix(name, "llvm.memcpy."), strings.HasPrefix(name, "llvm.memmove."):
		return memmove
	case strings.HasPrefix(name, "llvm.memset."):
		return memset
	}
	return nil
}

// memmove takes (dst, src, len, volatile).
func memmove(mem *Memory, args []uint64) (uint64, error) {
	if len(args) < 3 {
		return 0, errors.Newf("memmove expects at least 3 arguments, got %d", len(args))
	}
	return 0, mem.Copy(args[0], args[1], args[2])
}

// memset takes (dst, byte, len, volatile).
func memset(mem *Memory, args []uint64) (uint64, error) {
	if len(args) < 3 {
		return 0, errors.Newf("memset expects at least 3 arguments, got %d", len(args))
	}
	return 0, mem.Fill(args[0], byte(args[1]), args[2])
}
