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
	"os"
	"path/filepath"
	"testing"

	"github.com/0xsoniclabs/tracemem/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_RecordsNativeAccesses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	env := map[string]string{
		config.TraceFileEnv:     path,
		config.TraceCapacityEnv: "2",
	}
	l, err := openLibrary(func(k string) string { return env[k] })
	require.NoError(t, err)

	var x int32 = 5
	assert.Equal(t, int32(5), l.read(0, &x))
	l.write(1, &x, 6)
	l.write(2, &x, 7)
	assert.Equal(t, int32(7), x)
	require.NoError(t, l.flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":7\n")
	assert.NotContains(t, string(data), "R:0:")
}

func TestLibrary_DefaultsTraceFile(t *testing.T) {
	t.Chdir(t.TempDir())
	l, err := openLibrary(func(string) string { return "" })
	require.NoError(t, err)
	require.NoError(t, l.flush())
	assert.FileExists(t, config.DefaultTraceFile)
}

func TestLibrary_FailsOnUnwritableLog(t *testing.T) {
	dir := t.TempDir()
	_, err := openLibrary(func(k string) string {
		if k == config.TraceFileEnv {
			return dir
		}
		return ""
	})
	assert.Error(t, err)
}

func TestLibrary_NotOpenedUnderTest(t *testing.T) {
	assert.Nil(t, lib)
	assert.NotPanics(t, traceMemFlush)
	assert.NoFileExists(t, config.DefaultTraceFile)
}
