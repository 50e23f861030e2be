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

package instrument

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/llir/llvm/asm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const seriesModule = "../../../pass/testdata/series.ll"

func newApp(out *bytes.Buffer) *cli.App {
	app := cli.NewApp()
	app.Commands = []*cli.Command{&Command}
	app.Writer = out
	return app
}

func TestInstrument_WritesModuleToOutputFile(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.ll")
	stats := filepath.Join(dir, "stats.txt")
	graph := filepath.Join(dir, "calls.dot")

	var stdout bytes.Buffer
	err := newApp(&stdout).Run([]string{"tracemem", "instrument",
		"--output", output,
		"--stats-file", stats,
		"--callgraph", graph,
		"--log", "critical",
		seriesModule,
	})
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	text, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(text), "call i32 @trace_readi32(")
	assert.Contains(t, string(text), "call void @trace_writei32(")

	_, err = asm.ParseString(output, string(text))
	assert.NoError(t, err, "instrumented module must parse again")

	line, err := os.ReadFile(stats)
	require.NoError(t, err)
	assert.Contains(t, string(line), seriesModule)

	dot, err := os.ReadFile(graph)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "series")
	assert.Contains(t, string(dot), "next")
}

func TestInstrument_PrintsModuleToStdout(t *testing.T) {
	var stdout bytes.Buffer
	err := newApp(&stdout).Run([]string{"tracemem", "instrument", "--log", "critical", seriesModule})
	require.NoError(t, err)

	text := stdout.String()
	assert.True(t, strings.Contains(text, "define i32 @next("))
	assert.Contains(t, text, "declare i32 @trace_readi32(")
}

func TestInstrument_CustomHooks(t *testing.T) {
	var stdout bytes.Buffer
	err := newApp(&stdout).Run([]string{"tracemem", "instrument",
		"--read-hook", "rd", "--write-hook", "wr", "--log", "critical", seriesModule})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "call i32 @rd(")
	assert.NotContains(t, stdout.String(), "trace_readi32")
}

func TestInstrument_RequiresOneModule(t *testing.T) {
	var stdout bytes.Buffer
	err := newApp(&stdout).Run([]string{"tracemem", "instrument"})
	assert.ErrorContains(t, err, "exactly 1 argument")
}

func TestInstrument_RejectsInvalidModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ll")
	require.NoError(t, os.WriteFile(path, []byte("define i32 @f( {"), 0644))

	var stdout bytes.Buffer
	err := newApp(&stdout).Run([]string{"tracemem", "instrument", "--log", "critical", path})
	assert.ErrorContains(t, err, "cannot parse module")
}
