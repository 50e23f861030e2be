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

package inspect

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const trace = `Time: 1700000000
R:0:0x1000:1
W:1:0x1000:2
R:0:0x1000:2
W:1:0x1000:3
W:2:0x2000:-7
`

func newApp(out *bytes.Buffer) *cli.App {
	app := cli.NewApp()
	app.Commands = []*cli.Command{&Command}
	app.Writer = out
	return app
}

func TestInspect_PrintsSummaryAndChart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.txt")
	chart := filepath.Join(dir, "trace.html")
	require.NoError(t, os.WriteFile(path, []byte(trace), 0644))

	var stdout bytes.Buffer
	err := newApp(&stdout).Run([]string{"tracemem", "inspect", "--html", chart, "--log", "critical", path})
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "5 events, 1 epochs")
	assert.Contains(t, out, "0x1000")
	assert.Contains(t, out, "0x2000")

	html, err := os.ReadFile(chart)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<html")
}

func TestInspect_RejectsMalformedLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	require.NoError(t, os.WriteFile(path, []byte("R:0:0x1000:1\nnot an event\n"), 0644))

	var stdout bytes.Buffer
	err := newApp(&stdout).Run([]string{"tracemem", "inspect", "--log", "critical", path})
	assert.ErrorContains(t, err, "line 2")
}

func TestInspect_MissingLog(t *testing.T) {
	var stdout bytes.Buffer
	err := newApp(&stdout).Run([]string{"tracemem", "inspect", filepath.Join(t.TempDir(), "none.txt")})
	assert.Error(t, err)
}
