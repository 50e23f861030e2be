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
	"fmt"
	"os"

	"github.com/0xsoniclabs/tracemem/cmd/tracemem/inspect"
	"github.com/0xsoniclabs/tracemem/cmd/tracemem/instrument"
	"github.com/0xsoniclabs/tracemem/cmd/tracemem/run"
	"github.com/urfave/cli/v2"
)

// TraceMemApp data structure
var TraceMemApp = cli.App{
	Name:      "TraceMem",
	HelpName:  "tracemem",
	Usage:     "instrument LLVM modules to trace 32-bit memory accesses, run them and inspect the traces",
	Copyright: "(c) 2025 Sonic Labs",
	Commands: []*cli.Command{
		&instrument.Command,
		&run.Command,
		&inspect.Command,
	},
}

func main() {
	if err := TraceMemApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
