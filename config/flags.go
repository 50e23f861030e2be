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

package config

import (
	"github.com/urfave/cli/v2"
)

var (
	OutputFlag = cli.PathFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "file receiving the instrumented module; stdout if empty",
	}
	ConfigFileFlag = cli.PathFlag{
		Name:  "config",
		Usage: "YAML file with hook names, excluded functions and trace settings",
	}
	ExcludedFunctionsFlag = cli.StringSliceFlag{
		Name:  "excluded-functions",
		Usage: "functions that are analysed but never instrumented",
	}
	ReadHookFlag = cli.StringFlag{
		Name:  "read-hook",
		Usage: "name of the function traced loads call",
		Value: "trace_readi32",
	}
	WriteHookFlag = cli.StringFlag{
		Name:  "write-hook",
		Usage: "name of the function traced stores call",
		Value: "trace_writei32",
	}
	StatsFileFlag = cli.PathFlag{
		Name:  "stats-file",
		Usage: "append instrumentation statistics to the given text file",
	}
	StatsDbFlag = cli.PathFlag{
		Name:  "stats-db",
		Usage: "record instrumentation statistics in the given sqlite database",
	}
	CallGraphFlag = cli.PathFlag{
		Name:  "callgraph",
		Usage: "write the indexed call graph in DOT format to the given file",
	}
	EntryFlag = cli.StringFlag{
		Name:  "entry",
		Usage: "function to execute",
		Value: "main",
	}
	TraceFileFlag = cli.PathFlag{
		Name:    "trace-file",
		Usage:   "trace log receiving the recorded accesses; a .gz suffix compresses it",
		EnvVars: []string{TraceFileEnv},
		Value:   DefaultTraceFile,
	}
	TraceCapacityFlag = cli.IntFlag{
		Name:  "trace-capacity",
		Usage: "number of most recent accesses kept for the trace log",
	}
	HtmlFlag = cli.PathFlag{
		Name:  "html",
		Usage: "render a per-address access chart into the given HTML file",
	}
)
