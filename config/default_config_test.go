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
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v2"
)

func TestGetFlagValue(t *testing.T) {
	// app for testing
	app := cli.NewApp()
	app.Commands = []*cli.Command{
		{
			Name: "testcmd",
			Flags: []cli.Flag{
				&TraceCapacityFlag,
				&EntryFlag,
				&OutputFlag,
				&ExcludedFunctionsFlag,
				&cli.BoolFlag{
					Name: "boolflag",
				},
				&cli.Uint64Flag{
					Name: "uint64flag",
				},
				&cli.Int64Flag{
					Name: "int64flag",
				},
			},
		},
	}

	newContext := func(setup func(set *flag.FlagSet)) *cli.Context {
		set := flag.NewFlagSet("test", 0)
		setup(set)
		ctx := cli.NewContext(app, set, nil)
		ctx.Command = app.Commands[0]
		return ctx
	}

	// Setup test cases
	testCases := []struct {
		name          string
		ctx           *cli.Context
		flagToTest    interface{}
		expectedValue interface{}
	}{
		{
			name:          "IntFlag value",
			ctx:           newContext(func(set *flag.FlagSet) { set.Int(TraceCapacityFlag.Name, 42, "") }),
			flagToTest:    TraceCapacityFlag,
			expectedValue: 42,
		},
		{
			name:          "StringFlag value",
			ctx:           newContext(func(set *flag.FlagSet) { set.String(EntryFlag.Name, "start", "") }),
			flagToTest:    EntryFlag,
			expectedValue: "start",
		},
		{
			name:          "PathFlag value",
			ctx:           newContext(func(set *flag.FlagSet) { set.String(OutputFlag.Name, "/test/out.ll", "") }),
			flagToTest:    OutputFlag,
			expectedValue: "/test/out.ll",
		},
		{
			name: "StringSliceFlag value",
			ctx: newContext(func(set *flag.FlagSet) {
				set.Var(cli.NewStringSlice("main", "helper"), ExcludedFunctionsFlag.Name, "")
			}),
			flagToTest:    ExcludedFunctionsFlag,
			expectedValue: []string{"main", "helper"},
		},
		{
			name:          "BoolFlag value",
			ctx:           newContext(func(set *flag.FlagSet) { set.Bool("boolflag", true, "") }),
			flagToTest:    cli.BoolFlag{Name: "boolflag"},
			expectedValue: true,
		},
		{
			name:          "Uint64Flag value",
			ctx:           newContext(func(set *flag.FlagSet) { set.Uint64("uint64flag", 100, "") }),
			flagToTest:    cli.Uint64Flag{Name: "uint64flag"},
			expectedValue: uint64(100),
		},
		{
			name:          "Int64Flag value",
			ctx:           newContext(func(set *flag.FlagSet) { set.Int64("int64flag", 200, "") }),
			flagToTest:    cli.Int64Flag{Name: "int64flag"},
			expectedValue: int64(200),
		},
		{
			name:          "flag missing from command falls back to its default",
			ctx:           newContext(func(*flag.FlagSet) {}),
			flagToTest:    ReadHookFlag,
			expectedValue: "trace_readi32",
		},
		{
			name:          "missing slice flag yields an empty slice",
			ctx:           newContext(func(*flag.FlagSet) {}),
			flagToTest:    cli.StringSliceFlag{Name: "unknown"},
			expectedValue: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			value := getFlagValue(tc.ctx, tc.flagToTest)
			assert.Equal(t, tc.expectedValue, value)
		})
	}
}
