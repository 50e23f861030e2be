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
	"fmt"
	"io"
	"os"

	"github.com/0xsoniclabs/tracemem/config"
	"github.com/0xsoniclabs/tracemem/logger"
	"github.com/0xsoniclabs/tracemem/pass"
	"github.com/0xsoniclabs/tracemem/report"
	"github.com/0xsoniclabs/tracemem/utils"
	"github.com/llir/llvm/asm"
	"github.com/urfave/cli/v2"
)

// Command instruments an LLVM module
var Command = cli.Command{
	Action:    instrumentAction,
	Name:      "instrument",
	Usage:     "route 32-bit loads and stores of an LLVM module through the tracing hooks",
	ArgsUsage: "<module.ll>",
	Flags: []cli.Flag{
		&config.OutputFlag,
		&config.ConfigFileFlag,
		&config.ExcludedFunctionsFlag,
		&config.ReadHookFlag,
		&config.WriteHookFlag,
		&config.StatsFileFlag,
		&config.StatsDbFlag,
		&config.CallGraphFlag,
		&logger.LogLevelFlag,
	},
	Description: `
Parses the given textual LLVM module, replaces every 32-bit load and store
through a pointer that may escape its stack frame with a call to the read or
write hook and prints the instrumented module.
`,
}

func instrumentAction(ctx *cli.Context) (err error) {
	cfg, err := config.NewConfig(ctx, config.OneArg)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.LogLevel, "tracemem-instrument")

	m, err := asm.ParseFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("cannot parse module %s; %w", cfg.Input, err)
	}

	res, err := pass.New(cfg.PassOptions(), log).Run(m)
	if err != nil {
		return fmt.Errorf("cannot instrument %s; %w", cfg.Input, err)
	}

	if err := writeModule(ctx.App.Writer, cfg.Output, m.String()); err != nil {
		return err
	}

	if cfg.CallGraph != "" {
		dot, err := report.CallGraphDot(res.Index)
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.CallGraph, []byte(dot), 0644); err != nil {
			return fmt.Errorf("cannot write call graph; %w", err)
		}
		log.Noticef("Call graph written to %s", cfg.CallGraph)
	}

	// the console table would interleave with a module printed to stdout
	printers, err := utils.NewStatsPrinters(utils.NewStatsReport(cfg.Input, res.Stats), cfg.Output == "", cfg.StatsFile, cfg.StatsDb)
	if err != nil {
		return err
	}
	defer func() {
		if e := printers.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return printers.Print()
}

func writeModule(stdout io.Writer, path string, text string) (err error) {
	if path == "" {
		_, err = io.WriteString(stdout, text)
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output %s; %w", path, err)
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()
	_, err = io.WriteString(file, text)
	return err
}
