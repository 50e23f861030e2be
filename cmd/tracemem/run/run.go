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

package run

import (
	"errors"
	"fmt"
	"time"

	"github.com/0xsoniclabs/tracemem/config"
	"github.com/0xsoniclabs/tracemem/interp"
	"github.com/0xsoniclabs/tracemem/logger"
	"github.com/0xsoniclabs/tracemem/tracer"
	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/urfave/cli/v2"
)

// Command executes an instrumented module and records its trace
var Command = cli.Command{
	Action:    runAction,
	Name:      "run",
	Usage:     "execute a function of an LLVM module and record the traced accesses",
	ArgsUsage: "<module.ll> [arguments...]",
	Flags: []cli.Flag{
		&config.EntryFlag,
		&config.TraceFileFlag,
		&config.TraceCapacityFlag,
		&config.ReadHookFlag,
		&config.WriteHookFlag,
		&config.ConfigFileFlag,
		&logger.LogLevelFlag,
	},
	Description: `
Executes the entry function of the given module in-process. Calls to the read
and write hooks are recorded; the most recent accesses are written to the
trace log when the function returns. The capacity defaults to the
TRACE_MEM_TRACES environment variable.
`,
}

func runAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx, config.OneArgOrMore)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.LogLevel, "tracemem-run")

	m, err := asm.ParseFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("cannot parse module %s; %w", cfg.Input, err)
	}

	rec, err := tracer.OpenRecorder(cfg.TraceFile, cfg.TraceCapacity)
	if err != nil {
		return fmt.Errorf("cannot open trace log; %w", err)
	}

	machine, err := interp.New(m,
		interp.WithRecorder(rec),
		interp.WithHookNames(cfg.ReadHook, cfg.WriteHook),
	)
	if err != nil {
		return errors.Join(err, rec.Close())
	}

	log.Infof("Running @%s with %d argument(s), capacity %d", cfg.Entry, len(cfg.EntryArgs), rec.Capacity())
	start := time.Now()
	ret, err := machine.Call(cfg.Entry, cfg.EntryArgs...)
	if err = errors.Join(err, rec.Close()); err != nil {
		return err
	}
	hours, minutes, seconds := logger.ParseTime(time.Since(start))
	log.Noticef("Executed %d instructions in %vh %vm %vs; %d accesses written to %s",
		machine.Steps(), hours, minutes, seconds, len(rec.Events()), cfg.TraceFile)

	_, err = fmt.Fprintf(ctx.App.Writer, "@%s returned %d\n", cfg.Entry, signed(m, cfg.Entry, ret))
	return err
}

// signed interprets ret according to the return type of the named function.
func signed(m *ir.Module, name string, ret uint64) int64 {
	for _, fn := range m.Funcs {
		if fn.Name() != name {
			continue
		}
		if it, ok := fn.Sig.RetType.(*types.IntType); ok && it.BitSize < 64 && it.BitSize > 0 {
			shift := 64 - it.BitSize
			return int64(ret<<shift) >> shift
		}
	}
	return int64(ret)
}
