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
	"errors"
	"fmt"
	"os"

	"github.com/0xsoniclabs/tracemem/config"
	"github.com/0xsoniclabs/tracemem/logger"
	"github.com/0xsoniclabs/tracemem/report"
	"github.com/0xsoniclabs/tracemem/tracer"
	"github.com/urfave/cli/v2"
)

// Command summarizes a trace log
var Command = cli.Command{
	Action:    inspectAction,
	Name:      "inspect",
	Usage:     "summarize the accesses recorded in a trace log",
	ArgsUsage: "<trace.txt>",
	Flags: []cli.Flag{
		&config.HtmlFlag,
		&logger.LogLevelFlag,
	},
}

func inspectAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx, config.OneArg)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.LogLevel, "tracemem-inspect")

	r, err := tracer.NewLogReader(cfg.Input)
	if err != nil {
		return err
	}
	entries, err := tracer.ReadAll(r)
	if err = errors.Join(err, r.Close()); err != nil {
		return fmt.Errorf("cannot read trace log %s; %w", cfg.Input, err)
	}
	log.Debugf("Read %d entries from %s", len(entries), cfg.Input)

	summary := report.SummarizeTrace(entries)
	if _, err := fmt.Fprintln(ctx.App.Writer, report.SummaryTable(summary)); err != nil {
		return err
	}

	if cfg.HtmlFile == "" {
		return nil
	}
	file, err := os.Create(cfg.HtmlFile)
	if err != nil {
		return fmt.Errorf("cannot create chart %s; %w", cfg.HtmlFile, err)
	}
	if err = errors.Join(report.RenderTraceChart(file, summary), file.Close()); err != nil {
		return err
	}
	log.Noticef("Chart written to %s", cfg.HtmlFile)
	return nil
}
