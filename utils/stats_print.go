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

package utils

import (
	"fmt"
	"strings"

	"github.com/0xsoniclabs/tracemem/pass"
	"github.com/0xsoniclabs/tracemem/report"
	"github.com/google/uuid"
)

const (
	createStatsTable = `CREATE TABLE IF NOT EXISTS instrumentation (
	run TEXT NOT NULL,
	module TEXT NOT NULL,
	metric TEXT NOT NULL,
	value INTEGER NOT NULL
)`
	insertStats = `INSERT INTO instrumentation (run, module, metric, value) VALUES (?, ?, ?, ?)`
)

// StatsReport identifies one instrumentation run of a module.
type StatsReport struct {
	RunID  string
	Module string
	Stats  pass.Stats
}

// NewStatsReport tags stats of module with a fresh run id.
func NewStatsReport(module string, stats pass.Stats) *StatsReport {
	return &StatsReport{RunID: uuid.NewString(), Module: module, Stats: stats}
}

// Metrics lists the counters in a fixed order.
func (r *StatsReport) Metrics() []Metric {
	s := r.Stats
	return []Metric{
		{"functions_analyzed", s.FunctionsAnalyzed},
		{"functions_skipped", s.FunctionsSkipped},
		{"instructions_analyzed", s.InstructionsAnalyzed},
		{"loads", s.Loads},
		{"loads_instrumented", s.LoadsInstrumented},
		{"stores", s.Stores},
		{"stores_instrumented", s.StoresInstrumented},
		{"calls", s.Calls},
		{"call_sites", s.CallSites},
	}
}

// Metric is a single named counter.
type Metric struct {
	Name  string
	Value int
}

// Line renders the report as one line of key=value pairs.
func (r *StatsReport) Line() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run=%s module=%s", r.RunID, r.Module)
	for _, m := range r.Metrics() {
		fmt.Fprintf(&b, " %s=%d", m.Name, m.Value)
	}
	return b.String()
}

// Rows renders the report as database rows.
func (r *StatsReport) Rows() [][]any {
	rows := make([][]any, 0, 9)
	for _, m := range r.Metrics() {
		rows = append(rows, []any{r.RunID, r.Module, m.Name, m.Value})
	}
	return rows
}

// NewStatsPrinters prints r as a table to the console unless quiet, appends
// it to file and inserts it into the sqlite database at db, skipping empty
// destinations.
func NewStatsPrinters(r *StatsReport, quiet bool, file, db string) (*Printers, error) {
	ps := NewPrinters().
		AddPrinterToConsole(quiet, func() string { return report.StatsTable(r.Stats) }).
		AddPrinterToFile(file, r.Line)
	return ps.AddPrinterToSqlite3(db, createStatsTable, insertStats, r.Rows)
}
