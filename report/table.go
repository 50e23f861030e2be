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

package report

import (
	"fmt"

	"github.com/0xsoniclabs/tracemem/pass"
	"github.com/jedib0t/go-pretty/v6/table"
)

// StatsTable renders the counters of an instrumentation run.
func StatsTable(stats pass.Stats) string {
	t := table.NewWriter()
	t.SetTitle("Instrumentation")
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRows([]table.Row{
		{"functions analysed", stats.FunctionsAnalyzed},
		{"functions skipped", stats.FunctionsSkipped},
		{"instructions analysed", stats.InstructionsAnalyzed},
		{"loads", stats.Loads},
		{"loads instrumented", stats.LoadsInstrumented},
		{"stores", stats.Stores},
		{"stores instrumented", stats.StoresInstrumented},
		{"calls", stats.Calls},
		{"indexed call sites", stats.CallSites},
	})
	return t.Render()
}

// SummaryTable renders the per-address statistics of a trace log.
func SummaryTable(s *TraceSummary) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%d events, %d epochs", s.Events, s.Epochs))
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Address", "Reads", "Writes", "Min", "Max", "Mean", "StdDev"})
	for _, a := range s.Addresses {
		t.AppendRow(table.Row{
			fmt.Sprintf("%#x", a.Addr), a.Reads, a.Writes, a.Min, a.Max,
			fmt.Sprintf("%.2f", a.Mean), fmt.Sprintf("%.2f", a.StdDev),
		})
	}
	return t.Render()
}
