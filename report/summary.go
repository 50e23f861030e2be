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

// Package report turns instrumentation statistics and trace logs into
// tables, charts and call graphs.
package report

import (
	"sort"

	"github.com/0xsoniclabs/tracemem/tracer"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AddressSummary describes the traced accesses of one address.
type AddressSummary struct {
	Addr   uint64
	Reads  int
	Writes int
	Min    int32
	Max    int32
	Mean   float64
	StdDev float64
}

// TraceSummary describes a whole trace log.
type TraceSummary struct {
	Events    int
	Epochs    int
	Addresses []AddressSummary // ordered by address
}

// SummarizeTrace groups the events of a trace log by address.
func SummarizeTrace(entries []tracer.Entry) *TraceSummary {
	summary := &TraceSummary{}
	values := make(map[uint64][]float64)
	counts := make(map[uint64]*AddressSummary)
	for _, entry := range entries {
		if entry.IsTime {
			summary.Epochs++
			continue
		}
		e := entry.Event
		summary.Events++
		a, ok := counts[e.Addr]
		if !ok {
			a = &AddressSummary{Addr: e.Addr}
			counts[e.Addr] = a
		}
		if e.Kind == tracer.Read {
			a.Reads++
		} else {
			a.Writes++
		}
		values[e.Addr] = append(values[e.Addr], float64(e.Value))
	}

	for addr, a := range counts {
		vs := values[addr]
		a.Min = int32(floats.Min(vs))
		a.Max = int32(floats.Max(vs))
		if len(vs) > 1 {
			a.Mean, a.StdDev = stat.MeanStdDev(vs, nil)
		} else {
			a.Mean = vs[0]
		}
		summary.Addresses = append(summary.Addresses, *a)
	}
	sort.Slice(summary.Addresses, func(i, j int) bool {
		return summary.Addresses[i].Addr < summary.Addresses[j].Addr
	})
	return summary
}
