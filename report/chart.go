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
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// RenderTraceChart writes an HTML bar chart of reads and writes per address.
func RenderTraceChart(w io.Writer, s *TraceSummary) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithInitializationOpts(opts.Initialization{
		Theme:     types.ThemeChalk,
		PageTitle: "Traced Memory Accesses",
		Height:    "900px",
	}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Accesses per Address",
			Subtitle: fmt.Sprintf("%d events in %d epochs", s.Events, s.Epochs),
		}))

	labels := make([]string, 0, len(s.Addresses))
	reads := make([]opts.BarData, 0, len(s.Addresses))
	writes := make([]opts.BarData, 0, len(s.Addresses))
	for _, a := range s.Addresses {
		labels = append(labels, fmt.Sprintf("%#x", a.Addr))
		reads = append(reads, opts.BarData{Value: a.Reads})
		writes = append(writes, opts.BarData{Value: a.Writes})
	}
	bar.SetXAxis(labels).
		AddSeries("Reads", reads).
		AddSeries("Writes", writes)
	return bar.Render(w)
}
