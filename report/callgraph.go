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
	"bytes"
	"errors"
	"fmt"

	"github.com/0xsoniclabs/tracemem/pass"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// dotFormat selects the plain dot renderer of graphviz.
const dotFormat graphviz.Format = "dot"

// CallGraphDot renders the indexed calls as a DOT digraph. Edges are labelled
// with the number of call sites between caller and callee.
func CallGraphDot(index *pass.CallSiteIndex) (out string, err error) {
	g := graphviz.New()
	graph, err := g.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		err = errors.Join(err, graph.Close(), g.Close())
	}()

	nodes := make(map[string]*cgraph.Node)
	node := func(name string) (*cgraph.Node, error) {
		if n, ok := nodes[name]; ok {
			return n, nil
		}
		n, err := graph.CreateNode(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create node %s: %w", name, err)
		}
		n.SetLabel(name)
		nodes[name] = n
		return n, nil
	}

	type pair struct{ caller, callee string }
	counts := make(map[pair]int)
	var order []pair
	for _, callee := range index.Callees() {
		for _, call := range index.CallSites(callee) {
			p := pair{caller: index.Caller(call).Name(), callee: callee.Name()}
			if counts[p] == 0 {
				order = append(order, p)
			}
			counts[p]++
		}
	}

	for _, p := range order {
		from, err := node(p.caller)
		if err != nil {
			return "", err
		}
		to, err := node(p.callee)
		if err != nil {
			return "", err
		}
		e, err := graph.CreateEdge("", from, to)
		if err != nil {
			return "", fmt.Errorf("failed to create edge %s -> %s: %w", p.caller, p.callee, err)
		}
		e.SetLabel(fmt.Sprintf("%d", counts[p]))
	}

	var buf bytes.Buffer
	if err := g.Render(graph, dotFormat, &buf); err != nil {
		return "", fmt.Errorf("failed to render call graph: %w", err)
	}
	return buf.String(), nil
}
