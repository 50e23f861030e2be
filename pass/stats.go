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

package pass

// Stats summarizes one run of the instrumentation pass.
type Stats struct {
	FunctionsAnalyzed    int
	FunctionsSkipped     int
	InstructionsAnalyzed int
	Loads                int
	LoadsInstrumented    int
	Stores               int
	StoresInstrumented   int
	Calls                int
	CallSites            int
}

// Add accumulates the counters of other into s.
func (s *Stats) Add(other Stats) {
	s.FunctionsAnalyzed += other.FunctionsAnalyzed
	s.FunctionsSkipped += other.FunctionsSkipped
	s.InstructionsAnalyzed += other.InstructionsAnalyzed
	s.Loads += other.Loads
	s.LoadsInstrumented += other.LoadsInstrumented
	s.Stores += other.Stores
	s.StoresInstrumented += other.StoresInstrumented
	s.Calls += other.Calls
	s.CallSites += other.CallSites
}
