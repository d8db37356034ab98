package drc

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	"pcb-copper/pkg/geometry"
)

// Stats summarizes one checker run: how many pair tests each constraint
// source contributed and the spread of evaluated clearance values. Purely
// diagnostic.
type Stats struct {
	ChecksBySource map[string]int
	MinClearance   float64 // millimeters
	MeanClearance  float64 // millimeters
}

type runStats struct {
	mu     sync.Mutex
	counts map[string]int
	values []float64 // millimeters
}

func newRunStats() *runStats {
	return &runStats{counts: make(map[string]int)}
}

// account records one evaluated constraint, whether or not it produced a
// violation.
func (s *runStats) account(c Constraint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[c.Name]++
	s.values = append(s.values, geometry.ToMM(c.Value))
}

func (s *runStats) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Stats{ChecksBySource: make(map[string]int, len(s.counts))}
	for k, v := range s.counts {
		out.ChecksBySource[k] = v
	}
	if len(s.values) > 0 {
		min := s.values[0]
		for _, v := range s.values[1:] {
			if v < min {
				min = v
			}
		}
		out.MinClearance = min
		out.MeanClearance = stat.Mean(s.values, nil)
	}
	return out
}
