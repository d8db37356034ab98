package drc

import (
	"pcb-copper/internal/board"
	"pcb-copper/pkg/geometry"
)

// Constraint is a resolved minimum-clearance requirement together with the
// name of the rule it came from.
type Constraint struct {
	Name  string
	Value geometry.Coord
}

// Resolver answers clearance queries for item pairs. The full rule language
// lives outside this engine; implementations are expected to be
// deterministic and side-effect free per call.
type Resolver interface {
	// Clearance returns the minimum allowed distance between two items on
	// the given layer.
	Clearance(a, b board.Item, layer board.LayerID) Constraint

	// WorstCase returns the largest minimum-clearance value across all
	// active rules, used to size conservative bounding-box pruning. The
	// second return is false when no clearance rules exist at all, in
	// which case there is nothing to check.
	WorstCase() (geometry.Coord, bool)

	// HoleClearance returns the minimum distance from a drilled hole of a
	// to the copper of b.
	HoleClearance(a, b board.Item) Constraint
}

// RuleResolver is a table-driven Resolver: a default clearance, optional
// per-net overrides, and a hole clearance. It is sufficient for the checker
// and the fill engine; richer rule systems plug in behind the interface.
type RuleResolver struct {
	Default geometry.Coord
	ByNet   map[int]geometry.Coord // per-net minimums, max of the pair wins
	Hole    geometry.Coord
}

func (r *RuleResolver) Clearance(a, b board.Item, layer board.LayerID) Constraint {
	value := r.Default
	name := "default"
	for _, it := range []board.Item{a, b} {
		if it == nil {
			continue
		}
		if v, ok := r.ByNet[it.NetCode()]; ok && v > value {
			value = v
			name = "netclass"
		}
	}
	// A zone's local clearance raises the requirement for its own pairs.
	for _, it := range []board.Item{a, b} {
		if z, ok := it.(*board.Zone); ok && z.LocalClearance > value {
			value = z.LocalClearance
			name = "zone_local"
		}
	}
	return Constraint{Name: name, Value: value}
}

func (r *RuleResolver) WorstCase() (geometry.Coord, bool) {
	if r.Default <= 0 && len(r.ByNet) == 0 {
		return 0, false
	}
	worst := r.Default
	for _, v := range r.ByNet {
		if v > worst {
			worst = v
		}
	}
	if r.Hole > worst {
		worst = r.Hole
	}
	return worst, true
}

func (r *RuleResolver) HoleClearance(a, b board.Item) Constraint {
	return Constraint{Name: "hole", Value: r.Hole}
}
