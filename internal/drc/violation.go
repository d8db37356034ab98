// Package drc implements the copper clearance checker: pairwise violation
// detection over pads, tracks, vias, zone outlines and copper graphics.
// Violations are the checker's normal output, not errors.
package drc

import (
	"sync"

	"pcb-copper/internal/board"
	"pcb-copper/pkg/geometry"
)

// Kind classifies a violation.
type Kind int

const (
	KindClearance Kind = iota
	KindTracksCrossing
	KindZonesIntersect
	KindShortingItems
	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindClearance:
		return "clearance"
	case KindTracksCrossing:
		return "tracks_crossing"
	case KindZonesIntersect:
		return "zones_intersect"
	case KindShortingItems:
		return "shorting_items"
	default:
		return "unknown"
	}
}

// Violation describes one detected clearance problem between two items.
type Violation struct {
	Kind       Kind
	A, B       board.Item
	Constraint string         // name of the rule that set the required value
	Required   geometry.Coord // minimum allowed separation
	Actual     geometry.Coord // measured separation, meaningless for crossings
	Where      geometry.Point // representative location
}

// Sink receives violations as they are produced. IsLimitExceeded lets the
// sink cap reporting per kind; both checker and fill engine honor it as an
// early-exit signal. A sink must be safe for concurrent use.
type Sink interface {
	Report(v *Violation)
	IsLimitExceeded(k Kind) bool
}

// Recorder is a Sink that collects violations with optional per-kind caps.
type Recorder struct {
	mu         sync.Mutex
	violations []*Violation
	counts     [numKinds]int
	limits     map[Kind]int
}

// NewRecorder creates a Recorder. A limit of 0 (or an absent kind) means
// unlimited.
func NewRecorder(limits map[Kind]int) *Recorder {
	return &Recorder{limits: limits}
}

func (r *Recorder) Report(v *Violation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limitExceededLocked(v.Kind) {
		return
	}
	r.counts[v.Kind]++
	r.violations = append(r.violations, v)
}

func (r *Recorder) IsLimitExceeded(k Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limitExceededLocked(k)
}

func (r *Recorder) limitExceededLocked(k Kind) bool {
	limit, ok := r.limits[k]
	return ok && limit > 0 && r.counts[k] >= limit
}

// Violations returns the collected violations.
func (r *Recorder) Violations() []*Violation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Violation, len(r.violations))
	copy(out, r.violations)
	return out
}

// Count returns the number of collected violations of kind k.
func (r *Recorder) Count(k Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[k]
}
