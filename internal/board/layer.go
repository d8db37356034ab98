// Package board holds the copper snapshot the geometry engine operates on:
// pads, track segments, vias, zones and copper graphics, plus the board
// outline and a spatial index over all items.
package board

// LayerID identifies a single board layer. Copper layers are numbered from
// the front (0) to the back.
type LayerID int

// Common layers for two-layer boards.
const (
	FrontCopper LayerID = 0
	BackCopper  LayerID = 1
)

// EdgeCuts is the board-outline layer; items on it are treated as being on
// every copper layer for knockout purposes.
const EdgeCuts LayerID = 63

// LayerSet is a bitset of board layers.
type LayerSet uint64

// NewLayerSet builds a set from individual layers.
func NewLayerSet(layers ...LayerID) LayerSet {
	var s LayerSet
	for _, l := range layers {
		s = s.Add(l)
	}
	return s
}

// Add returns the set with layer l included.
func (s LayerSet) Add(l LayerID) LayerSet {
	return s | 1<<uint(l)
}

// Contains returns true if layer l is in the set.
func (s LayerSet) Contains(l LayerID) bool {
	return s&(1<<uint(l)) != 0
}

// Intersects returns true if the two sets share any layer.
func (s LayerSet) Intersects(other LayerSet) bool {
	return s&other != 0
}

// Seq returns the layers of the set in ascending order.
func (s LayerSet) Seq() []LayerID {
	var out []LayerID
	for l := LayerID(0); l < 64; l++ {
		if s.Contains(l) {
			out = append(out, l)
		}
	}
	return out
}
