package board

import (
	"sort"
	"strconv"

	"pcb-copper/pkg/geometry"
)

// Board is a snapshot of all copper-bearing objects. The geometry engine
// borrows item references from it for the duration of one run and never
// mutates the geometry.
type Board struct {
	Pads     []*Pad
	Tracks   []*TrackSegment
	Vias     []*Via
	Zones    []*Zone
	Graphics []*Graphic

	// Outline is the board edge polygon; nil when no valid outline exists.
	Outline *geometry.PolySet

	netNames map[int]string
}

// SetNetName registers a display name for a net code.
func (b *Board) SetNetName(code int, name string) {
	if b.netNames == nil {
		b.netNames = make(map[int]string)
	}
	b.netNames[code] = name
}

// NetName returns the display name of a net code.
func (b *Board) NetName(code int) string {
	if name, ok := b.netNames[code]; ok {
		return name
	}
	if code == 0 {
		return "<no net>"
	}
	return "net-" + strconv.Itoa(code)
}

// AllCopperItems returns every item that can participate in a clearance
// test, in a stable order.
func (b *Board) AllCopperItems() []Item {
	items := make([]Item, 0, len(b.Pads)+len(b.Tracks)+len(b.Vias)+len(b.Zones)+len(b.Graphics))
	for _, p := range b.Pads {
		items = append(items, p)
	}
	for _, t := range b.Tracks {
		items = append(items, t)
	}
	for _, v := range b.Vias {
		items = append(items, v)
	}
	for _, z := range b.Zones {
		items = append(items, z)
	}
	for _, g := range b.Graphics {
		items = append(items, g)
	}
	return items
}

// TrackItems returns tracks followed by vias, the list the track clearance
// pass iterates over.
func (b *Board) TrackItems() []Item {
	items := make([]Item, 0, len(b.Tracks)+len(b.Vias))
	for _, t := range b.Tracks {
		items = append(items, t)
	}
	for _, v := range b.Vias {
		items = append(items, v)
	}
	return items
}

// SortedPads returns the pads sorted by X then Y position. The pad-to-pad
// pass sweeps this list and stops early once positions move out of range.
func (b *Board) SortedPads() []*Pad {
	pads := make([]*Pad, len(b.Pads))
	copy(pads, b.Pads)
	sort.Slice(pads, func(i, j int) bool {
		if pads[i].Pos.X != pads[j].Pos.X {
			return pads[i].Pos.X < pads[j].Pos.X
		}
		return pads[i].Pos.Y < pads[j].Pos.Y
	})
	return pads
}

// WarmShapeCaches builds every item's effective shape up front so the
// parallel fill phase never races on lazy construction.
func (b *Board) WarmShapeCaches() {
	for _, it := range b.AllCopperItems() {
		it.EffectiveShape()
	}
}

// HasValidOutline reports whether a usable board edge polygon exists.
func (b *Board) HasValidOutline() bool {
	return b.Outline != nil && !b.Outline.IsEmpty()
}
