package board

import (
	"sync"

	"pcb-copper/pkg/geometry"
)

// ZoneConnection is the policy for connecting pads to a zone.
type ZoneConnection int

const (
	ConnInherited ZoneConnection = iota // pad defers to the zone policy
	ConnNone
	ConnThermal
	ConnFull
	ConnTHTThermal // solid for SMD pads, thermal for through-hole pads
)

// FillMode selects how the zone body is filled.
type FillMode int

const (
	FillSolid FillMode = iota
	FillHatch
)

// IslandRemovalMode controls what happens to isolated copper islands.
type IslandRemovalMode int

const (
	IslandAlways IslandRemovalMode = iota // always remove
	IslandByArea                          // remove only below MinIslandArea
)

// HatchParams parameterizes the hatch fill pattern.
type HatchParams struct {
	Thickness       geometry.Coord // copper line width of the hatch
	Gap             geometry.Coord // free space between lines
	Orientation     float64        // grid rotation, radians
	SmoothingLevel  int            // 0 none, 1 chamfer, >=2 fillet
	SmoothingValue  float64        // 0..1, fraction of the gap
	MinHoleArea     float64        // minimal hole area as a ratio of a full hole
	BorderAlgorithm bool           // thicker zone border when set
}

// Zone is a copper pour region on one or more layers.
type Zone struct {
	Name      string
	Net       int
	LayerSpan LayerSet
	Outline   *geometry.PolySet // user-drawn outline, may contain holes

	MinThickness    geometry.Coord
	LocalClearance  geometry.Coord
	Connection      ZoneConnection
	ThermalGap      geometry.Coord
	SpokeWidth      geometry.Coord
	Priority        int
	Keepout         bool
	PourForbidden   bool // keepout flag: no copper pour allowed inside
	Mode            FillMode
	Hatch           HatchParams
	IslandPolicy    IslandRemovalMode
	MinIslandArea   float64 // board units squared
	SmoothingRadius geometry.Coord

	mu         sync.Mutex
	filled     bool
	rawFills   map[LayerID]*geometry.PolySet
	finalFills map[LayerID]*geometry.PolySet
	hashes     map[LayerID]uint64
	islands    map[LayerID]map[int]bool
	filledArea float64
}

func (z *Zone) Kind() ItemKind           { return KindZone }
func (z *Zone) NetCode() int             { return z.Net }
func (z *Zone) Layers() LayerSet         { return z.LayerSpan }
func (z *Zone) IsOnLayer(l LayerID) bool { return z.LayerSpan.Contains(l) }
func (z *Zone) Position() geometry.Point { return z.Outline.BBox().Center() }

// EffectiveShape returns a coarse stand-in over the outline bounding box.
// Zone passes work on the smoothed outline polygons directly; the shape is
// only used for spatial pruning.
func (z *Zone) EffectiveShape() geometry.Shape {
	b := z.Outline.BBox()
	return geometry.ConvexShape{Pts: []geometry.Point{
		{X: b.MinX, Y: b.MinY},
		{X: b.MaxX, Y: b.MinY},
		{X: b.MaxX, Y: b.MaxY},
		{X: b.MinX, Y: b.MaxY},
	}}
}

func (z *Zone) BBox() geometry.Box {
	return z.Outline.BBox()
}

// SmoothedOutline returns the zone outline with corner smoothing applied
// and self-intersections removed. Holes in the drawn outline survive; they
// are bridged later by Fracture.
func (z *Zone) SmoothedOutline() *geometry.PolySet {
	out := z.Outline.Clone()
	out.Simplify()
	if z.SmoothingRadius > 0 {
		// Round convex corners by a deflate/inflate round-trip at the
		// smoothing radius.
		out.Deflate(z.SmoothingRadius, geometry.CornerRound)
		out.Inflate(z.SmoothingRadius, geometry.CornerRound)
	}
	return out
}

// PadConnection resolves the connection policy for a pad, honoring the
// pad's local override and downgrading THT-only thermals to solid for
// surface-mount pads.
func (z *Zone) PadConnection(p *Pad) ZoneConnection {
	conn := z.Connection
	if p.HasLocalConnection && p.LocalConnection != ConnInherited {
		conn = p.LocalConnection
	}
	if conn == ConnTHTThermal && !p.HasDrill() {
		conn = ConnFull
	}
	return conn
}

// ThermalReliefGap returns the relief gap for a pad (pad override first).
func (z *Zone) ThermalReliefGap(p *Pad) geometry.Coord {
	if p.LocalThermalGap > 0 {
		return p.LocalThermalGap
	}
	return z.ThermalGap
}

// ThermalSpokeWidth returns the spoke bridge width for a pad.
func (z *Zone) ThermalSpokeWidth(p *Pad) geometry.Coord {
	if p.LocalSpokeWidth > 0 {
		return p.LocalSpokeWidth
	}
	return z.SpokeWidth
}

// SetFill stores the computed raw and final polygons for a layer. The
// per-zone lock is held only for the duration of the write.
func (z *Zone) SetFill(layer LayerID, raw, final *geometry.PolySet) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.rawFills == nil {
		z.rawFills = make(map[LayerID]*geometry.PolySet)
		z.finalFills = make(map[LayerID]*geometry.PolySet)
	}
	z.rawFills[layer] = raw
	z.finalFills[layer] = final
	z.filled = true
}

// Fill returns the stored final polygons for a layer, or nil.
func (z *Zone) Fill(layer LayerID) *geometry.PolySet {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.finalFills == nil {
		return nil
	}
	return z.finalFills[layer]
}

// RawFill returns the stored pre-filter polygons for a layer, or nil.
func (z *Zone) RawFill(layer LayerID) *geometry.PolySet {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.rawFills == nil {
		return nil
	}
	return z.rawFills[layer]
}

// IsFilled reports whether the zone currently holds fill results.
func (z *Zone) IsFilled() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.filled
}

// UnFill discards all stored fill results, reverting the zone to unfilled.
func (z *Zone) UnFill() {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.rawFills = nil
	z.finalFills = nil
	z.islands = nil
	z.filled = false
	z.filledArea = 0
}

// BuildHashValue records the content hash of the currently stored final
// polygons for a layer, for staleness detection on the next fill.
func (z *Zone) BuildHashValue(layer LayerID) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.hashes == nil {
		z.hashes = make(map[LayerID]uint64)
	}
	var h uint64
	if z.finalFills != nil && z.finalFills[layer] != nil {
		h = z.finalFills[layer].Hash()
	}
	z.hashes[layer] = h
}

// HashValue returns the hash recorded by BuildHashValue.
func (z *Zone) HashValue(layer LayerID) uint64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.hashes[layer]
}

// MarkIsland flags outline idx of the layer's fill as a retained island.
func (z *Zone) MarkIsland(layer LayerID, idx int) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.islands == nil {
		z.islands = make(map[LayerID]map[int]bool)
	}
	if z.islands[layer] == nil {
		z.islands[layer] = make(map[int]bool)
	}
	z.islands[layer][idx] = true
}

// CalculateFilledArea recomputes and returns the total filled copper area
// across layers.
func (z *Zone) CalculateFilledArea() float64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	var area float64
	for _, ps := range z.finalFills {
		area += ps.Area()
	}
	z.filledArea = area
	return area
}

// FilledArea returns the last computed filled area.
func (z *Zone) FilledArea() float64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.filledArea
}

// CacheRenderData precomputes per-ring bounding boxes on the stored fills,
// the post-fill geometric cache pass.
func (z *Zone) CacheRenderData() {
	z.mu.Lock()
	defer z.mu.Unlock()
	for _, ps := range z.finalFills {
		ps.BuildBBoxCaches()
	}
}
