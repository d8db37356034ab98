// Package connectivity tracks which filled copper reaches the items of its
// net. The fill engine consults it to find isolated islands and shares its
// lock so a fill run and a connectivity rebuild never overlap.
package connectivity

import (
	"sync"

	"pcb-copper/internal/board"
	"pcb-copper/pkg/geometry"
)

// Connectivity guards the board's connectivity data. The fill engine takes
// the lock with TryLock and aborts instead of blocking when a rebuild is in
// progress.
type Connectivity struct {
	mu sync.Mutex
}

// TryLock attempts to take the connectivity lock without blocking.
func (c *Connectivity) TryLock() bool {
	return c.mu.TryLock()
}

// Unlock releases the connectivity lock.
func (c *Connectivity) Unlock() {
	c.mu.Unlock()
}

// Island identifies one outline of a zone's fill on a layer.
type Island struct {
	Zone    *board.Zone
	Layer   board.LayerID
	Outline int
}

// FindIsolatedIslands returns, for each zone and layer, the fill outlines
// that touch no item of the zone's net. An outline is connected when at
// least one anchor point of a same-net pad, track end or via lies inside
// it; everything else is isolated.
func FindIsolatedIslands(b *board.Board, zones []*board.Zone) []Island {
	var out []Island
	for _, z := range zones {
		for _, layer := range z.LayerSpan.Seq() {
			fill := z.Fill(layer)
			if fill == nil || fill.IsEmpty() {
				continue
			}
			for _, i := range IsolatedOutlines(b, z.Net, layer, fill) {
				out = append(out, Island{Zone: z, Layer: layer, Outline: i})
			}
		}
	}
	return out
}

// IsolatedOutlines returns the indices of the outlines in fill that touch
// no item of the net on the layer. The fill need not be committed to a
// zone yet; the fill engine probes candidate results with it.
func IsolatedOutlines(b *board.Board, net int, layer board.LayerID, fill *geometry.PolySet) []int {
	anchors := netAnchors(b, net, layer)
	var out []int
	for i := 0; i < fill.OutlineCount(); i++ {
		ring := geometry.NewPolySet()
		ring.AddOutline(fill.Outline(i))
		ring.BuildBBoxCaches()
		if !anyInside(ring, anchors) {
			out = append(out, i)
		}
	}
	return out
}

// netAnchors collects the points where items of a net touch a layer.
func netAnchors(b *board.Board, net int, layer board.LayerID) []geometry.Point {
	if net <= 0 {
		return nil
	}
	var pts []geometry.Point
	for _, p := range b.Pads {
		if p.Net == net && p.IsOnLayer(layer) {
			// The pad center plus its four edge midpoints. A thermally
			// connected pad has no copper at its center (the relief ring
			// surrounds it) but its spokes overlap the pad edges.
			hx := geometry.Point{X: p.Size.X / 2}.Rotate(p.Orientation)
			hy := geometry.Point{Y: p.Size.Y / 2}.Rotate(p.Orientation)
			pts = append(pts, p.Pos,
				p.Pos.Add(hx), p.Pos.Sub(hx),
				p.Pos.Add(hy), p.Pos.Sub(hy))
		}
	}
	for _, t := range b.Tracks {
		if t.Net == net && t.Layer == layer {
			pts = append(pts, t.Start, t.End)
		}
	}
	for _, v := range b.Vias {
		if v.Net == net && v.IsOnLayer(layer) {
			pts = append(pts, v.Pos)
		}
	}
	return pts
}

func anyInside(ring *geometry.PolySet, pts []geometry.Point) bool {
	for _, p := range pts {
		if ring.Contains(p) {
			return true
		}
	}
	return false
}
