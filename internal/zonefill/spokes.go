package zonefill

import (
	"math"

	"pcb-copper/internal/board"
	"pcb-copper/pkg/geometry"
)

// spokeEpsilon widens the relief bounding box so spokes reliably overlap
// the surrounding copper (0.04 mm).
const spokeEpsilon = geometry.Coord(40000)

// spoke is one candidate thermal bridge: a closed five-point outline whose
// far edge midpoint serves as the connection test point.
type spoke struct {
	outline []geometry.Point
	testPt  geometry.Point
}

// hasThermalPolicy reports whether the pad's resolved zone connection is a
// thermal one, independent of layers.
func (f *Filler) hasThermalPolicy(z *board.Zone, p *board.Pad) bool {
	if p.Net <= 0 || p.Net != z.Net {
		return false
	}
	switch z.PadConnection(p) {
	case board.ConnThermal, board.ConnTHTThermal:
		return true
	default:
		return false
	}
}

// hasThermalConnection reports whether a pad connects to the zone through
// thermal relief spokes on the layer.
func (f *Filler) hasThermalConnection(z *board.Zone, p *board.Pad, layer board.LayerID) bool {
	return p.IsOnLayer(layer) && f.hasThermalPolicy(z, p)
}

// buildThermalSpokes generates four candidate spokes per thermally
// connected pad, crossing the relief gap north, south, east and west in
// the pad's own frame. Circular pads get their spokes rotated 45 degrees
// so they meet copper diagonally between neighboring pads.
func (f *Filler) buildThermalSpokes(z *board.Zone, layer board.LayerID) []spoke {
	var out []spoke
	for _, p := range f.board.Pads {
		if !f.hasThermalConnection(z, p, layer) {
			continue
		}

		gap := z.ThermalReliefGap(p)
		width := z.ThermalSpokeWidth(p)
		if width > p.Size.X {
			width = p.Size.X
		}
		if width > p.Size.Y {
			width = p.Size.Y
		}
		// A spoke thinner than the minimum copper width would be erased
		// by the width filter anyway.
		if width <= z.MinThickness {
			continue
		}

		angle := p.Orientation
		if p.Shape == board.PadCircle {
			angle += math.Pi / 4
		}

		halfW := width / 2
		reachX := p.Size.X/2 + gap + spokeEpsilon
		reachY := p.Size.Y/2 + gap + spokeEpsilon

		for dir := 0; dir < 4; dir++ {
			var pts [5]geometry.Point
			switch dir {
			case 0: // east
				pts = [5]geometry.Point{
					{X: halfW, Y: halfW},
					{X: halfW, Y: -halfW},
					{X: reachX, Y: -halfW},
					{X: reachX, Y: 0},
					{X: reachX, Y: halfW},
				}
			case 1: // west
				pts = [5]geometry.Point{
					{X: -halfW, Y: -halfW},
					{X: -halfW, Y: halfW},
					{X: -reachX, Y: halfW},
					{X: -reachX, Y: 0},
					{X: -reachX, Y: -halfW},
				}
			case 2: // north
				pts = [5]geometry.Point{
					{X: -halfW, Y: halfW},
					{X: halfW, Y: halfW},
					{X: halfW, Y: reachY},
					{X: 0, Y: reachY},
					{X: -halfW, Y: reachY},
				}
			case 3: // south
				pts = [5]geometry.Point{
					{X: halfW, Y: -halfW},
					{X: -halfW, Y: -halfW},
					{X: -halfW, Y: -reachY},
					{X: 0, Y: -reachY},
					{X: halfW, Y: -reachY},
				}
			}
			outline := make([]geometry.Point, 5)
			for i, pt := range pts {
				outline[i] = pt.Rotate(angle).Add(p.Pos)
			}
			out = append(out, spoke{outline: outline, testPt: outline[3]})
		}
	}
	return out
}

// admitSpokes keeps the spokes whose test point lands on copper that
// survives the minimum-width filter. A second pass admits spokes whose
// test point lands inside an already admitted spoke, so two pads facing
// each other across a gap can bridge through a shared stub; the
// propagation is deliberately a single hop.
func admitSpokes(spokes []spoke, testAreas *geometry.PolySet, progress Progress) []spoke {
	admitted := make([]spoke, 0, len(spokes))
	var pending []spoke

	tests := 0
	checkCancel := func() bool {
		tests++
		return tests%400 == 0 && progress.IsCancelled()
	}

	for _, s := range spokes {
		if checkCancel() {
			return nil
		}
		if testAreas.Contains(s.testPt) {
			admitted = append(admitted, s)
		} else {
			pending = append(pending, s)
		}
	}

	firstHop := len(admitted)
	for _, s := range pending {
		for _, a := range admitted[:firstHop] {
			if checkCancel() {
				return nil
			}
			if pointInOutline(s.testPt, a.outline) {
				admitted = append(admitted, s)
				break
			}
		}
	}
	return admitted
}

// pointInOutline is a winding test against a single closed outline.
func pointInOutline(p geometry.Point, outline []geometry.Point) bool {
	ring := geometry.NewPolySet()
	ring.AddOutline(outline)
	return ring.Contains(p)
}
