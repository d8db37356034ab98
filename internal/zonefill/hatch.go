package zonefill

import (
	"math"

	"pcb-copper/internal/board"
	"pcb-copper/pkg/geometry"
)

// addHatchFill subtracts a rotated grid of square holes from the fill,
// turning a solid pour into a hatched one. The grid is anchored to
// absolute coordinates so adjacent zones hatch in phase, a solid border is
// kept along the outline, and the pattern is cleared around same-net
// through items so vias and thermal pads keep solid copper to land on.
func (f *Filler) addHatchFill(z *board.Zone, layer board.LayerID, fill *geometry.PolySet) {
	thickness := z.Hatch.Thickness
	if min := z.MinThickness + geometry.FromMM(0.001); thickness < min {
		thickness = min
	}
	gridSize := thickness + z.Hatch.Gap
	holeSize := z.Hatch.Gap + z.MinThickness
	if gridSize <= 0 || holeSize <= 0 {
		return
	}

	// Work in a frame where the hatch axes are horizontal and vertical.
	rotated := fill.Clone()
	rotated.Rotate(-z.Hatch.Orientation)
	bb := rotated.BBox()

	holes := geometry.NewPolySet()
	x0 := gridFloor(bb.MinX, gridSize)
	y0 := gridFloor(bb.MinY, gridSize)
	for x := x0; x <= bb.MaxX; x += gridSize {
		for y := y0; y <= bb.MaxY; y += gridSize {
			holes.AddOutline(hatchHole(z.Hatch, geometry.Point{X: x, Y: y}, holeSize))
		}
	}
	holes.Rotate(z.Hatch.Orientation)

	// Keep a solid border along the zone outline.
	margin := geometry.Coord(math.Round(float64(z.MinThickness) * 1.1))
	if z.Hatch.BorderAlgorithm {
		margin = thickness
	}
	interior := fill.Clone()
	interior.Deflate(margin, geometry.CornerChamfer)
	holes.Intersect(interior)

	holes.Subtract(f.hatchAprons(z, layer, margin))

	// Clipping against the outline leaves partial holes; drop the ones
	// too small to be worth the copper loss.
	if z.Hatch.MinHoleArea > 0 {
		minArea := float64(holeSize) * float64(holeSize) * z.Hatch.MinHoleArea
		for i := holes.OutlineCount() - 1; i >= 0; i-- {
			if holes.OutlineArea(i) < minArea {
				holes.DeleteOutline(i)
			}
		}
	}

	fill.Subtract(holes)
}

// hatchAprons returns solid discs around same-net vias and pads where the
// hatch pattern must not punch holes.
func (f *Filler) hatchAprons(z *board.Zone, layer board.LayerID, margin geometry.Coord) *geometry.PolySet {
	aprons := geometry.NewPolySet()
	if z.Net <= 0 {
		return aprons
	}

	for _, v := range f.board.Vias {
		if v.Net != z.Net || !v.IsOnLayer(layer) {
			continue
		}
		radius := z.Hatch.Gap * 10 / 19
		if r := v.Drill/2 + margin; r > radius {
			radius = r
		}
		geometry.Circle{Center: v.Pos, Radius: radius}.Polygonize(aprons, 0)
	}

	for _, p := range f.board.Pads {
		if p.Net != z.Net || !p.IsOnLayer(layer) {
			continue
		}
		if conn := z.PadConnection(p); conn == board.ConnNone {
			continue
		}
		p.EffectiveShape().Polygonize(aprons, margin)
	}

	return aprons
}

// hatchHole builds one hole outline with corner at origin, applying the
// zone's corner smoothing: level 1 chamfers, level 2 and up fillets. The
// cut depth is the smoothing value times half the hole size, clamped.
func hatchHole(h board.HatchParams, origin geometry.Point, size geometry.Coord) []geometry.Point {
	corners := []geometry.Point{
		{X: origin.X, Y: origin.Y},
		{X: origin.X + size, Y: origin.Y},
		{X: origin.X + size, Y: origin.Y + size},
		{X: origin.X, Y: origin.Y + size},
	}
	val := h.SmoothingValue
	if val < 0 {
		val = 0
	} else if val > 1 {
		val = 1
	}
	cut := geometry.Coord(math.Round(val * float64(size) / 2))
	if h.SmoothingLevel <= 0 || cut <= 0 {
		return corners
	}

	var out []geometry.Point
	n := len(corners)
	for i, c := range corners {
		prev := corners[(i+n-1)%n]
		next := corners[(i+1)%n]
		a := towards(c, prev, cut)
		b := towards(c, next, cut)
		if h.SmoothingLevel == 1 {
			out = append(out, a, b)
			continue
		}
		// Fillet: arc around the center offset diagonally inward from
		// the corner.
		center := geometry.Point{X: a.X + b.X - c.X, Y: a.Y + b.Y - c.Y}
		start := math.Atan2(float64(a.Y-center.Y), float64(a.X-center.X))
		end := math.Atan2(float64(b.Y-center.Y), float64(b.X-center.X))
		for end-start > math.Pi {
			end -= 2 * math.Pi
		}
		for start-end > math.Pi {
			end += 2 * math.Pi
		}
		const steps = 8
		for s := 0; s <= steps; s++ {
			t := start + (end-start)*float64(s)/steps
			out = append(out, geometry.Point{
				X: center.X + geometry.Coord(math.Round(float64(cut)*math.Cos(t))),
				Y: center.Y + geometry.Coord(math.Round(float64(cut)*math.Sin(t))),
			})
		}
	}
	return out
}

// towards moves from a in the direction of b by d along the axis they share.
func towards(a, b geometry.Point, d geometry.Coord) geometry.Point {
	switch {
	case b.X > a.X:
		return geometry.Point{X: a.X + d, Y: a.Y}
	case b.X < a.X:
		return geometry.Point{X: a.X - d, Y: a.Y}
	case b.Y > a.Y:
		return geometry.Point{X: a.X, Y: a.Y + d}
	default:
		return geometry.Point{X: a.X, Y: a.Y - d}
	}
}

// gridFloor rounds v down to a multiple of step.
func gridFloor(v, step geometry.Coord) geometry.Coord {
	q := v / step
	if v%step != 0 && v < 0 {
		q--
	}
	return q * step
}
