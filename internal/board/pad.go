package board

import (
	"sync"

	"pcb-copper/pkg/geometry"
)

// PadShape enumerates the supported pad outlines.
type PadShape int

const (
	PadCircle PadShape = iota
	PadOval
	PadRect
	PadRoundRect
)

// PadAttr distinguishes through-hole pads from surface-mount ones.
type PadAttr int

const (
	AttrStandard PadAttr = iota // through-hole
	AttrSMD
)

// Pad is a footprint pad. Pads on the same footprint are identified by
// their designator (Number); two pads with the same designator are the same
// electrical pin and must share a net.
type Pad struct {
	Footprint string // parent footprint reference, e.g. "U3"
	Number    string // pad designator, e.g. "1"
	Net       int
	LayerSpan LayerSet
	Attribute PadAttr

	Pos             geometry.Point
	Size            geometry.Point // X and Y extent before rotation
	Shape           PadShape
	RoundRectRadius geometry.Coord
	Orientation     float64 // radians

	Drill       geometry.Point // zero means no hole; X==Y for round drills
	DrillOblong bool

	// Per-pad zone connection overrides; zero values defer to the zone.
	LocalThermalGap    geometry.Coord
	LocalSpokeWidth    geometry.Coord
	LocalConnection    ZoneConnection
	HasLocalConnection bool

	shapeOnce sync.Once
	shape     geometry.Shape
}

func (p *Pad) Kind() ItemKind           { return KindPad }
func (p *Pad) NetCode() int             { return p.Net }
func (p *Pad) Layers() LayerSet         { return p.LayerSpan }
func (p *Pad) IsOnLayer(l LayerID) bool { return p.LayerSpan.Contains(l) }
func (p *Pad) Position() geometry.Point { return p.Pos }

func (p *Pad) EffectiveShape() geometry.Shape {
	p.shapeOnce.Do(func() {
		p.shape = buildPadShape(p.Pos, p.Size, p.Shape, p.RoundRectRadius, p.Orientation)
	})
	return p.shape
}

func buildPadShape(pos, size geometry.Point, kind PadShape, rrRadius geometry.Coord, angle float64) geometry.Shape {
	switch kind {
	case PadCircle:
		return geometry.Circle{Center: pos, Radius: size.X / 2}
	case PadOval:
		// An oval is a capsule along its longer axis.
		w, h := size.X, size.Y
		if w == h {
			return geometry.Circle{Center: pos, Radius: w / 2}
		}
		var a, b geometry.Point
		var width geometry.Coord
		if w > h {
			half := (w - h) / 2
			a = geometry.Point{X: -half}
			b = geometry.Point{X: +half}
			width = h
		} else {
			half := (h - w) / 2
			a = geometry.Point{Y: -half}
			b = geometry.Point{Y: +half}
			width = w
		}
		return geometry.Capsule{
			A:     a.Rotate(angle).Add(pos),
			B:     b.Rotate(angle).Add(pos),
			Width: width,
		}
	case PadRect:
		return geometry.NewRectShape(pos, size.X, size.Y, angle)
	case PadRoundRect:
		return geometry.NewRoundRectShape(pos, size.X, size.Y, rrRadius, angle)
	default:
		panic("board: unsupported pad shape")
	}
}

func (p *Pad) BBox() geometry.Box {
	return p.EffectiveShape().BBox()
}

// BoundingRadius returns the radius of the smallest circle centered at the
// pad position that fully contains the pad.
func (p *Pad) BoundingRadius() geometry.Coord {
	b := p.BBox()
	c := p.Pos
	r := geometry.Coord(0)
	for _, corner := range []geometry.Point{
		{X: b.MinX, Y: b.MinY}, {X: b.MaxX, Y: b.MinY},
		{X: b.MaxX, Y: b.MaxY}, {X: b.MinX, Y: b.MaxY},
	} {
		if d := geometry.Coord(c.Distance(corner)) + 1; d > r {
			r = d
		}
	}
	return r
}

// HasDrill returns true if the pad is drilled.
func (p *Pad) HasDrill() bool {
	return p.Drill.X > 0 || p.Drill.Y > 0
}

// HoleStandIn returns a synthetic pad with the size and shape of this pad's
// drilled hole. It is used to build reliefs and clearances for the hole
// when the pad itself is absent from the layer under test.
func (p *Pad) HoleStandIn() *Pad {
	shape := PadCircle
	if p.DrillOblong {
		shape = PadOval
	}
	return &Pad{
		Footprint:   p.Footprint,
		Number:      p.Number,
		Net:         p.Net,
		LayerSpan:   p.LayerSpan,
		Attribute:   p.Attribute,
		Pos:         p.Pos,
		Size:        p.Drill,
		Shape:       shape,
		Orientation: p.Orientation,
	}
}
