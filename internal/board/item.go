package board

import (
	"sync"

	"pcb-copper/pkg/geometry"
)

// ItemKind tags the copper item variants.
type ItemKind int

const (
	KindPad ItemKind = iota
	KindTrack
	KindVia
	KindZone
	KindGraphic
)

func (k ItemKind) String() string {
	switch k {
	case KindPad:
		return "pad"
	case KindTrack:
		return "track"
	case KindVia:
		return "via"
	case KindZone:
		return "zone"
	case KindGraphic:
		return "graphic"
	default:
		return "unknown"
	}
}

// Item is the uniform capability surface over all copper-bearing objects.
// Items are owned by the board; the engine borrows them for one run.
type Item interface {
	Kind() ItemKind

	// NetCode returns the item's net, 0 meaning no net.
	NetCode() int

	// Layers returns the board layers the item occupies.
	Layers() LayerSet

	// IsOnLayer returns true if the item occupies layer l.
	IsOnLayer(l LayerID) bool

	// EffectiveShape returns the geometric shape used for all collision
	// tests. It is built lazily and cached; call Board.WarmShapeCaches
	// before sharing items across goroutines.
	EffectiveShape() geometry.Shape

	// BBox returns the item's axis-aligned bounding box.
	BBox() geometry.Box

	// Position returns a representative location for the item.
	Position() geometry.Point
}

// TrackSegment is a straight copper trace on a single layer.
type TrackSegment struct {
	Net   int
	Layer LayerID
	Start geometry.Point
	End   geometry.Point
	Width geometry.Coord

	shapeOnce sync.Once
	shape     geometry.Shape
}

func (t *TrackSegment) Kind() ItemKind          { return KindTrack }
func (t *TrackSegment) NetCode() int            { return t.Net }
func (t *TrackSegment) Layers() LayerSet        { return NewLayerSet(t.Layer) }
func (t *TrackSegment) IsOnLayer(l LayerID) bool { return l == t.Layer }
func (t *TrackSegment) Position() geometry.Point { return t.Start }

func (t *TrackSegment) EffectiveShape() geometry.Shape {
	t.shapeOnce.Do(func() {
		t.shape = geometry.Capsule{A: t.Start, B: t.End, Width: t.Width}
	})
	return t.shape
}

func (t *TrackSegment) BBox() geometry.Box {
	return t.EffectiveShape().BBox()
}

// Via is a drilled barrel connecting layers. PadLayers tracks where the via
// keeps an annular pad; on layers without one only the drilled hole counts.
type Via struct {
	Net       int
	Pos       geometry.Point
	Diameter  geometry.Coord
	Drill     geometry.Coord
	LayerSpan LayerSet
	PadLayers LayerSet // layers with an annular ring; zero means all of LayerSpan

	shapeOnce sync.Once
	shape     geometry.Shape
}

func (v *Via) Kind() ItemKind           { return KindVia }
func (v *Via) NetCode() int             { return v.Net }
func (v *Via) Layers() LayerSet         { return v.LayerSpan }
func (v *Via) IsOnLayer(l LayerID) bool { return v.LayerSpan.Contains(l) }
func (v *Via) Position() geometry.Point { return v.Pos }

func (v *Via) EffectiveShape() geometry.Shape {
	v.shapeOnce.Do(func() {
		v.shape = geometry.Circle{Center: v.Pos, Radius: v.Diameter / 2}
	})
	return v.shape
}

func (v *Via) BBox() geometry.Box {
	return v.EffectiveShape().BBox()
}

// PadOnLayer returns true if the via has an annular pad on layer l.
func (v *Via) PadOnLayer(l LayerID) bool {
	if !v.LayerSpan.Contains(l) {
		return false
	}
	if v.PadLayers == 0 {
		return true
	}
	return v.PadLayers.Contains(l)
}

// HoleShape returns the drilled hole as a circle, used when the via has no
// pad on the layer under test.
func (v *Via) HoleShape() geometry.Shape {
	return geometry.Circle{Center: v.Pos, Radius: (v.Drill + 1) / 2}
}

// GraphicKind distinguishes copper graphic variants.
type GraphicKind int

const (
	GraphicLine GraphicKind = iota
	GraphicText
)

// Graphic is a copper drawing or text item. Graphics carry no net and are
// unconnected by definition. Text collisions use the text bounding box.
type Graphic struct {
	What      GraphicKind
	Layer     LayerID
	Footprint string // owning footprint reference, empty for board items

	// Line fields.
	Start, End geometry.Point
	Width      geometry.Coord

	// Text field.
	TextBox geometry.Box

	shapeOnce sync.Once
	shape     geometry.Shape
}

func (g *Graphic) Kind() ItemKind           { return KindGraphic }
func (g *Graphic) NetCode() int             { return 0 }
func (g *Graphic) Layers() LayerSet         { return NewLayerSet(g.Layer) }
func (g *Graphic) IsOnLayer(l LayerID) bool { return l == g.Layer || g.Layer == EdgeCuts }

func (g *Graphic) Position() geometry.Point {
	if g.What == GraphicText {
		return g.TextBox.Center()
	}
	return g.Start
}

func (g *Graphic) EffectiveShape() geometry.Shape {
	g.shapeOnce.Do(func() {
		switch g.What {
		case GraphicLine:
			g.shape = geometry.Capsule{A: g.Start, B: g.End, Width: g.Width}
		case GraphicText:
			b := g.TextBox
			g.shape = geometry.ConvexShape{Pts: []geometry.Point{
				{X: b.MinX, Y: b.MinY},
				{X: b.MaxX, Y: b.MinY},
				{X: b.MaxX, Y: b.MaxY},
				{X: b.MinX, Y: b.MaxY},
			}}
		default:
			panic("board: unsupported graphic kind")
		}
	})
	return g.shape
}

func (g *Graphic) BBox() geometry.Box {
	return g.EffectiveShape().BBox()
}
