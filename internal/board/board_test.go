package board

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-copper/pkg/geometry"
)

func mm(v float64) geometry.Coord { return geometry.FromMM(v) }

func TestLayerSet(t *testing.T) {
	s := NewLayerSet(FrontCopper, BackCopper)
	require.True(t, s.Contains(FrontCopper))
	require.True(t, s.Contains(BackCopper))
	require.False(t, s.Contains(EdgeCuts))

	require.Equal(t, []LayerID{FrontCopper, BackCopper}, s.Seq())
	require.True(t, s.Intersects(NewLayerSet(BackCopper)))
	require.False(t, NewLayerSet(FrontCopper).Intersects(NewLayerSet(BackCopper)))
}

func TestTrackEffectiveShape(t *testing.T) {
	tr := &TrackSegment{
		Net: 1, Layer: FrontCopper,
		Start: geometry.Point{X: 0, Y: 0},
		End:   geometry.Point{X: mm(10), Y: 0},
		Width: mm(0.25),
	}

	shape := tr.EffectiveShape()
	capsule, ok := shape.(geometry.Capsule)
	require.True(t, ok)
	require.Equal(t, mm(0.25), capsule.Width)
	require.Equal(t, shape, tr.EffectiveShape(), "shape is computed once")
}

func TestPadShapes(t *testing.T) {
	circle := &Pad{Pos: geometry.Point{}, Size: geometry.Point{X: mm(2), Y: mm(2)}, Shape: PadCircle}
	_, ok := circle.EffectiveShape().(geometry.Circle)
	require.True(t, ok)

	oval := &Pad{Pos: geometry.Point{}, Size: geometry.Point{X: mm(3), Y: mm(1)}, Shape: PadOval}
	capShape, ok := oval.EffectiveShape().(geometry.Capsule)
	require.True(t, ok)
	require.Equal(t, mm(1), capShape.Width)

	rect := &Pad{Pos: geometry.Point{}, Size: geometry.Point{X: mm(2), Y: mm(1)}, Shape: PadRect}
	bb := rect.EffectiveShape().BBox()
	require.Equal(t, mm(-1), bb.MinX)
	require.Equal(t, mm(0.5), bb.MaxY)
}

func TestPadBoundingRadius(t *testing.T) {
	p := &Pad{Size: geometry.Point{X: mm(3), Y: mm(4)}, Shape: PadRect}
	// Half diagonal of 3x4 is 2.5mm, plus one unit of slack.
	require.Equal(t, mm(2.5)+1, p.BoundingRadius())
}

func TestRotatedPadBBox(t *testing.T) {
	p := &Pad{
		Pos:         geometry.Point{},
		Size:        geometry.Point{X: mm(4), Y: mm(1)},
		Shape:       PadRect,
		Orientation: math.Pi / 2,
	}
	bb := p.BBox()
	require.InDelta(t, float64(mm(-0.5)), float64(bb.MinX), 10)
	require.InDelta(t, float64(mm(2)), float64(bb.MaxY), 10)
}

func TestHoleStandIn(t *testing.T) {
	p := &Pad{
		Pos:   geometry.Point{X: mm(1), Y: mm(1)},
		Size:  geometry.Point{X: mm(2), Y: mm(2)},
		Shape: PadRect,
		Drill: geometry.Point{X: mm(0.8), Y: mm(0.8)},
	}
	require.True(t, p.HasDrill())

	h := p.HoleStandIn()
	require.Equal(t, PadCircle, h.Shape)
	require.Equal(t, mm(0.8), h.Size.X)
	require.Equal(t, p.Pos, h.Pos)

	slot := &Pad{
		Pos:         geometry.Point{},
		Size:        geometry.Point{X: mm(3), Y: mm(2)},
		Shape:       PadOval,
		Drill:       geometry.Point{X: mm(1.6), Y: mm(0.8)},
		DrillOblong: true,
	}
	hs := slot.HoleStandIn()
	require.Equal(t, PadOval, hs.Shape)
}

func TestViaPadOnLayer(t *testing.T) {
	v := &Via{
		Pos: geometry.Point{}, Diameter: mm(0.8), Drill: mm(0.4),
		LayerSpan: NewLayerSet(FrontCopper, BackCopper),
	}
	require.True(t, v.PadOnLayer(FrontCopper), "no annular restriction means pads everywhere")

	v.PadLayers = NewLayerSet(FrontCopper)
	require.True(t, v.PadOnLayer(FrontCopper))
	require.False(t, v.PadOnLayer(BackCopper))
}

func TestGraphicOnEdgeCutsMatchesAnyLayer(t *testing.T) {
	g := &Graphic{
		What: GraphicLine, Layer: EdgeCuts,
		Start: geometry.Point{}, End: geometry.Point{X: mm(5)}, Width: mm(0.1),
	}
	require.True(t, g.IsOnLayer(FrontCopper))
	require.True(t, g.IsOnLayer(BackCopper))
}

func TestSortedPads(t *testing.T) {
	b := &Board{Pads: []*Pad{
		{Pos: geometry.Point{X: mm(5), Y: mm(1)}},
		{Pos: geometry.Point{X: mm(1), Y: mm(9)}},
		{Pos: geometry.Point{X: mm(1), Y: mm(2)}},
	}}

	sorted := b.SortedPads()
	require.Equal(t, mm(1), sorted[0].Pos.X)
	require.Equal(t, mm(2), sorted[0].Pos.Y)
	require.Equal(t, mm(9), sorted[1].Pos.Y)
	require.Equal(t, mm(5), sorted[2].Pos.X)

	// The board's own order is untouched.
	require.Equal(t, mm(5), b.Pads[0].Pos.X)
}

func TestIndexSearch(t *testing.T) {
	b := &Board{
		Pads: []*Pad{
			{Pos: geometry.Point{X: mm(1), Y: mm(1)}, Size: geometry.Point{X: mm(1), Y: mm(1)}, Shape: PadRect},
			{Pos: geometry.Point{X: mm(50), Y: mm(50)}, Size: geometry.Point{X: mm(1), Y: mm(1)}, Shape: PadRect},
		},
		Tracks: []*TrackSegment{
			{Layer: FrontCopper, Start: geometry.Point{}, End: geometry.Point{X: mm(2), Y: 0}, Width: mm(0.2)},
		},
	}

	ix := b.Index()
	near := ix.Search(geometry.NewBox(0, 0, mm(3), mm(3)))
	require.Len(t, near, 2)

	far := ix.Search(geometry.NewBox(mm(49), mm(49), mm(51), mm(51)))
	require.Len(t, far, 1)
	require.Equal(t, KindPad, far[0].Kind())
}

func TestFormFactorOutline(t *testing.T) {
	ff, ok := FormFactorByName("Eurocard")
	require.True(t, ok)
	require.Equal(t, mm(160), ff.Width)

	outline := ff.Outline()
	outline.BuildBBoxCaches()
	require.True(t, outline.Contains(geometry.Point{X: mm(80), Y: mm(50)}))
	require.False(t, outline.Contains(geometry.Point{X: mm(161), Y: mm(50)}))

	_, ok = FormFactorByName("vme")
	require.False(t, ok)
}

func TestNetNames(t *testing.T) {
	b := &Board{}
	b.SetNetName(1, "GND")
	require.Equal(t, "GND", b.NetName(1))
	require.Equal(t, "net-7", b.NetName(7))
}
