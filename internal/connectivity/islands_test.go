package connectivity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-copper/internal/board"
	"pcb-copper/pkg/geometry"
)

func mm(v float64) geometry.Coord { return geometry.FromMM(v) }

func rect(x1, y1, x2, y2 float64) []geometry.Point {
	return []geometry.Point{
		{X: mm(x1), Y: mm(y1)},
		{X: mm(x2), Y: mm(y1)},
		{X: mm(x2), Y: mm(y2)},
		{X: mm(x1), Y: mm(y2)},
	}
}

// filledZone builds a zone whose fill on the front layer consists of the
// given rectangles, each its own outline.
func filledZone(net int, rects ...[]geometry.Point) *board.Zone {
	outline := geometry.NewPolySet()
	fill := geometry.NewPolySet()
	for _, r := range rects {
		outline.AddOutline(r)
		fill.AddOutline(r)
	}
	z := &board.Zone{
		Net:       net,
		LayerSpan: board.NewLayerSet(board.FrontCopper),
		Outline:   outline,
	}
	z.SetFill(board.FrontCopper, fill.Clone(), fill)
	return z
}

func TestIslandWithPadIsConnected(t *testing.T) {
	z := filledZone(1, rect(0, 0, 10, 10))
	b := &board.Board{
		Zones: []*board.Zone{z},
		Pads: []*board.Pad{{
			Net:       1,
			LayerSpan: board.NewLayerSet(board.FrontCopper),
			Pos:       geometry.Point{X: mm(5), Y: mm(5)},
		}},
	}

	require.Empty(t, FindIsolatedIslands(b, b.Zones))
}

func TestIslandWithoutAnchorsIsIsolated(t *testing.T) {
	z := filledZone(1, rect(0, 0, 10, 10), rect(20, 0, 30, 10))
	b := &board.Board{
		Zones: []*board.Zone{z},
		Tracks: []*board.TrackSegment{{
			Net:   1,
			Layer: board.FrontCopper,
			Start: geometry.Point{X: mm(2), Y: mm(5)},
			End:   geometry.Point{X: mm(8), Y: mm(5)},
			Width: mm(0.2),
		}},
	}

	islands := FindIsolatedIslands(b, b.Zones)
	require.Len(t, islands, 1)
	require.Equal(t, z, islands[0].Zone)
	require.Equal(t, board.FrontCopper, islands[0].Layer)
	require.Equal(t, 1, islands[0].Outline)
}

func TestAnchorsOnOtherLayerDoNotCount(t *testing.T) {
	z := filledZone(1, rect(0, 0, 10, 10))
	b := &board.Board{
		Zones: []*board.Zone{z},
		Tracks: []*board.TrackSegment{{
			Net:   1,
			Layer: board.BackCopper,
			Start: geometry.Point{X: mm(2), Y: mm(5)},
			End:   geometry.Point{X: mm(8), Y: mm(5)},
			Width: mm(0.2),
		}},
	}

	islands := FindIsolatedIslands(b, b.Zones)
	require.Len(t, islands, 1)
}

func TestOtherNetAnchorsDoNotCount(t *testing.T) {
	z := filledZone(1, rect(0, 0, 10, 10))
	b := &board.Board{
		Zones: []*board.Zone{z},
		Vias: []*board.Via{{
			Net:       2,
			Pos:       geometry.Point{X: mm(5), Y: mm(5)},
			Diameter:  mm(0.6),
			Drill:     mm(0.3),
			LayerSpan: board.NewLayerSet(board.FrontCopper, board.BackCopper),
		}},
	}

	islands := FindIsolatedIslands(b, b.Zones)
	require.Len(t, islands, 1)
}

func TestViaAnchorsConnect(t *testing.T) {
	z := filledZone(1, rect(0, 0, 10, 10))
	b := &board.Board{
		Zones: []*board.Zone{z},
		Vias: []*board.Via{{
			Net:       1,
			Pos:       geometry.Point{X: mm(5), Y: mm(5)},
			Diameter:  mm(0.6),
			Drill:     mm(0.3),
			LayerSpan: board.NewLayerSet(board.FrontCopper, board.BackCopper),
		}},
	}

	require.Empty(t, FindIsolatedIslands(b, b.Zones))
}

func TestNoNetZoneHasNoAnchors(t *testing.T) {
	z := filledZone(0, rect(0, 0, 10, 10))
	b := &board.Board{Zones: []*board.Zone{z}}

	islands := FindIsolatedIslands(b, b.Zones)
	require.Len(t, islands, 1)
}

func TestTryLockConflicts(t *testing.T) {
	var c Connectivity
	require.True(t, c.TryLock())
	require.False(t, c.TryLock())
	c.Unlock()
	require.True(t, c.TryLock())
	c.Unlock()
}
