package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func square(x1, y1, x2, y2 float64) []Point {
	return []Point{
		{X: mm(x1), Y: mm(y1)},
		{X: mm(x2), Y: mm(y1)},
		{X: mm(x2), Y: mm(y2)},
		{X: mm(x1), Y: mm(y2)},
	}
}

func setOf(outlines ...[]Point) *PolySet {
	ps := NewPolySet()
	for _, o := range outlines {
		ps.AddOutline(o)
	}
	return ps
}

func TestUnionMergesOverlap(t *testing.T) {
	a := setOf(square(0, 0, 10, 10))
	a.Union(setOf(square(5, 5, 15, 15)))

	require.Equal(t, 1, a.OutlineCount())
	require.InDelta(t, 175e12, a.Area(), 1e6) // 175 mm²
}

func TestSubtractCutsHole(t *testing.T) {
	a := setOf(square(0, 0, 10, 10))
	a.Subtract(setOf(square(4, 4, 6, 6)))

	require.InDelta(t, 96e12, a.Area(), 1e6)
	a.BuildBBoxCaches()
	require.False(t, a.Contains(Point{X: mm(5), Y: mm(5)}))
	require.True(t, a.Contains(Point{X: mm(1), Y: mm(1)}))
}

func TestIntersect(t *testing.T) {
	a := setOf(square(0, 0, 10, 10))
	a.Intersect(setOf(square(5, 0, 15, 10)))

	require.InDelta(t, 50e12, a.Area(), 1e6)
	bb := a.BBox()
	require.Equal(t, mm(5), bb.MinX)
	require.Equal(t, mm(10), bb.MaxX)
}

func TestDeflateInflateErasesSlivers(t *testing.T) {
	// A square with a thin tongue; the round trip keeps the square and
	// drops the tongue.
	ps := setOf(square(0, 0, 5, 5), square(5, 2.45, 8, 2.55))
	ps.Simplify()
	ps.Deflate(mm(0.2), CornerChamfer)
	ps.Inflate(mm(0.2), CornerChamfer)

	ps.BuildBBoxCaches()
	require.True(t, ps.Contains(Point{X: mm(2.5), Y: mm(2.5)}))
	require.False(t, ps.Contains(Point{X: mm(7), Y: mm(2.5)}))
}

func TestContainsOnBoundary(t *testing.T) {
	ps := setOf(square(0, 0, 10, 10))
	ps.BuildBBoxCaches()

	require.True(t, ps.Contains(Point{X: mm(5), Y: 0}), "boundary counts as inside")
	require.True(t, ps.Contains(Point{X: 0, Y: 0}))
	require.False(t, ps.Contains(Point{X: mm(5), Y: -mm(0.001)}))
}

func TestFractureRemovesHoles(t *testing.T) {
	ps := setOf(square(0, 0, 10, 10))
	ps.Subtract(setOf(square(3, 3, 7, 7)))
	ps.Subtract(setOf(square(1, 1, 2, 2)))

	area := ps.Area()
	ps.Fracture()

	// Every remaining ring is an outline.
	for i := 0; i < ps.OutlineCount(); i++ {
		require.NotEmpty(t, ps.Outline(i))
	}
	var sum float64
	for i := 0; i < ps.OutlineCount(); i++ {
		sum += ps.OutlineArea(i)
	}
	require.InDelta(t, area, sum, area*1e-9, "fracturing preserves area")

	ps.BuildBBoxCaches()
	require.False(t, ps.Contains(Point{X: mm(5), Y: mm(5)}))
	require.False(t, ps.Contains(Point{X: mm(1.5), Y: mm(1.5)}))
	require.True(t, ps.Contains(Point{X: mm(2.5), Y: mm(9)}))
}

func TestHashStable(t *testing.T) {
	a := setOf(square(0, 0, 10, 10), square(20, 0, 30, 10))
	b := setOf(square(0, 0, 10, 10), square(20, 0, 30, 10))
	require.Equal(t, a.Hash(), b.Hash())

	c := setOf(square(0, 0, 10, 10), square(20, 0, 30, 11))
	require.NotEqual(t, a.Hash(), c.Hash())

	require.NotZero(t, a.Hash())
	require.NotEqual(t, NewPolySet().Hash(), a.Hash())
}

func TestCloneIsIndependent(t *testing.T) {
	a := setOf(square(0, 0, 10, 10))
	b := a.Clone()
	b.Subtract(setOf(square(0, 0, 5, 10)))

	require.InDelta(t, 100e12, a.Area(), 1e6)
	require.InDelta(t, 50e12, b.Area(), 1e6)
}

func TestMoveAndRotate(t *testing.T) {
	a := setOf(square(0, 0, 10, 10))
	a.Move(Point{X: mm(5), Y: mm(-5)})
	bb := a.BBox()
	require.Equal(t, mm(5), bb.MinX)
	require.Equal(t, mm(-5), bb.MinY)

	b := setOf(square(-5, -5, 5, 5))
	b.Rotate(3.141592653589793 / 4)
	bb = b.BBox()
	// A rotated square's bbox grows to the diagonal.
	require.InDelta(t, float64(mm(-7.071)), float64(bb.MinX), 1000)
}

func TestSimplifyMergesTouchingOutlines(t *testing.T) {
	ps := setOf(square(0, 0, 5, 5), square(5, 0, 10, 5))
	ps.Simplify()

	require.Equal(t, 1, ps.OutlineCount())
	require.InDelta(t, 50e12, ps.Area(), 1e6)
}

func TestFromBox(t *testing.T) {
	ps := FromBox(NewBox(mm(1), mm(2), mm(3), mm(4)))
	require.Equal(t, 1, ps.OutlineCount())
	require.InDelta(t, 4e12, ps.Area(), 1e6)
}
