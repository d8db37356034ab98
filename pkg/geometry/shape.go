package geometry

import (
	"math"
)

// Shape is the effective geometric form of a copper item, used for all
// collision and knockout computations. Every shape reduces internally to a
// spine (a point, an open segment chain, or a closed polygon) swept by a
// radius, which makes clearance-aware distance tests uniform across kinds.
type Shape interface {
	// BBox returns the axis-aligned bounding box of the shape.
	BBox() Box

	// Collide reports whether the shape comes within clearance of other.
	// When it does, the actual separation between the copper edges is
	// returned (negative if the shapes overlap).
	Collide(other Shape, clearance Coord) (bool, Coord)

	// Polygonize appends the shape, expanded outward by gap, to ps.
	Polygonize(ps *PolySet, gap Coord)

	spine() (pts []Point, radius Coord, closed bool)
}

// Circle is a filled circle (round pads, via barrels, drilled holes).
type Circle struct {
	Center Point
	Radius Coord
}

func (c Circle) BBox() Box {
	return Box{
		MinX: c.Center.X - c.Radius, MinY: c.Center.Y - c.Radius,
		MaxX: c.Center.X + c.Radius, MaxY: c.Center.Y + c.Radius,
	}
}

func (c Circle) spine() ([]Point, Coord, bool) {
	return []Point{c.Center}, c.Radius, false
}

func (c Circle) Collide(other Shape, clearance Coord) (bool, Coord) {
	return collide(c, other, clearance)
}

func (c Circle) Polygonize(ps *PolySet, gap Coord) {
	ps.AddOutline(circlePoints(c.Center, c.Radius+gap))
}

// Capsule is a segment swept by a width: track segments, oval pads and the
// oblong drill slots of through-hole pads.
type Capsule struct {
	A, B  Point
	Width Coord
}

func (c Capsule) BBox() Box {
	half := c.Width / 2
	return BoxFromPoints([]Point{c.A, c.B}).Inflate(half)
}

func (c Capsule) spine() ([]Point, Coord, bool) {
	return []Point{c.A, c.B}, c.Width / 2, false
}

func (c Capsule) Collide(other Shape, clearance Coord) (bool, Coord) {
	return collide(c, other, clearance)
}

func (c Capsule) Polygonize(ps *PolySet, gap Coord) {
	ps.addStroke([]Point{c.A, c.B}, c.Width/2+gap)
}

// ConvexShape is a convex polygon with an optional corner radius. It covers
// rectangular and rounded-rectangle pads as well as text bounding boxes.
type ConvexShape struct {
	Pts    []Point // convex, in order, closed implicitly
	Radius Coord   // corner rounding swept outward from Pts
}

// NewRectShape builds a (possibly rotated) rectangle shape.
func NewRectShape(center Point, w, h Coord, angle float64) ConvexShape {
	halfW, halfH := w/2, h/2
	corners := []Point{
		{X: -halfW, Y: -halfH},
		{X: +halfW, Y: -halfH},
		{X: +halfW, Y: +halfH},
		{X: -halfW, Y: +halfH},
	}
	for i, c := range corners {
		corners[i] = c.Rotate(angle).Add(center)
	}
	return ConvexShape{Pts: corners}
}

// NewRoundRectShape builds a rotated rectangle with rounded corners of the
// given radius. The spine rectangle is shrunk by the radius so the swept
// outline matches the nominal size.
func NewRoundRectShape(center Point, w, h, radius Coord, angle float64) ConvexShape {
	maxR := w / 2
	if h/2 < maxR {
		maxR = h / 2
	}
	if radius > maxR {
		radius = maxR
	}
	s := NewRectShape(center, w-2*radius, h-2*radius, angle)
	s.Radius = radius
	return s
}

func (s ConvexShape) BBox() Box {
	return BoxFromPoints(s.Pts).Inflate(s.Radius)
}

func (s ConvexShape) spine() ([]Point, Coord, bool) {
	return s.Pts, s.Radius, true
}

func (s ConvexShape) Collide(other Shape, clearance Coord) (bool, Coord) {
	return collide(s, other, clearance)
}

func (s ConvexShape) Polygonize(ps *PolySet, gap Coord) {
	if s.Radius+gap == 0 {
		ps.AddOutline(s.Pts)
		return
	}
	ps.addInflatedOutline(s.Pts, s.Radius+gap)
}

// collide computes the clearance-aware collision between two shapes via
// their spines. The test is symmetric by construction.
func collide(a, b Shape, clearance Coord) (bool, Coord) {
	ptsA, rA, closedA := a.spine()
	ptsB, rB, closedB := b.spine()

	d := spineDistance(ptsA, closedA, ptsB, closedB)
	actual := d - float64(rA) - float64(rB)

	if actual < float64(clearance) {
		return true, Coord(math.Round(actual))
	}
	return false, 0
}

// spineDistance returns the minimum distance between two spines, zero when
// one contains or touches the other.
func spineDistance(a []Point, closedA bool, b []Point, closedB bool) float64 {
	if closedA && len(b) > 0 && pointInConvex(b[0], a) {
		return 0
	}
	if closedB && len(a) > 0 && pointInConvex(a[0], b) {
		return 0
	}

	best := math.Inf(1)
	for _, sa := range spineSegments(a, closedA) {
		for _, sb := range spineSegments(b, closedB) {
			d, _ := SegmentDistance(sa[0], sa[1], sb[0], sb[1])
			if d < best {
				best = d
			}
		}
	}
	return best
}

// spineSegments expands a spine into segments; a single point becomes a
// degenerate segment.
func spineSegments(pts []Point, closed bool) [][2]Point {
	switch len(pts) {
	case 0:
		return nil
	case 1:
		return [][2]Point{{pts[0], pts[0]}}
	}
	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	segs := make([][2]Point, 0, n)
	for i := 0; i < n; i++ {
		segs = append(segs, [2]Point{pts[i], pts[(i+1)%len(pts)]})
	}
	return segs
}

// pointInConvex tests containment of p in a convex polygon (inclusive).
func pointInConvex(p Point, poly []Point) bool {
	if len(poly) < 3 {
		return false
	}
	sign := 0
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		cross := float64(b.X-a.X)*float64(p.Y-a.Y) - float64(b.Y-a.Y)*float64(p.X-a.X)
		if cross == 0 {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return true
}

// circlePoints generates a closed polygon approximating a circle. The
// segment count follows the default arc error so small holes stay light.
func circlePoints(center Point, radius Coord) []Point {
	n := ArcSegments(radius, DefaultMaxError)
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{
			X: center.X + Coord(math.Round(float64(radius)*math.Cos(angle))),
			Y: center.Y + Coord(math.Round(float64(radius)*math.Sin(angle))),
		}
	}
	return pts
}
