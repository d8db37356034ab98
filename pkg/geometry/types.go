package geometry

import "math"

// Point is a 2D point in board units.
type Point struct {
	X Coord `json:"x"`
	Y Coord `json:"y"`
}

// NewPoint creates a new Point.
func NewPoint(x, y Coord) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Distance returns the Euclidean distance to another point in board units.
func (p Point) Distance(other Point) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Rotate returns the point rotated by angle radians (counter-clockwise)
// around the origin.
func (p Point) Rotate(angle float64) Point {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	x := float64(p.X)
	y := float64(p.Y)
	return Point{
		X: Coord(math.Round(x*cos - y*sin)),
		Y: Coord(math.Round(x*sin + y*cos)),
	}
}

// RotateAbout returns the point rotated by angle radians around center.
func (p Point) RotateAbout(angle float64, center Point) Point {
	return p.Sub(center).Rotate(angle).Add(center)
}

// Box is an axis-aligned bounding box in board units.
type Box struct {
	MinX, MinY Coord
	MaxX, MaxY Coord
}

// NewBox creates a box from two corner coordinates, normalizing the order.
func NewBox(x1, y1, x2, y2 Coord) Box {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Box{MinX: x1, MinY: y1, MaxX: x2, MaxY: y2}
}

// BoxFromPoints computes the bounding box of a set of points.
func BoxFromPoints(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b
}

// Inflate returns the box grown by d on all four sides.
func (b Box) Inflate(d Coord) Box {
	return Box{MinX: b.MinX - d, MinY: b.MinY - d, MaxX: b.MaxX + d, MaxY: b.MaxY + d}
}

// Intersects returns true if this box overlaps another.
func (b Box) Intersects(other Box) bool {
	return b.MinX <= other.MaxX && b.MaxX >= other.MinX &&
		b.MinY <= other.MaxY && b.MaxY >= other.MinY
}

// ContainsPoint returns true if the point is inside or on the box.
func (b Box) ContainsPoint(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(other Box) Box {
	out := b
	if other.MinX < out.MinX {
		out.MinX = other.MinX
	}
	if other.MinY < out.MinY {
		out.MinY = other.MinY
	}
	if other.MaxX > out.MaxX {
		out.MaxX = other.MaxX
	}
	if other.MaxY > out.MaxY {
		out.MaxY = other.MaxY
	}
	return out
}

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Width returns the horizontal extent of the box.
func (b Box) Width() Coord { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Box) Height() Coord { return b.MaxY - b.MinY }

// ClosestOnSegment returns the point on segment ab closest to p.
func ClosestOnSegment(p, a, b Point) Point {
	abx := float64(b.X - a.X)
	aby := float64(b.Y - a.Y)
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return a
	}
	t := (float64(p.X-a.X)*abx + float64(p.Y-a.Y)*aby) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Point{
		X: a.X + Coord(math.Round(t*abx)),
		Y: a.Y + Coord(math.Round(t*aby)),
	}
}

// PointSegmentDistance returns the distance from p to segment ab.
func PointSegmentDistance(p, a, b Point) float64 {
	return p.Distance(ClosestOnSegment(p, a, b))
}

// SegmentsIntersect reports whether segments a1-a2 and b1-b2 cross, and the
// crossing point when they do. Touching at a shared endpoint counts as a
// crossing, matching the behavior expected for track centerlines.
func SegmentsIntersect(a1, a2, b1, b2 Point) (Point, bool) {
	d1x := float64(a2.X - a1.X)
	d1y := float64(a2.Y - a1.Y)
	d2x := float64(b2.X - b1.X)
	d2y := float64(b2.Y - b1.Y)

	denom := d1x*d2y - d1y*d2x
	if denom == 0 {
		return Point{}, false // parallel or collinear
	}

	ex := float64(b1.X - a1.X)
	ey := float64(b1.Y - a1.Y)
	t := (ex*d2y - ey*d2x) / denom
	u := (ex*d1y - ey*d1x) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return Point{
		X: a1.X + Coord(math.Round(t*d1x)),
		Y: a1.Y + Coord(math.Round(t*d1y)),
	}, true
}

// SegmentDistance returns the minimum distance between segments a1-a2 and
// b1-b2 along with a representative point at the location of closest
// approach (the midpoint between the closest pair of points).
func SegmentDistance(a1, a2, b1, b2 Point) (float64, Point) {
	if pt, ok := SegmentsIntersect(a1, a2, b1, b2); ok {
		return 0, pt
	}

	best := math.Inf(1)
	var from, to Point
	check := func(p, qa, qb Point, swapped bool) {
		c := ClosestOnSegment(p, qa, qb)
		if d := p.Distance(c); d < best {
			best = d
			if swapped {
				from, to = c, p
			} else {
				from, to = p, c
			}
		}
	}
	check(a1, b1, b2, false)
	check(a2, b1, b2, false)
	check(b1, a1, a2, true)
	check(b2, a1, a2, true)

	mid := Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
	return best, mid
}
