package geometry

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	gcl "github.com/ctessum/go.clipper"
)

// CornerStyle selects how inflate/deflate treats corners. Chamfered corners
// are cheap and used for intermediate passes; round corners give the final
// pass a smooth outline at the cost of extra segments.
type CornerStyle int

const (
	CornerChamfer CornerStyle = iota
	CornerRound
)

// PolySet is a set of polygons with holes, backed by integer clipper paths.
// Outlines are counter-clockwise, holes clockwise. The zero value is an
// empty, usable set.
type PolySet struct {
	paths  gcl.Paths
	bboxes []Box // per-path bounding boxes, built on demand
}

// NewPolySet returns an empty polygon set.
func NewPolySet() *PolySet {
	return &PolySet{}
}

// FromBox returns a polygon set holding a single rectangular outline.
func FromBox(b Box) *PolySet {
	ps := NewPolySet()
	ps.AddOutline([]Point{
		{X: b.MinX, Y: b.MinY},
		{X: b.MaxX, Y: b.MinY},
		{X: b.MaxX, Y: b.MaxY},
		{X: b.MinX, Y: b.MaxY},
	})
	return ps
}

func toPath(pts []Point) gcl.Path {
	path := make(gcl.Path, len(pts))
	for i, p := range pts {
		path[i] = &gcl.IntPoint{X: gcl.CInt(p.X), Y: gcl.CInt(p.Y)}
	}
	return path
}

func fromPath(path gcl.Path) []Point {
	pts := make([]Point, len(path))
	for i, ip := range path {
		pts[i] = Point{X: Coord(ip.X), Y: Coord(ip.Y)}
	}
	return pts
}

// AddOutline appends a closed outline. Winding order is normalized so the
// ring counts as solid under non-zero filling.
func (ps *PolySet) AddOutline(pts []Point) {
	if len(pts) < 3 {
		return
	}
	path := toPath(pts)
	if !gcl.Orientation(path) {
		reversePath(path)
	}
	ps.paths = append(ps.paths, path)
	ps.bboxes = nil
}

// AddHole appends a closed hole ring.
func (ps *PolySet) AddHole(pts []Point) {
	if len(pts) < 3 {
		return
	}
	path := toPath(pts)
	if gcl.Orientation(path) {
		reversePath(path)
	}
	ps.paths = append(ps.paths, path)
	ps.bboxes = nil
}

func reversePath(path gcl.Path) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}

// Clone returns a deep copy of the set.
func (ps *PolySet) Clone() *PolySet {
	out := NewPolySet()
	out.paths = make(gcl.Paths, len(ps.paths))
	for i, path := range ps.paths {
		cp := make(gcl.Path, len(path))
		for j, ip := range path {
			cp[j] = &gcl.IntPoint{X: ip.X, Y: ip.Y}
		}
		out.paths[i] = cp
	}
	return out
}

// IsEmpty returns true if the set holds no rings.
func (ps *PolySet) IsEmpty() bool {
	return len(ps.paths) == 0
}

// OutlineCount returns the number of rings in the set. After Fracture every
// ring is a hole-free outline.
func (ps *PolySet) OutlineCount() int {
	return len(ps.paths)
}

// Outline returns the points of ring i.
func (ps *PolySet) Outline(i int) []Point {
	return fromPath(ps.paths[i])
}

// OutlineArea returns the unsigned area of ring i.
func (ps *PolySet) OutlineArea(i int) float64 {
	return math.Abs(gcl.Area(ps.paths[i]))
}

// DeleteOutline removes ring i from the set.
func (ps *PolySet) DeleteOutline(i int) {
	ps.paths = append(ps.paths[:i], ps.paths[i+1:]...)
	ps.bboxes = nil
}

// Area returns the total solid area of the set (holes subtract).
func (ps *PolySet) Area() float64 {
	var sum float64
	for _, path := range ps.paths {
		sum += gcl.Area(path)
	}
	return sum
}

// BBox returns the bounding box of the whole set.
func (ps *PolySet) BBox() Box {
	var b Box
	first := true
	for _, path := range ps.paths {
		for _, ip := range path {
			p := Point{X: Coord(ip.X), Y: Coord(ip.Y)}
			if first {
				b = Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
				first = false
				continue
			}
			b = b.Union(Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y})
		}
	}
	return b
}

// Segments calls fn for every boundary segment of the set, holes included.
// Iteration stops early when fn returns false.
func (ps *PolySet) Segments(fn func(a, b Point) bool) {
	for _, path := range ps.paths {
		for i := range path {
			a := path[i]
			bp := path[(i+1)%len(path)]
			if !fn(Point{X: Coord(a.X), Y: Coord(a.Y)}, Point{X: Coord(bp.X), Y: Coord(bp.Y)}) {
				return
			}
		}
	}
}

// Vertices calls fn for every vertex of the set, holes included.
func (ps *PolySet) Vertices(fn func(p Point) bool) {
	for _, path := range ps.paths {
		for _, ip := range path {
			if !fn(Point{X: Coord(ip.X), Y: Coord(ip.Y)}) {
				return
			}
		}
	}
}

func (ps *PolySet) boolean(op gcl.ClipType, other *PolySet) {
	if len(other.paths) == 0 && op != gcl.CtUnion {
		return
	}
	c := gcl.NewClipper(gcl.IoNone)
	if len(ps.paths) > 0 {
		c.AddPaths(ps.paths, gcl.PtSubject, true)
	}
	if len(other.paths) > 0 {
		c.AddPaths(other.paths, gcl.PtClip, true)
	}
	solution, ok := c.Execute1(op, gcl.PftNonZero, gcl.PftNonZero)
	if !ok {
		return
	}
	ps.paths = solution
	ps.bboxes = nil
}

// Union merges other into the set.
func (ps *PolySet) Union(other *PolySet) {
	ps.boolean(gcl.CtUnion, other)
}

// Subtract removes other from the set.
func (ps *PolySet) Subtract(other *PolySet) {
	ps.boolean(gcl.CtDifference, other)
}

// Intersect keeps only the regions common with other.
func (ps *PolySet) Intersect(other *PolySet) {
	ps.boolean(gcl.CtIntersection, other)
}

// Simplify re-unions the set with itself, removing self-intersections and
// degenerate rings.
func (ps *PolySet) Simplify() {
	if len(ps.paths) == 0 {
		return
	}
	c := gcl.NewClipper(gcl.IoNone)
	c.AddPaths(ps.paths, gcl.PtSubject, true)
	solution, ok := c.Execute1(gcl.CtUnion, gcl.PftNonZero, gcl.PftNonZero)
	if ok {
		ps.paths = solution
		ps.bboxes = nil
	}
}

func joinType(style CornerStyle) gcl.JoinType {
	if style == CornerRound {
		return gcl.JtRound
	}
	return gcl.JtSquare
}

// Inflate grows every ring outward by d (holes shrink accordingly).
func (ps *PolySet) Inflate(d Coord, style CornerStyle) {
	ps.offset(float64(d), style)
}

// Deflate shrinks every ring inward by d. Regions narrower than 2*d vanish,
// which is the basis of the minimum-width filter.
func (ps *PolySet) Deflate(d Coord, style CornerStyle) {
	ps.offset(-float64(d), style)
}

func (ps *PolySet) offset(delta float64, style CornerStyle) {
	if len(ps.paths) == 0 || delta == 0 {
		return
	}
	co := gcl.NewClipperOffset()
	co.ArcTolerance = float64(DefaultMaxError)
	co.AddPaths(ps.paths, joinType(style), gcl.EtClosedPolygon)
	ps.paths = co.Execute(delta)
	ps.bboxes = nil
}

// addStroke appends the outline of an open polyline swept by half-width
// delta (round caps and joins).
func (ps *PolySet) addStroke(pts []Point, delta Coord) {
	if len(pts) == 0 || delta <= 0 {
		return
	}
	co := gcl.NewClipperOffset()
	co.ArcTolerance = float64(DefaultMaxError)
	co.AddPath(toPath(pts), gcl.JtRound, gcl.EtOpenRound)
	ps.paths = append(ps.paths, co.Execute(float64(delta))...)
	ps.bboxes = nil
}

// addInflatedOutline appends a closed outline grown outward by delta with
// round corners.
func (ps *PolySet) addInflatedOutline(pts []Point, delta Coord) {
	if len(pts) < 3 {
		return
	}
	path := toPath(pts)
	if !gcl.Orientation(path) {
		reversePath(path)
	}
	if delta <= 0 {
		ps.paths = append(ps.paths, path)
		ps.bboxes = nil
		return
	}
	co := gcl.NewClipperOffset()
	co.ArcTolerance = float64(DefaultMaxError)
	co.AddPath(path, gcl.JtRound, gcl.EtClosedPolygon)
	ps.paths = append(ps.paths, co.Execute(float64(delta))...)
	ps.bboxes = nil
}

// BuildBBoxCaches precomputes per-ring bounding boxes so repeated Contains
// queries can reject rings cheaply.
func (ps *PolySet) BuildBBoxCaches() {
	ps.bboxes = make([]Box, len(ps.paths))
	for i, path := range ps.paths {
		ps.bboxes[i] = BoxFromPoints(fromPath(path))
	}
}

// Contains reports whether p lies inside the solid region of the set.
// Points on a boundary count as inside.
func (ps *PolySet) Contains(p Point) bool {
	ip := &gcl.IntPoint{X: gcl.CInt(p.X), Y: gcl.CInt(p.Y)}
	winding := 0
	for i, path := range ps.paths {
		if ps.bboxes != nil && !ps.bboxes[i].ContainsPoint(p) {
			continue
		}
		switch gcl.PointInPolygon(ip, path) {
		case -1:
			return true
		case 1:
			if gcl.Orientation(path) {
				winding++
			} else {
				winding--
			}
		}
	}
	return winding > 0
}

// Move translates the whole set by delta.
func (ps *PolySet) Move(delta Point) {
	for _, path := range ps.paths {
		for _, ip := range path {
			ip.X += gcl.CInt(delta.X)
			ip.Y += gcl.CInt(delta.Y)
		}
	}
	ps.bboxes = nil
}

// Rotate rotates the whole set by angle radians around the origin.
func (ps *PolySet) Rotate(angle float64) {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	for _, path := range ps.paths {
		for _, ip := range path {
			x := float64(ip.X)
			y := float64(ip.Y)
			ip.X = gcl.CInt(math.Round(x*cos - y*sin))
			ip.Y = gcl.CInt(math.Round(x*sin + y*cos))
		}
	}
	ps.bboxes = nil
}

// Fracture converts the set into simple hole-free outlines by splicing each
// hole into its enclosing outline with a doubled bridge segment. The result
// is suitable for storage, rendering and export.
func (ps *PolySet) Fracture() {
	var outlines, holes []gcl.Path
	for _, path := range ps.paths {
		if gcl.Orientation(path) {
			outlines = append(outlines, path)
		} else {
			holes = append(holes, path)
		}
	}
	if len(holes) == 0 {
		ps.paths = outlines
		ps.bboxes = nil
		return
	}

	// Assign each hole to the smallest outline containing its first vertex.
	holesByOutline := make([][]gcl.Path, len(outlines))
	for _, hole := range holes {
		best := -1
		bestArea := math.Inf(1)
		for i, out := range outlines {
			if gcl.PointInPolygon(hole[0], out) != 0 {
				if a := math.Abs(gcl.Area(out)); a < bestArea {
					best = i
					bestArea = a
				}
			}
		}
		if best >= 0 {
			holesByOutline[best] = append(holesByOutline[best], hole)
		}
	}

	result := make(gcl.Paths, 0, len(outlines))
	for i, out := range outlines {
		for _, hole := range holesByOutline[i] {
			out = spliceHole(out, hole)
		}
		result = append(result, out)
	}
	ps.paths = result
	ps.bboxes = nil
}

// spliceHole joins a hole ring into an outline through the closest vertex
// pair, traversing the bridge segment in both directions.
func spliceHole(outline, hole gcl.Path) gcl.Path {
	bestO, bestH := 0, 0
	best := math.Inf(1)
	for oi, op := range outline {
		for hi, hp := range hole {
			dx := float64(op.X - hp.X)
			dy := float64(op.Y - hp.Y)
			if d := dx*dx + dy*dy; d < best {
				best = d
				bestO, bestH = oi, hi
			}
		}
	}

	out := make(gcl.Path, 0, len(outline)+len(hole)+2)
	out = append(out, outline[:bestO+1]...)
	for k := 0; k <= len(hole); k++ {
		out = append(out, hole[(bestH+k)%len(hole)])
	}
	out = append(out, outline[bestO])
	out = append(out, outline[bestO+1:]...)
	return out
}

// Hash returns a content hash of the set, used to detect stale zone fills.
func (ps *PolySet) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, path := range ps.paths {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(path)))
		h.Write(buf[:])
		for _, ip := range path {
			binary.LittleEndian.PutUint64(buf[:], uint64(ip.X))
			h.Write(buf[:])
			binary.LittleEndian.PutUint64(buf[:], uint64(ip.Y))
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}
