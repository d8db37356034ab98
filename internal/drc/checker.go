package drc

import (
	"log"
	"math"

	"pcb-copper/internal/board"
	"pcb-copper/pkg/geometry"
)

// drcEpsilon is subtracted from required clearances before the exact test
// to absorb arc-approximation and rounding error (2 µm).
const drcEpsilon = geometry.Coord(2000)

// Checker enumerates clearance violations over a board's copper items and
// reports them through a Sink. It never mutates geometry.
type Checker struct {
	Board    *board.Board
	Resolver Resolver
	Sink     Sink

	largest geometry.Coord
	index   *board.Index
	stats   *runStats
}

// NewChecker creates a checker over a board snapshot.
func NewChecker(b *board.Board, r Resolver, s Sink) *Checker {
	return &Checker{Board: b, Resolver: r, Sink: s, stats: newRunStats()}
}

// CheckCopperClearances runs all pair-category passes. A missing clearance
// constraint set means there is nothing to check; the run is a no-op, not
// an error.
func (c *Checker) CheckCopperClearances() {
	worst, ok := c.Resolver.WorstCase()
	if !ok {
		log.Printf("drc: no clearance constraints found, nothing to check")
		return
	}
	c.largest = worst
	c.stats = newRunStats()
	c.index = c.Board.Index()

	c.testPadClearances()
	c.testTrackClearances()
	c.testCopperTextAndGraphics()
	c.testZones()
}

// Statistics returns diagnostics for the last run.
func (c *Checker) Statistics() Stats {
	return c.stats.snapshot()
}

func (c *Checker) report(v *Violation) {
	if c.Sink.IsLimitExceeded(v.Kind) {
		return
	}
	c.Sink.Report(v)
}

// testPadClearances sweeps the pads sorted by X then Y. Because the list is
// ordered, each pad only needs testing against followers up to an X limit
// derived from the largest pad radius plus the worst-case clearance.
func (c *Checker) testPadClearances() {
	pads := c.Board.SortedPads()
	if len(pads) == 0 {
		return
	}

	var maxRadius geometry.Coord
	for _, p := range pads {
		if r := p.BoundingRadius(); r > maxRadius {
			maxRadius = r
		}
	}
	maxRadius += c.largest

	c.testShortingPads(pads)

	for i, pad := range pads {
		xLimit := pad.Pos.X + pad.BoundingRadius() + maxRadius
		c.doPadToPads(pad, pads[i+1:], xLimit)
	}
}

// testShortingPads finds pads that share a footprint and designator but
// carry different nets. Such pads are the same physical pin, so this is a
// short regardless of geometric distance.
func (c *Checker) testShortingPads(pads []*board.Pad) {
	type pin struct{ footprint, number string }
	groups := make(map[pin][]*board.Pad)
	for _, p := range pads {
		// Free pads belong to no footprint and cannot share a pin.
		if p.Footprint == "" {
			continue
		}
		k := pin{p.Footprint, p.Number}
		groups[k] = append(groups[k], p)
	}
	for _, group := range groups {
		for i, a := range group {
			for _, b := range group[i+1:] {
				if c.Sink.IsLimitExceeded(KindShortingItems) {
					return
				}
				if a.Net != 0 && b.Net != 0 && a.Net != b.Net {
					c.report(&Violation{
						Kind:  KindShortingItems,
						A:     a,
						B:     b,
						Where: a.Pos,
					})
				}
			}
		}
	}
}

func (c *Checker) doPadToPads(ref *board.Pad, rest []*board.Pad, xLimit geometry.Coord) {
	for _, pad := range rest {
		if c.Sink.IsLimitExceeded(KindClearance) && c.Sink.IsLimitExceeded(KindShortingItems) {
			return
		}

		// The list is sorted by X, so everything past the limit is too
		// far away to matter.
		if pad.Pos.X > xLimit {
			break
		}

		// Same non-zero net: exempt from clearance.
		if pad.Net != 0 && pad.Net == ref.Net {
			continue
		}

		// Same footprint and designator is the same physical pin; the
		// shorting pass already covered it and a clearance report would
		// be noise.
		if pad.Footprint == ref.Footprint && pad.Number == ref.Number {
			continue
		}

		shared := ref.LayerSpan & pad.LayerSpan
		if shared == 0 {
			// No common copper: only drilled holes can still violate.
			c.doPadHoleToPad(ref, pad)
			continue
		}

		for _, layer := range shared.Seq() {
			if c.Sink.IsLimitExceeded(KindClearance) {
				break
			}
			constraint := c.Resolver.Clearance(ref, pad, layer)
			c.stats.account(constraint)

			hit, actual := ref.EffectiveShape().Collide(pad.EffectiveShape(), constraint.Value-drcEpsilon)
			if hit {
				c.report(&Violation{
					Kind:       KindClearance,
					A:          ref,
					B:          pad,
					Constraint: constraint.Name,
					Required:   constraint.Value,
					Actual:     clampDist(actual),
					Where:      ref.Pos,
				})
				break
			}
		}
	}
}

// doPadHoleToPad tests the drilled hole of either pad against the copper
// of the other when the two pads share no copper layer.
func (c *Checker) doPadHoleToPad(a, b *board.Pad) {
	pairs := [][2]*board.Pad{{a, b}, {b, a}}
	for _, pair := range pairs {
		drilled, other := pair[0], pair[1]
		if !drilled.HasDrill() {
			continue
		}
		constraint := c.Resolver.HoleClearance(drilled, other)
		if constraint.Value <= 0 {
			continue
		}
		c.stats.account(constraint)

		hole := drilled.HoleStandIn().EffectiveShape()
		if hit, actual := hole.Collide(other.EffectiveShape(), constraint.Value-drcEpsilon); hit {
			c.report(&Violation{
				Kind:       KindClearance,
				A:          drilled,
				B:          other,
				Constraint: constraint.Name,
				Required:   constraint.Value,
				Actual:     clampDist(actual),
				Where:      drilled.Pos,
			})
			return
		}
	}
}

// testTrackClearances tests every track and via against pads and against
// the remaining track items, per layer.
func (c *Checker) testTrackClearances() {
	items := c.Board.TrackItems()
	for i, ref := range items {
		for _, layer := range ref.Layers().Seq() {
			c.doTrackDrc(ref, layer, items[i+1:])
		}
	}
}

// trackShapeOn returns the collision shape of a track item on a layer: the
// drilled hole for vias with no annular pad there, the effective shape
// otherwise. Items other than tracks and vias are a programming error.
func trackShapeOn(it board.Item, layer board.LayerID) geometry.Shape {
	switch t := it.(type) {
	case *board.TrackSegment:
		return t.EffectiveShape()
	case *board.Via:
		if !t.PadOnLayer(layer) {
			return t.HoleShape()
		}
		return t.EffectiveShape()
	default:
		panic("drc: item kind not supported in track pass: " + it.Kind().String())
	}
}

func (c *Checker) doTrackDrc(ref board.Item, layer board.LayerID, rest []board.Item) {
	refShape := trackShapeOn(ref, layer)
	refBB := ref.BBox()

	// Phase 1: against pads, via the spatial index.
	for _, hit := range c.index.Search(refBB.Inflate(c.largest)) {
		if c.Sink.IsLimitExceeded(KindClearance) {
			break
		}
		pad, ok := hit.(*board.Pad)
		if !ok || !pad.IsOnLayer(layer) {
			continue
		}
		if pad.Net != 0 && pad.Net == ref.NetCode() {
			continue
		}

		constraint := c.Resolver.Clearance(ref, pad, layer)
		c.stats.account(constraint)

		if coll, actual := pad.EffectiveShape().Collide(refShape, constraint.Value-drcEpsilon); coll {
			c.report(&Violation{
				Kind:       KindClearance,
				A:          ref,
				B:          pad,
				Constraint: constraint.Name,
				Required:   constraint.Value,
				Actual:     clampDist(actual),
				Where:      pad.Pos,
			})
		}
	}

	// Phase 2: against the remaining track items.
	for _, other := range rest {
		if c.Sink.IsLimitExceeded(KindClearance) && c.Sink.IsLimitExceeded(KindTracksCrossing) {
			break
		}
		if ref.NetCode() != 0 && ref.NetCode() == other.NetCode() {
			continue
		}
		if !other.IsOnLayer(layer) {
			continue
		}
		if !other.BBox().Inflate(c.largest).Intersects(refBB) {
			continue
		}

		constraint := c.Resolver.Clearance(ref, other, layer)
		c.stats.account(constraint)

		// Two crossing track centerlines are reported without any
		// distance computation and suppress the plain clearance report
		// for the same pair.
		if refTrack, ok := ref.(*board.TrackSegment); ok {
			if seg, ok := other.(*board.TrackSegment); ok {
				if pt, crossing := geometry.SegmentsIntersect(refTrack.Start, refTrack.End, seg.Start, seg.End); crossing {
					c.report(&Violation{
						Kind:       KindTracksCrossing,
						A:          ref,
						B:          other,
						Constraint: constraint.Name,
						Where:      pt,
					})
					continue
				}
			}
		}

		otherShape := trackShapeOn(other, layer)
		if hit, actual := refShape.Collide(otherShape, constraint.Value-drcEpsilon); hit {
			c.report(&Violation{
				Kind:       KindClearance,
				A:          ref,
				B:          other,
				Constraint: constraint.Name,
				Required:   constraint.Value,
				Actual:     clampDist(actual),
				Where:      trackPairLocation(ref, other),
			})
		}
	}
}

// trackPairLocation picks a representative point for a track-pair
// violation: the closest approach of two centerlines when both items are
// segments, the midpoint of positions otherwise.
func trackPairLocation(a, b board.Item) geometry.Point {
	sa, aOK := a.(*board.TrackSegment)
	sb, bOK := b.(*board.TrackSegment)
	if aOK && bOK {
		_, pt := geometry.SegmentDistance(sa.Start, sa.End, sb.Start, sb.End)
		return pt
	}
	pa, pb := a.Position(), b.Position()
	return geometry.Point{X: (pa.X + pb.X) / 2, Y: (pa.Y + pb.Y) / 2}
}

// testCopperTextAndGraphics tests copper drawings and text against tracks
// and pads. Graphics carry no net, so everything nearby is a candidate.
func (c *Checker) testCopperTextAndGraphics() {
	for _, g := range c.Board.Graphics {
		if g.Layer == board.EdgeCuts {
			continue
		}
		c.testCopperDrawItem(g)
	}
}

func (c *Checker) testCopperDrawItem(g *board.Graphic) {
	shape := g.EffectiveShape()
	bb := g.BBox()

	for _, hit := range c.index.Search(bb.Inflate(c.largest)) {
		if c.Sink.IsLimitExceeded(KindClearance) {
			return
		}
		switch it := hit.(type) {
		case *board.TrackSegment:
			if !it.IsOnLayer(g.Layer) {
				continue
			}
			constraint := c.Resolver.Clearance(g, it, g.Layer)
			c.stats.account(constraint)
			if coll, actual := shape.Collide(it.EffectiveShape(), constraint.Value-drcEpsilon); coll {
				c.report(&Violation{
					Kind:       KindClearance,
					A:          it,
					B:          g,
					Constraint: constraint.Name,
					Required:   constraint.Value,
					Actual:     clampDist(actual),
					Where:      g.Position(),
				})
			}
		case *board.Pad:
			if !it.IsOnLayer(g.Layer) {
				continue
			}
			// Graphics may act as net-ties inside their own footprint.
			if g.Footprint != "" && g.Footprint == it.Footprint {
				continue
			}
			constraint := c.Resolver.Clearance(g, it, g.Layer)
			c.stats.account(constraint)
			if coll, actual := it.EffectiveShape().Collide(shape, constraint.Value-drcEpsilon); coll {
				c.report(&Violation{
					Kind:       KindClearance,
					A:          it,
					B:          g,
					Constraint: constraint.Name,
					Required:   constraint.Value,
					Actual:     clampDist(actual),
					Where:      it.Pos,
				})
			}
		}
	}
}

// testZones tests zone outlines pairwise. Only zones sharing a layer, with
// different nets and equal priority and keepout status are compared.
func (c *Checker) testZones() {
	zones := c.Board.Zones
	smoothed := make([]*geometry.PolySet, len(zones))
	for i, z := range zones {
		smoothed[i] = z.SmoothedOutline()
	}

	for ia, za := range zones {
		for ib := ia + 1; ib < len(zones); ib++ {
			zb := zones[ib]

			if za.LayerSpan&zb.LayerSpan == 0 {
				continue
			}
			if za.Net == zb.Net && za.Net >= 0 {
				continue
			}
			if za.Priority != zb.Priority {
				continue
			}
			if za.Keepout != zb.Keepout {
				continue
			}

			layer := (za.LayerSpan & zb.LayerSpan).Seq()[0]
			constraint := c.Resolver.Clearance(za, zb, layer)
			// Keepout pairs have no meaningful clearance; use one unit so
			// only actual overlap reports.
			if za.Keepout {
				constraint.Value = 1
			}
			c.stats.account(constraint)

			c.testZonePair(za, zb, smoothed[ia], smoothed[ib], constraint)
		}
	}
}

func (c *Checker) testZonePair(za, zb *board.Zone, pa, pb *geometry.PolySet, constraint Constraint) {
	// Any vertex of one outline inside the other is an intersection.
	pb.BuildBBoxCaches()
	pa.Vertices(func(p geometry.Point) bool {
		if c.Sink.IsLimitExceeded(KindZonesIntersect) {
			return false
		}
		if pb.Contains(p) {
			c.report(&Violation{Kind: KindZonesIntersect, A: za, B: zb, Constraint: constraint.Name, Where: p})
		}
		return true
	})
	pa.BuildBBoxCaches()
	pb.Vertices(func(p geometry.Point) bool {
		if c.Sink.IsLimitExceeded(KindZonesIntersect) {
			return false
		}
		if pa.Contains(p) {
			c.report(&Violation{Kind: KindZonesIntersect, A: zb, B: za, Constraint: constraint.Name, Where: p})
		}
		return true
	})

	// Minimum edge-to-edge distance over every boundary segment pair,
	// holes included, keeping the smallest distance per conflict location.
	type segment struct{ a, b geometry.Point }
	var segsB []segment
	pb.Segments(func(a, b geometry.Point) bool {
		segsB = append(segsB, segment{a, b})
		return true
	})

	conflicts := make(map[geometry.Point]float64)
	pa.Segments(func(a1, a2 geometry.Point) bool {
		for _, sb := range segsB {
			d, pt := geometry.SegmentDistance(a1, a2, sb.a, sb.b)
			if d < float64(constraint.Value) {
				if prev, ok := conflicts[pt]; !ok || d < prev {
					conflicts[pt] = d
				}
			}
		}
		return true
	})

	for pt, d := range conflicts {
		if d <= 0 {
			c.report(&Violation{Kind: KindZonesIntersect, A: za, B: zb, Constraint: constraint.Name, Where: pt})
			continue
		}
		c.report(&Violation{
			Kind:       KindClearance,
			A:          za,
			B:          zb,
			Constraint: constraint.Name,
			Required:   constraint.Value,
			Actual:     geometry.Coord(math.Round(d)),
			Where:      pt,
		})
	}
}

func clampDist(d geometry.Coord) geometry.Coord {
	if d < 0 {
		return 0
	}
	return d
}
