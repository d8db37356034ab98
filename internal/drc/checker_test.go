package drc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-copper/internal/board"
	"pcb-copper/pkg/geometry"
)

func mm(v float64) geometry.Coord { return geometry.FromMM(v) }

func front() board.LayerSet { return board.NewLayerSet(board.FrontCopper) }

func track(net int, x1, y1, x2, y2, width float64) *board.TrackSegment {
	return &board.TrackSegment{
		Net:   net,
		Layer: board.FrontCopper,
		Start: geometry.Point{X: mm(x1), Y: mm(y1)},
		End:   geometry.Point{X: mm(x2), Y: mm(y2)},
		Width: mm(width),
	}
}

func smdPad(footprint, number string, net int, x, y, w, h float64) *board.Pad {
	return &board.Pad{
		Footprint: footprint,
		Number:    number,
		Net:       net,
		LayerSpan: front(),
		Attribute: board.AttrSMD,
		Pos:       geometry.Point{X: mm(x), Y: mm(y)},
		Size:      geometry.Point{X: mm(w), Y: mm(h)},
		Shape:     board.PadRect,
	}
}

func rectZone(name string, net int, x1, y1, x2, y2 float64) *board.Zone {
	outline := geometry.NewPolySet()
	outline.AddOutline([]geometry.Point{
		{X: mm(x1), Y: mm(y1)},
		{X: mm(x2), Y: mm(y1)},
		{X: mm(x2), Y: mm(y2)},
		{X: mm(x1), Y: mm(y2)},
	})
	return &board.Zone{
		Name:         name,
		Net:          net,
		LayerSpan:    front(),
		Outline:      outline,
		MinThickness: mm(0.25),
	}
}

func runCheck(t *testing.T, b *board.Board, r Resolver, limits map[Kind]int) *Recorder {
	t.Helper()
	rec := NewRecorder(limits)
	c := NewChecker(b, r, rec)
	c.CheckCopperClearances()
	return rec
}

func TestParallelTracksTooClose(t *testing.T) {
	// 0.2mm wide tracks with centerlines 0.4mm apart leave a 0.2mm gap,
	// below the 0.25mm minimum.
	b := &board.Board{Tracks: []*board.TrackSegment{
		track(1, 0, 0, 5, 0, 0.2),
		track(2, 0, 0.4, 5, 0.4, 0.2),
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)

	vs := rec.Violations()
	require.Len(t, vs, 1)
	v := vs[0]
	require.Equal(t, KindClearance, v.Kind)
	require.Equal(t, mm(0.25), v.Required)
	require.InDelta(t, float64(mm(0.2)), float64(v.Actual), 3000) // 3µm slack
}

func TestParallelTracksFarEnough(t *testing.T) {
	b := &board.Board{Tracks: []*board.TrackSegment{
		track(1, 0, 0, 5, 0, 0.2),
		track(2, 0, 0.5, 5, 0.5, 0.2), // 0.3mm gap
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)
	require.Empty(t, rec.Violations())
}

func TestCrossingTracksReportedOnce(t *testing.T) {
	b := &board.Board{Tracks: []*board.TrackSegment{
		track(1, -2, 0, 2, 0, 0.2),
		track(2, 0, -2, 0, 2, 0.2),
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)

	vs := rec.Violations()
	require.Len(t, vs, 1, "a crossing must suppress the clearance report for the pair")
	require.Equal(t, KindTracksCrossing, vs[0].Kind)
	require.Equal(t, geometry.Point{}, vs[0].Where)
}

func TestSameNetExempt(t *testing.T) {
	b := &board.Board{Tracks: []*board.TrackSegment{
		track(3, 0, 0, 5, 0, 0.2),
		track(3, 0, 0.1, 5, 0.1, 0.2), // overlapping, same net
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)
	require.Empty(t, rec.Violations())
}

func TestNoNetPairStillChecked(t *testing.T) {
	// Net 0 means "no net"; two unconnected items are not exempt.
	b := &board.Board{Tracks: []*board.TrackSegment{
		track(0, 0, 0, 5, 0, 0.2),
		track(0, 0, 0.3, 5, 0.3, 0.2),
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)
	require.Equal(t, 1, rec.Count(KindClearance))
}

func TestPadsTooClose(t *testing.T) {
	b := &board.Board{Pads: []*board.Pad{
		smdPad("R1", "1", 1, 0, 0, 1, 1),
		smdPad("R2", "1", 2, 1.1, 0, 1, 1), // 0.1mm gap
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)

	vs := rec.Violations()
	require.Len(t, vs, 1)
	require.Equal(t, KindClearance, vs[0].Kind)
	require.InDelta(t, float64(mm(0.1)), float64(vs[0].Actual), 3000)
}

func TestPadSweepFindsPairPastIntermediatePads(t *testing.T) {
	// The colliding pair is separated, in sorted-by-X order, by pads in
	// the same X columns but far off in Y. The sweep must walk past them
	// and stop only at the X limit.
	b := &board.Board{Pads: []*board.Pad{
		smdPad("U1", "1", 1, 5.0, 10, 1, 1),
		smdPad("U2", "1", 2, 5.05, 0, 1, 1),
		smdPad("U3", "1", 3, 5.1, 25, 1, 1),
		smdPad("U4", "1", 4, 6.15, 10, 1, 1), // 0.15mm gap to U1
		smdPad("U5", "1", 5, 30, 10, 1, 1),   // past the sweep window
		smdPad("U6", "1", 6, 40, 10, 1, 1),
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)

	vs := rec.Violations()
	require.Len(t, vs, 1)
	require.Equal(t, KindClearance, vs[0].Kind)
	require.InDelta(t, float64(mm(0.15)), float64(vs[0].Actual), 3000)
}

func TestFreePadsSharingNumberNotShorting(t *testing.T) {
	// Pads without a footprint are free copper; a shared designator
	// string does not make them one pin.
	b := &board.Board{Pads: []*board.Pad{
		smdPad("", "1", 1, 0, 0, 1, 1),
		smdPad("", "1", 2, 8, 0, 1, 1),
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)
	require.Empty(t, rec.Violations())
}

func TestShortingPadsSameNumber(t *testing.T) {
	// Two pads with the same designator on one footprint are the same pin.
	// Different nets there is a short no matter how far apart they sit.
	b := &board.Board{Pads: []*board.Pad{
		smdPad("U1", "3", 1, 0, 0, 1, 1),
		smdPad("U1", "3", 2, 8, 0, 1, 1),
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)

	vs := rec.Violations()
	require.Len(t, vs, 1)
	require.Equal(t, KindShortingItems, vs[0].Kind)
}

func TestTrackNearPad(t *testing.T) {
	b := &board.Board{
		Pads:   []*board.Pad{smdPad("R1", "1", 1, 0, 0, 1, 1)},
		Tracks: []*board.TrackSegment{track(2, -3, 0.7, 3, 0.7, 0.2)},
	}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)

	vs := rec.Violations()
	require.Len(t, vs, 1)
	require.Equal(t, KindClearance, vs[0].Kind)
	// Pad edge at y=0.5, track edge at y=0.6: 0.1mm gap.
	require.InDelta(t, float64(mm(0.1)), float64(vs[0].Actual), 3000)
}

func TestNoRulesIsNoOp(t *testing.T) {
	b := &board.Board{Tracks: []*board.TrackSegment{
		track(1, 0, 0, 5, 0, 0.2),
		track(2, 0, 0.05, 5, 0.05, 0.2), // overlapping
	}}

	rec := runCheck(t, b, &RuleResolver{}, nil)
	require.Empty(t, rec.Violations())
}

func TestViolationLimitCapsReports(t *testing.T) {
	b := &board.Board{}
	for i := 0; i < 6; i++ {
		y := float64(i) * 2
		b.Tracks = append(b.Tracks,
			track(1, 0, y, 5, y, 0.2),
			track(2, 0, y+0.3, 5, y+0.3, 0.2),
		)
	}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, map[Kind]int{KindClearance: 2})
	require.Equal(t, 2, rec.Count(KindClearance))
}

func TestOverlappingZones(t *testing.T) {
	b := &board.Board{Zones: []*board.Zone{
		rectZone("GND", 1, 0, 0, 10, 10),
		rectZone("VCC", 2, 5, 5, 15, 15),
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)
	require.Greater(t, rec.Count(KindZonesIntersect), 0)
}

func TestZonesWithinClearance(t *testing.T) {
	b := &board.Board{Zones: []*board.Zone{
		rectZone("GND", 1, 0, 0, 10, 10),
		rectZone("VCC", 2, 10.1, 0, 20, 10), // 0.1mm apart
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)
	require.Greater(t, rec.Count(KindClearance), 0)
	require.Equal(t, 0, rec.Count(KindZonesIntersect))
}

func TestZonesFarApart(t *testing.T) {
	b := &board.Board{Zones: []*board.Zone{
		rectZone("GND", 1, 0, 0, 10, 10),
		rectZone("VCC", 2, 11, 0, 20, 10),
	}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)
	require.Empty(t, rec.Violations())
}

func TestDifferentPriorityZonesSkipped(t *testing.T) {
	a := rectZone("GND", 1, 0, 0, 10, 10)
	z := rectZone("VCC", 2, 5, 5, 15, 15)
	z.Priority = 1
	b := &board.Board{Zones: []*board.Zone{a, z}}

	rec := runCheck(t, b, &RuleResolver{Default: mm(0.25)}, nil)
	require.Empty(t, rec.Violations())
}

func TestStatisticsAccounting(t *testing.T) {
	b := &board.Board{Tracks: []*board.TrackSegment{
		track(1, 0, 0, 5, 0, 0.2),
		track(2, 0, 0.4, 5, 0.4, 0.2),
	}}

	rec := NewRecorder(nil)
	c := NewChecker(b, &RuleResolver{Default: mm(0.25)}, rec)
	c.CheckCopperClearances()

	stats := c.Statistics()
	require.Equal(t, 1, stats.ChecksBySource["default"])
	require.InDelta(t, 0.25, stats.MinClearance, 1e-9)
	require.InDelta(t, 0.25, stats.MeanClearance, 1e-9)
}
