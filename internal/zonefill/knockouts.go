package zonefill

import (
	"pcb-copper/internal/board"
	"pcb-copper/pkg/geometry"
)

// trackMargin is added on top of the resolved clearance when knocking out
// tracks and vias, absorbing arc-approximation error (2 µm).
const trackMargin = geometry.Coord(2000)

// knockoutThermalReliefs subtracts the relief ring of every thermally
// connected pad: the pad shape expanded by the relief gap. Spokes are
// added back across the ring later. A thermal pad absent from this layer
// still contributes a relief around its drill hole.
func (f *Filler) knockoutThermalReliefs(z *board.Zone, layer board.LayerID, holes *geometry.PolySet) {
	for _, p := range f.board.Pads {
		if !f.hasThermalPolicy(z, p) {
			continue
		}
		switch {
		case p.IsOnLayer(layer):
			p.EffectiveShape().Polygonize(holes, z.ThermalReliefGap(p))
		case p.HasDrill():
			p.HoleStandIn().EffectiveShape().Polygonize(holes, z.ThermalReliefGap(p))
		}
	}
}

// buildCopperItemClearances collects the knockout polygons for everything
// the fill must keep clear of: foreign-net pads, tracks and vias, copper
// graphics, higher priority zones and keepouts.
func (f *Filler) buildCopperItemClearances(z *board.Zone, layer board.LayerID, holes *geometry.PolySet) {
	for _, p := range f.board.Pads {
		f.knockoutPad(z, p, layer, holes)
	}

	for _, item := range f.board.TrackItems() {
		if item.NetCode() > 0 && item.NetCode() == z.Net {
			continue
		}
		if !item.IsOnLayer(layer) {
			// An off-layer via still drills through this layer.
			if v, ok := item.(*board.Via); ok && v.LayerSpan.Contains(layer) {
				gap := f.resolver.Clearance(z, v, layer).Value
				v.HoleShape().Polygonize(holes, gap+trackMargin)
			}
			continue
		}
		gap := f.resolver.Clearance(z, item, layer).Value
		shape := item.EffectiveShape()
		if v, ok := item.(*board.Via); ok && !v.PadOnLayer(layer) {
			shape = v.HoleShape()
		}
		shape.Polygonize(holes, gap+trackMargin)
	}

	for _, g := range f.board.Graphics {
		if !g.IsOnLayer(layer) || g.Layer == board.EdgeCuts {
			continue
		}
		gap := f.resolver.Clearance(z, g, layer).Value
		g.EffectiveShape().Polygonize(holes, gap)
	}

	for _, other := range f.board.Zones {
		if other == z || !other.LayerSpan.Contains(layer) {
			continue
		}
		if other.Keepout && other.PourForbidden {
			holes.Union(other.SmoothedOutline())
			continue
		}
		if other.Keepout {
			continue
		}
		// A higher priority zone of another net owns its area plus the
		// clearance between the two pours. Same-net zones merge instead.
		if other.Priority > z.Priority && other.Net != z.Net {
			gap := f.resolver.Clearance(z, other, layer).Value
			ko := other.SmoothedOutline()
			ko.Inflate(gap, geometry.CornerRound)
			holes.Union(ko)
		}
	}
}

// knockoutPad adds the clearance hole for one pad, or nothing when the pad
// connects solid.
func (f *Filler) knockoutPad(z *board.Zone, p *board.Pad, layer board.LayerID, holes *geometry.PolySet) {
	if f.hasThermalPolicy(z, p) && (p.IsOnLayer(layer) || p.HasDrill()) {
		return
	}

	sameNet := p.Net > 0 && p.Net == z.Net

	if !p.IsOnLayer(layer) {
		// No copper here, but a drilled hole still punches through.
		if p.HasDrill() {
			gap := f.resolver.HoleClearance(p, z).Value
			if gap <= 0 {
				gap = f.resolver.Clearance(z, p, layer).Value
			}
			p.HoleStandIn().EffectiveShape().Polygonize(holes, gap)
		}
		return
	}

	if sameNet {
		switch z.PadConnection(p) {
		case board.ConnNone:
			// An unconnected same-net pad keeps both the clearance and
			// the thermal gap, whichever is larger.
			gap := f.resolver.Clearance(z, p, layer).Value
			if tg := z.ThermalReliefGap(p); tg > gap {
				gap = tg
			}
			p.EffectiveShape().Polygonize(holes, gap)
		default:
			// Solid connection: pour straight over the pad.
		}
		return
	}

	gap := f.resolver.Clearance(z, p, layer).Value
	p.EffectiveShape().Polygonize(holes, gap)
}
