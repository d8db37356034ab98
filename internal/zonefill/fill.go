package zonefill

import (
	"pcb-copper/internal/board"
	"pcb-copper/pkg/geometry"
)

// fillEpsilon is shaved off the half-min-thickness deflate so copper at
// exactly the minimum width survives the round trip (1 µm).
const fillEpsilon = geometry.Coord(1000)

// fillZoneLayer computes one zone's copper on one layer. The returned raw
// set keeps holes as explicit rings; the final set is fractured into
// hole-free outlines. Returns nil sets when the run was cancelled mid-way.
func (f *Filler) fillZoneLayer(z *board.Zone, layer board.LayerID) (raw, final *geometry.PolySet) {
	halfMin := z.MinThickness/2 - fillEpsilon
	smoothed := z.SmoothedOutline()

	thermalHoles := geometry.NewPolySet()
	f.knockoutThermalReliefs(z, layer, thermalHoles)

	clearanceHoles := geometry.NewPolySet()
	f.buildCopperItemClearances(z, layer, clearanceHoles)

	fill := smoothed.Clone()
	fill.Subtract(thermalHoles)

	spokes := f.buildThermalSpokes(z, layer)
	if len(spokes) > 0 {
		// A spoke is kept only when its far end lands on copper that
		// survives the minimum-width filter; the test runs on a throwaway
		// deflate/inflate round trip of the provisional fill.
		testAreas := fill.Clone()
		testAreas.Subtract(clearanceHoles)
		testAreas.Deflate(halfMin, geometry.CornerChamfer)
		testAreas.Inflate(halfMin, geometry.CornerChamfer)
		testAreas.BuildBBoxCaches()

		admitted := admitSpokes(spokes, testAreas, f.progress)
		if f.progress.IsCancelled() {
			return nil, nil
		}
		if len(admitted) > 0 {
			bridges := geometry.NewPolySet()
			for _, s := range admitted {
				bridges.AddOutline(s.outline)
			}
			fill.Union(bridges)
		}
	}

	fill.Subtract(clearanceHoles)

	// The deflate/inflate pair erases copper narrower than the minimum
	// width; inflating with round joints restores pad-hugging curves.
	fill.Deflate(halfMin, geometry.CornerChamfer)
	if z.Mode == board.FillHatch {
		f.addHatchFill(z, layer, fill)
	}
	fill.Inflate(halfMin, geometry.CornerRound)

	// Rounded inflation can bulge past the outline at sharp corners.
	fill.Intersect(smoothed)
	fill.Simplify()

	raw = fill
	final = fill.Clone()
	final.Fracture()
	return raw, final
}
