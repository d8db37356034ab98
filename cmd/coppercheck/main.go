// Command coppercheck builds a small demonstration board, fills its zones
// and runs the copper clearance checker, printing every violation found.
package main

import (
	"flag"
	"fmt"
	"os"

	"pcb-copper/internal/board"
	"pcb-copper/internal/connectivity"
	"pcb-copper/internal/drc"
	"pcb-copper/internal/project"
	"pcb-copper/internal/version"
	"pcb-copper/internal/zonefill"
	"pcb-copper/pkg/geometry"
)

func main() {
	clearanceMM := flag.Float64("clearance", 0.25, "Minimum copper clearance in mm")
	limit := flag.Int("limit", 0, "Maximum violations to report per kind (0 = unlimited)")
	skipFill := flag.Bool("nofill", false, "Skip the zone fill step")
	projectPath := flag.String("project", "", "Path to a .copperproj rules file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("coppercheck %s (%s, built %s)\n",
			version.Version, version.GitCommit, version.BuildTime)
		return
	}

	resolver := &drc.RuleResolver{
		Default: geometry.FromMM(*clearanceMM),
		Hole:    geometry.FromMM(*clearanceMM),
	}
	form := ""
	var projLimits map[drc.Kind]int
	if *projectPath != "" {
		proj, err := project.Load(*projectPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load project: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Project %q (clearance %.3f mm)\n", proj.Name, proj.Rules.ClearanceMM)
		resolver = proj.Resolver()
		projLimits = proj.Limits()
		form = proj.FormFactor
	}

	b := demoBoard(form)
	fmt.Printf("Demo board: %d pads, %d tracks, %d vias, %d zones\n",
		len(b.Pads), len(b.Tracks), len(b.Vias), len(b.Zones))

	if !*skipFill {
		filler := zonefill.NewFiller(b, resolver, &connectivity.Connectivity{}, nil)
		if err := filler.Fill(b.Zones, false); err != nil {
			fmt.Fprintf(os.Stderr, "Zone fill failed: %v\n", err)
			os.Exit(1)
		}
		for _, z := range b.Zones {
			fmt.Printf("Zone %q filled: %.2f mm²\n", z.Name,
				z.FilledArea()/(geometry.CoordPerMM*geometry.CoordPerMM))
		}
	}

	limits := map[drc.Kind]int{}
	if *limit > 0 {
		limits[drc.KindClearance] = *limit
		limits[drc.KindTracksCrossing] = *limit
		limits[drc.KindZonesIntersect] = *limit
		limits[drc.KindShortingItems] = *limit
	}
	for k, v := range projLimits {
		limits[k] = v
	}
	recorder := drc.NewRecorder(limits)

	checker := drc.NewChecker(b, resolver, recorder)
	checker.CheckCopperClearances()

	violations := recorder.Violations()
	fmt.Printf("\n%d violation(s):\n", len(violations))
	for _, v := range violations {
		fmt.Printf("  [%s] %s vs %s at (%.3f, %.3f)",
			v.Kind, v.A.Kind(), v.B.Kind(),
			geometry.ToMM(v.Where.X), geometry.ToMM(v.Where.Y))
		if v.Kind == drc.KindClearance {
			fmt.Printf(": %.3f mm < %.3f mm (%s)",
				geometry.ToMM(v.Actual), geometry.ToMM(v.Required), v.Constraint)
		}
		fmt.Println()
	}

	stats := checker.Statistics()
	fmt.Printf("\nConstraint evaluations:\n")
	for src, n := range stats.ChecksBySource {
		fmt.Printf("  %-12s %d\n", src, n)
	}
	if stats.MinClearance > 0 {
		fmt.Printf("  min %.3f mm, mean %.3f mm\n", stats.MinClearance, stats.MeanClearance)
	}

	if len(violations) > 0 {
		os.Exit(2)
	}
}

func mm(v float64) geometry.Coord { return geometry.FromMM(v) }

func pt(x, y float64) geometry.Point {
	return geometry.Point{X: mm(x), Y: mm(y)}
}

// demoBoard is a two-layer board with a ground pour, a few components and
// two deliberate clearance problems. A recognized form factor name swaps
// in that standard card outline.
func demoBoard(form string) *board.Board {
	front := board.NewLayerSet(board.FrontCopper)
	both := board.NewLayerSet(board.FrontCopper, board.BackCopper)

	outline := geometry.NewPolySet()
	outline.AddOutline([]geometry.Point{pt(0, 0), pt(30, 0), pt(30, 20), pt(0, 20)})
	if ff, ok := board.FormFactorByName(form); ok {
		outline = ff.Outline()
		fmt.Printf("Form factor: %s\n", ff.Name)
	}

	gnd := geometry.NewPolySet()
	gnd.AddOutline([]geometry.Point{pt(1, 1), pt(29, 1), pt(29, 19), pt(1, 19)})

	b := &board.Board{
		Outline: outline,
		Pads: []*board.Pad{
			{Footprint: "U1", Number: "1", Net: 1, LayerSpan: front, Attribute: board.AttrSMD,
				Pos: pt(5, 10), Size: pt(1.5, 1.5), Shape: board.PadRect},
			{Footprint: "U1", Number: "2", Net: 2, LayerSpan: front, Attribute: board.AttrSMD,
				Pos: pt(5, 12), Size: pt(1.5, 1.5), Shape: board.PadRect},
			{Footprint: "R1", Number: "1", Net: 2, LayerSpan: front, Attribute: board.AttrSMD,
				Pos: pt(15, 10), Size: pt(1, 1.2), Shape: board.PadRoundRect, RoundRectRadius: mm(0.25)},
			{Footprint: "R1", Number: "2", Net: 3, LayerSpan: front, Attribute: board.AttrSMD,
				Pos: pt(17, 10), Size: pt(1, 1.2), Shape: board.PadRoundRect, RoundRectRadius: mm(0.25)},
			{Footprint: "J1", Number: "1", Net: 1, LayerSpan: both, Attribute: board.AttrStandard,
				Pos: pt(25, 10), Size: pt(2, 2), Shape: board.PadCircle, Drill: pt(1, 1)},
		},
		Tracks: []*board.TrackSegment{
			{Net: 2, Layer: board.FrontCopper, Start: pt(5, 12), End: pt(15, 10), Width: mm(0.25)},
			{Net: 3, Layer: board.FrontCopper, Start: pt(17, 10), End: pt(22, 10), Width: mm(0.25)},
			// Too close to the net 3 track above.
			{Net: 4, Layer: board.FrontCopper, Start: pt(17, 10.3), End: pt(22, 10.3), Width: mm(0.25)},
			// Crosses the net 2 track.
			{Net: 5, Layer: board.FrontCopper, Start: pt(10, 8), End: pt(10, 14), Width: mm(0.25)},
		},
		Vias: []*board.Via{
			{Net: 3, Pos: pt(22, 10), Diameter: mm(0.8), Drill: mm(0.4), LayerSpan: both},
		},
		Zones: []*board.Zone{
			{
				Name: "GND", Net: 1, LayerSpan: front, Outline: gnd,
				MinThickness: mm(0.25),
				Connection:   board.ConnThermal,
				ThermalGap:   mm(0.5),
				SpokeWidth:   mm(0.5),
				IslandPolicy: board.IslandAlways,
			},
		},
	}
	b.SetNetName(1, "GND")
	b.SetNetName(2, "SIG_A")
	b.SetNetName(3, "SIG_B")
	b.SetNetName(4, "SIG_C")
	b.SetNetName(5, "SIG_D")
	return b
}
