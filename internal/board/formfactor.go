package board

import (
	"strings"

	"pcb-copper/pkg/geometry"
)

// FormFactor is a standard card size. Its outline anchors the board edge
// for fills and island removal when a project starts from a known format
// instead of a custom edge.
type FormFactor struct {
	Name   string
	Width  geometry.Coord
	Height geometry.Coord
}

// Outline returns the rectangular board edge for the form factor, with
// the origin at the lower left corner.
func (f FormFactor) Outline() *geometry.PolySet {
	return geometry.FromBox(geometry.NewBox(0, 0, f.Width, f.Height))
}

var formFactors = map[string]FormFactor{
	"eurocard": {
		Name:   "Eurocard (IEC 60297)",
		Width:  geometry.FromMM(160),
		Height: geometry.FromMM(100),
	},
	"s100": {
		Name:   "S-100 (IEEE 696)",
		Width:  geometry.FromInches(10.0),
		Height: geometry.FromInches(5.4375),
	},
	"isa": {
		Name:   "ISA full-length",
		Width:  geometry.FromInches(13.15),
		Height: geometry.FromInches(4.2),
	},
	"multibus": {
		Name:   "Multibus (IEEE 796)",
		Width:  geometry.FromInches(12.0),
		Height: geometry.FromInches(6.75),
	},
}

// FormFactorByName looks up a standard card size by its short name,
// case-insensitively.
func FormFactorByName(name string) (FormFactor, bool) {
	f, ok := formFactors[strings.ToLower(name)]
	return f, ok
}

// FormFactorNames returns the known short names.
func FormFactorNames() []string {
	names := make([]string, 0, len(formFactors))
	for n := range formFactors {
		names = append(names, n)
	}
	return names
}
