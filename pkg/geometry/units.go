// Package geometry provides the geometric types and polygon algebra used by
// the clearance checker and the zone fill engine.
package geometry

import "math"

// Coord is a board coordinate or distance in integer nanometers.
// One millimeter is 1e6 units, which keeps every clearance and feature size
// exactly representable and maps directly onto integer polygon math.
type Coord int64

// CoordPerMM is the number of internal units in one millimeter.
const CoordPerMM = 1e6

// DefaultMaxError is the allowed deviation when arcs are approximated by
// segments (5 µm).
const DefaultMaxError Coord = 5000

// FromMM converts millimeters to internal units.
func FromMM(mm float64) Coord {
	return Coord(math.Round(mm * CoordPerMM))
}

// ToMM converts internal units to millimeters.
func ToMM(c Coord) float64 {
	return float64(c) / CoordPerMM
}

// FromInches converts inches to internal units. Legacy card formats are
// specified in inches.
func FromInches(in float64) Coord {
	return FromMM(in * 25.4)
}

// ArcSegments returns the number of segments needed to approximate a full
// circle of the given radius within maxErr, with a floor of 6.
func ArcSegments(radius, maxErr Coord) int {
	if radius <= 0 || maxErr <= 0 {
		return 6
	}
	if maxErr >= radius {
		return 6
	}
	theta := 2 * math.Acos(1-float64(maxErr)/float64(radius))
	n := int(math.Ceil(2 * math.Pi / theta))
	if n < 6 {
		n = 6
	}
	return n
}
