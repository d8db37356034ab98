// Package project provides project file handling and persistence: the
// design rules and fill settings a board is checked and poured with.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pcb-copper/internal/drc"
	"pcb-copper/pkg/geometry"
)

// File represents a copper rules project file (.copperproj). Distances are
// stored in millimeters to keep the files hand-editable.
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	FormFactor  string    `json:"form_factor,omitempty"`
	Description string    `json:"description,omitempty"`

	Rules Rules        `json:"rules"`
	Fill  FillDefaults `json:"fill,omitempty"`

	// Per-kind caps on reported violations; 0 means unlimited.
	ViolationLimits map[string]int `json:"violation_limits,omitempty"`
}

// Rules holds the clearance rule table in millimeters.
type Rules struct {
	ClearanceMM     float64            `json:"clearance_mm"`
	HoleClearanceMM float64            `json:"hole_clearance_mm,omitempty"`
	NetClassesMM    map[string]float64 `json:"net_classes_mm,omitempty"` // keyed by net code
}

// FillDefaults holds the zone fill settings applied to zones that carry no
// explicit overrides.
type FillDefaults struct {
	MinThicknessMM float64 `json:"min_thickness_mm,omitempty"`
	ThermalGapMM   float64 `json:"thermal_gap_mm,omitempty"`
	SpokeWidthMM   float64 `json:"spoke_width_mm,omitempty"`
}

// New creates a project file with default rules.
func New(name, formFactor string) *File {
	now := time.Now()
	return &File{
		Version:    1,
		Name:       name,
		Created:    now,
		Modified:   now,
		FormFactor: formFactor,
		Rules: Rules{
			ClearanceMM:     0.25,
			HoleClearanceMM: 0.25,
		},
		Fill: FillDefaults{
			MinThicknessMM: 0.25,
			ThermalGapMM:   0.5,
			SpokeWidthMM:   0.5,
		},
	}
}

// Load reads a project file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}
	if f.Rules.ClearanceMM <= 0 {
		return nil, fmt.Errorf("project %q has no default clearance", f.Name)
	}
	return &f, nil
}

// Save writes the project file to disk, updating the modified timestamp.
func (f *File) Save(path string) error {
	f.Modified = time.Now()
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Resolver builds the clearance resolver described by the rule table.
func (f *File) Resolver() *drc.RuleResolver {
	r := &drc.RuleResolver{
		Default: geometry.FromMM(f.Rules.ClearanceMM),
		Hole:    geometry.FromMM(f.Rules.HoleClearanceMM),
	}
	if len(f.Rules.NetClassesMM) > 0 {
		r.ByNet = make(map[int]geometry.Coord, len(f.Rules.NetClassesMM))
		for code, mm := range f.Rules.NetClassesMM {
			var net int
			if _, err := fmt.Sscanf(code, "%d", &net); err == nil {
				r.ByNet[net] = geometry.FromMM(mm)
			}
		}
	}
	return r
}

// Limits translates the violation caps into checker limits.
func (f *File) Limits() map[drc.Kind]int {
	if len(f.ViolationLimits) == 0 {
		return nil
	}
	byName := map[string]drc.Kind{
		drc.KindClearance.String():      drc.KindClearance,
		drc.KindTracksCrossing.String(): drc.KindTracksCrossing,
		drc.KindZonesIntersect.String(): drc.KindZonesIntersect,
		drc.KindShortingItems.String():  drc.KindShortingItems,
	}
	out := make(map[drc.Kind]int)
	for name, limit := range f.ViolationLimits {
		if kind, ok := byName[name]; ok && limit > 0 {
			out[kind] = limit
		}
	}
	return out
}
