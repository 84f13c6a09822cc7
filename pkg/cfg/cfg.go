// Package cfg loads machine profiles: the bed envelope, sampling
// density, and framing commands for one physical plotter, stored as a
// TOML file and overlaid onto the built-in defaults.
package cfg

import (
	"fmt"
	"os"

	"penplot/pkg/gcode"

	"github.com/pelletier/go-toml/v2"
)

// Profile is one machine's configuration. Field names match the TOML
// keys; anything absent from the file keeps its default.
type Profile struct {
	BedMaxX    float64 `toml:"bed_max_x"`
	BedMaxY    float64 `toml:"bed_max_y"`
	Smoothness int     `toml:"smoothness"`

	Preamble       []string `toml:"preamble"`
	Postamble      []string `toml:"postamble"`
	ShapePreamble  []string `toml:"shape_preamble"`
	ShapePostamble []string `toml:"shape_postamble"`
	PenDown        string   `toml:"pen_down"`

	SimplifyTolerance float64 `toml:"simplify_tolerance"`
	OptimizeTravel    bool    `toml:"optimize_travel"`
}

// Default returns the stock plotter profile.
func Default() Profile {
	opts := gcode.DefaultOptions()
	return Profile{
		BedMaxX:        opts.BedMaxX,
		BedMaxY:        opts.BedMaxY,
		Smoothness:     opts.Smoothness,
		Preamble:       opts.Preamble,
		Postamble:      opts.Postamble,
		ShapePreamble:  opts.ShapePreamble,
		ShapePostamble: opts.ShapePostamble,
		PenDown:        opts.PenDown,
	}
}

// Load reads a TOML profile from path, overlaying it on the defaults.
func Load(path string) (Profile, error) {
	profile := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read profile: %w", err)
	}
	if err := toml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}

// Options converts the profile to conversion options.
func (p Profile) Options() gcode.Options {
	return gcode.Options{
		BedMaxX:           p.BedMaxX,
		BedMaxY:           p.BedMaxY,
		Smoothness:        p.Smoothness,
		Preamble:          p.Preamble,
		Postamble:         p.Postamble,
		ShapePreamble:     p.ShapePreamble,
		ShapePostamble:    p.ShapePostamble,
		PenDown:           p.PenDown,
		SimplifyTolerance: p.SimplifyTolerance,
		OptimizeTravel:    p.OptimizeTravel,
	}
}
