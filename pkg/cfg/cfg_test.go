package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machine.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeProfile(t, `
bed_max_x = 300.0
smoothness = 40
optimize_travel = true
`)
	profile, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 300.0, profile.BedMaxX)
	assert.Equal(t, 40, profile.Smoothness)
	assert.True(t, profile.OptimizeTravel)
	// Untouched keys keep their defaults.
	assert.Equal(t, 200.0, profile.BedMaxY)
	assert.Equal(t, "M03", profile.PenDown)
	assert.Equal(t, []string{"G28", "G1 Z5.0"}, profile.Preamble)
}

func TestLoadFullProfile(t *testing.T) {
	path := writeProfile(t, `
bed_max_x = 150.0
bed_max_y = 150.0
smoothness = 10
preamble = ["G21", "G90"]
postamble = ["M5"]
shape_preamble = []
shape_postamble = []
pen_down = "M3 S1000"
simplify_tolerance = 0.1
`)
	profile, err := Load(path)
	require.NoError(t, err)

	opts := profile.Options()
	assert.Equal(t, 150.0, opts.BedMaxX)
	assert.Equal(t, []string{"G21", "G90"}, opts.Preamble)
	assert.Equal(t, []string{"M5"}, opts.Postamble)
	assert.Empty(t, opts.ShapePreamble)
	assert.Equal(t, "M3 S1000", opts.PenDown)
	assert.Equal(t, 0.1, opts.SimplifyTolerance)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := writeProfile(t, `bed_max_x = "not a number`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultMatchesConversionDefaults(t *testing.T) {
	opts := Default().Options()
	assert.Equal(t, 200.0, opts.BedMaxX)
	assert.Equal(t, 200.0, opts.BedMaxY)
	assert.Equal(t, 20, opts.Smoothness)
	assert.False(t, opts.OptimizeTravel)
}
