package svgpath_test

import (
	"math"
	"testing"

	"penplot/pkg/svgpath"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name      string
		transform string
		x, y      float64
		wantX     float64
		wantY     float64
	}{
		{name: "empty is identity", transform: "", x: 3, y: 4, wantX: 3, wantY: 4},
		{name: "translate", transform: "translate(10, 20)", x: 1, y: 2, wantX: 11, wantY: 22},
		{name: "translate single arg", transform: "translate(10)", x: 1, y: 2, wantX: 11, wantY: 2},
		{name: "scale", transform: "scale(2, 3)", x: 1, y: 1, wantX: 2, wantY: 3},
		{name: "scale uniform", transform: "scale(2)", x: 3, y: 4, wantX: 6, wantY: 8},
		{name: "matrix", transform: "matrix(1,0,0,1,5,6)", x: 0, y: 0, wantX: 5, wantY: 6},
		{name: "rotate 90", transform: "rotate(90)", x: 1, y: 0, wantX: 0, wantY: 1},
		{name: "rotate about point", transform: "rotate(180, 5, 5)", x: 0, y: 0, wantX: 10, wantY: 10},
		{name: "skewX 45", transform: "skewX(45)", x: 0, y: 1, wantX: 1, wantY: 1},
		{name: "skewY 45", transform: "skewY(45)", x: 1, y: 0, wantX: 1, wantY: 1},
		{
			name: "composition is left to right",
			// translate then scale: p' = T(S(p)) under left-to-right
			// attribute order, so (1,1) -> scale(2) -> (2,2) -> +10 -> (12,12).
			transform: "translate(10, 10) scale(2)",
			x:         1, y: 1,
			wantX: 12, wantY: 12,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := svgpath.ParseTransform(test.transform)
			if err != nil {
				t.Fatalf("ParseTransform(%q) error: %s", test.transform, err)
			}
			gotX, gotY := m.TransformPoint(test.x, test.y)
			if !approx(gotX, test.wantX) || !approx(gotY, test.wantY) {
				t.Errorf("ParseTransform(%q).TransformPoint(%g,%g) = (%g,%g), want (%g,%g)",
					test.transform, test.x, test.y, gotX, gotY, test.wantX, test.wantY)
			}
		})
	}
}

func TestParseTransformMalformed(t *testing.T) {
	// Malformed transforms degrade to the identity matrix with an error,
	// never a hard failure.
	for _, transform := range []string{
		"garbage",
		"matrix(1,2,3)",
		"rotate(45, 1)",
		"spin(90)",
		"translate(",
	} {
		m, err := svgpath.ParseTransform(transform)
		if err == nil {
			t.Errorf("ParseTransform(%q): expected error", transform)
		}
		if !m.IsIdentity() {
			t.Errorf("ParseTransform(%q) = %+v, want identity", transform, m)
		}
	}
}

func TestMatrixMultiply(t *testing.T) {
	translate := svgpath.Matrix{A: 1, D: 1, E: 10, F: 20}
	scale := svgpath.Matrix{A: 2, D: 3}

	// translate ∘ scale: scale first in point space.
	m := translate.Multiply(scale)
	x, y := m.TransformPoint(1, 1)
	if !approx(x, 12) || !approx(y, 23) {
		t.Errorf("got (%g,%g), want (12,23)", x, y)
	}
}

func TestTransformPath(t *testing.T) {
	subPaths, err := svgpath.Parse("M1 1 C 2 2 3 3 4 4 Q 5 5 6 6 A 1 2 0 0 1 7 7")
	if err != nil {
		t.Fatalf("parsing failed: %s", err)
	}
	m := svgpath.Matrix{A: 1, D: 1, E: 100, F: 0}
	m.TransformPath(subPaths)

	sp := subPaths[0]
	if sp.X != 101 || sp.Y != 1 {
		t.Errorf("start = (%g,%g), want (101,1)", sp.X, sp.Y)
	}
	cubic := sp.DrawTo[0]
	if cubic.X1 != 102 || cubic.X2 != 103 || cubic.X != 104 {
		t.Errorf("cubic not transformed: %+v", cubic)
	}
	quad := sp.DrawTo[1]
	if quad.X1 != 105 || quad.X != 106 {
		t.Errorf("quad not transformed: %+v", quad)
	}
	arc := sp.DrawTo[2]
	if arc.X != 107 || arc.Rx != 1 || arc.Ry != 2 {
		t.Errorf("arc endpoint should transform, radii should not: %+v", arc)
	}
}
