package svgdoc_test

import (
	"errors"
	"testing"

	"penplot/pkg/svgdoc"

	"github.com/google/go-cmp/cmp"
)

func TestParseRejectsNonSVG(t *testing.T) {
	for _, data := range []string{
		"",
		"not xml at all",
		"<svg><unclosed></svg>",
		"<html><body/></html>",
	} {
		_, err := svgdoc.Parse([]byte(data))
		if !errors.Is(err, svgdoc.ErrNotSVG) {
			t.Errorf("Parse(%q) error = %v, want ErrNotSVG", data, err)
		}
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name    string
		svg     string
		width   float64
		height  float64
		wantErr bool
	}{
		{
			name:  "explicit attributes",
			svg:   `<svg width="100" height="50"></svg>`,
			width: 100, height: 50,
		},
		{
			name:  "point suffix stripped",
			svg:   `<svg width="100pt" height="50pt"></svg>`,
			width: 100, height: 50,
		},
		{
			name:  "pixel suffix stripped",
			svg:   `<svg width="100px" height="50px"></svg>`,
			width: 100, height: 50,
		},
		{
			name:  "viewBox fallback",
			svg:   `<svg viewBox="0 0 320 240"></svg>`,
			width: 320, height: 240,
		},
		{
			name:  "attributes win over viewBox",
			svg:   `<svg width="10" height="20" viewBox="0 0 320 240"></svg>`,
			width: 10, height: 20,
		},
		{
			name:    "missing everything",
			svg:     `<svg></svg>`,
			wantErr: true,
		},
		{
			name:    "zero width",
			svg:     `<svg width="0" height="50"></svg>`,
			wantErr: true,
		},
		{
			name:    "negative height",
			svg:     `<svg width="10" height="-50"></svg>`,
			wantErr: true,
		},
		{
			name:    "unparseable units",
			svg:     `<svg width="10cm" height="50cm"></svg>`,
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc, err := svgdoc.Parse([]byte(test.svg))
			if err != nil {
				t.Fatalf("Parse failed: %s", err)
			}
			w, h, err := doc.Dimensions()
			if test.wantErr {
				if !errors.Is(err, svgdoc.ErrDimensions) {
					t.Fatalf("Dimensions() error = %v, want ErrDimensions", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Dimensions() error: %s", err)
			}
			if w != test.width || h != test.height {
				t.Errorf("Dimensions() = %gx%g, want %gx%g", w, h, test.width, test.height)
			}
		})
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		w, h, bedX, bedY float64
		want             float64
	}{
		{100, 100, 200, 200, 1},    // already fits: never upscale
		{200, 200, 200, 200, 1},    // exact fit
		{400, 200, 200, 200, 0.5},  // limited by width
		{200, 800, 200, 200, 0.25}, // limited by height
		{50, 10, 200, 200, 1},      // small drawing stays 1:1
	}
	for _, test := range tests {
		got := svgdoc.FitScale(test.w, test.h, test.bedX, test.bedY)
		if got != test.want {
			t.Errorf("FitScale(%g, %g, %g, %g) = %g, want %g",
				test.w, test.h, test.bedX, test.bedY, got, test.want)
		}
	}
}

func TestShapes(t *testing.T) {
	svg := `<svg width="100" height="100">
		<rect x="10" y="10" width="80" height="80" transform="rotate(45)"/>
		<text x="0" y="0">decorative</text>
		<g>
			<line x1="0" y1="0" x2="5" y2="5"/>
		</g>
		<polygon points="0,0 10,0 10,10"/>
	</svg>`
	doc, err := svgdoc.Parse([]byte(svg))
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	expected := []svgdoc.Shape{
		{
			Kind:      "rect",
			PathData:  "M 10 10 L 90 10 L 90 90 L 10 90 Z",
			Transform: "rotate(45)",
		},
		{
			Kind:     "line",
			PathData: "M 0 0 L 5 5",
		},
		{
			Kind:     "polygon",
			PathData: "M 0 0 L 10 0 L 10 10 Z",
		},
	}
	if diff := cmp.Diff(expected, doc.Shapes()); diff != "" {
		t.Errorf("incorrect shapes: %s", diff)
	}
}

func TestShapeLowering(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "circle is two half arcs",
			svg:  `<svg width="1" height="1"><circle cx="50" cy="50" r="40"/></svg>`,
			want: "M 10 50 A 40 40 0 1 0 90 50 A 40 40 0 1 0 10 50 Z",
		},
		{
			name: "ellipse",
			svg:  `<svg width="1" height="1"><ellipse cx="0" cy="0" rx="20" ry="10"/></svg>`,
			want: "M -20 0 A 20 10 0 1 0 20 0 A 20 10 0 1 0 -20 0 Z",
		},
		{
			name: "polyline stays open",
			svg:  `<svg width="1" height="1"><polyline points="1 2 3 4 5 6"/></svg>`,
			want: "M 1 2 L 3 4 L 5 6",
		},
		{
			name: "path keeps its literal data",
			svg:  `<svg width="1" height="1"><path d="M0 0 C 1 2 3 4 5 6"/></svg>`,
			want: "M0 0 C 1 2 3 4 5 6",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc, err := svgdoc.Parse([]byte(test.svg))
			if err != nil {
				t.Fatalf("Parse failed: %s", err)
			}
			shapes := doc.Shapes()
			if len(shapes) != 1 {
				t.Fatalf("got %d shapes, want 1", len(shapes))
			}
			if shapes[0].PathData != test.want {
				t.Errorf("lowered path:\n got %q\nwant %q", shapes[0].PathData, test.want)
			}
		})
	}
}

func TestDegenerateShapesAreSkipped(t *testing.T) {
	svg := `<svg width="100" height="100">
		<rect x="1" y="1"/>
		<circle cx="5" cy="5"/>
		<ellipse cx="5" cy="5" rx="3"/>
		<polyline points="1 2 3"/>
		<path d=""/>
	</svg>`
	doc, err := svgdoc.Parse([]byte(svg))
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if shapes := doc.Shapes(); len(shapes) != 0 {
		t.Errorf("expected all degenerate shapes skipped, got %v", shapes)
	}
}
