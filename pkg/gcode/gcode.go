// Package gcode turns an SVG document into a plain-text motion program.
// Convert is the whole pipeline: parse, scale, sample, transform, emit.
package gcode

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"penplot/pkg/geometry"
	"penplot/pkg/planner"
	"penplot/pkg/svgdoc"
	"penplot/pkg/svgpath"
)

// ErrEmptyProgram marks a conversion whose assembled program text came
// out blank. A document with zero supported shapes is not this error:
// it still carries the preamble and postamble.
var ErrEmptyProgram = errors.New("generated program is empty")

// Options is the full machine configuration for one conversion. It is
// plain data: Convert never mutates it, so one Options value can serve
// any number of concurrent conversions.
type Options struct {
	// Bed envelope in mm. Points outside [0,BedMaxX]x[0,BedMaxY] are
	// dropped individually.
	BedMaxX float64
	BedMaxY float64

	// Smoothness is the number of samples per curved segment.
	Smoothness int

	// Program framing, emitted verbatim.
	Preamble       []string
	Postamble      []string
	ShapePreamble  []string
	ShapePostamble []string

	// PenDown is emitted once per shape, right after its first
	// in-bounds positioning move.
	PenDown string

	// SimplifyTolerance, when positive, runs Douglas-Peucker over each
	// sampled stroke with this epsilon (in mm, bed space).
	SimplifyTolerance float64

	// OptimizeTravel reorders shapes to cut pen-up travel. Off by
	// default: the contract is document draw order.
	OptimizeTravel bool
}

// DefaultOptions returns the stock plotter profile: a 200x200 mm bed,
// 20 samples per curve, home before and after the job.
func DefaultOptions() Options {
	return Options{
		BedMaxX:        200,
		BedMaxY:        200,
		Smoothness:     20,
		Preamble:       []string{"G28", "G1 Z5.0"},
		Postamble:      []string{"G28"},
		ShapePreamble:  []string{"G4 P200"},
		ShapePostamble: []string{"G4 P200"},
		PenDown:        "M03",
	}
}

// Program is an append-only list of command lines.
type Program struct {
	lines []string
}

// Append adds command lines to the program.
func (p *Program) Append(lines ...string) {
	p.lines = append(p.lines, lines...)
}

// Len returns the number of command lines.
func (p *Program) Len() int {
	return len(p.lines)
}

// String renders the program as newline-separated text with a trailing
// newline. An empty program renders as the empty string.
func (p *Program) String() string {
	if len(p.lines) == 0 {
		return ""
	}
	return strings.Join(p.lines, "\n") + "\n"
}

// Convert compiles a complete SVG document into a motion program.
//
// Structural problems (unparseable document, unresolvable dimensions)
// abort with an error. Element-level problems degrade: malformed
// transforms fall back to identity, unsupported tags and unparseable
// path data are skipped, out-of-bounds points are dropped point by
// point. The same document and options always produce byte-identical
// output.
func Convert(data []byte, opts Options) (string, error) {
	doc, err := svgdoc.Parse(data)
	if err != nil {
		return "", err
	}
	width, height, err := doc.Dimensions()
	if err != nil {
		return "", err
	}
	scale := svgdoc.FitScale(width, height, opts.BedMaxX, opts.BedMaxY)

	strokes := sampleShapes(doc.Shapes(), scale, opts)
	if opts.OptimizeTravel {
		// The pen parks at the bed-space image of the document origin.
		home := geometry.Point{X: 0, Y: opts.BedMaxY}
		before := planner.Travel(strokes, home)
		strokes = planner.Order(strokes, home)
		slog.Debug("reordered strokes",
			"strokes", len(strokes),
			"travel_before", before,
			"travel_after", planner.Travel(strokes, home))
	}

	var program Program
	program.Append(opts.Preamble...)
	for _, stroke := range strokes {
		program.Append(opts.ShapePreamble...)
		penDown := false
		for _, p := range stroke.Points {
			if p.X < 0 || p.X > opts.BedMaxX || p.Y < 0 || p.Y > opts.BedMaxY {
				continue
			}
			program.Append(fmt.Sprintf("G0 X%.1f Y%.1f", p.X, p.Y))
			if !penDown {
				program.Append(opts.PenDown)
				penDown = true
			}
		}
		program.Append(opts.ShapePostamble...)
	}
	program.Append(opts.Postamble...)

	text := program.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyProgram
	}
	return text, nil
}

// sampleShapes lowers every supported shape to one bed-space stroke:
// parse the path data, sample it, apply the element transform, then
// scale and flip Y into machine coordinates.
func sampleShapes(shapes []svgdoc.Shape, scale float64, opts Options) []planner.Stroke {
	var strokes []planner.Stroke
	for _, shape := range shapes {
		subPaths, err := svgpath.Parse(shape.PathData)
		if err != nil {
			slog.Warn("skipping shape with unparseable path data",
				"shape", shape.Kind, "error", err)
			continue
		}
		matrix, err := svgpath.ParseTransform(shape.Transform)
		if err != nil {
			// Tolerated: the shape still draws, untransformed.
			slog.Warn("malformed transform, falling back to identity",
				"shape", shape.Kind, "error", err)
		}

		points := geometry.Flatten(subPaths, opts.Smoothness)
		identity := matrix.IsIdentity()
		for i, p := range points {
			x, y := p.X, p.Y
			if !identity {
				x, y = matrix.TransformPoint(x, y)
			}
			points[i] = geometry.Point{
				X: scale * x,
				Y: opts.BedMaxY - scale*y,
			}
		}
		if opts.SimplifyTolerance > 0 {
			points = geometry.Polyline(points).Simplify(opts.SimplifyTolerance)
		}
		strokes = append(strokes, planner.Stroke{Points: points})
	}
	return strokes
}
