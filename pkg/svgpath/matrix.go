package svgpath

import (
	"fmt"
	"math"
)

// Matrix is a 2x3 affine transform:
//
//	⎡ A C E ⎤
//	⎣ B D F ⎦
//
// mapping a point as x' = A*x + C*y + E, y' = B*x + D*y + F.
type Matrix struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, C: 0, E: 0,
		B: 0, D: 1, F: 0,
	}
}

// ParseTransform parses an SVG transform attribute into a single matrix.
// The operations compose left to right in declaration order. An empty
// attribute yields the identity matrix. A malformed attribute also yields
// the identity matrix, together with a non-nil error: callers are expected
// to log and carry on rather than fail the conversion. This is looser than
// strict SVG conformance and is intentional.
func ParseTransform(transform string) (Matrix, error) {
	m := Identity()

	if transform == "" {
		return m, nil
	}

	functions, err := ParseFunctions(transform)
	if err != nil {
		return Identity(), fmt.Errorf("transform %q: %w", transform, err)
	}

	for _, function := range functions {
		switch function.Name {
		case "matrix":
			if len(function.Args) != 6 {
				return Identity(), fmt.Errorf("matrix requires 6 args, got %v", function.Args)
			}
			m = m.Multiply(Matrix{
				A: function.Args[0], C: function.Args[2], E: function.Args[4],
				B: function.Args[1], D: function.Args[3], F: function.Args[5],
			})
		case "translate":
			if len(function.Args) != 1 && len(function.Args) != 2 {
				return Identity(), fmt.Errorf("translate requires 1 or 2 args, got %v", function.Args)
			}
			tx := function.Args[0]
			ty := 0.0
			if len(function.Args) == 2 {
				ty = function.Args[1]
			}
			m = m.Multiply(Matrix{
				A: 1, C: 0, E: tx,
				B: 0, D: 1, F: ty,
			})
		case "scale":
			if len(function.Args) != 1 && len(function.Args) != 2 {
				return Identity(), fmt.Errorf("scale requires 1 or 2 args, got %v", function.Args)
			}
			sx := function.Args[0]
			sy := sx
			if len(function.Args) == 2 {
				sy = function.Args[1]
			}
			m = m.Multiply(Matrix{
				A: sx, C: 0, E: 0,
				B: 0, D: sy, F: 0,
			})
		case "rotate":
			//  ⎡ cos(θ)  −sin(θ)  −x⋅cos(θ)+y⋅sin(θ)+x ⎤
			//  ⎣ sin(θ)   cos(θ)  −x⋅sin(θ)−y⋅cos(θ)+y ⎦
			if len(function.Args) != 1 && len(function.Args) != 3 {
				return Identity(), fmt.Errorf("rotate requires 1 or 3 args, got %v", function.Args)
			}
			cos := math.Cos(function.Args[0] * math.Pi / 180)
			sin := math.Sin(function.Args[0] * math.Pi / 180)
			x, y := 0.0, 0.0
			if len(function.Args) == 3 {
				x, y = function.Args[1], function.Args[2]
			}
			m = m.Multiply(Matrix{
				A: cos, C: -sin, E: -x*cos + y*sin + x,
				B: sin, D: cos, F: -x*sin - y*cos + y,
			})
		case "skewX":
			if len(function.Args) != 1 {
				return Identity(), fmt.Errorf("skewX requires 1 arg, got %v", function.Args)
			}
			m = m.Multiply(Matrix{
				A: 1, C: math.Tan(function.Args[0] * math.Pi / 180), E: 0,
				B: 0, D: 1, F: 0,
			})
		case "skewY":
			if len(function.Args) != 1 {
				return Identity(), fmt.Errorf("skewY requires 1 arg, got %v", function.Args)
			}
			m = m.Multiply(Matrix{
				A: 1, C: 0, E: 0,
				B: math.Tan(function.Args[0] * math.Pi / 180), D: 1, F: 0,
			})
		default:
			return Identity(), fmt.Errorf("unknown transform function %q", function.Name)
		}
	}

	return m, nil
}

func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.C*other.B,
		B: m.B*other.A + m.D*other.B,
		C: m.A*other.C + m.C*other.D,
		D: m.B*other.C + m.D*other.D,
		E: m.A*other.E + m.C*other.F + m.E,
		F: m.B*other.E + m.D*other.F + m.F,
	}
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

func (m Matrix) transformX(x, y float64) float64 {
	return m.A*x + m.C*y + m.E
}

func (m Matrix) transformY(x, y float64) float64 {
	return m.B*x + m.D*y + m.F
}

func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.transformX(x, y), m.transformY(x, y)
}

// TransformPath applies the matrix to every point of the given sub paths
// in place, control points included.
func (m Matrix) TransformPath(path []*SubPath) {
	for _, group := range path {
		group.X, group.Y = m.TransformPoint(group.X, group.Y)
		for _, drawTo := range group.DrawTo {
			drawTo.X, drawTo.Y = m.TransformPoint(drawTo.X, drawTo.Y)
			switch drawTo.Command {
			case CurveTo:
				drawTo.X1, drawTo.Y1 = m.TransformPoint(drawTo.X1, drawTo.Y1)
				drawTo.X2, drawTo.Y2 = m.TransformPoint(drawTo.X2, drawTo.Y2)
			case QuadTo:
				drawTo.X1, drawTo.Y1 = m.TransformPoint(drawTo.X1, drawTo.Y1)
			}
		}
	}
}
