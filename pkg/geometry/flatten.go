package geometry

import (
	"math"

	"penplot/pkg/svgpath"
)

// Flatten converts parsed sub paths into one ordered point sequence, the
// pen trajectory for the whole shape. Moves and lines contribute their
// endpoints directly. Each curved segment (cubic, quadratic, elliptical
// arc) contributes exactly smoothness points, sampled at evenly spaced
// parameter values t = i/N for i = 1..N; the segment's start point is
// already in the sequence from the previous command, and the final sample
// lands exactly on the segment endpoint. Sampling is deterministic.
func Flatten(subPaths []*svgpath.SubPath, smoothness int) []Point {
	if smoothness < 1 {
		smoothness = 1
	}

	var points []Point
	for _, sp := range subPaths {
		cur := Point{X: sp.X, Y: sp.Y}
		points = append(points, cur)
		for _, drawTo := range sp.DrawTo {
			end := Point{X: drawTo.X, Y: drawTo.Y}
			switch drawTo.Command {
			case svgpath.LineTo, svgpath.ClosePath:
				points = append(points, end)
			case svgpath.CurveTo:
				c1 := Point{X: drawTo.X1, Y: drawTo.Y1}
				c2 := Point{X: drawTo.X2, Y: drawTo.Y2}
				for i := 1; i <= smoothness; i++ {
					t := float64(i) / float64(smoothness)
					points = append(points, cubicAt(cur, c1, c2, end, t))
				}
			case svgpath.QuadTo:
				c := Point{X: drawTo.X1, Y: drawTo.Y1}
				for i := 1; i <= smoothness; i++ {
					t := float64(i) / float64(smoothness)
					points = append(points, quadAt(cur, c, end, t))
				}
			case svgpath.ArcTo:
				points = appendArc(points, cur, drawTo, smoothness)
			}
			cur = end
		}
	}
	return points
}

// cubicAt evaluates a cubic Bézier with the Bernstein basis.
func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return Point{
		X: b0*p0.X + b1*p1.X + b2*p2.X + b3*p3.X,
		Y: b0*p0.Y + b1*p1.Y + b2*p2.Y + b3*p3.Y,
	}
}

// quadAt evaluates a quadratic Bézier with the Bernstein basis.
func quadAt(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	b0 := u * u
	b1 := 2 * u * t
	b2 := t * t
	return Point{
		X: b0*p0.X + b1*p1.X + b2*p2.X,
		Y: b0*p0.Y + b1*p1.Y + b2*p2.Y,
	}
}

// appendArc samples an elliptical arc segment by converting the SVG
// endpoint parameterization to center parameterization (SVG 2, appendix
// B.2.4) and walking the angle sweep at the same density used for Bézier
// segments. Zero radii degrade to a straight line, and out-of-range radii
// are scaled up just enough to span the endpoints, per the SVG
// out-of-range rules.
func appendArc(points []Point, start Point, d *svgpath.DrawTo, smoothness int) []Point {
	end := Point{X: d.X, Y: d.Y}
	rx, ry := math.Abs(d.Rx), math.Abs(d.Ry)
	if rx == 0 || ry == 0 || (start == end) {
		return append(points, end)
	}

	phi := d.Rotation * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	// Step 1: half the vector between endpoints, in the ellipse's frame.
	dx := (start.X - end.X) / 2
	dy := (start.Y - end.Y) / 2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	// Correct radii that cannot span the endpoints.
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		f := math.Sqrt(lambda)
		rx *= f
		ry *= f
	}

	// Step 2: center in the ellipse's frame.
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	if num < 0 {
		num = 0
	}
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	co := math.Sqrt(num / den)
	if d.LargeArc == d.Sweep {
		co = -co
	}
	cxp := co * rx * y1p / ry
	cyp := -co * ry * x1p / rx

	// Step 3: center in user space.
	cx := cosPhi*cxp - sinPhi*cyp + (start.X+end.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (start.Y+end.Y)/2

	// Step 4: start angle and sweep.
	ux := (x1p - cxp) / rx
	uy := (y1p - cyp) / ry
	vx := (-x1p - cxp) / rx
	vy := (-y1p - cyp) / ry
	theta1 := math.Atan2(uy, ux)
	delta := math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	if !d.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if d.Sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	for i := 1; i <= smoothness; i++ {
		if i == smoothness {
			// Land exactly on the endpoint rather than its trig approximation.
			points = append(points, end)
			break
		}
		theta := theta1 + delta*float64(i)/float64(smoothness)
		cosT, sinT := math.Cos(theta), math.Sin(theta)
		points = append(points, Point{
			X: cosPhi*rx*cosT - sinPhi*ry*sinT + cx,
			Y: sinPhi*rx*cosT + cosPhi*ry*sinT + cy,
		})
	}
	return points
}
