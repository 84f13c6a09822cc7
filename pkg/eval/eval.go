// Package eval scores generated toolpaths against references: pointwise
// execution error, polyline smoothness, and image structural similarity.
package eval

import (
	"errors"
	"fmt"
	"math"

	"penplot/pkg/geometry"
)

// ErrNoPoints marks an evaluation request with nothing to measure.
var ErrNoPoints = errors.New("no points to evaluate")

// ExecutionError measures how far an executed toolpath landed from the
// planned one: the Euclidean distance at each index, plus the mean. The
// two paths must align point for point.
func ExecutionError(expected, actual []geometry.Point) (mean float64, perPoint []float64, err error) {
	if len(expected) != len(actual) {
		return 0, nil, fmt.Errorf("point count mismatch: expected %d, actual %d",
			len(expected), len(actual))
	}
	if len(expected) == 0 {
		return 0, nil, ErrNoPoints
	}

	perPoint = make([]float64, len(expected))
	total := 0.0
	for i := range expected {
		d := expected[i].Distance(actual[i])
		perPoint[i] = d
		total += d
	}
	return total / float64(len(expected)), perPoint, nil
}

// Smoothness scores a polyline on the variance of its turning angles,
// mapped to (0,1]: a straight or gently curving path scores near 1, a
// jittery one decays toward 0. Paths too short to turn are perfectly
// smooth by definition.
func Smoothness(points []geometry.Point) float64 {
	angles := turningAngles(points)
	if len(angles) == 0 {
		return 1
	}

	mean := 0.0
	for _, a := range angles {
		mean += a
	}
	mean /= float64(len(angles))

	variance := 0.0
	for _, a := range angles {
		variance += (a - mean) * (a - mean)
	}
	variance /= float64(len(angles))

	return 1 / (1 + variance)
}

// turningAngles returns the absolute direction change at each interior
// point, in radians. Zero-length segments contribute no angle.
func turningAngles(points []geometry.Point) []float64 {
	var angles []float64
	for i := 1; i+1 < len(points); i++ {
		a := points[i].Minus(points[i-1])
		b := points[i+1].Minus(points[i])
		if a.Magnitude() == 0 || b.Magnitude() == 0 {
			continue
		}
		angle := math.Atan2(b.Y, b.X) - math.Atan2(a.Y, a.X)
		for angle > math.Pi {
			angle -= 2 * math.Pi
		}
		for angle < -math.Pi {
			angle += 2 * math.Pi
		}
		angles = append(angles, math.Abs(angle))
	}
	return angles
}
