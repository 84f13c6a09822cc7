// Package planner reorders strokes to cut pen-up travel. Ordering is
// opt-in: the default contract is document order, and callers only ask
// for this when travel time matters more than draw order.
package planner

import (
	"penplot/pkg/geometry"
)

// Stroke is one continuous pen-down polyline in bed coordinates.
type Stroke struct {
	Points []geometry.Point
}

// Start returns the first point of the stroke.
func (s Stroke) Start() geometry.Point {
	return s.Points[0]
}

// End returns the last point of the stroke.
func (s Stroke) End() geometry.Point {
	return s.Points[len(s.Points)-1]
}

// Reverse returns the stroke drawn back to front. The original is not
// modified.
func (s Stroke) Reverse() Stroke {
	points := make([]geometry.Point, len(s.Points))
	for i, p := range s.Points {
		points[len(points)-1-i] = p
	}
	return Stroke{Points: points}
}

// Order arranges strokes greedily by nearest endpoint, starting the
// search from start. A stroke whose end is closer than its start is
// reversed so the pen enters at the near side. Empty strokes are
// dropped. The relative geometry of each stroke is untouched.
func Order(strokes []Stroke, start geometry.Point) []Stroke {
	live := make([]Stroke, 0, len(strokes))
	minX, minY := start.X, start.Y
	maxX, maxY := start.X, start.Y
	for _, s := range strokes {
		if len(s.Points) == 0 {
			continue
		}
		live = append(live, s)
		for _, p := range []geometry.Point{s.Start(), s.End()} {
			minX = min(minX, p.X)
			minY = min(minY, p.Y)
			maxX = max(maxX, p.X)
			maxY = max(maxY, p.Y)
		}
	}
	if len(live) == 0 {
		return nil
	}

	tree := newStrokeTree(minX, minY, maxX, maxY)
	for i := range live {
		tree.add(&live[i])
	}

	sorted := make([]Stroke, 0, len(live))
	at := start
	for {
		nearest := tree.findNearest(at)
		if nearest == nil {
			break
		}
		tree.remove(nearest)
		next := *nearest
		if at.Distance(next.End()) < at.Distance(next.Start()) {
			next = next.Reverse()
		}
		sorted = append(sorted, next)
		at = next.End()
	}
	return sorted
}

// Travel sums the pen-up distance of an ordering, measured from start
// to the first stroke and between consecutive strokes.
func Travel(strokes []Stroke, start geometry.Point) float64 {
	total := 0.0
	at := start
	for _, s := range strokes {
		if len(s.Points) == 0 {
			continue
		}
		total += at.Distance(s.Start())
		at = s.End()
	}
	return total
}
