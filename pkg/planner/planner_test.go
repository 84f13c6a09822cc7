package planner

import (
	"testing"

	"penplot/pkg/geometry"

	"github.com/google/go-cmp/cmp"
)

func stroke(points ...geometry.Point) Stroke {
	return Stroke{Points: points}
}

func TestOrderPicksNearestFirst(t *testing.T) {
	strokes := []Stroke{
		stroke(geometry.Point{X: 100, Y: 100}, geometry.Point{X: 110, Y: 100}),
		stroke(geometry.Point{X: 1, Y: 1}, geometry.Point{X: 10, Y: 1}),
		stroke(geometry.Point{X: 50, Y: 50}, geometry.Point{X: 60, Y: 50}),
	}
	sorted := Order(strokes, geometry.Point{X: 0, Y: 0})
	expected := []Stroke{
		stroke(geometry.Point{X: 1, Y: 1}, geometry.Point{X: 10, Y: 1}),
		stroke(geometry.Point{X: 50, Y: 50}, geometry.Point{X: 60, Y: 50}),
		stroke(geometry.Point{X: 100, Y: 100}, geometry.Point{X: 110, Y: 100}),
	}
	if diff := cmp.Diff(expected, sorted); diff != "" {
		t.Errorf("incorrect order: %s", diff)
	}
}

func TestOrderReversesWhenEndIsCloser(t *testing.T) {
	strokes := []Stroke{
		stroke(geometry.Point{X: 100, Y: 0}, geometry.Point{X: 1, Y: 0}),
	}
	sorted := Order(strokes, geometry.Point{X: 0, Y: 0})
	if len(sorted) != 1 {
		t.Fatalf("got %d strokes, want 1", len(sorted))
	}
	if sorted[0].Start() != (geometry.Point{X: 1, Y: 0}) {
		t.Errorf("stroke not reversed: starts at %v", sorted[0].Start())
	}
}

func TestOrderNeverIncreasesTravel(t *testing.T) {
	start := geometry.Point{X: 0, Y: 200}
	strokes := []Stroke{
		stroke(geometry.Point{X: 180, Y: 20}, geometry.Point{X: 190, Y: 20}),
		stroke(geometry.Point{X: 5, Y: 190}, geometry.Point{X: 20, Y: 190}),
		stroke(geometry.Point{X: 100, Y: 100}, geometry.Point{X: 120, Y: 110}),
		stroke(geometry.Point{X: 25, Y: 180}, geometry.Point{X: 40, Y: 170}),
		stroke(geometry.Point{X: 130, Y: 90}, geometry.Point{X: 150, Y: 80}),
	}
	before := Travel(strokes, start)
	after := Travel(Order(strokes, start), start)
	if after > before {
		t.Errorf("ordering increased travel: %g > %g", after, before)
	}
}

func TestOrderKeepsEveryStroke(t *testing.T) {
	strokes := []Stroke{
		stroke(geometry.Point{X: 1, Y: 1}, geometry.Point{X: 2, Y: 2}),
		stroke(geometry.Point{X: 1, Y: 1}, geometry.Point{X: 3, Y: 3}), // shares an endpoint
		stroke(geometry.Point{X: 9, Y: 9}, geometry.Point{X: 8, Y: 8}),
		{}, // empty strokes are dropped, not drawn
	}
	sorted := Order(strokes, geometry.Point{})
	if len(sorted) != 3 {
		t.Fatalf("got %d strokes, want 3", len(sorted))
	}
}

func TestOrderEmpty(t *testing.T) {
	if got := Order(nil, geometry.Point{}); got != nil {
		t.Errorf("Order(nil) = %v, want nil", got)
	}
}

func TestReverse(t *testing.T) {
	s := stroke(geometry.Point{X: 1, Y: 2}, geometry.Point{X: 3, Y: 4}, geometry.Point{X: 5, Y: 6})
	r := s.Reverse()
	expected := stroke(geometry.Point{X: 5, Y: 6}, geometry.Point{X: 3, Y: 4}, geometry.Point{X: 1, Y: 2})
	if diff := cmp.Diff(expected, r); diff != "" {
		t.Errorf("incorrect reversal: %s", diff)
	}
	// original untouched
	if s.Start() != (geometry.Point{X: 1, Y: 2}) {
		t.Errorf("Reverse modified the original stroke")
	}
}
