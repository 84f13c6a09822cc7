package planner

import (
	"sort"

	"penplot/pkg/geometry"

	"github.com/asim/quadtree"
)

var zeroPoint = quadtree.NewPoint(0, 0, nil)

// strokeTree indexes stroke endpoints in a quadtree so the next nearest
// stroke can be found without scanning the whole set.
type strokeTree struct {
	quadTree *quadtree.QuadTree
	width    float64
	height   float64
}

func newStrokeTree(minX, minY, maxX, maxY float64) *strokeTree {
	midX := (maxX + minX) / 2
	midY := (maxY + minY) / 2
	halfWidth := maxX - midX
	halfHeight := maxY - midY

	// Add a small margin to avoid dropping endpoints at the edges
	halfWidth += 10
	halfHeight += 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	return &strokeTree{
		quadTree: quadtree.New(aabb, 0, nil),
		width:    halfWidth * 2,
		height:   halfHeight * 2,
	}
}

func (t *strokeTree) add(s *Stroke) {
	addOne := func(p geometry.Point) {
		point := quadtree.NewPoint(p.X, p.Y, nil)
		points := t.quadTree.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
		if len(points) > 0 {
			pointX, pointY := points[0].Coordinates()
			if pointX == p.X && pointY == p.Y {
				// Endpoint already indexed; share the entry
				strokes := points[0].Data().(map[*Stroke]struct{})
				strokes[s] = struct{}{}
				return
			}
		}
		strokes := map[*Stroke]struct{}{s: {}}
		t.quadTree.Insert(quadtree.NewPoint(p.X, p.Y, strokes))
	}

	addOne(s.Start())
	addOne(s.End())
}

func (t *strokeTree) remove(s *Stroke) {
	removeOne := func(p geometry.Point) {
		point := quadtree.NewPoint(p.X, p.Y, nil)
		points := t.quadTree.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
		if len(points) > 0 {
			pointX, pointY := points[0].Coordinates()
			if pointX == p.X && pointY == p.Y {
				strokes := points[0].Data().(map[*Stroke]struct{})
				delete(strokes, s)
				if len(strokes) == 0 {
					t.quadTree.Remove(points[0])
				}
			}
		}
	}
	removeOne(s.Start())
	removeOne(s.End())
}

// findNearest returns the stroke with the endpoint closest to p, or nil
// when the tree is empty.
func (t *strokeTree) findNearest(p geometry.Point) *Stroke {
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(p.X, p.Y, nil),
		quadtree.NewPoint(t.width, t.height, nil),
	)
	points := t.quadTree.KNearest(aabb, 50, nil)

	var nearest []*Stroke
	for _, point := range points {
		strokes := point.Data().(map[*Stroke]struct{})
		for s := range strokes {
			nearest = append(nearest, s)
		}
	}
	if len(nearest) == 0 {
		return nil
	}

	endpointDist := func(s *Stroke) float64 {
		d := p.Distance(s.Start())
		if e := p.Distance(s.End()); e < d {
			d = e
		}
		return d
	}
	sort.Slice(nearest, func(i, j int) bool {
		return endpointDist(nearest[i]) < endpointDist(nearest[j])
	})
	return nearest[0]
}
