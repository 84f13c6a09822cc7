package svgdoc

import (
	"strconv"
	"strings"
)

// Shape is one drawable primitive, already lowered to the path grammar.
// Kind keeps the source tag for logging. Transform is the element's own
// raw transform attribute; group transforms are not inherited (per-shape
// transforms only — nested inheritance is a known gap, not an oversight).
type Shape struct {
	Kind      string
	PathData  string
	Transform string
}

// Shapes walks the document tree depth first, in document order, and
// returns every supported shape lowered to path data. Unsupported
// elements are skipped silently; containers like g and defs are descended
// into so shapes inside them still draw. The returned order is the order
// the machine will draw in.
func (n *Node) Shapes() []Shape {
	var shapes []Shape
	for _, child := range n.Children {
		child.collectShapes(&shapes)
	}
	return shapes
}

func (n *Node) collectShapes(shapes *[]Shape) {
	if d, ok := n.pathData(); ok && d != "" {
		*shapes = append(*shapes, Shape{
			Kind:      n.XMLName.Local,
			PathData:  d,
			Transform: n.Transform,
		})
	}
	for _, child := range n.Children {
		child.collectShapes(shapes)
	}
}

// pathData lowers the element to the path grammar. The second return is
// false for unsupported tags. A supported tag with missing or degenerate
// required attributes lowers to "", which the caller drops — a skipped
// shape, not an error.
func (n *Node) pathData() (string, bool) {
	switch n.XMLName.Local {
	case "path":
		return n.D, true
	case "rect":
		return n.rectPath(), true
	case "circle":
		return n.circlePath(), true
	case "ellipse":
		return n.ellipsePath(), true
	case "line":
		return n.linePath(), true
	case "polyline":
		return n.polyPath(false), true
	case "polygon":
		return n.polyPath(true), true
	}
	return "", false
}

func (n *Node) rectPath() string {
	w := ParseNumber(n.Width)
	h := ParseNumber(n.Height)
	if w <= 0 || h <= 0 {
		return ""
	}
	x := ParseNumber(n.X)
	y := ParseNumber(n.Y)
	return "M " + FormatNumber(x) + " " + FormatNumber(y) +
		" L " + FormatNumber(x+w) + " " + FormatNumber(y) +
		" L " + FormatNumber(x+w) + " " + FormatNumber(y+h) +
		" L " + FormatNumber(x) + " " + FormatNumber(y+h) +
		" Z"
}

// circlePath lowers a circle to two 180 degree arcs.
func (n *Node) circlePath() string {
	r := ParseNumber(n.R)
	if r <= 0 {
		return ""
	}
	cx := ParseNumber(n.CX)
	cy := ParseNumber(n.CY)
	return arcPairPath(cx, cy, r, r)
}

func (n *Node) ellipsePath() string {
	rx := ParseNumber(n.RX)
	ry := ParseNumber(n.RY)
	if rx <= 0 || ry <= 0 {
		return ""
	}
	cx := ParseNumber(n.CX)
	cy := ParseNumber(n.CY)
	return arcPairPath(cx, cy, rx, ry)
}

func arcPairPath(cx, cy, rx, ry float64) string {
	left := FormatNumber(cx-rx) + " " + FormatNumber(cy)
	right := FormatNumber(cx+rx) + " " + FormatNumber(cy)
	radii := FormatNumber(rx) + " " + FormatNumber(ry)
	return "M " + left +
		" A " + radii + " 0 1 0 " + right +
		" A " + radii + " 0 1 0 " + left +
		" Z"
}

func (n *Node) linePath() string {
	return "M " + FormatNumber(ParseNumber(n.X1)) + " " + FormatNumber(ParseNumber(n.Y1)) +
		" L " + FormatNumber(ParseNumber(n.X2)) + " " + FormatNumber(ParseNumber(n.Y2))
}

func (n *Node) polyPath(closed bool) string {
	coords, err := parsePointsList(n.Points)
	if err != nil || len(coords) < 4 {
		return ""
	}

	var b strings.Builder
	b.WriteString("M " + FormatNumber(coords[0]) + " " + FormatNumber(coords[1]))
	for i := 2; i+1 < len(coords); i += 2 {
		b.WriteString(" L " + FormatNumber(coords[i]) + " " + FormatNumber(coords[i+1]))
	}
	if closed {
		b.WriteString(" Z")
	}
	return b.String()
}

// parsePointsList parses a polyline/polygon points attribute: coordinates
// separated by commas and/or whitespace, in pairs.
func parsePointsList(s string) ([]float64, error) {
	s = strings.ReplaceAll(s, ",", " ")
	fields := strings.Fields(s)
	if len(fields)%2 != 0 {
		return nil, strconv.ErrSyntax
	}
	coords := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		coords = append(coords, v)
	}
	return coords, nil
}
