// Package svgdoc parses SVG documents into a node tree and dispatches the
// supported shape elements to the path grammar the sampler understands.
package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotSVG marks input that is not a parseable SVG document.
	ErrNotSVG = errors.New("not an SVG document")
	// ErrDimensions marks a document whose width/height cannot be resolved
	// from explicit attributes or a viewBox, or resolve non-positive.
	ErrDimensions = errors.New("unable to resolve document dimensions")
)

// Node is one element of the parsed document tree. A single struct serves
// every element kind; which attributes are meaningful depends on the tag.
// The root node doubles as the Document: its Width/Height/ViewBox drive
// scaling, while the same fields on a rect carry that shape's geometry.
type Node struct {
	XMLName   xml.Name
	Width     string `xml:"width,attr"`
	Height    string `xml:"height,attr"`
	ViewBox   string `xml:"viewBox,attr"`
	Transform string `xml:"transform,attr"`

	// path
	D string `xml:"d,attr"`

	// rect
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`

	// circle / ellipse
	CX string `xml:"cx,attr"`
	CY string `xml:"cy,attr"`
	R  string `xml:"r,attr"`
	RX string `xml:"rx,attr"`
	RY string `xml:"ry,attr"`

	// line
	X1 string `xml:"x1,attr"`
	Y1 string `xml:"y1,attr"`
	X2 string `xml:"x2,attr"`
	Y2 string `xml:"y2,attr"`

	// polyline / polygon
	Points string `xml:"points,attr"`

	Children []*Node `xml:",any"`
}

// Parse parses a complete SVG document. Anything that is not well formed
// XML with an svg root element fails with ErrNotSVG.
func Parse(data []byte) (*Node, error) {
	var root Node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotSVG, err)
	}
	if root.XMLName.Local != "svg" {
		return nil, fmt.Errorf("%w: root element is <%s>", ErrNotSVG, root.XMLName.Local)
	}
	return &root, nil
}

// Dimensions resolves the document's declared width and height. Explicit
// attributes win; a viewBox supplies whichever is missing. Point and pixel
// unit suffixes are stripped before parsing. Both values must resolve
// positive or the conversion cannot be sized.
func (n *Node) Dimensions() (width, height float64, err error) {
	ws, hs := n.Width, n.Height
	if ws == "" || hs == "" {
		fields := strings.Fields(n.ViewBox)
		if len(fields) == 4 {
			ws, hs = fields[2], fields[3]
		}
	}
	if ws == "" || hs == "" {
		return 0, 0, fmt.Errorf("%w: no width/height attributes or viewBox", ErrDimensions)
	}

	width, werr := parseLength(ws)
	height, herr := parseLength(hs)
	if werr != nil || herr != nil {
		return 0, 0, fmt.Errorf("%w: width %q, height %q", ErrDimensions, ws, hs)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: non-positive %gx%g", ErrDimensions, width, height)
	}
	return width, height, nil
}

// parseLength parses a dimension attribute, stripping the pt/px unit
// suffixes the generators we care about emit.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "pt")
	s = strings.TrimSuffix(s, "px")
	return strconv.ParseFloat(s, 64)
}

// FitScale computes the uniform factor that fits a width x height drawing
// into the bed envelope. The drawing is only ever shrunk: a document
// smaller than the bed keeps its native 1:1 size.
func FitScale(width, height, bedMaxX, bedMaxY float64) float64 {
	scale := bedMaxX / width
	if s := bedMaxY / height; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	return scale
}

// ParseNumber parses an attribute value as a float, yielding 0 for the
// empty or unparseable case.
func ParseNumber(n string) float64 {
	val, _ := strconv.ParseFloat(strings.TrimSpace(n), 64)
	return val
}

// FormatNumber formats a float the shortest way that round trips.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
