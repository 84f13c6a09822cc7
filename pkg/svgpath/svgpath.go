package svgpath

import (
	"fmt"
	"strconv"
	"strings"
)

// svg-path:
//     wsp* moveto-drawto-command-groups? wsp*
// moveto-drawto-command-groups:
//     moveto-drawto-command-group
//     | moveto-drawto-command-group wsp* moveto-drawto-command-groups
// moveto-drawto-command-group:
//     moveto wsp* drawto-commands?
// drawto-commands:
//     drawto-command
//     | drawto-command wsp* drawto-commands
// drawto-command:
//     closepath
//     | lineto
//     | horizontal-lineto
//     | vertical-lineto
//     | curveto
//     | smooth-curveto
//     | quadratic-bezier-curveto
//     | smooth-quadratic-bezier-curveto
//     | elliptical-arc
// moveto:
//     ( "M" | "m" ) wsp* moveto-argument-sequence
// closepath:
//     ("Z" | "z")
// lineto:
//     ( "L" | "l" ) wsp* lineto-argument-sequence
// horizontal-lineto:
//     ( "H" | "h" ) wsp* coordinate-sequence
// vertical-lineto:
//     ( "V" | "v" ) wsp* coordinate-sequence
// curveto:
//     ( "C" | "c" ) wsp* (coordinate-pair{3})+
// smooth-curveto:
//     ( "S" | "s" ) wsp* (coordinate-pair{2})+
// quadratic-bezier-curveto:
//     ( "Q" | "q" ) wsp* (coordinate-pair{2})+
// smooth-quadratic-bezier-curveto:
//     ( "T" | "t" ) wsp* coordinate-pair+
// elliptical-arc:
//     ( "A" | "a" ) wsp* elliptical-arc-argument+
// elliptical-arc-argument:
//     nonnegative-number comma-wsp? nonnegative-number comma-wsp?
//         number comma-wsp flag comma-wsp? flag comma-wsp? coordinate-pair
// coordinate-pair:
//     coordinate comma-wsp? coordinate
// number:
//     sign? integer-constant
//     | sign? floating-point-constant
// flag:
//     "0" | "1"
// comma-wsp:
//     (wsp+ comma? wsp*) | (comma wsp*)

type state struct {
	data     string
	index    int
	subPaths []*SubPath
	group    *SubPath
	currentX float64
	currentY float64
	relative bool

	// Previous control point, for the S/s and T/t reflection rules.
	// Only valid when the preceding command was of the matching family.
	lastCubicX, lastCubicY float64
	lastQuadX, lastQuadY   float64
	lastCmd                byte
}

// SubPath is one pen stroke: a start point followed by draw commands.
type SubPath struct {
	X, Y   float64
	DrawTo []*DrawTo
}

type Command string

const (
	ClosePath Command = "Z"
	LineTo    Command = "L"
	CurveTo   Command = "C"
	QuadTo    Command = "Q"
	ArcTo     Command = "A"
)

// DrawTo is a single draw command ending at (X, Y). CurveTo uses both
// control points, QuadTo only (X1, Y1). ArcTo carries the elliptical arc
// parameters instead. Shorthand commands (S/s, T/t) are resolved during
// parsing, so consumers never see them.
type DrawTo struct {
	Command Command
	X, Y    float64
	X1, Y1  float64
	X2, Y2  float64

	Rx, Ry   float64
	Rotation float64
	LargeArc bool
	Sweep    bool
}

func (s *state) parse() error {
	for {
		s.whitespace()

		c := s.peek()
		if c != 'M' && c != 'm' {
			break
		}

		err := s.parseMoveTo()
		if err != nil {
			return err
		}
		s.whitespace()
		err = s.parseDrawToCommands()
		if err != nil {
			return err
		}
	}

	s.whitespace()

	if s.index != len(s.data) {
		return fmt.Errorf("unparsed data: %q", s.data[s.index:])
	}

	return nil
}

// parseMoveTo parses one move to command
func (s *state) parseMoveTo() error {
	command := s.next()
	if command != 'M' && command != 'm' {
		return fmt.Errorf("expected \"M\" or \"m\", got %q", string(command))
	}
	s.relative = command == 'm'
	s.lastCmd = 'M'
	s.whitespace()

	x, y, err := s.parseCoordinatePair()
	if err != nil {
		return err
	}
	if s.relative {
		x += s.currentX
		y += s.currentY
	}
	s.currentX = x
	s.currentY = y

	// A move always starts a new sub path.
	s.group = nil
	s.ensureSubPath()

	// The Move To can be followed directly by more coordinate pairs as
	// implicit Line To sequences.
	for {
		savedIndex := s.index
		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			// backtrack.
			s.index = savedIndex
			break
		}
		if s.relative {
			x += s.currentX
			y += s.currentY
		}
		s.currentX = x
		s.currentY = y
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: x, Y: y})
	}

	return nil
}

// ensureSubPath starts a new sub path if there isn't already one.
func (s *state) ensureSubPath() {
	if s.group == nil {
		s.group = &SubPath{X: s.currentX, Y: s.currentY}
		s.subPaths = append(s.subPaths, s.group)
	}
}

// parseCoordinatePair parses "coordinate comma-wsp? coordinate"
func (s *state) parseCoordinatePair() (float64, float64, error) {
	x, err := s.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	s.commaWhitespace()
	y, err := s.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// parseNumber parses a number
func (s *state) parseNumber() (float64, error) {
	c := s.peek()
	if c == '+' || c == '-' {
		s.next()
		n, err := s.parseNonNegativeNumber()
		if c == '-' {
			n = -n
		}
		return n, err
	}
	return s.parseNonNegativeNumber()
}

func (s *state) parseNonNegativeNumber() (float64, error) {
	// nonnegative-number:
	//     (digit-sequence | fractional-constant) exponent?
	number := s.digitSequence()
	if number == "" {
		// Possible fractional constant starting with a decimal point
		c := s.next()
		if c != '.' {
			return 0, fmt.Errorf("expected a number, got %q", string(c))
		}
		number = "." + s.digitSequence()
		if number == "." {
			return 0, fmt.Errorf("expected a number, got only a \".\"")
		}
	} else {
		// Check for possible fractional constant
		c := s.peek()
		if c == '.' {
			s.next()
			number += "." + s.digitSequence()
		}
	}

	// Check for possible exponent
	c := s.peek()
	if c == 'E' || c == 'e' {
		s.next()
		sign := ""
		c = s.peek()
		if c == '+' || c == '-' {
			s.next()
			sign = string(c)
		}
		exponent := s.digitSequence()
		if exponent == "" {
			return 0, fmt.Errorf("expected an exponent, got %q", string(c))
		}
		number += "E" + sign + exponent
	}

	n, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// parseFlag parses an elliptical arc flag, a bare "0" or "1".
func (s *state) parseFlag() (bool, error) {
	c := s.next()
	switch c {
	case '0':
		return false, nil
	case '1':
		return true, nil
	}
	return false, fmt.Errorf("expected arc flag \"0\" or \"1\", got %q", string(c))
}

func (s *state) digitSequence() string {
	var sequence []byte
	for {
		c := s.peek()
		if '0' <= c && c <= '9' {
			sequence = append(sequence, c)
			s.next()
		} else {
			break
		}
	}
	return string(sequence)
}

// parseDrawToCommands parses 0 or more Draw To commands.
func (s *state) parseDrawToCommands() error {
	first := true
	for {
		if !first {
			s.whitespace()
		}
		first = false

		var err error

		c := s.peek()
		switch c {
		case 'L', 'l':
			err = s.parseLineTo()
		case 'H', 'h':
			err = s.parseHorizontalLineTo()
		case 'V', 'v':
			err = s.parseVerticalLineTo()
		case 'C', 'c':
			err = s.parseCurveTo()
		case 'S', 's':
			err = s.parseSmoothCurveTo()
		case 'Q', 'q':
			err = s.parseQuadTo()
		case 'T', 't':
			err = s.parseSmoothQuadTo()
		case 'A', 'a':
			err = s.parseArcTo()
		case 'Z', 'z':
			err = s.parseClosePath()
		default:
			return nil
		}

		if err != nil {
			return err
		}
	}
}

func (s *state) parseClosePath() error {
	c := s.next()
	if c != 'Z' && c != 'z' {
		return fmt.Errorf("expecting \"Z\" or \"z\", got %q", string(c))
	}
	s.ensureSubPath()
	s.group.DrawTo = append(s.group.DrawTo,
		&DrawTo{Command: ClosePath, X: s.group.X, Y: s.group.Y})
	s.currentX = s.group.X
	s.currentY = s.group.Y
	s.group = nil
	s.lastCmd = 'Z'
	return nil
}

func (s *state) parseLineTo() error {
	c := s.next()
	if c != 'L' && c != 'l' {
		return fmt.Errorf("expecting \"L\" or \"l\", got %q", string(c))
	}
	s.relative = c == 'l'
	s.lastCmd = 'L'

	s.whitespace()

	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		x, y, err := s.parseCoordinatePair()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		if s.relative {
			x += s.currentX
			y += s.currentY
		}
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: x, Y: y})
		s.currentX = x
		s.currentY = y

		first = false
	}
}

func (s *state) parseHorizontalLineTo() error {
	c := s.next()
	if c != 'H' && c != 'h' {
		return fmt.Errorf("expecting \"H\" or \"h\", got %q", string(c))
	}
	s.relative = c == 'h'
	s.lastCmd = 'H'

	s.whitespace()

	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		x, err := s.parseNumber()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		if s.relative {
			x += s.currentX
		}
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: x, Y: s.currentY})
		s.currentX = x

		first = false
	}
}

func (s *state) parseVerticalLineTo() error {
	c := s.next()
	if c != 'V' && c != 'v' {
		return fmt.Errorf("expecting \"V\" or \"v\", got %q", string(c))
	}
	s.relative = c == 'v'
	s.lastCmd = 'V'

	s.whitespace()

	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		y, err := s.parseNumber()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		if s.relative {
			y += s.currentY
		}
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: s.currentX, Y: y})
		s.currentY = y

		first = false
	}
}

func (s *state) parseCurveTo() error {
	c := s.next()
	if c != 'C' && c != 'c' {
		return fmt.Errorf("expecting \"C\" or \"c\", got %q", string(c))
	}
	s.relative = c == 'c'

	s.whitespace()

	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		x1, y1, err := s.parseCoordinatePair()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		s.commaWhitespace()
		x2, y2, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}

		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}

		if s.relative {
			x1 += s.currentX
			y1 += s.currentY
			x2 += s.currentX
			y2 += s.currentY
			x += s.currentX
			y += s.currentY
		}
		s.appendCubic(x1, y1, x2, y2, x, y)

		first = false
	}
}

func (s *state) parseSmoothCurveTo() error {
	c := s.next()
	if c != 'S' && c != 's' {
		return fmt.Errorf("expecting \"S\" or \"s\", got %q", string(c))
	}
	s.relative = c == 's'

	s.whitespace()

	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		x2, y2, err := s.parseCoordinatePair()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}

		if s.relative {
			x2 += s.currentX
			y2 += s.currentY
			x += s.currentX
			y += s.currentY
		}

		// First control point is the reflection of the previous cubic's
		// second control point about the current point; the current point
		// itself when the previous command was not a cubic.
		x1, y1 := s.currentX, s.currentY
		if s.lastCmd == 'C' {
			x1 = 2*s.currentX - s.lastCubicX
			y1 = 2*s.currentY - s.lastCubicY
		}
		s.appendCubic(x1, y1, x2, y2, x, y)

		first = false
	}
}

func (s *state) appendCubic(x1, y1, x2, y2, x, y float64) {
	s.group.DrawTo = append(s.group.DrawTo,
		&DrawTo{Command: CurveTo, X: x, Y: y, X1: x1, Y1: y1, X2: x2, Y2: y2})
	s.currentX = x
	s.currentY = y
	s.lastCubicX = x2
	s.lastCubicY = y2
	s.lastCmd = 'C'
}

func (s *state) parseQuadTo() error {
	c := s.next()
	if c != 'Q' && c != 'q' {
		return fmt.Errorf("expecting \"Q\" or \"q\", got %q", string(c))
	}
	s.relative = c == 'q'

	s.whitespace()

	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		x1, y1, err := s.parseCoordinatePair()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}

		if s.relative {
			x1 += s.currentX
			y1 += s.currentY
			x += s.currentX
			y += s.currentY
		}
		s.appendQuad(x1, y1, x, y)

		first = false
	}
}

func (s *state) parseSmoothQuadTo() error {
	c := s.next()
	if c != 'T' && c != 't' {
		return fmt.Errorf("expecting \"T\" or \"t\", got %q", string(c))
	}
	s.relative = c == 't'

	s.whitespace()

	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		x, y, err := s.parseCoordinatePair()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		if s.relative {
			x += s.currentX
			y += s.currentY
		}

		x1, y1 := s.currentX, s.currentY
		if s.lastCmd == 'Q' {
			x1 = 2*s.currentX - s.lastQuadX
			y1 = 2*s.currentY - s.lastQuadY
		}
		s.appendQuad(x1, y1, x, y)

		first = false
	}
}

func (s *state) appendQuad(x1, y1, x, y float64) {
	s.group.DrawTo = append(s.group.DrawTo,
		&DrawTo{Command: QuadTo, X: x, Y: y, X1: x1, Y1: y1})
	s.currentX = x
	s.currentY = y
	s.lastQuadX = x1
	s.lastQuadY = y1
	s.lastCmd = 'Q'
}

func (s *state) parseArcTo() error {
	c := s.next()
	if c != 'A' && c != 'a' {
		return fmt.Errorf("expecting \"A\" or \"a\", got %q", string(c))
	}
	s.relative = c == 'a'
	s.lastCmd = 'A'

	s.whitespace()

	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		rx, err := s.parseNonNegativeNumber()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		s.commaWhitespace()
		ry, err := s.parseNonNegativeNumber()
		if err != nil {
			return err
		}

		s.commaWhitespace()
		rotation, err := s.parseNumber()
		if err != nil {
			return err
		}

		s.commaWhitespace()
		largeArc, err := s.parseFlag()
		if err != nil {
			return err
		}

		s.commaWhitespace()
		sweep, err := s.parseFlag()
		if err != nil {
			return err
		}

		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}

		if s.relative {
			x += s.currentX
			y += s.currentY
		}
		s.group.DrawTo = append(s.group.DrawTo, &DrawTo{
			Command:  ArcTo,
			X:        x,
			Y:        y,
			Rx:       rx,
			Ry:       ry,
			Rotation: rotation,
			LargeArc: largeArc,
			Sweep:    sweep,
		})
		s.currentX = x
		s.currentY = y

		first = false
	}
}

// whitespace consumes "wsp*", and returns the number of bytes consumed
func (s *state) whitespace() int {
	count := 0
	for {
		switch s.peek() {
		case ' ', '\t', '\n', '\r':
			s.next()
			count++
		default:
			return count
		}
	}
}

// commaWhitespace consumes an optional "(wsp+ comma? wsp*) | (comma wsp*)",
// and returns true if something was consumed
func (s *state) commaWhitespace() bool {
	if s.peek() == ',' {
		s.next()
		s.whitespace()
		return true
	}

	consumed := s.whitespace()
	if consumed > 0 {
		if s.peek() == ',' {
			s.next()
		}
		s.whitespace()
		return true
	}

	return false
}

// peek returns the next byte without consuming it, or 0 if at the end of stream
func (s *state) peek() byte {
	if s.index < len(s.data) {
		return s.data[s.index]
	}
	return 0
}

// next consumes and returns the next byte, or 0 if at the end of stream
func (s *state) next() byte {
	if s.index < len(s.data) {
		i := s.index
		s.index++
		return s.data[i]
	}
	return 0
}

// Parse parses a path string
func Parse(path string) ([]*SubPath, error) {
	s := &state{
		data:  path,
		index: 0,
	}
	err := s.parse()
	return s.subPaths, err
}

type Function struct {
	Name string
	Args []float64
}

func (s *state) parseFunctions() ([]*Function, error) {
	var functions []*Function
	// (wsp* identifier wsp* "(" wsp* number (comma-wsp number)* wsp* ")" wsp*)*
	for {
		function := &Function{}
		functions = append(functions, function)

		// identifier
		s.whitespace()
		c := s.next()
		if !(('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')) {
			return functions, fmt.Errorf("identifier must start with a letter, got %q", string(c))
		}
		function.Name += string(c)
		for {
			c := s.peek()
			if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') ||
				('0' <= c && c <= '9') || (c == '_') || (c == '-') {
				function.Name += string(s.next())
			} else {
				break
			}
		}

		// Open parenthesis
		s.whitespace()
		c = s.next()
		if c != '(' {
			return functions, fmt.Errorf("expected \"(\", got %q", string(c))
		}

		// First argument (optional)
		s.whitespace()
		oldIndex := s.index
		n, err := s.parseNumber()
		if err != nil {
			s.index = oldIndex
		} else {
			function.Args = append(function.Args, n)
			// Remaining arguments
			for {
				oldIndex = s.index
				s.commaWhitespace()
				n, err = s.parseNumber()
				if err != nil {
					s.index = oldIndex
					break
				}
				function.Args = append(function.Args, n)
			}
		}

		// Close parenthesis
		s.whitespace()
		c = s.next()
		if c != ')' {
			return functions, fmt.Errorf("expected \")\", got %q", string(c))
		}
		s.whitespace()

		if s.peek() == 0 {
			return functions, nil
		}
	}
}

// ParseFunctions parses a transform attribute's function list, e.g.
// "translate(10 20) rotate(45)".
func ParseFunctions(functions string) ([]*Function, error) {
	s := &state{
		data:  functions,
		index: 0,
	}
	return s.parseFunctions()
}

// ToString serializes sub paths back into path data. It runs a simple
// serialization and does not try to optimize the path string.
func ToString(groups []*SubPath) string {
	var buf strings.Builder

	formatNumber := func(n float64) string {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	for i, group := range groups {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("M " + formatNumber(group.X) + " " + formatNumber(group.Y))
		for _, drawTo := range group.DrawTo {
			switch drawTo.Command {
			case LineTo:
				buf.WriteString(" L " + formatNumber(drawTo.X) + " " + formatNumber(drawTo.Y))
			case CurveTo:
				buf.WriteString(" C " +
					formatNumber(drawTo.X1) + " " + formatNumber(drawTo.Y1) + " " +
					formatNumber(drawTo.X2) + " " + formatNumber(drawTo.Y2) + " " +
					formatNumber(drawTo.X) + " " + formatNumber(drawTo.Y))
			case QuadTo:
				buf.WriteString(" Q " +
					formatNumber(drawTo.X1) + " " + formatNumber(drawTo.Y1) + " " +
					formatNumber(drawTo.X) + " " + formatNumber(drawTo.Y))
			case ArcTo:
				buf.WriteString(" A " +
					formatNumber(drawTo.Rx) + " " + formatNumber(drawTo.Ry) + " " +
					formatNumber(drawTo.Rotation) + " " +
					flag(drawTo.LargeArc) + " " + flag(drawTo.Sweep) + " " +
					formatNumber(drawTo.X) + " " + formatNumber(drawTo.Y))
			case ClosePath:
				buf.WriteString(" Z")
			}
		}
	}

	return buf.String()
}
