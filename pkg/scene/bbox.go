package scene

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/histochart/pkg/errors"
	"github.com/matzehuels/histochart/pkg/scene/text"
)

// defaultFontSize matches the SVG initial value of font-size (medium).
const defaultFontSize = 16

// Box is an axis-aligned rectangle in user units.
type Box struct {
	X, Y, W, H float64
}

// Right returns the right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// Empty reports whether the box has no extent in either direction.
func (b Box) Empty() bool { return b.W == 0 && b.H == 0 }

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H}
}

// union returns the smallest box containing both a and b. ok reports
// whether a already holds a box.
func union(a Box, ok bool, b Box) Box {
	if !ok {
		return b
	}
	x0, y0 := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	x1, y1 := math.Max(a.Right(), b.Right()), math.Max(a.Bottom(), b.Bottom())
	return Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Measurer computes bounding boxes of rendered nodes.
type Measurer interface {
	BBox(n *Node) (Box, error)
}

// GeometryMeasurer measures nodes from their attributes, using Metrics to
// size <text> content. It follows SVG getBBox semantics: the result is in
// the node's own user space, so the node's transform is not applied but
// the transforms of its descendants are.
type GeometryMeasurer struct {
	Metrics text.Metrics
}

// NewMeasurer returns a GeometryMeasurer using m for text.
func NewMeasurer(m text.Metrics) *GeometryMeasurer {
	return &GeometryMeasurer{Metrics: m}
}

// BBox implements Measurer. Measuring a nil node or a node that is not part
// of an <svg> document is a MEASUREMENT_ERROR: its geometry has not been
// rendered yet.
func (m *GeometryMeasurer) BBox(n *Node) (Box, error) {
	if n == nil {
		return Box{}, errors.Measurement("cannot measure a nil node")
	}
	if !n.Attached() {
		return Box{}, errors.Measurement("cannot measure <%s>: node is not attached to a document", n.Tag)
	}
	b, _ := m.measure(n)
	return b, nil
}

func (m *GeometryMeasurer) measure(n *Node) (Box, bool) {
	if v, _ := n.Attr("display"); v == "none" {
		return Box{}, false
	}

	switch n.Tag {
	case "rect":
		return Box{X: n.Float("x"), Y: n.Float("y"), W: n.Float("width"), H: n.Float("height")}, true
	case "line":
		x1, y1, x2, y2 := n.Float("x1"), n.Float("y1"), n.Float("x2"), n.Float("y2")
		return Box{
			X: math.Min(x1, x2), Y: math.Min(y1, y2),
			W: math.Abs(x2 - x1), H: math.Abs(y2 - y1),
		}, true
	case "path":
		d, _ := n.Attr("d")
		return pathBox(d)
	case "text":
		return m.textBox(n)
	}

	var box Box
	var ok bool
	for _, c := range n.children {
		cb, cok := m.measure(c)
		if !cok {
			continue
		}
		dx, dy := c.Translate()
		box = union(box, ok, cb.Translate(dx, dy))
		ok = true
	}
	return box, ok
}

func (m *GeometryMeasurer) textBox(n *Node) (Box, bool) {
	size := fontSize(n)
	metrics := m.Metrics
	if metrics == nil {
		metrics = text.DefaultFixed
	}
	ext := metrics.Measure(n.Text, size)

	x := n.Float("x") + length(n, "dx", size)
	y := n.Float("y") + length(n, "dy", size)

	switch inherited(n, "text-anchor") {
	case "middle":
		x -= ext.Width / 2
	case "end":
		x -= ext.Width
	}
	return Box{X: x, Y: y - ext.Ascent, W: ext.Width, H: ext.Height()}, true
}

// inherited returns the value of attr on n or its nearest ancestor.
func inherited(n *Node, attr string) string {
	for c := n; c != nil; c = c.parent {
		if v, ok := c.Attr(attr); ok {
			return v
		}
	}
	return ""
}

func fontSize(n *Node) float64 {
	v := inherited(n, "font-size")
	if v == "" {
		return defaultFontSize
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil || f <= 0 {
		return defaultFontSize
	}
	return f
}

// length parses a length attribute in px or em.
func length(n *Node, attr string, size float64) float64 {
	v, ok := n.Attr(attr)
	if !ok {
		return 0
	}
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "em") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "em"), 64)
		if err != nil {
			return 0
		}
		return f * size
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil {
		return 0
	}
	return f
}

// pathBox computes the bounds of the vertices of a path made of move, line,
// horizontal, vertical and close commands, in absolute or relative form.
// Curves are not supported; their end points are ignored.
func pathBox(d string) (Box, bool) {
	toks := tokenizePath(d)
	var (
		box    Box
		ok     bool
		cx, cy float64
		sx, sy float64
		cmd    byte
	)
	add := func(x, y float64) {
		box = union(box, ok, Box{X: x, Y: y})
		ok = true
	}

	for i := 0; i < len(toks); {
		if t := toks[i]; len(t) == 1 && strings.ContainsAny(t, "MmLlHhVvZz") {
			cmd = t[0]
			i++
			if cmd == 'Z' || cmd == 'z' {
				cx, cy = sx, sy
				continue
			}
		}
		num := func() (float64, bool) {
			if i >= len(toks) {
				return 0, false
			}
			f, err := strconv.ParseFloat(toks[i], 64)
			if err != nil {
				return 0, false
			}
			i++
			return f, true
		}

		switch cmd {
		case 'M', 'L', 'm', 'l':
			x, ok1 := num()
			y, ok2 := num()
			if !ok1 || !ok2 {
				return box, ok
			}
			if cmd == 'm' || cmd == 'l' {
				x, y = cx+x, cy+y
			}
			cx, cy = x, y
			switch cmd {
			case 'M':
				sx, sy, cmd = x, y, 'L'
			case 'm':
				sx, sy, cmd = x, y, 'l'
			}
			add(cx, cy)
		case 'H', 'h':
			x, ok1 := num()
			if !ok1 {
				return box, ok
			}
			if cmd == 'h' {
				x += cx
			}
			cx = x
			add(cx, cy)
		case 'V', 'v':
			y, ok1 := num()
			if !ok1 {
				return box, ok
			}
			if cmd == 'v' {
				y += cy
			}
			cy = y
			add(cx, cy)
		default:
			return box, ok
		}
	}
	return box, ok
}

// tokenizePath splits path data into single-letter commands and numbers.
func tokenizePath(d string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range d {
		switch {
		case unicode.IsLetter(r) && r != 'e' && r != 'E':
			flush()
			toks = append(toks, string(r))
		case r == ',' || unicode.IsSpace(r):
			flush()
		case r == '-' && cur.Len() > 0 && !strings.HasSuffix(cur.String(), "e") && !strings.HasSuffix(cur.String(), "E"):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}
