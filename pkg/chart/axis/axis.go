// Package axis draws left and bottom chart axes into a scene.
//
// The generated markup matches what d3-axis produces: a domain path with
// outer ticks, then one <g class="tick"> per tick holding a line and a
// label. Geometry is in the axis group's own coordinates; the caller
// positions the group with a transform.
package axis

import (
	"strconv"

	"github.com/matzehuels/histochart/pkg/chart/scale"
	"github.com/matzehuels/histochart/pkg/scene"
)

// Orientation selects which side of the chart an axis sits on.
type Orientation int

const (
	OrientLeft Orientation = iota
	OrientBottom
)

func (o Orientation) String() string {
	if o == OrientLeft {
		return "left"
	}
	return "bottom"
}

// Default tick geometry and label style.
const (
	DefaultTickSize    = 6
	DefaultTickPadding = 3
	DefaultTickCount   = 10
	DefaultFontSize    = 10
	DefaultFontFamily  = "sans-serif"
)

// offset aligns one-pixel strokes to the pixel grid.
const offset = 0.5

// Axis describes one axis. Build it with Left or Bottom.
type Axis struct {
	orient      Orientation
	scale       *scale.Linear
	tickCount   int
	tickInner   float64
	tickOuter   float64
	tickPadding float64
	format      func(float64) string
}

// Left returns a vertical axis with labels to the left of the line.
func Left(s *scale.Linear) *Axis { return newAxis(OrientLeft, s) }

// Bottom returns a horizontal axis with labels below the line.
func Bottom(s *scale.Linear) *Axis { return newAxis(OrientBottom, s) }

func newAxis(o Orientation, s *scale.Linear) *Axis {
	return &Axis{
		orient:      o,
		scale:       s,
		tickCount:   DefaultTickCount,
		tickInner:   DefaultTickSize,
		tickOuter:   DefaultTickSize,
		tickPadding: DefaultTickPadding,
	}
}

// Ticks sets the requested tick count.
func (a *Axis) Ticks(count int) *Axis {
	a.tickCount = count
	return a
}

// TickSize sets both the inner and outer tick size.
func (a *Axis) TickSize(size float64) *Axis {
	a.tickInner, a.tickOuter = size, size
	return a
}

// TickFormat overrides the label formatter.
func (a *Axis) TickFormat(f func(float64) string) *Axis {
	a.format = f
	return a
}

// Orientation returns the axis side.
func (a *Axis) Orientation() Orientation { return a.orient }

// Values returns the tick values the axis draws.
func (a *Axis) Values() []float64 { return a.scale.Ticks(a.tickCount) }

// Render replaces the children of g with the axis and sets the group's
// presentation attributes. The group's transform is left untouched.
func (a *Axis) Render(g *scene.Node) {
	g.Clear()
	g.Set("fill", "none")
	g.SetFloat("font-size", DefaultFontSize)
	g.Set("font-family", DefaultFontFamily)
	if a.orient == OrientLeft {
		g.Set("text-anchor", "end")
	} else {
		g.Set("text-anchor", "middle")
	}

	rng := a.scale.Range()
	k := -1.0
	if a.orient == OrientBottom {
		k = 1
	}
	outer := num(k * a.tickOuter)
	var d string
	if a.orient == OrientLeft {
		d = "M" + outer + "," + num(rng.R0+offset) + "H" + num(offset) + "V" + num(rng.R1+offset) + "H" + outer
	} else {
		d = "M" + num(rng.R0+offset) + "," + outer + "V" + num(offset) + "H" + num(rng.R1+offset) + "V" + outer
	}
	g.Append(scene.New("path", "class", "domain", "stroke", "currentColor", "d", d))

	format := a.format
	if format == nil {
		format = a.scale.TickFormat(a.tickCount)
	}
	spacing := max(a.tickInner, 0) + a.tickPadding
	for _, v := range a.Values() {
		pos := a.scale.Value(v) + offset
		tick := g.Append(scene.New("g", "class", "tick", "opacity", "1"))
		line := tick.Append(scene.New("line", "stroke", "currentColor"))
		label := tick.Append(scene.New("text", "fill", "currentColor"))
		label.Text = format(v)

		if a.orient == OrientLeft {
			tick.SetTranslate(0, pos)
			line.SetFloat("x2", k*a.tickInner)
			label.SetFloat("x", k*spacing)
			label.Set("dy", "0.32em")
		} else {
			tick.SetTranslate(pos, 0)
			line.SetFloat("y2", k*a.tickInner)
			label.SetFloat("y", k*spacing)
			label.Set("dy", "0.71em")
		}
	}
}

func num(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
