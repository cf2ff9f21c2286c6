// Package layout computes histogram geometry.
//
// Layout runs in two passes. [Compute] bins the data and derives scales and
// bars against the full chart size. Once the axes drawn from those scales
// have been measured, [Result.Adjust] shrinks the scale ranges to leave room
// for the axis labels and re-derives the bars. Passing the measurement to
// Compute performs both passes at once.
//
//	res, err := layout.Compute(data, layout.Options{Width: 500, Height: 500, Padding: 5}, nil)
//	// draw axes from res.X and res.Y, measure them, then:
//	err = res.Adjust(layout.Measurement{XAxis: xBox, YAxis: yBox})
package layout

import (
	"math"

	"github.com/matzehuels/histochart/pkg/chart/bin"
	"github.com/matzehuels/histochart/pkg/chart/scale"
	"github.com/matzehuels/histochart/pkg/errors"
	"github.com/matzehuels/histochart/pkg/scene"
)

// DefaultTickCount is the number of x ticks requested when Options leaves
// TickCount unset. The ticks double as bin thresholds.
const DefaultTickCount = 10

// Options configures a layout.
type Options struct {
	Width, Height float64
	Padding       float64       // gap before, between and after bars
	Domain        *scale.Domain // nil infers [0, max(data)]
	TickCount     int           // zero means DefaultTickCount
}

// Measurement holds the rendered bounding boxes of both axes.
type Measurement struct {
	XAxis scene.Box
	YAxis scene.Box
}

// Bar is the geometry of one bin in chart-area coordinates.
type Bar struct {
	Index  int
	Bin    bin.Bin
	X, Y   float64
	Width  float64
	Height float64
}

// Result is a computed layout.
type Result struct {
	Options Options
	Bins    []bin.Bin
	X, Y    *scale.Linear

	// XOffset is the room taken by the y-axis on the left, YOffset the room
	// taken by the x-axis at the bottom. XPadding and YPadding are the
	// amounts by which the axes overflow the chart size.
	XOffset, YOffset   float64
	XPadding, YPadding float64

	Bars     []Bar
	BarWidth float64
	// Outside counts data values that fell outside the domain.
	Outside  int
	Adjusted bool
}

// Compute bins data and lays out bars. When measured is non-nil the result
// is also adjusted for the measured axes.
func Compute(data []float64, opts Options, measured *Measurement) (*Result, error) {
	if opts.Width <= 0 || opts.Height <= 0 || math.IsNaN(opts.Width) || math.IsNaN(opts.Height) {
		return nil, errors.Configuration("width and height must be positive, got %vx%v", opts.Width, opts.Height)
	}
	if len(data) == 0 {
		return nil, errors.Configuration("data is required")
	}
	if opts.Padding < 0 || math.IsNaN(opts.Padding) {
		return nil, errors.Configuration("padding must not be negative, got %v", opts.Padding)
	}
	if opts.TickCount < 0 {
		return nil, errors.Configuration("tick count must not be negative, got %d", opts.TickCount)
	}
	if opts.TickCount == 0 {
		opts.TickCount = DefaultTickCount
	}

	domain, err := resolveDomain(data, opts.Domain)
	if err != nil {
		return nil, err
	}

	x := scale.NewLinear(domain, scale.Range{R0: 0, R1: opts.Width})
	bins := bin.Histogram(data, domain, x.Ticks(opts.TickCount))
	y := scale.NewLinear(
		scale.Domain{Min: 0, Max: float64(max(1, bin.MaxCount(bins)))},
		scale.Range{R0: opts.Height, R1: 0},
	)

	res := &Result{
		Options: opts,
		Bins:    bins,
		X:       x,
		Y:       y,
		Outside: len(data) - bin.Sum(bins),
	}
	if measured != nil {
		if err := res.Adjust(*measured); err != nil {
			return nil, err
		}
		return res, nil
	}
	if err := res.layoutBars(); err != nil {
		return nil, err
	}
	return res, nil
}

// Adjust shrinks the scale ranges to fit the measured axes and re-derives
// the bars. Adjusting twice with the same measurement gives the same
// result. A rejected measurement leaves r unchanged.
func (r *Result) Adjust(m Measurement) error {
	w, h := r.Options.Width, r.Options.Height
	xOffset := m.YAxis.W
	yOffset := m.XAxis.H
	xPadding := math.Max(0, m.XAxis.W-w)
	yPadding := math.Max(0, m.YAxis.H-h)

	chartWidth := w - (xOffset + xPadding)
	chartHeight := h - (yOffset + yPadding)
	if !(chartWidth > 0) || !(chartHeight > 0) {
		return errors.Configuration(
			"axes leave no room for bars: chart area %vx%v after offsets (%v, %v) and padding (%v, %v)",
			chartWidth, chartHeight, xOffset, yOffset, xPadding, yPadding)
	}

	y := r.Y.Clone()
	y.SetRange(scale.Range{R0: chartHeight, R1: 0})
	bars, bw, err := r.barsFor(chartWidth, y)
	if err != nil {
		return err
	}

	r.XOffset, r.YOffset = xOffset, yOffset
	r.XPadding, r.YPadding = xPadding, yPadding
	r.X.SetRange(scale.Range{R0: 0, R1: chartWidth})
	r.Y = y
	r.Bars, r.BarWidth = bars, bw
	r.Adjusted = true
	return nil
}

// Baseline returns the y coordinate of a zero count.
func (r *Result) Baseline() float64 { return r.Y.Value(0) }

// ChartWidth returns the width of the bar area.
func (r *Result) ChartWidth() float64 { return r.X.Range().R1 }

// ChartHeight returns the height of the bar area.
func (r *Result) ChartHeight() float64 { return r.Y.Range().R0 }

func (r *Result) layoutBars() error {
	bars, bw, err := r.barsFor(r.ChartWidth(), r.Y)
	if err != nil {
		return err
	}
	r.Bars, r.BarWidth = bars, bw
	return nil
}

// barsFor derives the bar geometry for a bar area of the given width and
// the y scale's range. It leaves r untouched.
func (r *Result) barsFor(chartWidth float64, y *scale.Linear) ([]Bar, float64, error) {
	n := float64(len(r.Bins))
	p := r.Options.Padding
	chartHeight := y.Range().R0

	bw := (chartWidth - p*(n+1)) / n
	if !(bw > 0) {
		return nil, 0, errors.Configuration(
			"bar width must be positive: %d bins with padding %v do not fit in %v", len(r.Bins), p, chartWidth)
	}

	bars := make([]Bar, len(r.Bins))
	for i, b := range r.Bins {
		v := y.Value(float64(b.Count()))
		bars[i] = Bar{
			Index:  i,
			Bin:    b,
			X:      float64(i)*(bw+p) + p,
			Y:      v,
			Width:  bw,
			Height: chartHeight - v,
		}
	}
	return bars, bw, nil
}

func resolveDomain(data []float64, explicit *scale.Domain) (scale.Domain, error) {
	if explicit != nil {
		d := *explicit
		if d.Degenerate() || d.Min > d.Max {
			return scale.Domain{}, errors.Configuration("invalid domain %s", d)
		}
		return d, nil
	}

	hi := math.Inf(-1)
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > hi {
			hi = v
		}
	}
	d := scale.Domain{Min: 0, Max: hi}
	if d.Degenerate() || d.Max < d.Min {
		return scale.Domain{}, errors.Configuration("cannot infer a domain from data with maximum %v; pass an explicit domain", hi)
	}
	return d, nil
}
