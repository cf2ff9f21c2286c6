package histogram

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/histochart/pkg/chart/axis"
	"github.com/matzehuels/histochart/pkg/chart/layout"
	"github.com/matzehuels/histochart/pkg/errors"
	"github.com/matzehuels/histochart/pkg/observability"
	"github.com/matzehuels/histochart/pkg/scene"
	"github.com/matzehuels/histochart/pkg/scene/text"
	"github.com/matzehuels/histochart/pkg/tween"
)

// PaintFunc observes every paint of a chart.
type PaintFunc func(doc *scene.Node, state State)

// Option configures a Chart.
type Option func(*Chart)

// WithID sets the id of the chart's <svg> element. Axis groups derive
// their ids from it.
func WithID(id string) Option { return func(c *Chart) { c.id = id } }

// WithMeasurer sets how painted axes are measured.
func WithMeasurer(m scene.Measurer) Option { return func(c *Chart) { c.measurer = m } }

// WithMetrics measures axis labels with m.
func WithMetrics(m text.Metrics) Option {
	return func(c *Chart) { c.measurer = scene.NewMeasurer(m) }
}

// WithAnimator sets the animator that runs bar transitions.
func WithAnimator(a tween.Animator) Option { return func(c *Chart) { c.animator = a } }

// WithLogger sets the logger for layout and state transitions.
func WithLogger(l *log.Logger) Option { return func(c *Chart) { c.logger = l } }

// WithPaintHook calls fn after every paint.
func WithPaintHook(fn PaintFunc) Option { return func(c *Chart) { c.paint = fn } }

// WithoutExitTransitions removes bars of vanished bins immediately instead
// of shrinking them to the baseline first.
func WithoutExitTransitions() Option { return func(c *Chart) { c.bars.exit = false } }

// Chart is a histogram component rendered into a retained SVG scene.
//
// The chart follows a mount, update, unmount lifecycle. Every layout change
// runs two paints: axes against provisional scales, then (after the axes
// are measured) axes and bars against the adjusted scales. Bars are only
// ever in the document while the chart is Adjusted.
//
// A Chart must be driven by a single goroutine.
type Chart struct {
	id       string
	props    Props
	state    State
	mounted  bool
	layout   *layout.Result
	measurer scene.Measurer
	animator tween.Animator
	logger   *log.Logger
	paint    PaintFunc

	doc    *scene.Node
	data   *scene.Node
	yAxis  *scene.Node
	xAxis  *scene.Node
	bars   *barReconciler
	group  *scene.TransitionGroup[barProps]
	paints int
}

// New creates an unmounted chart.
func New(props Props, opts ...Option) *Chart {
	c := &Chart{
		id:    "hist-" + uuid.NewString()[:8],
		props: props.clone(),
		bars:  &barReconciler{exit: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.measurer == nil {
		c.measurer = scene.NewMeasurer(text.NewGoRegular())
	}
	if c.animator == nil {
		c.animator = tween.Immediate
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	c.bars.animator = c.animator
	return c
}

// ID returns the chart id.
func (c *Chart) ID() string { return c.id }

// Props returns the current props.
func (c *Chart) Props() Props { return c.props }

// State returns the layout state.
func (c *Chart) State() State { return c.state }

// Layout returns the committed layout, or nil before mount.
func (c *Chart) Layout() *layout.Result { return c.layout }

// Document returns the chart's <svg> root, or nil when unmounted.
func (c *Chart) Document() *scene.Node { return c.doc }

// Paints returns the number of paints so far.
func (c *Chart) Paints() int { return c.paints }

// BarNodes returns the bar nodes currently in the document.
func (c *Chart) BarNodes() []*scene.Node {
	if c.doc == nil {
		return nil
	}
	return c.doc.FindAll(func(n *scene.Node) bool { return n.HasClass("bar") })
}

// SVG serializes the current document.
func (c *Chart) SVG() ([]byte, error) {
	if c.doc == nil {
		return nil, errors.Configuration("chart %s is not mounted", c.id)
	}
	return scene.RenderSVG(c.doc), nil
}

// Mount builds the document, paints the axes, measures them and paints
// the adjusted chart. If the measured axes leave no room for the bars the
// chart stays unmounted.
func (c *Chart) Mount() error {
	if c.mounted {
		return errors.Configuration("chart %s is already mounted", c.id)
	}
	res, err := c.compute(c.props)
	if err != nil {
		return err
	}

	c.doc = scene.NewDocument(c.props.Width, c.props.Height)
	c.doc.Set("id", c.id)
	c.doc.Set("class", "histogram")
	c.data = scene.New("g", "class", "chartData")
	container := c.data.Append(scene.New("g", "class", "bars", "fill", "steelblue"))
	c.group = scene.NewTransitionGroup[barProps](container, c.bars)
	c.yAxis = c.doc.Append(scene.New("g", "id", c.id+"-yAxis", "class", "axis axis--y"))
	c.xAxis = c.doc.Append(scene.New("g", "id", c.id+"-xAxis", "class", "axis axis--x"))

	c.layout = res
	c.mounted = true
	c.state = Unadjusted
	c.render()
	if err := c.adjust(); err != nil {
		c.Unmount()
		return err
	}
	return nil
}

// Update replaces the props. Changes to data, domain, size, padding or tick
// count start a new measure-and-adjust cycle; anything else repaints with
// the committed scales. Invalid props are rejected and the chart keeps its
// previous layout.
func (c *Chart) Update(props Props) error {
	props = props.clone()
	if !c.mounted {
		c.props = props
		return nil
	}
	if !c.props.affectsLayout(props) {
		c.props = props
		return c.Repaint()
	}

	res, err := c.compute(props)
	if err != nil {
		return err
	}
	prevProps, prevLayout, prevState := c.props, c.layout, c.state
	c.props = props
	c.layout = res
	c.setState(Unadjusted)
	c.render()
	if err := c.adjust(); err != nil {
		c.logger.Debug("restoring previous layout", "id", c.id, "err", err)
		c.props, c.layout = prevProps, prevLayout
		c.setState(prevState)
		c.render()
		return err
	}
	return nil
}

// Repaint paints the chart again with the committed layout. It never
// re-measures.
func (c *Chart) Repaint() error {
	if !c.mounted {
		return errors.Configuration("chart %s is not mounted", c.id)
	}
	c.render()
	return nil
}

// Unmount tears down the document. Nodes of an unmounted chart can no
// longer be measured.
func (c *Chart) Unmount() {
	if !c.mounted {
		return
	}
	c.doc.Clear()
	c.doc, c.data, c.xAxis, c.yAxis, c.group = nil, nil, nil, nil, nil
	c.layout = nil
	c.mounted = false
	c.state = Unadjusted
}

// MeasureAxes returns the bounding boxes of the painted axes. It fails with
// a MEASUREMENT_ERROR when the chart is not mounted.
func (c *Chart) MeasureAxes() (layout.Measurement, error) {
	yBox, err := c.measurer.BBox(c.yAxis)
	if err != nil {
		return layout.Measurement{}, err
	}
	xBox, err := c.measurer.BBox(c.xAxis)
	if err != nil {
		return layout.Measurement{}, err
	}
	return layout.Measurement{XAxis: xBox, YAxis: yBox}, nil
}

func (c *Chart) hooks() observability.ChartHooks { return observability.Chart() }

func (c *Chart) compute(p Props) (*layout.Result, error) {
	start := time.Now()
	res, err := layout.Compute(p.Data, p.layoutOptions(), nil)
	c.hooks().OnLayout(c.id, binCount(res), false, time.Since(start), err)
	if err != nil {
		c.logger.Debug("layout rejected", "id", c.id, "err", err)
		return nil, err
	}
	c.logger.Debug("provisional layout", "id", c.id, "bins", len(res.Bins), "domain", res.X.Domain(), "outside", res.Outside)
	return res, nil
}

// adjust measures the painted axes, applies the measurement to the layout
// and paints the adjusted chart.
func (c *Chart) adjust() error {
	if c.state != Unadjusted {
		return nil
	}
	m, err := c.MeasureAxes()
	if err != nil {
		return err
	}

	start := time.Now()
	err = c.layout.Adjust(m)
	c.hooks().OnLayout(c.id, len(c.layout.Bins), true, time.Since(start), err)
	if err != nil {
		return err
	}
	c.logger.Debug("adjusted layout", "id", c.id,
		"xOffset", c.layout.XOffset, "yOffset", c.layout.YOffset,
		"xPadding", c.layout.XPadding, "yPadding", c.layout.YPadding,
		"barWidth", c.layout.BarWidth)

	c.setState(Adjusted)
	c.render()
	return nil
}

// render paints the document for the current state.
func (c *Chart) render() {
	p, res := c.props, c.layout
	c.doc.SetFloat("width", p.Width)
	c.doc.SetFloat("height", p.Height)

	if c.state == Adjusted {
		if c.data.Parent() == nil {
			c.doc.Insert(0, c.data)
		}
		c.data.SetTranslate(res.XOffset, res.YPadding)

		children := make([]scene.Child[barProps], len(res.Bars))
		for i, b := range res.Bars {
			children[i] = scene.Child[barProps]{Key: layout.BarKey(b.Index), Props: barPropsFrom(b)}
		}
		c.bars.reset(res.Baseline(), p.TransitionDuration, p.Ease)
		c.group.Render(children)
		if n := c.bars.entered + c.bars.updated + c.bars.exited; n > 0 {
			c.hooks().OnTransition(c.id, c.bars.entered, c.bars.updated, c.bars.exited)
			c.logger.Debug("bar transitions", "id", c.id,
				"entered", c.bars.entered, "updated", c.bars.updated, "exited", c.bars.exited)
		}
	} else {
		c.data.Detach()
	}

	c.yAxis.SetTranslate(res.XOffset, res.YPadding)
	axis.Left(res.Y).Render(c.yAxis)
	c.xAxis.SetTranslate(res.XOffset, p.Height-res.YOffset)
	axis.Bottom(res.X).Ticks(res.Options.TickCount).Render(c.xAxis)

	c.paints++
	if c.paint != nil {
		c.paint(c.doc, c.state)
	}
}

func binCount(res *layout.Result) int {
	if res == nil {
		return 0
	}
	return len(res.Bins)
}
