package histogram

import (
	"slices"
	"time"

	"github.com/matzehuels/histochart/pkg/chart/layout"
	"github.com/matzehuels/histochart/pkg/chart/scale"
	"github.com/matzehuels/histochart/pkg/tween"
)

// Default prop values.
const (
	DefaultPadding            = 5
	DefaultTransitionDuration = 250 * time.Millisecond
	DefaultTickCount          = layout.DefaultTickCount
)

// Props configures a chart. Width, Height and Data are required.
type Props struct {
	Width, Height float64
	Data          []float64
	Domain        *scale.Domain // nil infers [0, max(Data)]

	Padding            float64
	TransitionDuration time.Duration
	TickCount          int
	Ease               tween.Ease
}

// DefaultProps returns props with every optional field at its default.
// Zero values in Props are taken literally, so start from DefaultProps
// when the defaults are wanted.
func DefaultProps() Props {
	return Props{
		Padding:            DefaultPadding,
		TransitionDuration: DefaultTransitionDuration,
		TickCount:          DefaultTickCount,
		Ease:               tween.CubicOut,
	}
}

func (p Props) layoutOptions() layout.Options {
	return layout.Options{
		Width:     p.Width,
		Height:    p.Height,
		Padding:   p.Padding,
		Domain:    p.Domain,
		TickCount: p.TickCount,
	}
}

// clone copies the slices and pointers the chart keeps, so callers may
// reuse their buffers.
func (p Props) clone() Props {
	p.Data = slices.Clone(p.Data)
	if p.Domain != nil {
		d := *p.Domain
		p.Domain = &d
	}
	return p
}

// affectsLayout reports whether switching from p to q needs a new
// measure-and-adjust cycle.
func (p Props) affectsLayout(q Props) bool {
	if p.Width != q.Width || p.Height != q.Height || p.Padding != q.Padding || p.TickCount != q.TickCount {
		return true
	}
	if (p.Domain == nil) != (q.Domain == nil) || (p.Domain != nil && *p.Domain != *q.Domain) {
		return true
	}
	return !slices.Equal(p.Data, q.Data)
}
