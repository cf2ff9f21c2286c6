package tween

import (
	"math"
	"sort"
	"strings"

	"github.com/matzehuels/histochart/pkg/errors"
)

// Ease is a timing curve defined by cubic-bezier control points, the same
// form CSS and SMIL keySplines use. At maps linear progress in [0, 1] to
// eased progress.
type Ease struct {
	Name   string
	Spline [4]float64 // x1, y1, x2, y2
}

// Named curves. CubicOut is the default for bar transitions.
var (
	Linear     = Ease{Name: "linear", Spline: [4]float64{0, 0, 1, 1}}
	QuadOut    = Ease{Name: "quad-out", Spline: [4]float64{0.5, 1, 0.89, 1}}
	CubicIn    = Ease{Name: "cubic-in", Spline: [4]float64{0.32, 0, 0.67, 0}}
	CubicOut   = Ease{Name: "cubic-out", Spline: [4]float64{0.33, 1, 0.68, 1}}
	CubicInOut = Ease{Name: "cubic-in-out", Spline: [4]float64{0.65, 0, 0.35, 1}}
	SineOut    = Ease{Name: "sine-out", Spline: [4]float64{0.61, 1, 0.88, 1}}
)

var eases = map[string]Ease{
	Linear.Name:     Linear,
	QuadOut.Name:    QuadOut,
	CubicIn.Name:    CubicIn,
	CubicOut.Name:   CubicOut,
	CubicInOut.Name: CubicInOut,
	SineOut.Name:    SineOut,
}

// ParseEase looks up a named curve. The empty name selects CubicOut.
func ParseEase(name string) (Ease, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CubicOut, nil
	}
	e, ok := eases[name]
	if !ok {
		return Ease{}, errors.Configuration("unknown ease %q (want one of %s)", name, strings.Join(EaseNames(), ", "))
	}
	return e, nil
}

// EaseNames lists the named curves in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(eases))
	for n := range eases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsLinear reports whether the curve is the identity.
func (e Ease) IsLinear() bool {
	return e.Spline == [4]float64{} || e.Spline == Linear.Spline
}

// At returns eased progress for linear progress p. Values outside [0, 1]
// are clamped.
func (e Ease) At(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	case e.IsLinear():
		return p
	}
	x1, y1, x2, y2 := e.Spline[0], e.Spline[1], e.Spline[2], e.Spline[3]
	return bezier(y1, y2, solveX(x1, x2, p))
}

// bezier evaluates one coordinate of a cubic bezier with end points 0 and 1.
func bezier(c1, c2, t float64) float64 {
	u := 1 - t
	return 3*u*u*t*c1 + 3*u*t*t*c2 + t*t*t
}

func bezierSlope(c1, c2, t float64) float64 {
	u := 1 - t
	return 3*u*u*c1 + 6*u*t*(c2-c1) + 3*t*t*(1-c2)
}

// solveX finds the curve parameter whose x coordinate is x.
func solveX(x1, x2, x float64) float64 {
	const eps = 1e-7

	t := x
	for range 8 {
		d := bezier(x1, x2, t) - x
		if math.Abs(d) < eps {
			return t
		}
		s := bezierSlope(x1, x2, t)
		if math.Abs(s) < 1e-6 {
			break
		}
		t -= d / s
		if t < 0 || t > 1 {
			break
		}
	}

	lo, hi := 0.0, 1.0
	t = x
	for range 64 {
		v := bezier(x1, x2, t)
		if math.Abs(v-x) < eps {
			return t
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return t
}
