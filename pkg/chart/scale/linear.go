package scale

import (
	"fmt"
	"math"
)

// Domain is a closed numeric interval in data space.
type Domain struct {
	Min, Max float64
}

// Degenerate reports whether the interval has zero width or is not a
// finite pair of numbers. A degenerate domain cannot be mapped onto a range.
func (d Domain) Degenerate() bool {
	return d.Min == d.Max || math.IsNaN(d.Min) || math.IsNaN(d.Max) ||
		math.IsInf(d.Min, 0) || math.IsInf(d.Max, 0)
}

// Contains reports whether v lies inside the closed interval.
func (d Domain) Contains(v float64) bool {
	lo, hi := d.Min, d.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

func (d Domain) String() string { return fmt.Sprintf("[%g, %g]", d.Min, d.Max) }

// Range is an output interval, typically in pixels. Unlike a Domain it may
// be inverted (R0 > R1), which is how a y-scale grows upward on screen.
type Range struct {
	R0, R1 float64
}

// Span returns the signed length of the range.
func (r Range) Span() float64 { return r.R1 - r.R0 }

func (r Range) String() string { return fmt.Sprintf("[%g, %g]", r.R0, r.R1) }

// Linear maps a domain onto a range by linear interpolation.
//
// The domain is fixed for the life of the scale. The range can be
// reassigned in place with SetRange, which the layout engine does once the
// axes have been measured.
type Linear struct {
	domain Domain
	rng    Range
}

// NewLinear returns a scale mapping domain onto rng.
func NewLinear(domain Domain, rng Range) *Linear {
	return &Linear{domain: domain, rng: rng}
}

// Domain returns the input interval.
func (s *Linear) Domain() Domain { return s.domain }

// Range returns the output interval.
func (s *Linear) Range() Range { return s.rng }

// SetRange replaces the output interval.
func (s *Linear) SetRange(r Range) { s.rng = r }

// Clone returns an independent copy of the scale.
func (s *Linear) Clone() *Linear {
	c := *s
	return &c
}

// Value maps x from the domain to the range. The domain endpoints map
// exactly onto the range endpoints. Value returns NaN for a degenerate
// domain; callers are expected to reject such domains up front.
func (s *Linear) Value(x float64) float64 {
	d, r := s.domain, s.rng
	if d.Degenerate() {
		return math.NaN()
	}
	switch x {
	case d.Min:
		return r.R0
	case d.Max:
		return r.R1
	}
	t := (x - d.Min) / (d.Max - d.Min)
	return r.R0 + t*(r.R1-r.R0)
}

// Invert maps y from the range back into the domain.
func (s *Linear) Invert(y float64) float64 {
	d, r := s.domain, s.rng
	if r.R0 == r.R1 || d.Degenerate() {
		return math.NaN()
	}
	switch y {
	case r.R0:
		return d.Min
	case r.R1:
		return d.Max
	}
	t := (y - r.R0) / (r.R1 - r.R0)
	return d.Min + t*(d.Max-d.Min)
}

// Ticks returns roughly count human-friendly values spanning the domain.
func (s *Linear) Ticks(count int) []float64 {
	return Ticks(s.domain.Min, s.domain.Max, count)
}

// TickFormat returns a formatter matching the precision of Ticks(count).
func (s *Linear) TickFormat(count int) func(float64) string {
	return TickFormat(s.domain.Min, s.domain.Max, count)
}
