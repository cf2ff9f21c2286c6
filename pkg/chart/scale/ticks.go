package scale

import (
	"math"
	"strconv"
)

// Thresholds for rounding a raw step to 1, 2, 5 or 10 times a power of ten.
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Ticks returns about count evenly spaced "nice" values in [start, stop].
// Steps are 1, 2 or 5 times a power of ten, so the result may hold a few
// more or fewer values than requested. Values come back in the same
// direction as start→stop. An empty slice is returned when count is not
// positive or the bounds are not finite.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) ||
		math.IsInf(start, 0) || math.IsInf(stop, 0) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}

	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	inc := TickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}

	var ticks []float64
	if inc > 0 {
		lo, hi := math.Ceil(start/inc), math.Floor(stop/inc)
		n := int(math.Ceil(hi - lo + 1))
		ticks = make([]float64, 0, max(n, 0))
		for i := 0; i < n; i++ {
			ticks = append(ticks, (lo+float64(i))*inc)
		}
	} else {
		inv := -inc
		lo, hi := math.Ceil(start*inv), math.Floor(stop*inv)
		n := int(math.Ceil(hi - lo + 1))
		ticks = make([]float64, 0, max(n, 0))
		for i := 0; i < n; i++ {
			ticks = append(ticks, (lo+float64(i))/inv)
		}
	}

	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

// TickIncrement returns the tick spacing for about count ticks over
// [start, stop], which must satisfy start <= stop. For spacings of at
// least one the increment itself is returned; for smaller spacings the
// negated reciprocal is returned (-10 means a step of 0.1) so that tick
// values can be computed by division without accumulating error.
func TickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / float64(max(0, count))
	power := math.Floor(math.Log10(step))
	errv := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case errv >= e10:
		factor = 10
	case errv >= e5:
		factor = 5
	case errv >= e2:
		factor = 2
	}

	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// TickStep returns the absolute distance between adjacent ticks for about
// count ticks over [start, stop], in either order.
func TickStep(start, stop float64, count int) float64 {
	step0 := math.Abs(stop-start) / float64(max(0, count))
	step1 := math.Pow(10, math.Floor(math.Log10(step0)))
	errv := step0 / step1
	switch {
	case errv >= e10:
		step1 *= 10
	case errv >= e5:
		step1 *= 5
	case errv >= e2:
		step1 *= 2
	}
	if stop < start {
		return -step1
	}
	return step1
}

// TickFormat returns a formatter that prints tick values with just enough
// fixed decimals to tell adjacent ticks apart.
func TickFormat(start, stop float64, count int) func(float64) string {
	prec := 0
	if step := math.Abs(TickStep(start, stop, count)); step > 0 && !math.IsInf(step, 0) {
		prec = max(0, -int(math.Floor(math.Log10(step)+1e-9)))
	}
	return func(v float64) string {
		if v == 0 {
			v = 0 // normalise -0
		}
		return strconv.FormatFloat(v, 'f', prec, 64)
	}
}
