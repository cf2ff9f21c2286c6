// Package bin groups raw values into contiguous threshold buckets.
//
// Bins are closed-open ([Lower, Upper)) except the last one, which is
// closed at the domain maximum so that a value equal to the maximum is
// still counted. Bins without members are kept so bar spacing stays uniform.
package bin

import (
	"sort"

	"github.com/matzehuels/histochart/pkg/chart/scale"
)

// Bin is one bucket of a histogram.
type Bin struct {
	Lower   float64   // inclusive lower bound
	Upper   float64   // exclusive upper bound (inclusive for the last bin)
	Members []float64 // values assigned to the bucket, in input order
}

// Count returns the number of values in the bin.
func (b Bin) Count() int { return len(b.Members) }

// Width returns the span of the bin in data units.
func (b Bin) Width() float64 { return b.Upper - b.Lower }

// Histogram buckets data over domain using thresholds as bin edges.
//
// Thresholds outside the open interval (domain.Min, domain.Max) are
// ignored; the remaining ones are sorted and deduplicated. With m usable
// thresholds the result holds m+1 bins. Values outside the domain are not
// assigned to any bin.
func Histogram(data []float64, domain scale.Domain, thresholds []float64) []Bin {
	lo, hi := domain.Min, domain.Max
	if lo > hi {
		lo, hi = hi, lo
	}

	edges := make([]float64, 0, len(thresholds))
	for _, t := range thresholds {
		if t > lo && t < hi {
			edges = append(edges, t)
		}
	}
	sort.Float64s(edges)
	edges = dedupe(edges)

	bins := make([]Bin, len(edges)+1)
	for i := range bins {
		bins[i].Lower = lo
		if i > 0 {
			bins[i].Lower = edges[i-1]
		}
		bins[i].Upper = hi
		if i < len(edges) {
			bins[i].Upper = edges[i]
		}
	}

	for _, v := range data {
		if !(v >= lo && v <= hi) { // also drops NaN
			continue
		}
		i := sort.Search(len(edges), func(j int) bool { return edges[j] > v })
		bins[i].Members = append(bins[i].Members, v)
	}
	return bins
}

// Sum returns the total number of values assigned across bins.
func Sum(bins []Bin) int {
	n := 0
	for _, b := range bins {
		n += b.Count()
	}
	return n
}

// MaxCount returns the largest bin count, or 0 for no bins.
func MaxCount(bins []Bin) int {
	m := 0
	for _, b := range bins {
		m = max(m, b.Count())
	}
	return m
}

func dedupe(sorted []float64) []float64 {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
