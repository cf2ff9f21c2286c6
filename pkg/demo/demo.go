// Package demo generates sample data for the histogram demos.
package demo

import (
	"math/rand/v2"

	"github.com/matzehuels/histochart/pkg/chart/histogram"
	"github.com/matzehuels/histochart/pkg/chart/scale"
)

// Demo defaults: 50 integers in [0, 100) on a 500x500 chart over a fixed
// [0, 100] domain.
const (
	Samples = 50
	Max     = 100
	Width   = 500
	Height  = 500
)

// Generator produces random datasets. It is not safe for concurrent use.
type Generator struct {
	rng     *rand.Rand
	samples int
	limit   int
}

// NewGenerator returns a generator of n integers in [0, limit). A nil rng
// uses an unseeded source.
func NewGenerator(rng *rand.Rand, n, limit int) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if n <= 0 {
		n = Samples
	}
	if limit <= 0 {
		limit = Max
	}
	return &Generator{rng: rng, samples: n, limit: limit}
}

// Seeded returns a deterministic generator with the demo defaults.
func Seeded(seed uint64) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed)), Samples, Max)
}

// Next returns a fresh dataset.
func (g *Generator) Next() []float64 {
	data := make([]float64, g.samples)
	for i := range data {
		data[i] = float64(g.rng.IntN(g.limit))
	}
	return data
}

// Domain returns the fixed domain covering every generated value.
func (g *Generator) Domain() scale.Domain {
	return scale.Domain{Min: 0, Max: float64(g.limit)}
}

// Props returns chart props for data with the demo size and domain.
func (g *Generator) Props(data []float64) histogram.Props {
	p := histogram.DefaultProps()
	p.Width, p.Height = Width, Height
	p.Data = data
	d := g.Domain()
	p.Domain = &d
	return p
}
