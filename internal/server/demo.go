package server

import (
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/histochart/pkg/chart/histogram"
	"github.com/matzehuels/histochart/pkg/chart/layout"
	"github.com/matzehuels/histochart/pkg/demo"
	"github.com/matzehuels/histochart/pkg/scene/text"
	"github.com/matzehuels/histochart/pkg/tween"
)

// demoChart is one visitor's chart. Requests of the same visitor may race,
// so every access holds mu.
type demoChart struct {
	mu       sync.Mutex
	gen      *demo.Generator
	chart    *histogram.Chart
	recorder *tween.Recorder
	rounds   int
}

func newDemoChart(cfg Config, rng *rand.Rand, metrics text.Metrics, logger *log.Logger) (*demoChart, error) {
	gen := demo.NewGenerator(rng, cfg.Samples, cfg.Max)
	props := gen.Props(gen.Next())
	props.TransitionDuration = cfg.TransitionDuration
	props.Ease = cfg.Ease

	rec := tween.NewRecorder()
	c := histogram.New(props,
		histogram.WithMetrics(metrics),
		histogram.WithAnimator(rec),
		histogram.WithLogger(logger),
	)
	if err := c.Mount(); err != nil {
		return nil, err
	}
	return &demoChart{gen: gen, chart: c, recorder: rec}, nil
}

// regenerate replaces the dataset. Keyframes of the previous transition are
// dropped so the next response only replays this one.
func (d *demoChart) regenerate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.chart.Document().ClearAnimations()
	p := d.chart.Props()
	p.Data = d.gen.Next()
	if err := d.chart.Update(p); err != nil {
		return err
	}
	d.rounds++
	return nil
}

type snapshot struct {
	SVG    []byte
	Values int
	Bins   int
	Rounds int
}

func (d *demoChart) snapshot() (snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	svg, err := d.chart.SVG()
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{
		SVG:    svg,
		Values: len(d.chart.Props().Data),
		Bins:   len(d.chart.Layout().Bins),
		Rounds: d.rounds,
	}, nil
}

func (d *demoChart) layoutJSON() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return layout.RenderJSON(d.chart.Layout(),
		layout.WithJSONEase(d.chart.Props().Ease.Name),
		layout.WithJSONIndent(),
	)
}
