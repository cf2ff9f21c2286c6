// Package pkg provides the core libraries for histochart.
//
// # Overview
//
// Histochart draws histograms whose axes are measured after they are
// painted, so labels never clip, and whose bars move between datasets with
// eased transitions. The pkg directory is organized into four areas:
//
//  1. [chart] - Scales, binning, axes, the two-pass layout and the
//     histogram component
//  2. [scene] - A retained SVG tree with bounding-box measurement, keyed
//     child reconciliation and serialization
//  3. [tween] - Easing curves, a frame-driven transition engine and a SMIL
//     keyframe recorder
//  4. Support - [dataset] input, [render] conversion, [cache], [session],
//     [demo] data, [errors], [observability] and [buildinfo]
//
// # Architecture
//
// The data flow of one layout change:
//
//	Props (data, domain, size, padding, ticks)
//	         ↓
//	    [chart/layout] provisional scales and bins
//	         ↓
//	    [chart/axis] paint axes into the scene
//	         ↓
//	    [scene] measure axis bounding boxes
//	         ↓
//	    [chart/layout] adjust scales, place bars
//	         ↓
//	    [scene] reconcile bars, [tween] animate
//	         ↓
//	    SVG/PNG/PDF/JSON, terminal, or browser
//
// # Quick Start
//
//	p := histogram.DefaultProps()
//	p.Width, p.Height = 500, 500
//	p.Data = []float64{3, 1, 4, 1, 5, 9, 2, 6}
//
//	c := histogram.New(p, histogram.WithAnimator(tween.NewRecorder()))
//	if err := c.Mount(); err != nil {
//	    return err
//	}
//	svg, _ := c.SVG()
package pkg
