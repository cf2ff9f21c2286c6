// Package histogram is an animated histogram component.
//
// A [Chart] bins a dataset over a linear x scale, lays out one bar per bin
// and renders axes and bars into a retained SVG scene. Axis label size is
// only known once the axes have been drawn, so every layout change runs a
// render-measure-relayout cycle:
//
//  1. Compute a provisional layout against the full chart size.
//  2. Paint the axes only (state [Unadjusted]).
//  3. Measure the painted axes and shrink the scale ranges to fit.
//  4. Paint axes and bars (state [Adjusted]).
//
// Bars are keyed by bin index. New bars grow from the baseline, persisting
// bars move from their committed geometry to the new one, and bars of
// vanished bins shrink back to the baseline before they are removed. The
// transitions are issued to a [tween.Animator]: a [tween.Engine] for
// frame-stepped hosts, or a [tween.Recorder] to bake SMIL animations into
// static SVG.
//
//	c := histogram.New(props, histogram.WithAnimator(tween.NewRecorder()))
//	if err := c.Mount(); err != nil {
//	    return err
//	}
//	svg, _ := c.SVG()
package histogram
