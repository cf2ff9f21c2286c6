// Package render converts rendered charts to output formats.
//
// Charts serialize themselves to SVG. PNG and PDF output is produced by the
// external rsvg-convert tool (from librsvg), which also plays no part in
// SMIL animation: raster and PDF exports show the final frame.
//
//	svg, _ := chart.SVG()
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [ParseFormat] maps user input to a [Format], and [Convert] dispatches on
// it.
package render
