// Package text measures rendered label text.
//
// Axis layout depends on how much room tick labels take once drawn, so the
// scene needs real font metrics rather than character counts. [GoRegular]
// measures with the Go Regular typeface bundled in golang.org/x/image;
// [Fixed] gives predictable monospace-like extents for tests.
package text

import (
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Extent describes the size of a line of text in pixels.
type Extent struct {
	Width   float64 // horizontal advance
	Ascent  float64 // distance from baseline to top of the line box
	Descent float64 // distance from baseline to bottom of the line box
}

// Height returns the line box height.
func (e Extent) Height() float64 { return e.Ascent + e.Descent }

// Metrics measures single-line text at a given font size in pixels.
type Metrics interface {
	Measure(s string, size float64) Extent
}

// Fixed measures every rune as Advance×size wide, with the given ascent and
// descent ratios.
type Fixed struct {
	Advance float64
	Ascent  float64
	Descent float64
}

// DefaultFixed approximates a sans-serif face.
var DefaultFixed = Fixed{Advance: 0.6, Ascent: 0.8, Descent: 0.2}

// Measure implements Metrics.
func (f Fixed) Measure(s string, size float64) Extent {
	return Extent{
		Width:   float64(utf8.RuneCountInString(s)) * f.Advance * size,
		Ascent:  f.Ascent * size,
		Descent: f.Descent * size,
	}
}

// GoRegular measures text with the Go Regular typeface. Faces are created
// lazily per size and shared; a GoRegular is safe for concurrent use.
type GoRegular struct {
	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewGoRegular returns a Go Regular measurer.
func NewGoRegular() *GoRegular {
	return &GoRegular{faces: make(map[float64]font.Face)}
}

var (
	goRegularOnce sync.Once
	goRegularFont *opentype.Font
	goRegularErr  error
)

func parsedGoRegular() (*opentype.Font, error) {
	goRegularOnce.Do(func() {
		goRegularFont, goRegularErr = opentype.Parse(goregular.TTF)
	})
	return goRegularFont, goRegularErr
}

// Measure implements Metrics. If the embedded font cannot be loaded it
// falls back to DefaultFixed.
func (g *GoRegular) Measure(s string, size float64) Extent {
	face, err := g.face(size)
	if err != nil {
		return DefaultFixed.Measure(s, size)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	m := face.Metrics()
	return Extent{
		Width:   toFloat(font.MeasureString(face, s)),
		Ascent:  toFloat(m.Ascent),
		Descent: toFloat(m.Descent),
	}
}

// Close releases cached faces.
func (g *GoRegular) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for size, f := range g.faces {
		_ = f.Close()
		delete(g.faces, size)
	}
	return nil
}

func (g *GoRegular) face(size float64) (font.Face, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if f, ok := g.faces[size]; ok {
		return f, nil
	}

	fnt, err := parsedGoRegular()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // 1pt == 1px
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	g.faces[size] = f
	return f, nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
