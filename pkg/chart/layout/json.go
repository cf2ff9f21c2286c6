package layout

import (
	"encoding/json"
	"fmt"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	members bool
	ease    string
	indent  bool
}

// WithJSONMembers includes the data values of each bin.
func WithJSONMembers() JSONOption { return func(r *jsonRenderer) { r.members = true } }

// WithJSONEase records the easing curve name used for transitions.
func WithJSONEase(name string) JSONOption { return func(r *jsonRenderer) { r.ease = name } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Padding  float64    `json:"padding"`
	Domain   [2]float64 `json:"domain"`
	YDomain  [2]float64 `json:"y_domain"`
	XOffset  float64    `json:"x_offset"`
	YOffset  float64    `json:"y_offset"`
	XPadding float64    `json:"x_padding"`
	YPadding float64    `json:"y_padding"`
	BarWidth float64    `json:"bar_width"`
	Outside  int        `json:"outside,omitempty"`
	Adjusted bool       `json:"adjusted"`
	Ease     string     `json:"ease,omitempty"`
	XTicks   []jsonTick `json:"x_ticks"`
	YTicks   []jsonTick `json:"y_ticks"`
	Bars     []jsonBar  `json:"bars"`
}

type jsonTick struct {
	Value    float64 `json:"value"`
	Label    string  `json:"label"`
	Position float64 `json:"position"`
}

type jsonBar struct {
	ID      string    `json:"id"`
	Lower   float64   `json:"lower"`
	Upper   float64   `json:"upper"`
	Count   int       `json:"count"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Members []float64 `json:"members,omitempty"`
}

// RenderJSON serializes a layout for external renderers.
func RenderJSON(r *Result, opts ...JSONOption) ([]byte, error) {
	jr := jsonRenderer{}
	for _, opt := range opts {
		opt(&jr)
	}

	xd, yd := r.X.Domain(), r.Y.Domain()
	out := jsonOutput{
		Width:    r.Options.Width,
		Height:   r.Options.Height,
		Padding:  r.Options.Padding,
		Domain:   [2]float64{xd.Min, xd.Max},
		YDomain:  [2]float64{yd.Min, yd.Max},
		XOffset:  r.XOffset,
		YOffset:  r.YOffset,
		XPadding: r.XPadding,
		YPadding: r.YPadding,
		BarWidth: r.BarWidth,
		Outside:  r.Outside,
		Adjusted: r.Adjusted,
		Ease:     jr.ease,
		XTicks:   buildJSONTicks(r.X.Ticks(r.Options.TickCount), r.X.TickFormat(r.Options.TickCount), r.X.Value),
		YTicks:   buildJSONTicks(r.Y.Ticks(DefaultTickCount), r.Y.TickFormat(DefaultTickCount), r.Y.Value),
		Bars:     buildJSONBars(r.Bars, jr.members),
	}

	if jr.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

func buildJSONTicks(values []float64, format func(float64) string, pos func(float64) float64) []jsonTick {
	ticks := make([]jsonTick, len(values))
	for i, v := range values {
		ticks[i] = jsonTick{Value: v, Label: format(v), Position: pos(v)}
	}
	return ticks
}

func buildJSONBars(bars []Bar, members bool) []jsonBar {
	out := make([]jsonBar, len(bars))
	for i, b := range bars {
		out[i] = jsonBar{
			ID:     BarKey(b.Index),
			Lower:  b.Bin.Lower,
			Upper:  b.Bin.Upper,
			Count:  b.Bin.Count(),
			X:      b.X,
			Y:      b.Y,
			Width:  b.Width,
			Height: b.Height,
		}
		if members {
			out[i].Members = b.Bin.Members
		}
	}
	return out
}

// BarKey is the stable identity of the bar for bin index i.
func BarKey(i int) string { return fmt.Sprintf("bar-%d", i) }
