package layout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/matzehuels/histochart/pkg/chart/scale"
	"github.com/matzehuels/histochart/pkg/errors"
	"github.com/matzehuels/histochart/pkg/scene"
)

func domain(lo, hi float64) *scale.Domain { return &scale.Domain{Min: lo, Max: hi} }

func TestComputeEvenBins(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50}
	opts := Options{Width: 500, Height: 500, Padding: 5, Domain: domain(0, 100)}

	res, err := Compute(data, opts, nil)
	require.NoError(t, err)
	require.Len(t, res.Bins, 10)
	require.Len(t, res.Bars, 10)
	require.Equal(t, scale.Domain{Min: 0, Max: 1}, res.Y.Domain())
	require.InDelta(t, 44.5, res.BarWidth, 1e-9)
	require.False(t, res.Adjusted)

	for i, b := range res.Bars {
		require.InDelta(t, float64(i)*49.5+5, b.X, 1e-9)
		require.InDelta(t, 500, b.Y+b.Height, 1e-9, "bars stand on the baseline")
		if i >= 1 && i <= 5 {
			require.Equal(t, 1, b.Bin.Count())
			require.Equal(t, 0.0, b.Y)
			require.Equal(t, 500.0, b.Height)
		} else {
			require.Equal(t, 0, b.Bin.Count())
			require.Equal(t, 0.0, b.Height)
		}
	}
	require.Equal(t, 500.0, res.Baseline())
}

func TestComputeTickCountControlsBins(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50}
	res, err := Compute(data, Options{Width: 500, Height: 500, Padding: 5, Domain: domain(0, 100), TickCount: 50}, nil)
	require.NoError(t, err)
	require.Len(t, res.Bins, 50)
	require.InDelta(t, 4.9, res.BarWidth, 1e-9)
	for _, b := range res.Bins {
		require.LessOrEqual(t, b.Count(), 1)
		require.InDelta(t, 2, b.Width(), 1e-9)
	}
}

func TestComputeInfersDomain(t *testing.T) {
	res, err := Compute([]float64{100}, Options{Width: 500, Height: 500}, nil)
	require.NoError(t, err)
	require.Equal(t, scale.Domain{Min: 0, Max: 100}, res.X.Domain())
	require.Equal(t, scale.Domain{Min: 0, Max: 1}, res.Y.Domain())

	last := res.Bars[len(res.Bars)-1]
	require.Equal(t, 1, last.Bin.Count())
	require.Equal(t, 500.0, last.Height)
}

func TestComputeCountsOutsideValues(t *testing.T) {
	res, err := Compute([]float64{-5, 5, 50, 150}, Options{Width: 500, Height: 500, Domain: domain(0, 100)}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, res.Outside)
	require.Equal(t, 2, res.Bins[0].Count()+res.Bins[5].Count())
}

func TestComputeWithMeasurement(t *testing.T) {
	m := Measurement{
		XAxis: scene.Box{W: 510, H: 20},
		YAxis: scene.Box{W: 30, H: 505},
	}
	res, err := Compute([]float64{10, 20, 30, 40, 50}, Options{Width: 500, Height: 500, Padding: 5, Domain: domain(0, 100)}, &m)
	require.NoError(t, err)
	require.True(t, res.Adjusted)
	require.Equal(t, 30.0, res.XOffset)
	require.Equal(t, 20.0, res.YOffset)
	require.Equal(t, 10.0, res.XPadding)
	require.Equal(t, 5.0, res.YPadding)
	require.Equal(t, scale.Range{R0: 0, R1: 460}, res.X.Range())
	require.Equal(t, scale.Range{R0: 475, R1: 0}, res.Y.Range())
	require.InDelta(t, 40.5, res.BarWidth, 1e-9)
	require.Equal(t, 475.0, res.Bars[0].Y)
	require.Equal(t, 475.0, res.Bars[1].Height)
}

func TestAdjustIsIdempotent(t *testing.T) {
	data := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	opts := Options{Width: 320, Height: 240, Padding: 2}
	m := Measurement{XAxis: scene.Box{X: -3, W: 330, H: 17}, YAxis: scene.Box{X: -20, W: 20.5, H: 245}}

	a, err := Compute(data, opts, &m)
	require.NoError(t, err)
	b, err := Compute(data, opts, nil)
	require.NoError(t, err)
	require.NoError(t, b.Adjust(m))
	require.NoError(t, b.Adjust(m))

	require.Equal(t, a.Bars, b.Bars)
	require.Equal(t, a.X.Range(), b.X.Range())
	require.Equal(t, a.Y.Range(), b.Y.Range())
	require.Equal(t, a.XOffset, b.XOffset)
	require.Equal(t, a.YPadding, b.YPadding)
}

func TestComputeRejects(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		opts Options
	}{
		{"zero width", []float64{1}, Options{Width: 0, Height: 100}},
		{"negative height", []float64{1}, Options{Width: 100, Height: -1}},
		{"no data", nil, Options{Width: 100, Height: 100}},
		{"degenerate domain", []float64{1}, Options{Width: 100, Height: 100, Domain: domain(5, 5)}},
		{"reversed domain", []float64{1}, Options{Width: 100, Height: 100, Domain: domain(5, 1)}},
		{"all zero data", []float64{0, 0}, Options{Width: 100, Height: 100}},
		{"negative data", []float64{-3, -1}, Options{Width: 100, Height: 100}},
		{"negative padding", []float64{1}, Options{Width: 100, Height: 100, Padding: -1}},
		{"padding too wide", []float64{1, 2}, Options{Width: 100, Height: 100, Padding: 50}},
		{"negative ticks", []float64{1}, Options{Width: 100, Height: 100, TickCount: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.data, tt.opts, nil)
			require.Error(t, err)
			require.True(t, errors.Is(err, errors.ErrCodeConfiguration), err.Error())
		})
	}
}

func TestAdjustRejectsOversizedAxes(t *testing.T) {
	res, err := Compute([]float64{1, 2}, Options{Width: 100, Height: 100}, nil)
	require.NoError(t, err)
	err = res.Adjust(Measurement{YAxis: scene.Box{W: 100}})
	require.True(t, errors.Is(err, errors.ErrCodeConfiguration))
	require.False(t, res.Adjusted)
}

func TestAdjustFailureKeepsResult(t *testing.T) {
	res, err := Compute([]float64{10, 20}, Options{Width: 100, Height: 100, Padding: 5, Domain: domain(0, 100)}, nil)
	require.NoError(t, err)
	require.Len(t, res.Bins, 10)
	bars, bw := res.Bars, res.BarWidth
	xr, yr := res.X.Range(), res.Y.Range()

	err = res.Adjust(Measurement{YAxis: scene.Box{W: 50, H: 100}, XAxis: scene.Box{W: 100, H: 20}})
	require.True(t, errors.Is(err, errors.ErrCodeConfiguration))
	require.False(t, res.Adjusted)
	require.Equal(t, xr, res.X.Range())
	require.Equal(t, yr, res.Y.Range())
	require.Equal(t, bars, res.Bars)
	require.Equal(t, bw, res.BarWidth)
	require.Zero(t, res.XOffset)
	require.Zero(t, res.YOffset)
}

// A positive bar width exists exactly when the width exceeds the padding
// consumed around and between the bars.
func TestBarWidthProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.Float64Range(1, 1000).Draw(t, "width")
		padding := rapid.Float64Range(0, 100).Draw(t, "padding")

		res, err := Compute([]float64{50}, Options{Width: width, Height: 100, Padding: padding, Domain: domain(0, 100)}, nil)
		if width > padding*11 {
			require.NoError(t, err)
			require.Greater(t, res.BarWidth, 0.0)
			last := res.Bars[len(res.Bars)-1]
			require.InDelta(t, width-padding, last.X+last.Width, 1e-6)
		} else {
			require.True(t, errors.Is(err, errors.ErrCodeConfiguration))
		}
	})
}

func TestRenderJSON(t *testing.T) {
	res, err := Compute([]float64{10, 20, 30}, Options{Width: 500, Height: 500, Padding: 5, Domain: domain(0, 100)}, nil)
	require.NoError(t, err)

	out, err := RenderJSON(res, WithJSONMembers(), WithJSONEase("cubic-out"))
	require.NoError(t, err)

	var got struct {
		Domain [2]float64 `json:"domain"`
		Ease   string     `json:"ease"`
		XTicks []struct {
			Label string `json:"label"`
		} `json:"x_ticks"`
		Bars []struct {
			ID      string    `json:"id"`
			Count   int       `json:"count"`
			Members []float64 `json:"members"`
		} `json:"bars"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	require.Equal(t, [2]float64{0, 100}, got.Domain)
	require.Equal(t, "cubic-out", got.Ease)
	require.Len(t, got.XTicks, 11)
	require.Equal(t, "100", got.XTicks[10].Label)
	require.Len(t, got.Bars, 10)
	require.Equal(t, "bar-2", got.Bars[2].ID)
	require.Equal(t, []float64{20}, got.Bars[2].Members)
}
