package scale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTicks(t *testing.T) {
	tests := []struct {
		name        string
		start, stop float64
		count       int
		want        []float64
	}{
		{"unit decades", 0, 100, 10, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
		{"fractional", 0, 1, 5, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{"halves", 0, 5, 10, []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}},
		{"single count", 0, 1, 1, []float64{0, 1}},
		{"reversed", 10, 0, 5, []float64{10, 8, 6, 4, 2, 0}},
		{"offset", 3, 17, 5, []float64{4, 6, 8, 10, 12, 14, 16}},
		{"equal bounds", 7, 7, 10, []float64{7}},
		{"zero count", 0, 10, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ticks(tt.start, tt.stop, tt.count)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTicksFiftyOverHundred(t *testing.T) {
	ticks := Ticks(0, 100, 50)
	require.Len(t, ticks, 51)
	require.Equal(t, 0.0, ticks[0])
	require.Equal(t, 2.0, ticks[1])
	require.Equal(t, 100.0, ticks[50])
}

func TestTickIncrement(t *testing.T) {
	tests := []struct {
		start, stop float64
		count       int
		want        float64
	}{
		{0, 100, 10, 10},
		{0, 100, 50, 2},
		{0, 1000, 3, 500},
		{0, 1, 10, -10},
		{0, 5, 10, -2},
	}
	for _, tt := range tests {
		if got := TickIncrement(tt.start, tt.stop, tt.count); got != tt.want {
			t.Errorf("TickIncrement(%v, %v, %d) = %v, want %v", tt.start, tt.stop, tt.count, got, tt.want)
		}
	}
}

func TestTickFormat(t *testing.T) {
	tests := []struct {
		name        string
		start, stop float64
		count       int
		in          float64
		want        string
	}{
		{"integers", 0, 100, 10, 40, "40"},
		{"one decimal", 0, 5, 10, 2.5, "2.5"},
		{"pads decimals", 0, 5, 10, 2, "2.0"},
		{"two decimals", 0, 0.1, 10, 0.05, "0.05"},
		{"negative zero", 0, 100, 10, -0.0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := TickFormat(tt.start, tt.stop, tt.count)
			if got := f(tt.in); got != tt.want {
				t.Errorf("format(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLinearTicksUseDomain(t *testing.T) {
	s := NewLinear(Domain{0, 100}, Range{0, 500})
	require.Equal(t, Ticks(0, 100, 10), s.Ticks(10))
	require.Equal(t, "30", s.TickFormat(10)(30))
}
