package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLinearValue(t *testing.T) {
	tests := []struct {
		name   string
		domain Domain
		rng    Range
		in     float64
		want   float64
	}{
		{"midpoint", Domain{0, 100}, Range{0, 500}, 50, 250},
		{"domain min", Domain{0, 100}, Range{0, 500}, 0, 0},
		{"domain max", Domain{0, 100}, Range{0, 500}, 100, 500},
		{"inverted range", Domain{0, 4}, Range{500, 0}, 1, 375},
		{"extrapolates", Domain{0, 10}, Range{0, 100}, 20, 200},
		{"offset domain", Domain{10, 20}, Range{0, 1}, 15, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLinear(tt.domain, tt.rng)
			if got := s.Value(tt.in); got != tt.want {
				t.Errorf("Value(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLinearDegenerateDomain(t *testing.T) {
	s := NewLinear(Domain{5, 5}, Range{0, 100})
	if !s.Domain().Degenerate() {
		t.Fatal("Degenerate() = false, want true")
	}
	if got := s.Value(5); !math.IsNaN(got) {
		t.Errorf("Value on degenerate domain = %v, want NaN", got)
	}
}

func TestLinearSetRange(t *testing.T) {
	s := NewLinear(Domain{0, 10}, Range{0, 100})
	c := s.Clone()

	s.SetRange(Range{0, 50})
	if got := s.Value(10); got != 50 {
		t.Errorf("Value after SetRange = %v, want 50", got)
	}
	if got := c.Value(10); got != 100 {
		t.Errorf("clone was affected by SetRange: %v", got)
	}
}

func TestLinearInvert(t *testing.T) {
	s := NewLinear(Domain{0, 8}, Range{400, 0})
	require.Equal(t, 0.0, s.Invert(400))
	require.Equal(t, 8.0, s.Invert(0))
	require.InDelta(t, 2.0, s.Invert(300), 1e-9)
}

func TestDomainContains(t *testing.T) {
	d := Domain{0, 100}
	require.True(t, d.Contains(0))
	require.True(t, d.Contains(100))
	require.False(t, d.Contains(-0.5))
	require.False(t, d.Contains(100.1))
	require.True(t, Domain{10, 0}.Contains(5))
}

// Endpoints map exactly and the mapping is monotone in the direction of
// (r1-r0)/(d1-d0).
func TestLinearProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d0 := float64(rapid.IntRange(-1000, 1000).Draw(t, "d0"))
		d1 := float64(rapid.IntRange(-1000, 1000).Draw(t, "d1"))
		if d0 == d1 {
			t.Skip("degenerate domain")
		}
		r0 := float64(rapid.IntRange(-1000, 1000).Draw(t, "r0"))
		r1 := float64(rapid.IntRange(-1000, 1000).Draw(t, "r1"))
		s := NewLinear(Domain{d0, d1}, Range{r0, r1})

		require.Equal(t, r0, s.Value(d0))
		require.Equal(t, r1, s.Value(d1))

		a := rapid.Float64Range(-2000, 2000).Draw(t, "a")
		b := rapid.Float64Range(-2000, 2000).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		va, vb := s.Value(a), s.Value(b)
		slope := (r1 - r0) / (d1 - d0)
		switch {
		case slope > 0:
			require.LessOrEqual(t, va, vb)
		case slope < 0:
			require.GreaterOrEqual(t, va, vb)
		default:
			require.Equal(t, va, vb)
		}
	})
}
