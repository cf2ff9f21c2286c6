package tween

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/matzehuels/histochart/pkg/errors"
	"github.com/matzehuels/histochart/pkg/scene"
)

// probe is a pointer target so it can key the engine's tween table.
type probe struct{ v map[string]float64 }

func newProbe() *probe { return &probe{v: make(map[string]float64)} }

func (p *probe) Float(attr string) float64       { return p.v[attr] }
func (p *probe) SetFloat(attr string, f float64) { p.v[attr] = f }

func TestParseEase(t *testing.T) {
	e, err := ParseEase("")
	require.NoError(t, err)
	require.Equal(t, CubicOut, e)

	e, err = ParseEase(" Linear ")
	require.NoError(t, err)
	require.Equal(t, Linear, e)

	_, err = ParseEase("bounce")
	require.True(t, errors.Is(err, errors.ErrCodeConfiguration))

	require.Contains(t, EaseNames(), "cubic-in-out")
}

func TestEaseEndpoints(t *testing.T) {
	for _, name := range EaseNames() {
		e, _ := ParseEase(name)
		require.Equal(t, 0.0, e.At(0), name)
		require.Equal(t, 1.0, e.At(1), name)
		require.Equal(t, 0.0, e.At(-1), name)
		require.Equal(t, 1.0, e.At(2), name)
	}
	require.InDelta(t, 0.3, Linear.At(0.3), 1e-12)
	require.Greater(t, CubicOut.At(0.5), 0.5, "ease-out runs ahead")
	require.Less(t, CubicIn.At(0.5), 0.5, "ease-in lags")
	require.InDelta(t, 0.5, CubicInOut.At(0.5), 1e-6, "symmetric curve")
}

func TestEaseMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.SampledFrom(EaseNames()).Draw(t, "ease")
		e, _ := ParseEase(name)
		a := rapid.Float64Range(0, 1).Draw(t, "a")
		b := rapid.Float64Range(0, 1).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		require.LessOrEqual(t, e.At(a), e.At(b)+1e-6)
	})
}

func TestEngineRunsToCompletion(t *testing.T) {
	e := NewEngine()
	p := newProbe()
	p.v["height"] = 10
	v := p.v
	done := 0

	e.Animate(p, 100*time.Millisecond, Spec{
		From:       Values{"y": 50},
		To:         Values{"y": 0, "height": 50},
		Ease:       Linear,
		OnComplete: func() { done++ },
	})
	require.Equal(t, 50.0, v["y"], "from values apply immediately")
	require.Equal(t, 2, e.Len())

	e.Advance(50 * time.Millisecond)
	require.InDelta(t, 25, v["y"], 1e-9)
	require.InDelta(t, 30, v["height"], 1e-9)
	require.Zero(t, done)

	e.Advance(60 * time.Millisecond)
	require.Equal(t, 0.0, v["y"])
	require.Equal(t, 50.0, v["height"])
	require.Equal(t, 1, done)
	require.False(t, e.Busy())
	require.Equal(t, 110*time.Millisecond, e.Now())
}

func TestEngineSupersedes(t *testing.T) {
	e := NewEngine()
	p := newProbe()
	v := p.v
	var order []string

	e.Animate(p, 100*time.Millisecond, Spec{
		To: Values{"height": 100}, Ease: Linear,
		OnComplete: func() { order = append(order, "first") },
	})
	e.Advance(50 * time.Millisecond)
	require.InDelta(t, 50, v["height"], 1e-9)

	e.Animate(p, 100*time.Millisecond, Spec{
		To: Values{"height": 0}, Ease: Linear,
		OnComplete: func() { order = append(order, "second") },
	})
	require.Equal(t, []string{"first"}, order, "superseded tween counts as finished")
	require.Equal(t, 1, e.Len())

	e.Advance(50 * time.Millisecond)
	require.InDelta(t, 25, v["height"], 1e-9, "new tween starts from the interrupted value")

	e.Finish()
	require.Equal(t, 0.0, v["height"])
	require.Equal(t, []string{"first", "second"}, order)
}

func TestEngineCompletionOrder(t *testing.T) {
	e := NewEngine()
	var order []string
	for _, c := range []struct {
		name string
		d    time.Duration
	}{{"slow", 300 * time.Millisecond}, {"fast", 100 * time.Millisecond}, {"mid", 200 * time.Millisecond}} {
		e.Animate(newProbe(), c.d, Spec{To: Values{"x": 1}, OnComplete: func() { order = append(order, c.name) }})
	}

	e.Advance(time.Second)
	require.Equal(t, []string{"fast", "mid", "slow"}, order)
}

func TestEngineZeroDuration(t *testing.T) {
	e := NewEngine()
	p := newProbe()
	v := p.v
	chained := false

	e.Animate(p, 0, Spec{
		To: Values{"x": 3},
		OnComplete: func() {
			e.Animate(p, 0, Spec{To: Values{"x": 4}, OnComplete: func() { chained = true }})
		},
	})
	require.Equal(t, 4.0, v["x"])
	require.True(t, chained)
	require.False(t, e.Busy())
}

func TestRecorderWritesKeyframes(t *testing.T) {
	r := NewRecorder()
	doc := scene.NewDocument(10, 10)
	rect := doc.Append(scene.New("rect", "y", "40", "height", "0"))
	completed := false

	r.Animate(rect, 250*time.Millisecond, Spec{
		To:         Values{"y": 10, "height": 30, "x": 0},
		Ease:       CubicOut,
		OnComplete: func() { completed = true },
	})

	require.True(t, completed)
	require.Equal(t, 10.0, rect.Float("y"))
	require.Equal(t, 30.0, rect.Float("height"))
	require.Equal(t, []scene.Animation{
		{Attr: "height", From: 0, To: 30, Duration: 250 * time.Millisecond, Spline: CubicOut.Spline},
		{Attr: "y", From: 40, To: 10, Duration: 250 * time.Millisecond, Spline: CubicOut.Spline},
	}, rect.Animations(), "unchanged attributes get no keyframe")
	require.Equal(t, 2, r.Count)

	r.Animate(rect, 0, Spec{To: Values{"height": 5}})
	require.Len(t, rect.Animations(), 1)
}

func TestImmediate(t *testing.T) {
	p := newProbe()
	v := p.v
	done := false
	Immediate.Animate(p, time.Second, Spec{To: Values{"a": 1}, OnComplete: func() { done = true }})
	require.Equal(t, 1.0, v["a"])
	require.True(t, done)
}
