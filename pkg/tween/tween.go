// Package tween animates numeric attributes of scene nodes.
//
// An [Animator] receives one request per transition: a target, a duration
// and a [Spec] naming start and end values for a set of attributes. Two
// implementations exist:
//
//   - [Engine] steps animations frame by frame from an explicit clock
//     (Advance). A newer request on the same target attribute supersedes
//     the running one.
//   - [Recorder] applies end values at once and records each change as a
//     SMIL keyframe on the target, so a static SVG replays the transition.
//
// Completion callbacks run after the final values are applied. Neither
// implementation is safe for concurrent use.
package tween

import (
	"sort"
	"time"
)

// Target is anything with numeric attributes. *scene.Node satisfies it.
type Target interface {
	Float(attr string) float64
	SetFloat(attr string, v float64)
}

// Values maps attribute names to numbers.
type Values map[string]float64

// Spec describes one transition. Attributes present in To are animated;
// From supplies explicit start values and is applied before the first
// frame. Attributes missing from From start at their current value.
type Spec struct {
	From       Values
	To         Values
	Ease       Ease
	OnComplete func()
}

// Animator runs transitions.
type Animator interface {
	Animate(target Target, d time.Duration, spec Spec)
}

// AnimatorFunc adapts a function to Animator.
type AnimatorFunc func(target Target, d time.Duration, spec Spec)

// Animate implements Animator.
func (f AnimatorFunc) Animate(target Target, d time.Duration, spec Spec) { f(target, d, spec) }

// Immediate applies end values synchronously and completes at once.
var Immediate Animator = AnimatorFunc(func(target Target, _ time.Duration, spec Spec) {
	for _, attr := range sortedKeys(spec.To) {
		target.SetFloat(attr, spec.To[attr])
	}
	if spec.OnComplete != nil {
		spec.OnComplete()
	}
})

func sortedKeys(v Values) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
