package histogram

import (
	"time"

	"github.com/matzehuels/histochart/pkg/chart/layout"
	"github.com/matzehuels/histochart/pkg/scene"
	"github.com/matzehuels/histochart/pkg/tween"
)

// barProps is the committed geometry of one bar.
type barProps struct {
	X, Y          float64
	Width, Height float64
	Count         int
	Lower, Upper  float64
}

func barPropsFrom(b layout.Bar) barProps {
	return barProps{
		X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
		Count: b.Bin.Count(), Lower: b.Bin.Lower, Upper: b.Bin.Upper,
	}
}

// barReconciler turns transition group callbacks into tweens.
type barReconciler struct {
	animator tween.Animator
	duration time.Duration
	ease     tween.Ease
	exit     bool
	baseline float64

	entered, updated, exited int
}

func (r *barReconciler) reset(baseline float64, duration time.Duration, ease tween.Ease) {
	r.baseline = baseline
	r.duration = duration
	r.ease = ease
	r.entered, r.updated, r.exited = 0, 0, 0
}

func (r *barReconciler) Create(key string, p barProps) *scene.Node {
	n := scene.New("rect", "class", "bar", "data-key", key)
	n.SetFloat("x", p.X)
	n.SetFloat("width", p.Width)
	n.SetFloat("y", r.baseline)
	n.SetFloat("height", 0)
	return n
}

func (r *barReconciler) WillEnter(n *scene.Node, p barProps, done func()) {
	r.entered++
	setData(n, p)
	r.animator.Animate(n, r.duration, tween.Spec{
		From:       tween.Values{"y": r.baseline, "height": 0},
		To:         tween.Values{"y": p.Y, "height": p.Height},
		Ease:       r.ease,
		OnComplete: done,
	})
}

func (r *barReconciler) DidUpdate(n *scene.Node, prev, next barProps) {
	setData(n, next)
	if prev == next {
		return
	}
	r.updated++
	r.animator.Animate(n, r.duration, tween.Spec{
		To:   tween.Values{"x": next.X, "y": next.Y, "width": next.Width, "height": next.Height},
		Ease: r.ease,
	})
}

func (r *barReconciler) WillLeave(n *scene.Node, p barProps, done func()) {
	r.exited++
	if !r.exit {
		done()
		return
	}
	r.animator.Animate(n, r.duration, tween.Spec{
		To:         tween.Values{"y": r.baseline, "height": 0},
		Ease:       r.ease,
		OnComplete: done,
	})
}

func setData(n *scene.Node, p barProps) {
	n.SetFloat("data-count", float64(p.Count))
	n.SetFloat("data-lower", p.Lower)
	n.SetFloat("data-upper", p.Upper)
}
