package tween

import (
	"time"

	"github.com/matzehuels/histochart/pkg/scene"
)

// Keyframer stores SMIL keyframes. *scene.Node satisfies it.
type Keyframer interface {
	SetAnimation(a scene.Animation)
	ClearAnimation(attr string)
}

// Recorder is an Animator for static output. It applies end values at once
// and, for targets that are Keyframers, records each change as an
// animation so the serialized SVG replays it. Completion callbacks run
// synchronously.
type Recorder struct {
	// Count is the number of keyframes recorded.
	Count int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Animate implements Animator.
func (r *Recorder) Animate(target Target, d time.Duration, spec Spec) {
	for _, attr := range sortedKeys(spec.From) {
		target.SetFloat(attr, spec.From[attr])
	}

	kf, _ := target.(Keyframer)
	for _, attr := range sortedKeys(spec.To) {
		from, to := target.Float(attr), spec.To[attr]
		target.SetFloat(attr, to)
		if kf == nil {
			continue
		}
		if d <= 0 || from == to {
			kf.ClearAnimation(attr)
			continue
		}
		kf.SetAnimation(scene.Animation{
			Attr:     attr,
			From:     from,
			To:       to,
			Duration: d,
			Spline:   spec.Ease.Spline,
		})
		r.Count++
	}

	if spec.OnComplete != nil {
		spec.OnComplete()
	}
}
