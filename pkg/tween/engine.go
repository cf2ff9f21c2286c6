package tween

import (
	"cmp"
	"time"

	"github.com/addrummond/heap"
	"github.com/gammazero/deque"
)

type tweenKey struct {
	target Target
	attr   string
}

type tween struct {
	key      tweenKey
	from, to float64
	start    time.Duration
	dur      time.Duration
	ease     Ease
	group    *group
	seq      uint64
}

// group tracks the attributes started by one Animate call.
type group struct {
	remaining  int
	onComplete func()
}

// completion is a finished group ordered by the clock time it finished at.
type completion struct {
	at  time.Duration
	seq uint64
	fn  func()
}

func (a *completion) Cmp(b *completion) int {
	if c := cmp.Compare(a.at, b.at); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// Engine is a frame-stepped Animator. Time only moves when Advance is
// called.
type Engine struct {
	now      time.Duration
	seq      uint64
	tweens   map[tweenKey]*tween
	finished heap.Heap[completion, heap.Min]
	ready    deque.Deque[func()]
	draining bool
}

// NewEngine returns an idle engine at time zero.
func NewEngine() *Engine {
	return &Engine{tweens: make(map[tweenKey]*tween)}
}

// Now returns the engine clock.
func (e *Engine) Now() time.Duration { return e.now }

// Len returns the number of running attribute tweens.
func (e *Engine) Len() int { return len(e.tweens) }

// Busy reports whether any tween is running.
func (e *Engine) Busy() bool { return len(e.tweens) > 0 }

// Animate implements Animator. From values are applied immediately. A
// running tween of the same target attribute is superseded: it stops where
// it is and counts as finished for its own completion callback.
func (e *Engine) Animate(target Target, d time.Duration, spec Spec) {
	g := &group{onComplete: spec.OnComplete}
	for _, attr := range sortedKeys(spec.From) {
		target.SetFloat(attr, spec.From[attr])
	}

	for _, attr := range sortedKeys(spec.To) {
		key := tweenKey{target: target, attr: attr}
		if old, ok := e.tweens[key]; ok {
			delete(e.tweens, key)
			e.finish(old.group, e.now)
		}

		to := spec.To[attr]
		if d <= 0 {
			target.SetFloat(attr, to)
			continue
		}
		e.seq++
		g.remaining++
		e.tweens[key] = &tween{
			key:   key,
			from:  target.Float(attr),
			to:    to,
			start: e.now,
			dur:   d,
			ease:  spec.Ease,
			group: g,
			seq:   e.seq,
		}
	}

	if g.remaining == 0 {
		g.remaining = 1
		e.finish(g, e.now)
	}
	e.drain()
}

// Advance moves the clock forward by dt and applies one frame.
func (e *Engine) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	e.now += dt
	for key, tw := range e.tweens {
		elapsed := e.now - tw.start
		if elapsed >= tw.dur {
			key.target.SetFloat(key.attr, tw.to)
			delete(e.tweens, key)
			e.finish(tw.group, tw.start+tw.dur)
			continue
		}
		p := tw.ease.At(float64(elapsed) / float64(tw.dur))
		key.target.SetFloat(key.attr, tw.from+(tw.to-tw.from)*p)
	}
	e.drain()
}

// Finish jumps every running tween to its end.
func (e *Engine) Finish() {
	var longest time.Duration
	for _, tw := range e.tweens {
		longest = max(longest, tw.start+tw.dur-e.now)
	}
	e.Advance(longest)
}

func (e *Engine) finish(g *group, at time.Duration) {
	g.remaining--
	if g.remaining > 0 || g.onComplete == nil {
		return
	}
	e.seq++
	heap.PushOrderable(&e.finished, completion{at: at, seq: e.seq, fn: g.onComplete})
}

// drain runs completion callbacks in the order their transitions ended.
// Callbacks may start new transitions; those completing immediately run in
// the same drain.
func (e *Engine) drain() {
	if e.draining {
		return
	}
	e.draining = true
	defer func() { e.draining = false }()

	for {
		for {
			c, ok := heap.PopOrderable(&e.finished)
			if !ok {
				break
			}
			e.ready.PushBack(c.fn)
		}
		if e.ready.Len() == 0 {
			return
		}
		e.ready.PopFront()()
	}
}
