package drift

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// pulse is a one-shot scale pop that eases back to 1. The zero value is at
// rest.
type pulse struct {
	tween *gween.Tween
	scale float64
}

func (p *pulse) start(from float64, duration float32) {
	p.tween = gween.New(float32(from), 1, duration, ease.OutBack)
	p.scale = from
}

func (p *pulse) update(dt float32) {
	if p.tween == nil {
		return
	}
	val, finished := p.tween.Update(dt)
	p.scale = float64(val)
	if finished {
		p.tween = nil
		p.scale = 1
	}
}

func (p *pulse) value() float64 {
	if p.tween == nil {
		return 1
	}
	return p.scale
}

// follower eases a value toward a moving target. A new tween starts from the
// current value whenever the target moves by more than the threshold.
type follower struct {
	tween    *gween.Tween
	value    float64
	target   float64
	duration float32
}

const followThreshold = 0.02

func newFollower(v float64, duration float32) follower {
	return follower{value: v, target: v, duration: duration}
}

func (f *follower) retarget(to float64) {
	d := to - f.target
	if d < followThreshold && d > -followThreshold {
		return
	}
	f.target = to
	f.tween = gween.New(float32(f.value), float32(to), f.duration, ease.OutQuad)
}

func (f *follower) update(dt float32) float64 {
	if f.tween == nil {
		return f.value
	}
	val, finished := f.tween.Update(dt)
	f.value = float64(val)
	if finished {
		f.tween = nil
		f.value = f.target
	}
	return f.value
}
