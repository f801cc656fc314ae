package drift

import "math"

// TrailConfig controls how arena bodies shed trail particles.
type TrailConfig struct {
	// Speed is the body speed (units per frame) above which trails spawn.
	// Dragged bodies always qualify.
	Speed float64
	// Chance is the per-body, per-frame spawn probability once qualified.
	Chance float64
	// MaxPerFrame caps spawns across the whole arena in one frame.
	MaxPerFrame int
	// MaxTrails is the pool size. New trails are silently dropped when full.
	MaxTrails int
	// Life is the range of starting life values, within (0, 1].
	Life Range
	// Decay is the range of per-frame life decrements.
	Decay Range
	// Size is the range of trail radii as a fraction of the parent radius.
	Size Range
	// Drag multiplies trail velocity every frame.
	Drag float64
}

// DefaultTrailConfig returns the trail tuning used by DefaultArenaConfig.
func DefaultTrailConfig() TrailConfig {
	return TrailConfig{
		Speed:       4,
		Chance:      0.3,
		MaxPerFrame: 3,
		MaxTrails:   256,
		Life:        Range{0.6, 1},
		Decay:       Range{0.02, 0.05},
		Size:        Range{0.12, 0.25},
		Drag:        0.95,
	}
}

// minDecay keeps every trail's life strictly decreasing.
const minDecay = 1e-3

// Trail is a short-lived, purely visual particle left behind by a fast or
// dragged body.
type Trail struct {
	X, Y   float64
	VX, VY float64
	Size   float64
	Color  Color
	Life   float64 // in [0, 1]; removed once it reaches 0
	decay  float64
	drag   float64
	depth  float64 // parent body's depth, for parallax
}

// trailPool holds live trails up to a fixed capacity.
type trailPool struct {
	items []Trail
	max   int
}

func newTrailPool(max int) trailPool {
	if max <= 0 {
		max = 128
	}
	return trailPool{items: make([]Trail, 0, max), max: max}
}

func (p *trailPool) reset() {
	p.items = p.items[:0]
}

// update ages and moves every trail. The scan runs from the end so that
// removing index i (by moving the last item into it) never skips an item.
func (p *trailPool) update() {
	for i := len(p.items) - 1; i >= 0; i-- {
		t := &p.items[i]
		t.Life -= t.decay
		if t.Life <= 0 {
			last := len(p.items) - 1
			p.items[i] = p.items[last]
			p.items[last] = Trail{}
			p.items = p.items[:last]
			continue
		}
		t.X += t.VX
		t.Y += t.VY
		t.VX *= t.drag
		t.VY *= t.drag
	}
}

// spawn adds t if there is room. Reports whether it was added.
func (p *trailPool) spawn(t Trail) bool {
	if len(p.items) >= p.max {
		return false
	}
	if t.decay < minDecay {
		t.decay = minDecay
	}
	p.items = append(p.items, t)
	return true
}

// spawnTrails sheds trails from fast or dragged bodies, bounded by
// MaxPerFrame across the arena.
func (a *Arena) spawnTrails() {
	cfg := &a.config.Trail
	for i := range a.bodies {
		if a.spawned >= cfg.MaxPerFrame {
			return
		}
		b := &a.bodies[i]
		dragged := a.drag.active && i == a.drag.index
		speed := math.Hypot(b.VX, b.VY)
		if !dragged && speed <= cfg.Speed {
			continue
		}
		if a.rng.Float64() >= cfg.Chance {
			continue
		}
		jitter := b.Radius * 0.5
		t := Trail{
			X:     b.X + (a.rng.Float64()*2-1)*jitter,
			Y:     b.Y + (a.rng.Float64()*2-1)*jitter,
			VX:    -b.VX*0.1 + (a.rng.Float64()*2-1)*0.5,
			VY:    -b.VY*0.1 + (a.rng.Float64()*2-1)*0.5,
			Size:  b.Radius * cfg.Size.Random(a.rng),
			Color: b.Color,
			Life:  clamp01(cfg.Life.Random(a.rng)),
			decay: cfg.Decay.Random(a.rng),
			drag:  cfg.Drag,
			depth: b.Depth,
		}
		if a.trails.spawn(t) {
			a.spawned++
		}
	}
}
