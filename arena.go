package drift

import (
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
)

// frameDT is the nominal frame duration used for tweens. Kinematics are in
// units per frame and do not use it.
const frameDT = float32(1.0 / 60.0)

// ArenaConfig controls population, physics and trails of an Arena.
type ArenaConfig struct {
	// Counts is the number of bodies created per device tier.
	Counts TierCounts
	// Radius is the range of body radii in CSS pixels.
	Radius Range
	// Speed bounds each initial velocity component to [-Speed, Speed].
	Speed float64
	// Restitution is the fraction of velocity kept after a wall bounce (< 1).
	Restitution float64
	// Damping multiplies every velocity once per frame (slightly below 1).
	Damping float64
	// SquareChance is the probability a body is a square rather than a circle.
	SquareChance float64
	// GrabKick bounds each velocity component randomised at grab time.
	GrabKick float64
	// GrabPulse is the scale a body pops to when grabbed before easing back to 1.
	GrabPulse float64
	// Spin converts horizontal velocity into square rotation per frame.
	Spin float64
	// Parallax scales the scroll offset applied to each body by its depth.
	Parallax float64
	// Palette is the set of body colors.
	Palette []Color
	// Trail controls ephemeral motion trails.
	Trail TrailConfig
	// Seed makes the arena deterministic when non-zero.
	Seed uint64
}

// DefaultArenaConfig returns the tuning used by the footer playground.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		Counts:       TierCounts{Mobile: 6, Tablet: 10, Desktop: 14},
		Radius:       Range{20, 45},
		Speed:        2,
		Restitution:  0.8,
		Damping:      0.995,
		SquareChance: 0.5,
		GrabKick:     6,
		GrabPulse:    1.25,
		Spin:         0.01,
		Parallax:     0.15,
		Palette:      DefaultPalette,
		Trail:        DefaultTrailConfig(),
	}
}

// Body is a physics particle in the arena.
type Body struct {
	ID       int
	X, Y     float64
	VX, VY   float64
	Radius   float64
	Mass     float64
	Shape    ShapeKind
	Color    Color
	Depth    float64
	Rotation float64

	pulse pulse
}

// Scale returns the body's current visual scale (1 unless a grab pulse is
// running).
func (b *Body) Scale() float64 {
	return b.pulse.value()
}

// massForRadius is the only way mass is ever derived.
func massForRadius(r float64) float64 {
	return r / 10
}

func newBody(id int, x, y, vx, vy, radius float64, shape ShapeKind, c Color, depth float64) Body {
	return Body{
		ID:     id,
		X:      x,
		Y:      y,
		VX:     vx,
		VY:     vy,
		Radius: radius,
		Mass:   massForRadius(radius),
		Shape:  shape,
		Color:  c,
		Depth:  depth,
	}
}

// Arena is the footer playground: bodies bounce off the walls and each
// other, can be dragged and thrown, and leave trails when moving fast.
type Arena struct {
	config ArenaConfig
	bodies []Body
	trails trailPool
	rng    *rand.Rand

	width, height float64
	nextID        int

	drag         dragState
	pointer      Vec2
	pointerDelta Vec2
	havePointer  bool
	scroll       float64

	spawned int // trails spawned this frame
	sink    EventSink
}

// NewArena creates an empty arena. Bodies are created on the first Resize
// with a non-zero size.
func NewArena(cfg ArenaConfig) *Arena {
	if cfg.Radius.Min <= 0 {
		cfg.Radius.Min = 1
	}
	if cfg.Radius.Max < cfg.Radius.Min {
		cfg.Radius.Max = cfg.Radius.Min
	}
	return &Arena{
		config: cfg,
		rng:    newRand(cfg.Seed),
		trails: newTrailPool(cfg.Trail.MaxTrails),
	}
}

// Config returns a pointer to the arena's config for live tuning.
func (a *Arena) Config() *ArenaConfig {
	return &a.config
}

// SetEventSink sets the optional receiver of grab, release and collision
// events.
func (a *Arena) SetEventSink(s EventSink) {
	a.sink = s
}

// Bodies returns the current bodies. The returned slice MUST NOT be
// mutated.
func (a *Arena) Bodies() []Body {
	return a.bodies
}

// Trails returns the live trail particles. The returned slice MUST NOT be
// mutated.
func (a *Arena) Trails() []Trail {
	return a.trails.items
}

// Len returns the number of bodies.
func (a *Arena) Len() int {
	return len(a.bodies)
}

// Size returns the arena's surface size in CSS pixels.
func (a *Arena) Size() (w, h float64) {
	return a.width, a.height
}

// Resize stores the new surface size and rebuilds the population for the
// tier that width falls in. A zero-sized surface holds no bodies.
func (a *Arena) Resize(width, height float64) {
	a.width, a.height = width, height
	a.endDrag()
	a.trails.reset()
	a.bodies = a.bodies[:0]
	if width <= 0 || height <= 0 {
		return
	}

	n := a.config.Counts.For(TierForWidth(width))
	for i := 0; i < n; i++ {
		a.bodies = append(a.bodies, a.randomBody(width, height))
	}
	logger.Debug("arena populated",
		zap.Float64("width", width),
		zap.Float64("height", height),
		zap.Stringer("tier", TierForWidth(width)),
		zap.Int("bodies", n),
	)
}

func (a *Arena) randomBody(width, height float64) Body {
	cfg := &a.config
	r := cfg.Radius.Random(a.rng)
	// Keep the body fully on-surface even when the surface is smaller than
	// the body.
	r = math.Min(r, math.Min(width, height)/2)

	shape := ShapeCircle
	if a.rng.Float64() < cfg.SquareChance {
		shape = ShapeSquare
	}
	x := r + a.rng.Float64()*(width-2*r)
	y := r + a.rng.Float64()*(height-2*r)
	vx := (a.rng.Float64()*2 - 1) * cfg.Speed
	vy := (a.rng.Float64()*2 - 1) * cfg.Speed
	// 1-Float64 is in (0, 1], so depth is in (0.2, 1].
	depth := 0.2 + 0.8*(1-a.rng.Float64())

	id := a.nextID
	a.nextID++
	return newBody(id, x, y, vx, vy, r, shape, pickColor(a.rng, cfg.Palette), depth)
}

// Step advances the arena by one frame: integration, then collision
// resolution (which also spawns trails). p is the pointer in arena-local
// coordinates.
func (a *Arena) Step(p PointerSample) {
	a.scroll = p.ScrollY
	a.trackPointer(p)
	a.integrate()
	a.collide()
}

// trackPointer records the pointer position and its displacement since the
// previous frame.
func (a *Arena) trackPointer(p PointerSample) {
	cur := Vec2{X: p.X, Y: p.Y}
	if a.havePointer {
		a.pointerDelta = Vec2{X: cur.X - a.pointer.X, Y: cur.Y - a.pointer.Y}
	} else {
		a.pointerDelta = Vec2{}
	}
	a.pointer = cur
	a.havePointer = true
}

// parallaxOffset is the vertical render offset for a body at the current
// scroll position. Bodies are simulated without it; the pointer and hit
// tests are in drawn coordinates.
func (a *Arena) parallaxOffset(b *Body) float64 {
	return a.depthOffset(b.Depth)
}

func (a *Arena) depthOffset(depth float64) float64 {
	return -a.scroll * depth * a.config.Parallax
}

// Draw appends the arena's trails and bodies to the batch.
func (a *Arena) Draw(batch *Batch) {
	for i := range a.trails.items {
		t := &a.trails.items[i]
		batch.Shape(ShapeDot, t.X, t.Y+a.depthOffset(t.depth), t.Size, 0, t.Color.WithAlpha(t.Life*0.6))
	}
	for i := range a.bodies {
		b := &a.bodies[i]
		batch.Shape(b.Shape, b.X, b.Y+a.parallaxOffset(b), b.Radius*b.Scale(), b.Rotation, b.Color)
	}
}

func (a *Arena) emit(ev ArenaEvent) {
	if a.sink != nil {
		a.sink.EmitEvent(ev)
	}
}

func (a *Arena) frameCounts() (trails, links int) {
	return len(a.trails.items), 0
}
