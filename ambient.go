package drift

import (
	"math"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"
	"go.uber.org/zap"
)

// FieldConfig controls the ambient background.
type FieldConfig struct {
	// Counts is the number of motes created per device tier.
	Counts TierCounts
	// Size is the range of mote radii in CSS pixels.
	Size Range
	// Speed bounds each component of a mote's constant drift velocity.
	Speed float64
	// Wander is the per-frame step length of the noise-driven drift.
	Wander float64
	// WanderScale is the spatial frequency of the wander noise.
	WanderScale float64
	// WanderRate advances the wander noise in time every frame.
	WanderRate float64
	// Spin bounds the per-frame rotation of each mote.
	Spin float64
	// PointerRadius is the distance within which the pointer displaces motes.
	PointerRadius float64
	// Strength is the maximum displacement toward the pointer. Negative
	// values push motes away.
	Strength float64
	// ScaleBoost is the extra scale a mote reaches right under the pointer.
	ScaleBoost float64
	// Ease is the fraction of the remaining distance to the target covered
	// each frame.
	Ease float64
	// LinkDistance is the maximum distance at which motes are joined.
	LinkDistance float64
	// LinkAlpha is the opacity of a link between two coincident motes.
	LinkAlpha float64
	// PointerLinkAlpha is the opacity of a pointer link at zero distance.
	PointerLinkAlpha float64
	// LineWidth is the width of links in CSS pixels.
	LineWidth float64
	// LinkColor tints links and pointer links.
	LinkColor Color
	// Shapes are the shape kinds motes are drawn as.
	Shapes []ShapeKind
	// Palette is the set of mote colors.
	Palette []Color
	// Seed makes the field deterministic when non-zero.
	Seed uint64
}

// DefaultFieldConfig returns the tuning used for the page background.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		Counts:           TierCounts{Mobile: 40, Tablet: 70, Desktop: 110},
		Size:             Range{3, 9},
		Speed:            0.3,
		Wander:           0.25,
		WanderScale:      0.003,
		WanderRate:       0.004,
		Spin:             0.01,
		PointerRadius:    160,
		Strength:         -40,
		ScaleBoost:       0.8,
		Ease:             0.08,
		LinkDistance:     120,
		LinkAlpha:        0.25,
		PointerLinkAlpha: 0.4,
		LineWidth:        1,
		LinkColor:        Color{R: 0.6, G: 0.62, B: 1, A: 1},
		Shapes:           []ShapeKind{ShapeRing, ShapeDot, ShapeLine, ShapeHexagon, ShapeTriangle},
		Palette:          DefaultPalette,
	}
}

// Mote is one ambient background particle.
type Mote struct {
	X, Y     float64 // rendered position, eased toward Target
	Home     Vec2    // undisturbed wandering position
	Target   Vec2    // Home displaced by the pointer, recomputed each frame
	VX, VY   float64 // constant drift of Home
	Size     float64
	Scale    float64
	Shape    ShapeKind
	Color    Color
	Rotation float64
	Spin     float64

	scale follower
}

// Link is a line between two points with an opacity in [0, 1].
type Link struct {
	A, B  Vec2
	Alpha float64
}

// Field is the ambient background: wandering motes that ease away from (or
// toward) the pointer and are joined by lines to near neighbours.
type Field struct {
	config FieldConfig
	motes  []Mote
	rng    *rand.Rand
	noise  opensimplex.Noise
	t      float64

	width, height float64
	pointer       PointerSample

	links        []Link
	pointerLinks []Link
}

// NewField creates an empty field. Motes are created on the first Resize
// with a non-zero size.
func NewField(cfg FieldConfig) *Field {
	rng := newRand(cfg.Seed)
	if len(cfg.Shapes) == 0 {
		cfg.Shapes = []ShapeKind{ShapeDot}
	}
	return &Field{
		config: cfg,
		rng:    rng,
		noise:  opensimplex.New(rng.Int64()),
	}
}

// Config returns a pointer to the field's config for live tuning.
func (f *Field) Config() *FieldConfig {
	return &f.config
}

// Motes returns the current motes. The returned slice MUST NOT be mutated.
func (f *Field) Motes() []Mote {
	return f.motes
}

// Len returns the number of motes.
func (f *Field) Len() int {
	return len(f.motes)
}

// Resize replaces the whole population with one sized for the width's tier.
func (f *Field) Resize(width, height float64) {
	f.width, f.height = width, height
	f.motes = f.motes[:0]
	f.links = f.links[:0]
	f.pointerLinks = f.pointerLinks[:0]
	if width <= 0 || height <= 0 {
		return
	}
	n := f.config.Counts.For(TierForWidth(width))
	for i := 0; i < n; i++ {
		f.motes = append(f.motes, f.randomMote(width, height))
	}
	logger.Debug("field populated",
		zap.Float64("width", width),
		zap.Float64("height", height),
		zap.Stringer("tier", TierForWidth(width)),
		zap.Int("motes", n),
	)
}

func (f *Field) randomMote(width, height float64) Mote {
	cfg := &f.config
	x := f.rng.Float64() * width
	y := f.rng.Float64() * height
	return Mote{
		X:     x,
		Y:     y,
		Home:  Vec2{X: x, Y: y},
		VX:    (f.rng.Float64()*2 - 1) * cfg.Speed,
		VY:    (f.rng.Float64()*2 - 1) * cfg.Speed,
		Size:  cfg.Size.Random(f.rng),
		Scale: 1,
		Shape: cfg.Shapes[f.rng.IntN(len(cfg.Shapes))],
		Color: pickColor(f.rng, cfg.Palette),
		Spin:  (f.rng.Float64()*2 - 1) * cfg.Spin,
		scale: newFollower(1, 0.35),
	}
}

// Step wanders every home position, recomputes targets from the pointer and
// eases rendered positions toward them. An inactive pointer has no effect,
// so motes drift back to their homes.
func (f *Field) Step(p PointerSample) {
	cfg := &f.config
	f.pointer = p
	f.t += cfg.WanderRate

	for i := range f.motes {
		m := &f.motes[i]

		n := f.noise.Eval3(m.Home.X*cfg.WanderScale, m.Home.Y*cfg.WanderScale, f.t)
		angle := n * 2 * math.Pi
		m.Home.X += m.VX + math.Cos(angle)*cfg.Wander
		m.Home.Y += m.VY + math.Sin(angle)*cfg.Wander
		f.wrap(m)

		m.Target = m.Home
		scale := 1.0
		if force, nx, ny, ok := f.proximity(m.Home, p); ok {
			m.Target.X += nx * force * cfg.Strength
			m.Target.Y += ny * force * cfg.Strength
			scale = 1 + force*cfg.ScaleBoost
		}

		m.X += (m.Target.X - m.X) * cfg.Ease
		m.Y += (m.Target.Y - m.Y) * cfg.Ease

		m.scale.retarget(scale)
		m.Scale = m.scale.update(frameDT)
		m.Rotation += m.Spin
	}

	f.buildLinks()
	f.buildPointerLinks()
}

// proximity returns the falloff force in [0, 1] and the unit direction from
// pos toward an active pointer within PointerRadius.
func (f *Field) proximity(pos Vec2, p PointerSample) (force, nx, ny float64, ok bool) {
	if !p.Active || f.config.PointerRadius <= 0 {
		return 0, 0, 0, false
	}
	dx := p.X - pos.X
	dy := p.Y - pos.Y
	d := math.Hypot(dx, dy)
	if d >= f.config.PointerRadius || d == 0 {
		return 0, 0, 0, false
	}
	return 1 - d/f.config.PointerRadius, dx / d, dy / d, true
}

// wrap moves a mote that drifted past an edge to the opposite edge. The
// rendered position moves with it so it does not ease across the screen.
func (f *Field) wrap(m *Mote) {
	margin := m.Size * 2
	if m.Home.X < -margin {
		m.Home.X += f.width + 2*margin
		m.X += f.width + 2*margin
	} else if m.Home.X > f.width+margin {
		m.Home.X -= f.width + 2*margin
		m.X -= f.width + 2*margin
	}
	if m.Home.Y < -margin {
		m.Home.Y += f.height + 2*margin
		m.Y += f.height + 2*margin
	} else if m.Home.Y > f.height+margin {
		m.Home.Y -= f.height + 2*margin
		m.Y -= f.height + 2*margin
	}
}

// buildLinks joins motes closer than LinkDistance. Only every other mote is
// used as a starting point, which halves the quadratic cost.
func (f *Field) buildLinks() {
	f.links = f.links[:0]
	maxD := f.config.LinkDistance
	if maxD <= 0 {
		return
	}
	maxSq := maxD * maxD
	for i := 0; i < len(f.motes); i += 2 {
		a := &f.motes[i]
		for j := i + 1; j < len(f.motes); j++ {
			b := &f.motes[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			dSq := dx*dx + dy*dy
			if dSq >= maxSq {
				continue
			}
			d := math.Sqrt(dSq)
			f.links = append(f.links, Link{
				A:     Vec2{X: a.X, Y: a.Y},
				B:     Vec2{X: b.X, Y: b.Y},
				Alpha: f.config.LinkAlpha * (1 - d/maxD),
			})
		}
	}
}

// buildPointerLinks joins motes near an active pointer to the pointer.
func (f *Field) buildPointerLinks() {
	f.pointerLinks = f.pointerLinks[:0]
	p := f.pointer
	r := f.config.PointerRadius
	if !p.Active || r <= 0 {
		return
	}
	for i := range f.motes {
		m := &f.motes[i]
		d := math.Hypot(p.X-m.X, p.Y-m.Y)
		if d >= r {
			continue
		}
		f.pointerLinks = append(f.pointerLinks, Link{
			A:     Vec2{X: m.X, Y: m.Y},
			B:     Vec2{X: p.X, Y: p.Y},
			Alpha: f.config.PointerLinkAlpha * (1 - d/r),
		})
	}
}

// Links returns the neighbour links computed by the last Step.
func (f *Field) Links() []Link {
	return f.links
}

// PointerLinks returns the pointer links computed by the last Step.
func (f *Field) PointerLinks() []Link {
	return f.pointerLinks
}

// Draw appends links, pointer links and motes to the batch.
func (f *Field) Draw(b *Batch) {
	c := f.config.LinkColor
	w := f.config.LineWidth
	for _, l := range f.links {
		b.Line(l.A.X, l.A.Y, l.B.X, l.B.Y, w, c.WithAlpha(l.Alpha))
	}
	for _, l := range f.pointerLinks {
		b.Line(l.A.X, l.A.Y, l.B.X, l.B.Y, w, c.WithAlpha(l.Alpha))
	}
	for i := range f.motes {
		m := &f.motes[i]
		b.Shape(m.Shape, m.X, m.Y, m.Size*m.Scale, m.Rotation, m.Color.WithAlpha(0.7))
	}
}

func (f *Field) frameCounts() (trails, links int) {
	return 0, len(f.links) + len(f.pointerLinks)
}
