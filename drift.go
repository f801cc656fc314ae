package drift

import (
	"image/color"
	"math/rand/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when vertices are built for submission.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// ShapeKind is the closed set of shapes the renderer knows how to draw.
type ShapeKind uint8

const (
	ShapeCircle   ShapeKind = iota // filled disc
	ShapeSquare                    // filled square, rotates with spin
	ShapeRing                      // stroked circle
	ShapeDot                       // small filled disc
	ShapeLine                      // stroked segment centered on the particle
	ShapeHexagon                   // stroked hexagon
	ShapeTriangle                  // stroked triangle
)

var shapeNames = [...]string{"circle", "square", "ring", "dot", "line", "hexagon", "triangle"}

func (k ShapeKind) String() string {
	if int(k) < len(shapeNames) {
		return shapeNames[k]
	}
	return "unknown"
}

// Tier classifies a viewport width for sizing particle populations.
type Tier uint8

const (
	TierMobile  Tier = iota // width < 768
	TierTablet              // width < 1024
	TierDesktop             // everything wider
)

const (
	tabletMinWidth  = 768
	desktopMinWidth = 1024
)

// TierForWidth returns the device tier for a surface width in CSS pixels.
func TierForWidth(w float64) Tier {
	switch {
	case w < tabletMinWidth:
		return TierMobile
	case w < desktopMinWidth:
		return TierTablet
	default:
		return TierDesktop
	}
}

func (t Tier) String() string {
	switch t {
	case TierMobile:
		return "mobile"
	case TierTablet:
		return "tablet"
	default:
		return "desktop"
	}
}

// TierCounts holds a particle count per device tier.
type TierCounts struct {
	Mobile, Tablet, Desktop int
}

// For returns the count for the given tier.
func (c TierCounts) For(t Tier) int {
	switch t {
	case TierMobile:
		return c.Mobile
	case TierTablet:
		return c.Tablet
	default:
		return c.Desktop
	}
}

// DefaultPalette is the brand palette shared by both particle views.
var DefaultPalette = []Color{
	{R: 0.388, G: 0.400, B: 0.945, A: 1}, // indigo
	{R: 0.925, G: 0.282, B: 0.600, A: 1}, // pink
	{R: 0.078, G: 0.722, B: 0.651, A: 1}, // teal
	{R: 0.961, G: 0.620, B: 0.043, A: 1}, // amber
	{R: 0.545, G: 0.361, B: 0.965, A: 1}, // violet
}

func pickColor(rng *rand.Rand, palette []Color) Color {
	if len(palette) == 0 {
		return ColorWhite
	}
	return palette[rng.IntN(len(palette))]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// newRand returns a PCG-backed generator. A zero seed picks a random one.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
