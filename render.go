package drift

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultBatchCap = 4096

// Segment counts for round shapes.
const (
	circleSegments = 24
	dotSegments    = 8
)

var (
	unitCircle   = regularPolygon(circleSegments)
	unitDot      = regularPolygon(dotSegments)
	unitHexagon  = regularPolygon(6)
	unitTriangle = regularPolygon(3)
	unitSquare   = []Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
)

// regularPolygon returns the vertices of a regular polygon with unit radius,
// first vertex pointing up.
func regularPolygon(sides int) []Vec2 {
	pts := make([]Vec2, sides)
	for i := range pts {
		angle := 2*math.Pi*float64(i)/float64(sides) - math.Pi/2
		pts[i] = Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
	}
	return pts
}

// Batch accumulates the triangles for one frame of a view and submits them
// in a single DrawTriangles32 call. Coordinates passed in are CSS pixels; the
// batch's base transform maps them to device pixels.
type Batch struct {
	base     [6]float64
	verts    []ebiten.Vertex
	inds     []uint32
	shapes   int
	segments int
}

// NewBatch returns an empty batch with an identity base transform.
func NewBatch() *Batch {
	return &Batch{
		base:  identityTransform,
		verts: make([]ebiten.Vertex, 0, defaultBatchCap),
		inds:  make([]uint32, 0, defaultBatchCap*3/2),
	}
}

// Begin clears the batch and sets the base transform (normally the surface's
// device-pixel-ratio scale).
func (b *Batch) Begin(base [6]float64) {
	b.base = base
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
	b.shapes = 0
	b.segments = 0
}

// VertexCount returns the number of vertices queued.
func (b *Batch) VertexCount() int {
	return len(b.verts)
}

// ShapeCount returns the number of shapes queued since Begin.
func (b *Batch) ShapeCount() int {
	return b.shapes
}

// SegmentCount returns the number of line segments queued since Begin.
func (b *Batch) SegmentCount() int {
	return b.segments
}

// Shape queues one particle shape centered at (x, y) with the given size
// (radius, or half-length for lines) and rotation. Each call composes a
// fresh transform with the base, so nothing carries over between shapes.
func (b *Batch) Shape(kind ShapeKind, x, y, size, rotation float64, c Color) {
	if size <= 0 || c.A <= 0 {
		return
	}
	m := multiplyAffine(b.base, placeTransform(x, y, rotation))
	stroke := math.Max(1, size*0.18)

	switch kind {
	case ShapeCircle:
		b.fillPolygon(m, unitCircle, size, c)
	case ShapeSquare:
		b.fillPolygon(m, unitSquare, size, c)
	case ShapeRing:
		b.strokePolygon(m, unitCircle, size, stroke, c)
	case ShapeDot:
		b.fillPolygon(m, unitDot, size, c)
	case ShapeLine:
		b.quad(m, -size, 0, size, 0, stroke, c)
	case ShapeHexagon:
		b.strokePolygon(m, unitHexagon, size, stroke, c)
	case ShapeTriangle:
		b.strokePolygon(m, unitTriangle, size, stroke, c)
	default:
		return
	}
	b.shapes++
}

// Line queues a straight segment between two points.
func (b *Batch) Line(x0, y0, x1, y1, width float64, c Color) {
	if width <= 0 || c.A <= 0 {
		return
	}
	b.quad(b.base, x0, y0, x1, y1, width, c)
	b.segments++
}

// fillPolygon fan-triangulates a convex unit polygon scaled by size.
// N vertices, 3*(N-2) indices.
func (b *Batch) fillPolygon(m [6]float64, unit []Vec2, size float64, c Color) {
	n := len(unit)
	if n < 3 {
		return
	}
	base := uint32(len(b.verts))
	for _, p := range unit {
		b.vertex(m, p.X*size, p.Y*size, c)
	}
	for i := 1; i < n-1; i++ {
		b.inds = append(b.inds, base, base+uint32(i), base+uint32(i+1))
	}
}

// strokePolygon draws the band between the polygon at size and the polygon
// shrunk by width. Falls back to a fill when the band would close up.
func (b *Batch) strokePolygon(m [6]float64, unit []Vec2, size, width float64, c Color) {
	inner := size - width
	if inner <= 0 {
		b.fillPolygon(m, unit, size, c)
		return
	}
	n := len(unit)
	base := uint32(len(b.verts))
	for _, p := range unit {
		b.vertex(m, p.X*size, p.Y*size, c)
		b.vertex(m, p.X*inner, p.Y*inner, c)
	}
	for i := 0; i < n; i++ {
		o0 := base + uint32(2*i)
		i0 := o0 + 1
		o1 := base + uint32(2*((i+1)%n))
		i1 := o1 + 1
		b.inds = append(b.inds,
			o0, o1, i0,
			o1, i1, i0,
		)
	}
}

// quad draws a segment from (x0, y0) to (x1, y1) as a rectangle of the given
// width, in the space of m.
func (b *Batch) quad(m [6]float64, x0, y0, x1, y1, width float64, c Color) {
	dx := x1 - x0
	dy := y1 - y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	hw := width / 2
	nx := -dy / l * hw
	ny := dx / l * hw

	base := uint32(len(b.verts))
	b.vertex(m, x0+nx, y0+ny, c)
	b.vertex(m, x1+nx, y1+ny, c)
	b.vertex(m, x0-nx, y0-ny, c)
	b.vertex(m, x1-nx, y1-ny, c)
	b.inds = append(b.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// vertex appends a premultiplied vertex transformed by m.
func (b *Batch) vertex(m [6]float64, x, y float64, c Color) {
	dx, dy := transformPoint(m, x, y)
	a := float32(clamp01(c.A))
	b.verts = append(b.verts, ebiten.Vertex{
		DstX:   float32(dx),
		DstY:   float32(dy),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(c.R) * a,
		ColorG: float32(c.G) * a,
		ColorB: float32(c.B) * a,
		ColorA: a,
	})
}

// Flush submits the queued triangles to dst.
func (b *Batch) Flush(dst *ebiten.Image) {
	if dst == nil || len(b.verts) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	dst.DrawTriangles32(b.verts, b.inds, whitePixel(), &op)
}

var white *ebiten.Image

// whitePixel returns the shared 1x1 white source image, creating it on first
// use.
func whitePixel() *ebiten.Image {
	if white == nil {
		white = ebiten.NewImage(1, 1)
		white.Fill(ColorWhite.toRGBA())
	}
	return white
}
