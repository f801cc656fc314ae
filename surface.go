package drift

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Surface is a view's raster backing store: width x height CSS pixels backed
// by ceil(width*dpr) x ceil(height*dpr) device pixels.
type Surface struct {
	img           *ebiten.Image
	width, height float64
	dpr           float64
	base          [6]float64
}

// NewSurface returns an unallocated surface.
func NewSurface() *Surface {
	return &Surface{dpr: 1, base: identityTransform}
}

// Resize sets the CSS size and device pixel ratio. The DPR scale is stored
// once here and used as the base transform for every frame. The backing
// image is reallocated only when its pixel size changes; Resize reports
// whether that happened.
func (s *Surface) Resize(width, height, dpr float64) bool {
	if dpr <= 0 {
		dpr = 1
	}
	s.width, s.height, s.dpr = width, height, dpr
	s.base = scaleTransform(dpr)

	pw, ph := s.pixelSizeFor(width, height, dpr)
	if pw <= 0 || ph <= 0 {
		if s.img != nil {
			s.img.Deallocate()
			s.img = nil
		}
		return false
	}
	if s.img != nil {
		b := s.img.Bounds()
		if b.Dx() == pw && b.Dy() == ph {
			return false
		}
		s.img.Deallocate()
	}
	s.img = ebiten.NewImage(pw, ph)
	logger.Debug("surface allocated",
		zap.Int("pixel_width", pw),
		zap.Int("pixel_height", ph),
		zap.Float64("dpr", dpr),
	)
	return true
}

func (s *Surface) pixelSizeFor(width, height, dpr float64) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return int(math.Ceil(width * dpr)), int(math.Ceil(height * dpr))
}

// PixelSize returns the backing image size in device pixels.
func (s *Surface) PixelSize() (int, int) {
	return s.pixelSizeFor(s.width, s.height, s.dpr)
}

// Size returns the CSS size.
func (s *Surface) Size() (width, height float64) {
	return s.width, s.height
}

// DPR returns the device pixel ratio set by the last Resize.
func (s *Surface) DPR() float64 {
	return s.dpr
}

// Base returns the CSS-to-device-pixel transform.
func (s *Surface) Base() [6]float64 {
	return s.base
}

// Image returns the backing image, or nil while the surface is zero-sized.
func (s *Surface) Image() *ebiten.Image {
	return s.img
}

// Clear erases the backing image.
func (s *Surface) Clear() {
	if s.img != nil {
		s.img.Clear()
	}
}

// Release frees the backing image.
func (s *Surface) Release() {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
}
