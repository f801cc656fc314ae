package drift

// PointerSample is a snapshot of the page-wide pointer state.
type PointerSample struct {
	X, Y    float64 // page coordinates in CSS pixels
	Active  bool    // moved recently and not ended by touch-up or leave
	Down    bool    // primary button or a touch is held
	ScrollY float64 // page scroll offset in CSS pixels
}

// PointerSource is the read side of the pointer cell. Views take a
// PointerSource so they can never write shared state.
type PointerSource interface {
	Pointer() PointerSample
}

// PointerCell is the page-wide pointer state. It has exactly one writer (a
// PointerTracker owned by the page) and any number of readers. Writes and
// reads both happen on the update goroutine, so no locking is done.
type PointerCell struct {
	sample PointerSample
}

// NewPointerCell returns an inactive pointer at the origin.
func NewPointerCell() *PointerCell {
	return &PointerCell{}
}

// Pointer returns the current sample.
func (c *PointerCell) Pointer() PointerSample {
	return c.sample
}

func (c *PointerCell) move(x, y float64) {
	c.sample.X = x
	c.sample.Y = y
	c.sample.Active = true
}

func (c *PointerCell) setDown(down bool) {
	c.sample.Down = down
}

func (c *PointerCell) deactivate() {
	c.sample.Active = false
	c.sample.Down = false
}

func (c *PointerCell) setScroll(y float64) {
	c.sample.ScrollY = y
}

// local returns the sample translated into a view whose top-left corner is
// at origin in window coordinates.
func (s PointerSample) local(origin Vec2) PointerSample {
	s.X -= origin.X
	s.Y -= origin.Y
	return s
}
