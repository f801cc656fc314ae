package drift

// DragState is the arena's pointer interaction state.
type DragState uint8

const (
	DragIdle     DragState = iota // no body follows the pointer
	DragDragging                  // exactly one body follows the pointer
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// dragState tracks the single dragged body. Only one drag can exist; a new
// grab while dragging ends the current drag first.
type dragState struct {
	active bool
	id     int
	index  int
}

// DragState returns the current state and, while dragging, the body id.
func (a *Arena) DragState() (DragState, int) {
	if a.drag.active {
		return DragDragging, a.drag.id
	}
	return DragIdle, -1
}

// PointerDown grabs the topmost body under (x, y), in arena-local
// coordinates. If a body is already being dragged it is released first.
// Reports whether a body was grabbed.
func (a *Arena) PointerDown(x, y float64) bool {
	idx := a.hitTest(x, y)
	if idx < 0 {
		return false
	}
	if a.drag.active {
		a.endDrag()
	}
	a.beginDrag(idx, x, y)
	return true
}

// PointerUp ends any drag, wherever the pointer is.
func (a *Arena) PointerUp() {
	a.endDrag()
}

// PointerLeave ends any drag when the pointer leaves the surface.
func (a *Arena) PointerLeave() {
	a.endDrag()
}

func (a *Arena) beginDrag(idx int, x, y float64) {
	b := &a.bodies[idx]
	kick := a.config.GrabKick
	b.VX = (a.rng.Float64()*2 - 1) * kick
	b.VY = (a.rng.Float64()*2 - 1) * kick
	if a.config.GrabPulse > 0 {
		b.pulse.start(a.config.GrabPulse, 0.45)
	}

	a.drag = dragState{active: true, id: b.ID, index: idx}
	// Start the displacement from the grab point so the first frame does not
	// inherit a jump from wherever the pointer was last seen.
	a.pointer = Vec2{X: x, Y: y}
	a.havePointer = true
	a.emit(ArenaEvent{Type: EventGrab, BodyID: b.ID, OtherID: -1, X: x, Y: y})
}

func (a *Arena) endDrag() {
	if !a.drag.active {
		return
	}
	id := a.drag.id
	var x, y float64
	if a.drag.index < len(a.bodies) {
		b := &a.bodies[a.drag.index]
		x, y = b.X, b.Y
	}
	a.drag = dragState{}
	a.emit(ArenaEvent{Type: EventRelease, BodyID: id, OtherID: -1, X: x, Y: y})
}

// hitTest returns the index of the topmost body containing (x, y), or -1.
// Bodies are drawn in slice order, so the search runs backwards.
func (a *Arena) hitTest(x, y float64) int {
	for i := len(a.bodies) - 1; i >= 0; i-- {
		b := &a.bodies[i]
		ly := y - a.parallaxOffset(b)
		if bodyHitShape(b).Contains(x-b.X, ly-b.Y) {
			return i
		}
	}
	return -1
}

// bodyHitShape returns the body's hit region in body-local coordinates
// (origin at the body center, unrotated).
func bodyHitShape(b *Body) HitShape {
	r := b.Radius * b.Scale()
	switch b.Shape {
	case ShapeSquare:
		return rotatedHit{inner: HitRect{X: -r, Y: -r, Width: 2 * r, Height: 2 * r}, angle: b.Rotation}
	default:
		return HitCircle{Radius: r}
	}
}
