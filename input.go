package drift

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// DefaultIdleTimeout is how long the pointer stays active without
	// movement.
	DefaultIdleTimeout = 3 * time.Second
	// defaultScrollStep converts one wheel notch into CSS pixels.
	defaultScrollStep = 40.0
)

// PointerDispatcher receives the discrete pointer signals the tracker
// detects. The page fans them out to every section host.
type PointerDispatcher interface {
	DispatchPointer(kind EventType, ev PointerEvent)
}

// inputSource abstracts the platform input the tracker polls. Positions are
// in device pixels.
type inputSource interface {
	cursor() (x, y float64)
	mouseDown() bool
	primaryTouch() (x, y float64, ok bool)
	wheel() float64
	focused() bool
}

// ebitenInput reads input from Ebitengine.
type ebitenInput struct {
	touchIDs []ebiten.TouchID
}

func (in *ebitenInput) cursor() (float64, float64) {
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}

func (in *ebitenInput) mouseDown() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// primaryTouch returns the oldest active touch. Secondary touches are
// ignored.
func (in *ebitenInput) primaryTouch() (float64, float64, bool) {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) == 0 {
		return 0, 0, false
	}
	tid := in.touchIDs[0]
	for _, id := range in.touchIDs[1:] {
		if id < tid {
			tid = id
		}
	}
	x, y := ebiten.TouchPosition(tid)
	return float64(x), float64(y), true
}

func (in *ebitenInput) wheel() float64 {
	_, dy := ebiten.Wheel()
	return dy
}

func (in *ebitenInput) focused() bool {
	return ebiten.IsFocused()
}

// syntheticKind tags an injected pointer event.
type syntheticKind uint8

const (
	synthMove syntheticKind = iota
	synthPress
	synthRelease
	synthLeave
	synthScroll
)

// syntheticEvent is a single injected pointer event in window CSS pixels.
type syntheticEvent struct {
	kind  syntheticKind
	x, y  float64
	delta float64
}

// PointerTracker is the single writer of a PointerCell. Each Poll reads one
// frame of input, updates the cell, and reports presses, releases and
// leaves to the dispatcher.
type PointerTracker struct {
	// IdleTimeout marks the pointer inactive after this long without
	// movement while no button is held. Zero disables the timeout.
	IdleTimeout time.Duration
	// ScrollStep is the scroll distance of one wheel notch in CSS pixels.
	ScrollStep float64

	cell   *PointerCell
	input  inputSource
	target PointerDispatcher

	dpr           float64
	width, height float64
	maxScroll     float64

	down     bool
	touching bool
	tracked  bool // lastPos holds the position of the previous apply
	lastPos  Vec2
	lastMove time.Time

	queue    []syntheticEvent
	scripted bool // real input is ignored
}

// NewPointerTracker creates a tracker that writes cell and reports to target.
func NewPointerTracker(cell *PointerCell, target PointerDispatcher) *PointerTracker {
	return &PointerTracker{
		IdleTimeout: DefaultIdleTimeout,
		ScrollStep:  defaultScrollStep,
		cell:        cell,
		input:       &ebitenInput{},
		target:      target,
		dpr:         1,
	}
}

// Cell returns the cell the tracker writes.
func (t *PointerTracker) Cell() *PointerCell {
	return t.cell
}

// Focused reports whether the window has input focus.
func (t *PointerTracker) Focused() bool {
	return t.input.focused()
}

// SetBounds sets the window size in CSS pixels and the device pixel ratio
// used to convert raw input positions.
func (t *PointerTracker) SetBounds(width, height, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	t.width, t.height, t.dpr = width, height, dpr
}

// SetScrollLimit sets the maximum scroll offset and clamps the current one.
func (t *PointerTracker) SetScrollLimit(limit float64) {
	t.maxScroll = max(0, limit)
	t.cell.setScroll(clamp(t.cell.sample.ScrollY, 0, t.maxScroll))
}

// Pending returns the number of injected events not yet consumed.
func (t *PointerTracker) Pending() int {
	return len(t.queue)
}

// SetScripted makes the tracker ignore real input so injected presses are
// not undone by the physical mouse between steps.
func (t *PointerTracker) SetScripted(on bool) {
	t.scripted = on
}

// Poll processes one frame of input. Injected events take priority: while
// any are queued one is consumed per Poll and real input is ignored.
func (t *PointerTracker) Poll(now time.Time) {
	if t.pollInjected(now) || t.scripted {
		t.checkIdle(now)
		return
	}

	if dy := t.input.wheel(); dy != 0 {
		t.scrollBy(-dy * t.ScrollStep)
	}

	if !t.input.focused() {
		t.leave()
		return
	}

	if x, y, ok := t.input.primaryTouch(); ok {
		t.touching = true
		t.apply(now, x/t.dpr, y/t.dpr, true)
		return
	}
	if t.touching {
		// Touch end releases and deactivates without waiting for the idle
		// timeout.
		t.touching = false
		t.tracked = false
		t.release()
		t.cell.deactivate()
		return
	}

	x, y := t.input.cursor()
	x, y = x/t.dpr, y/t.dpr
	if !t.inBounds(x, y) {
		t.leave()
		return
	}
	t.apply(now, x, y, t.input.mouseDown())
	t.checkIdle(now)
}

func (t *PointerTracker) pollInjected(now time.Time) bool {
	if len(t.queue) == 0 {
		return false
	}
	ev := t.queue[0]
	copy(t.queue, t.queue[1:])
	t.queue = t.queue[:len(t.queue)-1]

	switch ev.kind {
	case synthMove:
		t.apply(now, ev.x, ev.y, t.down)
	case synthPress:
		t.apply(now, ev.x, ev.y, true)
	case synthRelease:
		t.apply(now, ev.x, ev.y, false)
	case synthLeave:
		t.leave()
	case synthScroll:
		t.scrollBy(ev.delta)
	}
	return true
}

func (t *PointerTracker) inBounds(x, y float64) bool {
	if t.width <= 0 || t.height <= 0 {
		return true
	}
	return x >= 0 && y >= 0 && x < t.width && y < t.height
}

// apply moves the pointer to (x, y) and reports button transitions.
func (t *PointerTracker) apply(now time.Time, x, y float64, down bool) {
	moved := !t.tracked || x != t.lastPos.X || y != t.lastPos.Y
	if moved || (down && !t.down) {
		t.cell.move(x, y)
		t.lastMove = now
	}
	t.tracked = true
	t.lastPos = Vec2{X: x, Y: y}
	switch {
	case down && !t.down:
		t.down = true
		t.cell.setDown(true)
		t.dispatch(EventPointerDown, x, y)
	case !down && t.down:
		t.release()
	}
}

func (t *PointerTracker) release() {
	if !t.down {
		return
	}
	t.down = false
	t.cell.setDown(false)
	s := t.cell.sample
	t.dispatch(EventPointerUp, s.X, s.Y)
}

// leave ends any press and deactivates the pointer. The leave signal is
// sent once per exit.
func (t *PointerTracker) leave() {
	t.touching = false
	t.tracked = false
	s := t.cell.sample
	if !s.Active && !t.down {
		return
	}
	t.release()
	t.cell.deactivate()
	t.dispatch(EventPointerLeave, s.X, s.Y)
}

func (t *PointerTracker) checkIdle(now time.Time) {
	if t.IdleTimeout <= 0 || t.down || !t.cell.sample.Active {
		return
	}
	if now.Sub(t.lastMove) >= t.IdleTimeout {
		t.cell.deactivate()
	}
}

func (t *PointerTracker) scrollBy(dy float64) {
	t.cell.setScroll(clamp(t.cell.sample.ScrollY+dy, 0, t.maxScroll))
}

func (t *PointerTracker) dispatch(kind EventType, x, y float64) {
	if t.target == nil {
		return
	}
	t.target.DispatchPointer(kind, PointerEvent{X: x, Y: y})
}
