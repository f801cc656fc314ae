package drift

// InjectPress queues a primary button press at the given window
// coordinates. Injected events are consumed one per frame, ahead of real
// input.
func (t *PointerTracker) InjectPress(x, y float64) {
	t.queue = append(t.queue, syntheticEvent{kind: synthPress, x: x, y: y})
}

// InjectMove queues a pointer move. The button state is left as it is, so a
// move between InjectPress and InjectRelease drags.
func (t *PointerTracker) InjectMove(x, y float64) {
	t.queue = append(t.queue, syntheticEvent{kind: synthMove, x: x, y: y})
}

// InjectRelease queues a button release at the given window coordinates.
func (t *PointerTracker) InjectRelease(x, y float64) {
	t.queue = append(t.queue, syntheticEvent{kind: synthRelease, x: x, y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (t *PointerTracker) InjectClick(x, y float64) {
	t.InjectPress(x, y)
	t.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 evenly spaced
// moves, and a release at (toX, toY). The sequence consumes frames frames;
// the minimum is 2.
func (t *PointerTracker) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	t.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps+1)
		t.InjectMove(lerp(fromX, toX, f), lerp(fromY, toY, f))
	}
	t.InjectRelease(toX, toY)
}

// InjectLeave queues the pointer leaving the window.
func (t *PointerTracker) InjectLeave() {
	t.queue = append(t.queue, syntheticEvent{kind: synthLeave})
}

// InjectScroll queues a scroll by dy CSS pixels (positive scrolls down).
func (t *PointerTracker) InjectScroll(dy float64) {
	t.queue = append(t.queue, syntheticEvent{kind: synthScroll, delta: dy})
}
