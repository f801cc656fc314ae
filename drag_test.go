package drift

import (
	"math"
	"testing"
)

type eventLog struct {
	events []ArenaEvent
}

func (l *eventLog) EmitEvent(ev ArenaEvent) {
	l.events = append(l.events, ev)
}

func (l *eventLog) types() []ArenaEventType {
	out := make([]ArenaEventType, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Type
	}
	return out
}

func newDragArena() (*Arena, *eventLog) {
	a := newTestArena(800, 300)
	a.config.GrabPulse = 0
	log := &eventLog{}
	a.SetEventSink(log)
	a.replace([]Body{
		circle(0, 100, 100, 0, 0, 20),
		circle(1, 400, 150, 0, 0, 30),
		newBody(2, 600, 150, 0, 0, 25, ShapeSquare, ColorWhite, 1),
	})
	return a, log
}

func TestPointerDownMissDoesNothing(t *testing.T) {
	a, log := newDragArena()
	if a.PointerDown(300, 250) {
		t.Fatal("grabbed empty space")
	}
	if s, id := a.DragState(); s != DragIdle || id != -1 {
		t.Errorf("state = %v %d", s, id)
	}
	if len(log.events) != 0 {
		t.Errorf("events = %+v", log.events)
	}
}

func TestGrabAndRelease(t *testing.T) {
	a, log := newDragArena()
	if !a.PointerDown(405, 150) {
		t.Fatal("missed body 1")
	}
	if s, id := a.DragState(); s != DragDragging || id != 1 {
		t.Fatalf("state = %v %d, want dragging 1", s, id)
	}
	a.PointerUp()
	if s, _ := a.DragState(); s != DragIdle {
		t.Errorf("state after up = %v", s)
	}
	want := []ArenaEventType{EventGrab, EventRelease}
	if got := log.types(); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestSecondGrabReleasesFirst(t *testing.T) {
	a, log := newDragArena()
	a.PointerDown(100, 100)
	a.PointerDown(400, 150)

	if s, id := a.DragState(); s != DragDragging || id != 1 {
		t.Fatalf("state = %v %d, want dragging 1", s, id)
	}
	got := log.types()
	want := []ArenaEventType{EventGrab, EventRelease, EventGrab}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
	if log.events[1].BodyID != 0 {
		t.Errorf("released body %d, want 0", log.events[1].BodyID)
	}
}

func TestAtMostOneBodyFollowsPointer(t *testing.T) {
	a, _ := newDragArena()
	a.PointerDown(100, 100)
	a.PointerDown(400, 150)

	a.Step(PointerSample{X: 420, Y: 160, Active: true, Down: true})
	bs := a.Bodies()
	if bs[1].X != 420 || bs[1].Y != 160 {
		t.Errorf("dragged body at (%v,%v), want (420,160)", bs[1].X, bs[1].Y)
	}
	if bs[0].X == 420 && bs[0].Y == 160 {
		t.Error("released body still follows the pointer")
	}
}

func TestDragThrowUsesPointerDelta(t *testing.T) {
	a, _ := newDragArena()
	a.PointerDown(100, 100)
	a.Step(PointerSample{X: 110, Y: 104, Active: true, Down: true})
	a.Step(PointerSample{X: 125, Y: 110, Active: true, Down: true})

	b := a.Bodies()[0]
	assertNear(t, "VX", b.VX, 15)
	assertNear(t, "VY", b.VY, 6)

	a.PointerUp()
	a.Step(PointerSample{X: 125, Y: 110, Active: true})
	b = a.Bodies()[0]
	assertNear(t, "X after release", b.X, 140)
	assertNear(t, "Y after release", b.Y, 116)
}

func TestGrabKickRandomisesVelocity(t *testing.T) {
	a, _ := newDragArena()
	a.config.GrabKick = 6
	a.PointerDown(400, 150)
	b := a.Bodies()[1]
	if b.VX == 0 && b.VY == 0 {
		t.Error("grab did not kick the body")
	}
	if math.Abs(b.VX) > 6 || math.Abs(b.VY) > 6 {
		t.Errorf("kick (%v,%v) exceeds bound", b.VX, b.VY)
	}
}

func TestGrabPulseEasesBackToOne(t *testing.T) {
	a, _ := newDragArena()
	a.config.GrabPulse = 1.25
	a.PointerDown(400, 150)
	assertNear(t, "scale at grab", a.Bodies()[1].Scale(), 1.25)
	for f := 0; f < 60; f++ {
		a.Step(PointerSample{X: 400, Y: 150, Active: true, Down: true})
	}
	assertNear(t, "scale after pulse", a.Bodies()[1].Scale(), 1)
}

func TestPointerLeaveEndsDrag(t *testing.T) {
	a, log := newDragArena()
	a.PointerDown(100, 100)
	a.PointerLeave()
	if s, _ := a.DragState(); s != DragIdle {
		t.Errorf("state = %v", s)
	}
	if got := log.types(); got[len(got)-1] != EventRelease {
		t.Errorf("events = %v", got)
	}
	a.PointerLeave()
	if len(log.events) != 2 {
		t.Errorf("second leave emitted events: %v", log.types())
	}
}

func TestResizeEndsDrag(t *testing.T) {
	a, _ := newDragArena()
	a.PointerDown(100, 100)
	a.Resize(600, 300)
	if s, _ := a.DragState(); s != DragIdle {
		t.Errorf("state after resize = %v", s)
	}
}

func TestDraggedBodyPushesOthers(t *testing.T) {
	a, _ := newDragArena()
	a.PointerDown(100, 100)
	// Drop the dragged body right on top of body 1's edge.
	a.Step(PointerSample{X: 360, Y: 150, Active: true, Down: true})
	bs := a.Bodies()
	if bs[0].X != 360 || bs[0].Y != 150 {
		t.Errorf("dragged body moved by collision: (%v,%v)", bs[0].X, bs[0].Y)
	}
	d := math.Hypot(bs[1].X-bs[0].X, bs[1].Y-bs[0].Y)
	assertNearEps(t, "separation", d, 50, 1e-9)
}

func TestHitTestRotatedSquare(t *testing.T) {
	b := newBody(0, 0, 0, 0, 0, 10, ShapeSquare, ColorWhite, 1)
	b.Rotation = math.Pi / 4
	shape := bodyHitShape(&b)
	// The corner of the unrotated square is outside once rotated 45°.
	if shape.Contains(9.5, 9.5) {
		t.Error("rotated square contains its unrotated corner")
	}
	// The tip of the diamond now lies on the x axis at 10*sqrt(2).
	if !shape.Contains(13, 0) {
		t.Error("rotated square misses its rotated corner")
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	a, _ := newDragArena()
	a.replace([]Body{
		circle(0, 200, 150, 0, 0, 30),
		circle(1, 210, 150, 0, 0, 30),
	})
	if idx := a.hitTest(205, 150); idx != 1 {
		t.Errorf("hitTest = %d, want 1 (drawn last)", idx)
	}
}

func TestHitTestAccountsForParallax(t *testing.T) {
	a, _ := newDragArena()
	a.replace([]Body{circle(0, 200, 150, 0, 0, 10)})
	a.Step(PointerSample{ScrollY: 100})
	// Depth 1 and Parallax 0.15 lift the body by 15 pixels.
	y := a.Bodies()[0].Y - 15
	if !a.PointerDown(200, y) {
		t.Error("press on drawn position missed")
	}
}

func TestDraggedBodyStaysUnderScrolledPointer(t *testing.T) {
	a, _ := newDragArena()
	a.replace([]Body{circle(0, 400, 150, 0, 0, 20)})
	a.Step(PointerSample{ScrollY: 500})

	b := &a.Bodies()[0]
	drawnY := b.Y + a.parallaxOffset(b)
	assertNear(t, "drawn y", drawnY, 75)
	if !a.PointerDown(400, drawnY) {
		t.Fatal("press on drawn position missed")
	}

	for _, p := range []Vec2{{400, 75}, {420, 90}, {450, 120}} {
		a.Step(PointerSample{X: p.X, Y: p.Y, Active: true, Down: true, ScrollY: 500})
		b := &a.Bodies()[0]
		assertNear(t, "drawn x", b.X, p.X)
		assertNear(t, "drawn y", b.Y+a.parallaxOffset(b), p.Y)
	}
}

func TestDragStateString(t *testing.T) {
	if DragIdle.String() != "idle" || DragDragging.String() != "dragging" {
		t.Errorf("strings = %q %q", DragIdle, DragDragging)
	}
}
