package drift

import "time"

// EventType identifies the kind of host signal a callback is registered for.
type EventType uint8

const (
	EventFrame        EventType = iota // fires once per update tick
	EventResize                        // fires when the host area changes size
	EventVisibility                    // fires when the host area enters or leaves the window
	EventPointerDown                   // fires when a pointer is pressed anywhere in the window
	EventPointerUp                     // fires when a pointer is released anywhere in the window
	EventPointerLeave                  // fires when the pointer leaves the window or the window loses focus
)

// FrameFunc is a per-frame callback. now is the tick timestamp.
type FrameFunc func(now time.Time)

// ResizeEvent describes the host area's size in CSS pixels and the device
// pixel ratio of the display it is shown on.
type ResizeEvent struct {
	Width, Height float64
	DPR           float64
}

// PointerEvent is a pointer signal in window coordinates (CSS pixels).
// PointerID 0 is the mouse; 1-9 are touches.
type PointerEvent struct {
	X, Y      float64
	PointerID int
}

// FrameScheduler is the frame-callback half of a Host.
type FrameScheduler interface {
	RegisterFrameCallback(fn FrameFunc) CallbackHandle
	UnregisterFrameCallback(h CallbackHandle)
}

// --- Handler registry ---

type handler[T any] struct {
	id uint32
	fn func(T)
}

// handlerList keeps callbacks in registration order. Removal during dispatch
// leaves a tombstone so later entries are neither skipped nor run after
// removal; tombstones are compacted once dispatch finishes.
type handlerList[T any] struct {
	entries     []handler[T]
	dispatching int
	dirty       bool
}

func (l *handlerList[T]) add(id uint32, fn func(T)) {
	l.entries = append(l.entries, handler[T]{id: id, fn: fn})
}

func (l *handlerList[T]) remove(id uint32) {
	for i := range l.entries {
		if l.entries[i].id == id && l.entries[i].fn != nil {
			if l.dispatching > 0 {
				l.entries[i].fn = nil
				l.dirty = true
				return
			}
			copy(l.entries[i:], l.entries[i+1:])
			l.entries[len(l.entries)-1] = handler[T]{}
			l.entries = l.entries[:len(l.entries)-1]
			return
		}
	}
}

func (l *handlerList[T]) dispatch(v T) {
	l.dispatching++
	// Entries appended during dispatch wait for the next signal.
	n := len(l.entries)
	for i := 0; i < n; i++ {
		if fn := l.entries[i].fn; fn != nil {
			fn(v)
		}
	}
	l.dispatching--
	if l.dispatching == 0 && l.dirty {
		l.compact()
	}
}

func (l *handlerList[T]) compact() {
	out := l.entries[:0]
	for _, h := range l.entries {
		if h.fn != nil {
			out = append(out, h)
		}
	}
	for i := len(out); i < len(l.entries); i++ {
		l.entries[i] = handler[T]{}
	}
	l.entries = out
	l.dirty = false
}

func (l *handlerList[T]) len() int {
	n := 0
	for _, h := range l.entries {
		if h.fn != nil {
			n++
		}
	}
	return n
}

// CallbackHandle allows removing a registered host callback.
type CallbackHandle struct {
	id    uint32
	host  *Host
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice, or
// removing the zero handle, is a no-op.
func (h CallbackHandle) Remove() {
	if h.host == nil {
		return
	}
	switch h.event {
	case EventFrame:
		h.host.frames.remove(h.id)
	case EventResize:
		h.host.resizes.remove(h.id)
	case EventVisibility:
		h.host.visibility.remove(h.id)
	case EventPointerDown:
		h.host.pointerDown.remove(h.id)
	case EventPointerUp:
		h.host.pointerUp.remove(h.id)
	case EventPointerLeave:
		h.host.pointerLeave.remove(h.id)
	}
}

// --- Host ---

// Host is the environment a view is mounted into: one rectangular area of
// the page with its own frame, resize, visibility and pointer signals, plus
// read access to the shared pointer cell.
type Host struct {
	frames       handlerList[time.Time]
	resizes      handlerList[ResizeEvent]
	visibility   handlerList[bool]
	pointerDown  handlerList[PointerEvent]
	pointerUp    handlerList[PointerEvent]
	pointerLeave handlerList[PointerEvent]
	nextID       uint32

	pointer PointerSource
	origin  Vec2
	size    ResizeEvent
	sized   bool
	visible bool
	seen    bool // a visibility state has been published
}

// NewHost creates a host that reads the given pointer source.
func NewHost(pointer PointerSource) *Host {
	if pointer == nil {
		pointer = NewPointerCell()
	}
	return &Host{pointer: pointer}
}

func (h *Host) next() uint32 {
	h.nextID++
	return h.nextID
}

// RegisterFrameCallback registers fn to run on every Tick until removed.
func (h *Host) RegisterFrameCallback(fn FrameFunc) CallbackHandle {
	id := h.next()
	h.frames.add(id, fn)
	return CallbackHandle{id: id, host: h, event: EventFrame}
}

// UnregisterFrameCallback removes a frame callback. Equivalent to cb.Remove.
func (h *Host) UnregisterFrameCallback(cb CallbackHandle) {
	cb.Remove()
}

// OnResize registers a callback for size changes of the host area.
func (h *Host) OnResize(fn func(ResizeEvent)) CallbackHandle {
	id := h.next()
	h.resizes.add(id, fn)
	return CallbackHandle{id: id, host: h, event: EventResize}
}

// OnVisibility registers a callback for visibility changes of the host area.
func (h *Host) OnVisibility(fn func(bool)) CallbackHandle {
	id := h.next()
	h.visibility.add(id, fn)
	return CallbackHandle{id: id, host: h, event: EventVisibility}
}

// OnPointerDown registers a callback for pointer presses anywhere in the window.
func (h *Host) OnPointerDown(fn func(PointerEvent)) CallbackHandle {
	id := h.next()
	h.pointerDown.add(id, fn)
	return CallbackHandle{id: id, host: h, event: EventPointerDown}
}

// OnPointerUp registers a callback for pointer releases anywhere in the window.
func (h *Host) OnPointerUp(fn func(PointerEvent)) CallbackHandle {
	id := h.next()
	h.pointerUp.add(id, fn)
	return CallbackHandle{id: id, host: h, event: EventPointerUp}
}

// OnPointerLeave registers a callback for the pointer leaving the window.
func (h *Host) OnPointerLeave(fn func(PointerEvent)) CallbackHandle {
	id := h.next()
	h.pointerLeave.add(id, fn)
	return CallbackHandle{id: id, host: h, event: EventPointerLeave}
}

// ListenerCount returns the number of live callbacks of every kind.
func (h *Host) ListenerCount() int {
	return h.frames.len() + h.resizes.len() + h.visibility.len() +
		h.pointerDown.len() + h.pointerUp.len() + h.pointerLeave.len()
}

// Pointer returns the shared pointer sample in window coordinates.
func (h *Host) Pointer() PointerSample {
	return h.pointer.Pointer()
}

// Origin returns the host area's top-left corner in window coordinates.
func (h *Host) Origin() Vec2 {
	return h.origin
}

// SetOrigin moves the host area. Called by the page as it scrolls.
func (h *Host) SetOrigin(x, y float64) {
	h.origin = Vec2{X: x, Y: y}
}

// Size returns the last published size and whether one has been published.
func (h *Host) Size() (ResizeEvent, bool) {
	return h.size, h.sized
}

// Visible returns the last published visibility and whether one has been
// published.
func (h *Host) Visible() (visible, known bool) {
	return h.visible, h.seen
}

// Tick runs every frame callback in registration order.
func (h *Host) Tick(now time.Time) {
	h.frames.dispatch(now)
}

// Resize publishes a new size. Identical consecutive sizes are dropped.
func (h *Host) Resize(ev ResizeEvent) {
	if h.sized && ev == h.size {
		return
	}
	h.size = ev
	h.sized = true
	h.resizes.dispatch(ev)
}

// SetVisible publishes the host area's visibility. Only changes are
// dispatched.
func (h *Host) SetVisible(v bool) {
	if h.seen && v == h.visible {
		return
	}
	h.visible = v
	h.seen = true
	h.visibility.dispatch(v)
}

// DispatchPointer delivers a pointer signal to the matching listeners.
func (h *Host) DispatchPointer(kind EventType, ev PointerEvent) {
	switch kind {
	case EventPointerDown:
		h.pointerDown.dispatch(ev)
	case EventPointerUp:
		h.pointerUp.dispatch(ev)
	case EventPointerLeave:
		h.pointerLeave.dispatch(ev)
	}
}
