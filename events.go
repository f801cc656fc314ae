package drift

// ArenaEventType identifies an arena interaction event.
type ArenaEventType uint8

const (
	EventGrab      ArenaEventType = iota // a body was grabbed by the pointer
	EventRelease                         // the dragged body was let go
	EventCollision                       // two bodies overlapped and were resolved
)

func (t ArenaEventType) String() string {
	switch t {
	case EventGrab:
		return "grab"
	case EventRelease:
		return "release"
	case EventCollision:
		return "collision"
	default:
		return "unknown"
	}
}

// ArenaEvent carries interaction data out of the arena, for example into an
// ECS world or an analytics pipeline.
type ArenaEvent struct {
	Type    ArenaEventType
	BodyID  int
	OtherID int     // the second body of a collision, -1 otherwise
	X, Y    float64 // arena-local position of the event
}

// EventSink receives arena events synchronously from the update loop.
type EventSink interface {
	EmitEvent(event ArenaEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ArenaEvent)

// EmitEvent calls f(event).
func (f EventSinkFunc) EmitEvent(event ArenaEvent) {
	f(event)
}
