package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/drift"
)

// ArenaEventType is the Donburi event type for arena events.
var ArenaEventType = events.NewEventType[drift.ArenaEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on ArenaEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) drift.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(ev drift.ArenaEvent) {
	ArenaEventType.Publish(s.world, ev)
}

// BodyStats counts interactions of one arena body.
type BodyStats struct {
	BodyID     int
	Grabs      int
	Collisions int
}

// BodyStatsComponent stores BodyStats on one entity per body.
var BodyStatsComponent = donburi.NewComponentType[BodyStats]()

// Tally keeps a BodyStats entity per body that has been grabbed or has
// collided.
type Tally struct {
	world    donburi.World
	entities map[int]donburi.Entity
}

// NewTally subscribes a tally to ArenaEventType on world.
func NewTally(world donburi.World) *Tally {
	t := &Tally{world: world, entities: make(map[int]donburi.Entity)}
	ArenaEventType.Subscribe(world, t.handle)
	return t
}

func (t *Tally) handle(w donburi.World, ev drift.ArenaEvent) {
	switch ev.Type {
	case drift.EventGrab:
		t.stats(ev.BodyID).Grabs++
	case drift.EventCollision:
		t.stats(ev.BodyID).Collisions++
		t.stats(ev.OtherID).Collisions++
	}
}

func (t *Tally) stats(id int) *BodyStats {
	e, ok := t.entities[id]
	if !ok || !t.world.Valid(e) {
		e = t.world.Create(BodyStatsComponent)
		t.entities[id] = e
		BodyStatsComponent.SetValue(t.world.Entry(e), BodyStats{BodyID: id})
	}
	return BodyStatsComponent.Get(t.world.Entry(e))
}

// Stats returns the counters for body id, or zero counters if none exist.
func (t *Tally) Stats(id int) BodyStats {
	e, ok := t.entities[id]
	if !ok || !t.world.Valid(e) {
		return BodyStats{BodyID: id}
	}
	return *BodyStatsComponent.Get(t.world.Entry(e))
}

// Len returns the number of tracked bodies.
func (t *Tally) Len() int {
	return len(t.entities)
}
