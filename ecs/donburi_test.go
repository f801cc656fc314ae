package ecs

import (
	"testing"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/drift"
)

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []drift.ArenaEvent
	ArenaEventType.Subscribe(world, func(w donburi.World, e drift.ArenaEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(drift.ArenaEvent{Type: drift.EventGrab, BodyID: 4, OtherID: -1, X: 100, Y: 200})
	sink.EmitEvent(drift.ArenaEvent{Type: drift.EventCollision, BodyID: 1, OtherID: 2})

	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	ArenaEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != drift.EventGrab || e.BodyID != 4 || e.X != 100 || e.Y != 200 {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != drift.EventCollision || e.OtherID != 2 {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	ArenaEventType.Subscribe(world, func(w donburi.World, e drift.ArenaEvent) { count1++ })
	ArenaEventType.Subscribe(world, func(w donburi.World, e drift.ArenaEvent) { count2++ })

	sink.EmitEvent(drift.ArenaEvent{Type: drift.EventRelease})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestTally(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	tally := NewTally(world)

	sink.EmitEvent(drift.ArenaEvent{Type: drift.EventGrab, BodyID: 3, OtherID: -1})
	sink.EmitEvent(drift.ArenaEvent{Type: drift.EventGrab, BodyID: 3, OtherID: -1})
	sink.EmitEvent(drift.ArenaEvent{Type: drift.EventRelease, BodyID: 3, OtherID: -1})
	sink.EmitEvent(drift.ArenaEvent{Type: drift.EventCollision, BodyID: 3, OtherID: 5})
	ArenaEventType.ProcessEvents(world)

	if got := tally.Stats(3); got.Grabs != 2 || got.Collisions != 1 {
		t.Errorf("body 3: %+v", got)
	}
	if got := tally.Stats(5); got.Grabs != 0 || got.Collisions != 1 {
		t.Errorf("body 5: %+v", got)
	}
	if got := tally.Stats(9); got != (BodyStats{BodyID: 9}) {
		t.Errorf("untracked body: %+v", got)
	}
	if tally.Len() != 2 {
		t.Errorf("Len = %d, want 2", tally.Len())
	}
}

func TestArenaPublishesThroughSink(t *testing.T) {
	world := donburi.NewWorld()
	tally := NewTally(world)

	cfg := drift.DefaultArenaConfig()
	cfg.Seed = 7
	cfg.Counts = drift.TierCounts{Mobile: 1, Tablet: 1, Desktop: 1}
	arena := drift.NewArena(cfg)
	arena.SetEventSink(NewDonburiSink(world))
	arena.Resize(1200, 400)

	b := arena.Bodies()[0]
	if !arena.PointerDown(b.X, b.Y) {
		t.Fatal("press on body did not grab")
	}
	arena.PointerUp()
	ArenaEventType.ProcessEvents(world)

	if got := tally.Stats(b.ID).Grabs; got != 1 {
		t.Errorf("grabs = %d, want 1", got)
	}
}
