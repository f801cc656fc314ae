// Package ecs publishes drift arena events into a [Donburi] world.
//
// [NewDonburiSink] returns a [drift.EventSink] that forwards grab, release
// and collision events as typed Donburi events. Subscribe to
// [ArenaEventType] in your systems to receive them, or attach a [Tally] to
// keep per-body counters as components.
//
// Usage:
//
//	world := donburi.NewWorld()
//	arena.SetEventSink(ecs.NewDonburiSink(world))
//	tally := ecs.NewTally(world)
//	// each frame, after the arena steps:
//	ecs.ArenaEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
