// Package drift renders decorative, interactive 2D particle views on
// [Ebitengine].
//
// Two simulations share one pipeline (store, integrator, interaction
// resolver, renderer, driver):
//
//   - [Arena] is the draggable footer playground: circles and squares with
//     mass, wall restitution, damping, pairwise elastic collisions, pointer
//     drag with throw, and short-lived motion trails.
//   - [Field] is the ambient page background: wandering rings, dots, lines,
//     hexagons and triangles that ease toward a pointer-displaced target and
//     are joined by nearest-neighbour lines.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and
// update loop for you:
//
//	page := drift.NewPage()
//	page.SetBackground(drift.NewDriver("ambient", drift.NewField(drift.DefaultFieldConfig())))
//	page.AddSpacer(900)
//	page.AddSection(drift.NewDriver("footer", drift.NewArena(drift.DefaultArenaConfig())), 320)
//	if err := drift.Run(page, drift.RunConfig{Title: "drift"}); err != nil {
//		log.Fatal(err)
//	}
//
// Views never read global input. The [Driver] passes each view the pointer
// translated into its own coordinates on every frame.
//
// # Page services
//
// The page owns the services a browser would otherwise supply implicitly:
// a [PointerCell] written by one [PointerTracker] and read by every view, a
// frame scheduler ([Host.RegisterFrameCallback]), visibility and resize
// signals, and a device-pixel-ratio aware [Surface] per view. A [Driver]
// mounts a view onto a [Host] and must be unmounted to release every
// callback it registered.
//
// Logging goes through [zap]; call [SetLogger] to enable it.
//
// [Ebitengine]: https://ebitengine.org
// [zap]: https://pkg.go.dev/go.uber.org/zap
package drift
