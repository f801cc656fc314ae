package drift

import (
	"time"

	"go.uber.org/zap"
)

// DefaultResizeDebounce is how long resize signals must settle before a view
// is rebuilt.
const DefaultResizeDebounce = 150 * time.Millisecond

// Simulation is a particle view a Driver can run.
type Simulation interface {
	// Resize re-initialises the population for a surface of the given CSS
	// size. A zero size must leave the view empty.
	Resize(width, height float64)
	// Step advances the view one frame. p is in view-local coordinates.
	Step(p PointerSample)
	// Draw appends the current state to the batch. It must not mutate state.
	Draw(b *Batch)
	// Len returns the number of primary particles.
	Len() int
}

// PointerHandler is implemented by simulations that react to pointer
// presses (coordinates are view-local).
type PointerHandler interface {
	PointerDown(x, y float64) bool
	PointerUp()
	PointerLeave()
}

// statsReporter is implemented by simulations with secondary populations.
type statsReporter interface {
	frameCounts() (trails, links int)
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithTargetFPS throttles the frame body to fps frames per second.
func WithTargetFPS(fps float64) DriverOption {
	return func(d *Driver) { d.throttle = NewFrameThrottle(fps) }
}

// WithResizeDebounce sets how long resize signals must settle before the
// view is rebuilt. Zero applies every resize on the next frame.
func WithResizeDebounce(wait time.Duration) DriverOption {
	return func(d *Driver) { d.debounce = wait }
}

// WithDebug enables per-frame stats logging.
func WithDebug(enabled bool) DriverOption {
	return func(d *Driver) { d.debug = enabled }
}

// Driver schedules a simulation on a Host: it steps and renders once per
// frame while visible, rebuilds on debounced resizes, and forwards pointer
// presses. Unmount releases every callback it registered.
type Driver struct {
	name     string
	sim      Simulation
	surface  *Surface
	batch    *Batch
	throttle FrameThrottle
	debounce time.Duration
	debug    bool

	host    *Host
	handles []CallbackHandle

	visible    bool
	measured   bool
	pending    ResizeEvent
	hasPending bool
	pendingAt  time.Time

	frames uint64
}

// NewDriver creates an unmounted driver for sim.
func NewDriver(name string, sim Simulation, opts ...DriverOption) *Driver {
	d := &Driver{
		name:     name,
		sim:      sim,
		surface:  NewSurface(),
		batch:    NewBatch(),
		debounce: DefaultResizeDebounce,
		visible:  true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the driver's name.
func (d *Driver) Name() string {
	return d.name
}

// Simulation returns the driven simulation.
func (d *Driver) Simulation() Simulation {
	return d.sim
}

// Surface returns the driver's backing surface.
func (d *Driver) Surface() *Surface {
	return d.surface
}

// Frames returns how many frame bodies have run.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Visible reports whether the driver currently runs its frame body.
func (d *Driver) Visible() bool {
	return d.visible
}

// Mounted reports whether the driver is attached to a host.
func (d *Driver) Mounted() bool {
	return d.host != nil
}

// Mount attaches the driver to h and registers its frame, resize,
// visibility and pointer callbacks. If h already knows its size the first
// measurement is applied immediately. Mounting an attached driver unmounts
// it first.
func (d *Driver) Mount(h *Host) {
	if d.host != nil {
		d.Unmount()
	}
	d.host = h
	d.handles = append(d.handles,
		h.RegisterFrameCallback(d.frame),
		h.OnResize(d.onResize),
		h.OnVisibility(d.onVisibility),
	)
	if ph, ok := d.sim.(PointerHandler); ok {
		d.handles = append(d.handles,
			h.OnPointerDown(func(ev PointerEvent) { d.onPointerDown(ph, ev) }),
			h.OnPointerUp(func(PointerEvent) { ph.PointerUp() }),
			h.OnPointerLeave(func(PointerEvent) { ph.PointerLeave() }),
		)
	}
	if v, known := h.Visible(); known {
		d.visible = v
	}
	if size, ok := h.Size(); ok {
		d.applyResize(size)
	}
	logger.Debug("view mounted", zap.String("view", d.name))
}

// Unmount removes every callback registered by Mount and frees the surface.
// It is synchronous: no frame body runs for this driver after it returns.
// Safe to call more than once.
func (d *Driver) Unmount() {
	if d.host == nil {
		return
	}
	for _, h := range d.handles {
		h.Remove()
	}
	d.handles = d.handles[:0]
	d.host = nil
	d.hasPending = false
	d.measured = false
	d.surface.Release()
	logger.Debug("view unmounted", zap.String("view", d.name))
}

// frame is the per-tick callback. It stays registered while the view is
// off-screen and returns early, so resuming costs nothing.
func (d *Driver) frame(now time.Time) {
	if d.host == nil || !d.visible {
		return
	}
	if d.hasPending {
		if d.pendingAt.IsZero() {
			d.pendingAt = now
		}
		if now.Sub(d.pendingAt) >= d.debounce {
			d.hasPending = false
			d.applyResize(d.pending)
		}
	}
	if !d.throttle.Ready(now) {
		return
	}

	var stats frameStats
	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}

	p := d.host.Pointer().local(d.host.Origin())
	d.sim.Step(p)

	if d.debug {
		stats.stepTime = time.Since(t0)
		t0 = time.Now()
	}

	d.render()
	d.frames++

	if d.debug {
		stats.renderTime = time.Since(t0)
		stats.particles = d.sim.Len()
		if r, ok := d.sim.(statsReporter); ok {
			stats.trails, stats.links = r.frameCounts()
		}
		stats.vertices = d.batch.VertexCount()
		d.debugLog(stats)
	}
}

// render clears the surface and repaints it from the simulation state.
func (d *Driver) render() {
	d.batch.Begin(d.surface.Base())
	d.sim.Draw(d.batch)
	d.surface.Clear()
	d.batch.Flush(d.surface.Image())
}

// onResize applies the first real measurement immediately and debounces
// everything after it. The debounce window restarts on every signal and is
// measured from the first frame that sees it.
func (d *Driver) onResize(ev ResizeEvent) {
	if !d.measured {
		d.applyResize(ev)
		return
	}
	d.pending = ev
	d.hasPending = true
	d.pendingAt = time.Time{}
}

func (d *Driver) applyResize(ev ResizeEvent) {
	d.surface.Resize(ev.Width, ev.Height, ev.DPR)
	d.sim.Resize(ev.Width, ev.Height)
	d.measured = ev.Width > 0 && ev.Height > 0
	d.throttle.Reset()
	logger.Debug("view resized",
		zap.String("view", d.name),
		zap.Float64("width", ev.Width),
		zap.Float64("height", ev.Height),
		zap.Float64("dpr", ev.DPR),
		zap.Int("particles", d.sim.Len()),
	)
}

func (d *Driver) onVisibility(v bool) {
	d.visible = v
}

// onPointerDown forwards presses that land inside the view.
func (d *Driver) onPointerDown(ph PointerHandler, ev PointerEvent) {
	o := d.host.Origin()
	x, y := ev.X-o.X, ev.Y-o.Y
	w, h := d.surface.Size()
	if x < 0 || y < 0 || x > w || y > h {
		return
	}
	ph.PointerDown(x, y)
}
