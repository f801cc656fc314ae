package drift

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// section is one rectangular area of the page with its own host. A
// background section always covers the window and does not scroll.
type section struct {
	host       *Host
	driver     *Driver // nil for spacers
	height     float64
	y          float64 // top edge in content coordinates
	background bool
}

func (s *section) rect(width, windowHeight, scroll float64) Rect {
	if s.background {
		return Rect{Width: width, Height: windowHeight}
	}
	return Rect{Y: s.y - scroll, Width: width, Height: s.height}
}

// Page is an ebiten.Game that lays out a full-window background view and a
// vertical stack of flow sections, scrolls them with the wheel, and drives
// each section's host from the game loop.
type Page struct {
	// Background fills the window before any section is drawn.
	Background Color
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	cell    *PointerCell
	tracker *PointerTracker

	background *section
	sections   []*section
	content    float64

	width, height float64
	dpr           float64
	visibleAll    bool

	clock       func() time.Time
	scaleFactor func() float64
	setWindow   func(w, h int)

	screenshots []string
	runner      *ScriptRunner
	stats       *statsOverlay
	closing     bool // close once the current frame is drawn
	closed      bool
}

// NewPage creates an empty page with its own pointer cell and tracker.
func NewPage() *Page {
	p := &Page{
		Background:    Color{R: 0.04, G: 0.04, B: 0.07, A: 1},
		ScreenshotDir: "screenshots",
		cell:          NewPointerCell(),
		dpr:           1,
		visibleAll:    true,
		clock:         time.Now,
		scaleFactor:   monitorScale,
		setWindow:     ebiten.SetWindowSize,
	}
	p.tracker = NewPointerTracker(p.cell, p)
	return p
}

func monitorScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// Pointer returns the read side of the page's pointer cell.
func (p *Page) Pointer() PointerSource {
	return p.cell
}

// Input returns the page's pointer tracker, for synthetic input.
func (p *Page) Input() *PointerTracker {
	return p.tracker
}

// SetBackground mounts d as the full-window background view, replacing any
// previous one.
func (p *Page) SetBackground(d *Driver) {
	if p.background != nil && p.background.driver != nil {
		p.background.driver.Unmount()
	}
	p.background = &section{host: NewHost(p.cell), driver: d, background: true}
	p.mount(p.background)
}

// AddSection appends d as a flow section of the given height.
func (p *Page) AddSection(d *Driver, height float64) {
	s := &section{host: NewHost(p.cell), driver: d, height: height, y: p.content}
	p.content += height
	p.sections = append(p.sections, s)
	p.mount(s)
}

// AddSpacer appends an empty flow section, standing in for page content.
func (p *Page) AddSpacer(height float64) {
	p.sections = append(p.sections, &section{host: NewHost(p.cell), height: height, y: p.content})
	p.content += height
}

// ContentHeight returns the total height of the flow sections.
func (p *Page) ContentHeight() float64 {
	return p.content
}

// Drivers returns every mounted driver, background first.
func (p *Page) Drivers() []*Driver {
	var out []*Driver
	if p.background != nil && p.background.driver != nil {
		out = append(out, p.background.driver)
	}
	for _, s := range p.sections {
		if s.driver != nil {
			out = append(out, s.driver)
		}
	}
	return out
}

func (p *Page) mount(s *section) {
	if s.driver != nil {
		s.driver.Mount(s.host)
	}
	if p.width > 0 {
		p.place(s)
	}
}

// SetScriptRunner attaches a script runner. It is stepped at the start of
// every Update, and real pointer input is ignored while it is attached.
func (p *Page) SetScriptRunner(r *ScriptRunner) {
	p.runner = r
	p.tracker.SetScripted(r != nil)
}

// SetShowStats toggles the FPS and particle count overlay.
func (p *Page) SetShowStats(show bool) {
	if !show {
		p.stats = nil
		return
	}
	if p.stats == nil {
		p.stats = newStatsOverlay()
	}
}

// Close unmounts every view. The next Update ends the game loop.
func (p *Page) Close() {
	if p.closed {
		return
	}
	p.closed = true
	for _, d := range p.Drivers() {
		d.Unmount()
	}
	logger.Debug("page closed")
}

// CloseAfterDraw closes the page at the end of the next Draw, so queued
// screenshots still capture every view.
func (p *Page) CloseAfterDraw() {
	p.closing = true
}

// Update implements ebiten.Game.
func (p *Page) Update() error {
	if p.closed {
		return ebiten.Termination
	}
	now := p.clock()
	if p.runner != nil {
		p.runner.step(p)
	}
	p.tracker.Poll(now)

	p.visibleAll = p.tracker.Focused()
	if p.background != nil {
		p.place(p.background)
		p.background.host.Tick(now)
	}
	for _, s := range p.sections {
		p.place(s)
		s.host.Tick(now)
	}
	if p.stats != nil {
		p.stats.update(now, p.Drivers())
	}
	return nil
}

// place moves a section's host to its on-screen position and publishes its
// visibility.
func (p *Page) place(s *section) {
	r := s.rect(p.width, p.height, p.cell.sample.ScrollY)
	s.host.SetOrigin(r.X, r.Y)
	window := Rect{Width: p.width, Height: p.height}
	s.host.SetVisible(p.visibleAll && !r.Empty() && r.Intersects(window))
}

// Layout implements ebiten.Game. The game screen is in device pixels so
// views render at full resolution.
func (p *Page) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := p.scaleFactor()
	if dpr <= 0 {
		dpr = 1
	}
	w, h := float64(outsideWidth), float64(outsideHeight)
	if w != p.width || h != p.height || dpr != p.dpr {
		p.resize(w, h, dpr)
	}
	return int(math.Ceil(w * dpr)), int(math.Ceil(h * dpr))
}

func (p *Page) resize(w, h, dpr float64) {
	p.width, p.height, p.dpr = w, h, dpr
	p.tracker.SetBounds(w, h, dpr)
	p.tracker.SetScrollLimit(p.content - h)
	if p.background != nil {
		p.background.host.Resize(ResizeEvent{Width: w, Height: h, DPR: dpr})
	}
	for _, s := range p.sections {
		s.host.Resize(ResizeEvent{Width: w, Height: s.height, DPR: dpr})
	}
	logger.Info("window resized",
		zap.Float64("width", w),
		zap.Float64("height", h),
		zap.Float64("dpr", dpr),
	)
}

// Draw implements ebiten.Game.
func (p *Page) Draw(screen *ebiten.Image) {
	screen.Fill(p.Background.toRGBA())
	if p.background != nil {
		p.drawSection(screen, p.background)
	}
	for _, s := range p.sections {
		p.drawSection(screen, s)
	}
	if p.stats != nil {
		p.stats.draw(screen)
	}
	p.flushScreenshots(screen)
	p.afterDraw()
}

func (p *Page) afterDraw() {
	if p.closing {
		p.Close()
	}
}

func (p *Page) drawSection(screen *ebiten.Image, s *section) {
	if s.driver == nil || !s.driver.Visible() {
		return
	}
	img := s.driver.Surface().Image()
	if img == nil {
		return
	}
	o := s.host.Origin()
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(math.Round(o.X*p.dpr), math.Round(o.Y*p.dpr))
	screen.DrawImage(img, &op)
}

// DispatchPointer fans a pointer signal out to every section host.
func (p *Page) DispatchPointer(kind EventType, ev PointerEvent) {
	if p.background != nil {
		p.background.host.DispatchPointer(kind, ev)
	}
	for _, s := range p.sections {
		s.host.DispatchPointer(kind, ev)
	}
}

// resizeWindow asks the platform for a new window size. Layout picks it up.
func (p *Page) resizeWindow(w, h int) {
	p.setWindow(w, h)
}
