package drift

import (
	"time"

	"go.uber.org/zap"
)

// logger is shared by every view. Nop until SetLogger is called.
var logger = zap.NewNop()

// SetLogger installs the logger used for lifecycle and debug output.
// Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// frameStats holds per-frame timing and population metrics.
// Only populated when the driver's debug mode is on.
type frameStats struct {
	stepTime   time.Duration
	renderTime time.Duration
	particles  int
	trails     int
	links      int
	vertices   int
}

// debugLog writes frame stats at debug level.
func (d *Driver) debugLog(stats frameStats) {
	if !d.debug {
		return
	}
	logger.Debug("frame",
		zap.String("view", d.name),
		zap.Duration("step", stats.stepTime),
		zap.Duration("render", stats.renderTime),
		zap.Duration("total", stats.stepTime+stats.renderTime),
		zap.Int("particles", stats.particles),
		zap.Int("trails", stats.trails),
		zap.Int("links", stats.links),
		zap.Int("vertices", stats.vertices),
	)
}
