package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/phanxgames/drift"
	"github.com/phanxgames/drift/analytics"
	"github.com/phanxgames/drift/internal/config"
)

type pageMode int

const (
	modePage pageMode = iota
	modeArena
	modeAmbient
)

// buildPage assembles the page for mode from the config.
func buildPage(cfg *config.Config, mode pageMode, sink drift.EventSink) *drift.Page {
	page := drift.NewPage()
	page.ScreenshotDir = cfg.Window.ScreenshotDir

	debounce := drift.WithResizeDebounce(cfg.ResizeDebounce())

	if mode != modeArena {
		field := drift.NewField(cfg.FieldSettings())
		page.SetBackground(drift.NewDriver("ambient", field,
			drift.WithTargetFPS(cfg.Ambient.TargetFPS),
			drift.WithDebug(cfg.Ambient.Debug),
			debounce,
		))
	}
	if mode == modeAmbient {
		return page
	}

	if mode == modePage && cfg.Arena.ContentAbove > 0 {
		page.AddSpacer(cfg.Arena.ContentAbove)
	}
	arena := drift.NewArena(cfg.ArenaSettings())
	arena.SetEventSink(sink)
	page.AddSection(drift.NewDriver("footer", arena,
		drift.WithTargetFPS(cfg.Arena.TargetFPS),
		drift.WithDebug(cfg.Arena.Debug),
		debounce,
	), cfg.Arena.Height)
	return page
}

// arenaTracker reports grabs to analytics. Releases and collisions are too
// frequent to be worth sending.
type arenaTracker struct {
	d *analytics.Dispatcher
}

func (t arenaTracker) EmitEvent(ev drift.ArenaEvent) {
	if ev.Type != drift.EventGrab {
		return
	}
	t.d.Track(analytics.Event{
		Category: "footer",
		Action:   "grab",
		Value:    float64(ev.BodyID),
	})
}

func (a *app) runPage(mode pageMode) error {
	var sink drift.EventSink
	if a.analytics.Enabled() {
		sink = arenaTracker{d: a.analytics}
	}
	page := buildPage(a.cfg, mode, sink)

	if a.cfg.Window.Script != "" {
		data, err := os.ReadFile(a.cfg.Window.Script)
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		runner, err := drift.LoadScript(data)
		if err != nil {
			return err
		}
		runner.QuitWhenDone = true
		page.SetScriptRunner(runner)
		a.logger.Info("script loaded", zap.String("path", a.cfg.Window.Script))
	}

	return drift.Run(page, drift.RunConfig{
		Title:         a.cfg.Window.Title,
		Width:         a.cfg.Window.Width,
		Height:        a.cfg.Window.Height,
		ShowFPS:       a.cfg.Window.ShowFPS,
		ScreenshotDir: a.cfg.Window.ScreenshotDir,
	})
}
