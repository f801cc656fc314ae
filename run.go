package drift

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// RunConfig holds window options for Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS draws the FPS and particle count overlay.
	ShowFPS bool
	// ScreenshotDir overrides the page's screenshot directory when set.
	ScreenshotDir string
}

// Run opens a resizable window and runs the page until the window is
// closed or the page is closed. Every view is unmounted before Run returns.
func Run(p *Page, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Title == "" {
		cfg.Title = "drift"
	}
	if cfg.ScreenshotDir != "" {
		p.ScreenshotDir = cfg.ScreenshotDir
	}
	p.SetShowStats(cfg.ShowFPS)

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("starting",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)
	defer p.Close()
	if err := ebiten.RunGame(p); err != nil {
		return fmt.Errorf("drift: run: %w", err)
	}
	return nil
}
