package drift

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const statsInterval = 500 * time.Millisecond

// statsOverlay shows FPS, TPS and per-view particle counts in the top-left
// corner. The text is refreshed about twice a second.
type statsOverlay struct {
	img  *ebiten.Image
	last time.Time
	text string
}

func newStatsOverlay() *statsOverlay {
	return &statsOverlay{}
}

func (o *statsOverlay) update(now time.Time, drivers []*Driver) {
	if !o.last.IsZero() && now.Sub(o.last) < statsInterval {
		return
	}
	o.last = now
	o.text = statsText(ebiten.ActualFPS(), ebiten.ActualTPS(), drivers)
}

func statsText(fps, tps float64, drivers []*Driver) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f\nTPS: %.1f", fps, tps)
	for _, d := range drivers {
		state := "paused"
		if d.Visible() {
			state = "live"
		}
		fmt.Fprintf(&b, "\n%s: %s (%s, %s frames)",
			d.Name(), humanize.Comma(int64(d.Simulation().Len())), state,
			humanize.Comma(int64(d.Frames())))
	}
	return b.String()
}

func (o *statsOverlay) draw(screen *ebiten.Image) {
	if o.text == "" {
		return
	}
	lines := strings.Count(o.text, "\n") + 1
	w, h := 240, lines*16+4
	if o.img == nil || o.img.Bounds().Dx() != w || o.img.Bounds().Dy() != h {
		if o.img != nil {
			o.img.Deallocate()
		}
		o.img = ebiten.NewImage(w, h)
	}
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
	screen.DrawImage(o.img, nil)
}
