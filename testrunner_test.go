package drift

import (
	"errors"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"invalid json", `{`, "parse script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "press"}, {"action": "explode"}]}`, `step 1: unknown action "explode"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

// runFrames steps the runner and consumes injected input like Page.Update
// does, without ticking any views. Callers attach r with SetScriptRunner
// when real input must not interfere.
func runFrames(p *testPage, r *ScriptRunner, n int) {
	for i := 0; i < n && !r.Done(); i++ {
		r.step(p.Page)
		p.now = p.now.Add(16)
		p.tracker.Poll(p.now)
	}
}

func TestScriptRunnerSequencesSteps(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "press", "x": 10, "y": 20},
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "held"},
		{"action": "release", "x": 10, "y": 20}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	p := newTestPage(1)
	p.SetScriptRunner(r)

	runFrames(p, r, 1)
	if !p.Pointer().Pointer().Down {
		t.Fatal("press not applied on the first frame")
	}
	runFrames(p, r, 3)
	if len(p.screenshots) != 0 {
		t.Fatal("screenshot taken before the wait finished")
	}
	runFrames(p, r, 1)
	if len(p.screenshots) != 1 || p.screenshots[0] != "held" {
		t.Fatalf("screenshots = %v, want [held]", p.screenshots)
	}
	// The release is injected on one frame and the runner finishes on the
	// next.
	runFrames(p, r, 2)
	if !r.Done() {
		t.Error("runner not done after the last step")
	}
	if p.Pointer().Pointer().Down {
		t.Error("release not applied")
	}
	if p.closed {
		t.Error("page closed without QuitWhenDone")
	}
}

func TestScriptRunnerWaitsForInjectedInput(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 0, "fromY": 0, "toX": 90, "toY": 0, "frames": 4},
		{"action": "screenshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	p := newTestPage(1)
	runFrames(p, r, 4)
	if len(p.screenshots) != 0 {
		t.Fatal("screenshot queued while the drag was still playing")
	}
	runFrames(p, r, 1)
	if len(p.screenshots) != 1 {
		t.Errorf("screenshots = %v, want one", p.screenshots)
	}
}

func TestScriptRunnerResize(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [{"action": "resize", "width": 400, "height": 700}]}`))
	if err != nil {
		t.Fatal(err)
	}
	p := newTestPage(1)
	runFrames(p, r, 1)
	if len(p.windows) != 1 || p.windows[0] != [2]int{400, 700} {
		t.Errorf("window sizes = %v", p.windows)
	}
}

func TestScriptRunnerQuitClosesPage(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "scroll", "dy": 50},
		{"action": "quit"},
		{"action": "click", "x": 1, "y": 1}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	p := newTestPage(1)
	runFrames(p, r, 10)
	if !r.Done() || !p.closing {
		t.Errorf("done=%v closing=%v, want both", r.Done(), p.closing)
	}
	p.afterDraw()
	if !p.closed {
		t.Error("page not closed after the frame was drawn")
	}
	if p.tracker.Pending() != 0 {
		t.Error("steps after quit were run")
	}
}

func TestScriptRunnerQuitWhenDone(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [{"action": "leave"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	r.QuitWhenDone = true
	p := newTestPage(1)
	runFrames(p, r, 5)
	p.afterDraw()
	if !p.closed {
		t.Error("page not closed after the script finished")
	}
}

func TestFinalScreenshotCapturesLiveViews(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [{"action": "screenshot", "label": "final"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	r.QuitWhenDone = true
	p := newTestPage(1)
	d := NewDriver("footer", &fakeSim{})
	p.AddSection(d, 300)
	p.SetScriptRunner(r)
	p.Layout(800, 600)

	if err := p.frame(); err != nil {
		t.Fatal(err)
	}
	if !r.Done() || len(p.screenshots) != 1 {
		t.Fatalf("done=%v screenshots=%v", r.Done(), p.screenshots)
	}
	// The capture is flushed by the next Draw, so the view must still be
	// there to be drawn.
	if p.closed || !d.Mounted() || d.Surface().Image() == nil {
		t.Fatalf("closed=%v mounted=%v image=%v before the final Draw",
			p.closed, d.Mounted(), d.Surface().Image() != nil)
	}

	p.screenshots = p.screenshots[:0]
	p.afterDraw()
	if !p.closed || d.Mounted() {
		t.Errorf("closed=%v mounted=%v after the final Draw", p.closed, d.Mounted())
	}
	if err := p.frame(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update = %v, want ebiten.Termination", err)
	}
}

func TestPageUpdateStepsRunner(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [{"action": "move", "x": 30, "y": 40}, {"action": "wait", "frames": 2}]}`))
	if err != nil {
		t.Fatal(err)
	}
	p := newTestPage(1)
	p.SetScriptRunner(r)
	p.Layout(800, 600)
	p.frame()
	if got := p.Pointer().Pointer(); got.X != 30 || got.Y != 40 {
		t.Errorf("pointer = %+v, want (30, 40)", got)
	}
}
