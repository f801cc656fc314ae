package drift

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

var knownActions = map[string]bool{
	"press": true, "move": true, "release": true, "click": true,
	"drag": true, "leave": true, "scroll": true, "wait": true,
	"resize": true, "screenshot": true, "quit": true,
}

// ScriptRunner sequences injected input, waits, window resizes and
// screenshots across frames for automated visual checks.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	// QuitWhenDone closes the page once the frame after the last step has
	// been drawn.
	QuitWhenDone bool
}

// LoadScript parses a JSON script. Unknown actions are rejected.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range s.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(p *Page) {
	if r.done {
		return
	}
	in := p.Input()
	if in.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.finish(p)
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	logger.Debug("script step", zap.Int("index", r.cursor-1), zap.String("action", st.Action))

	switch st.Action {
	case "press":
		in.InjectPress(st.X, st.Y)
	case "move":
		in.InjectMove(st.X, st.Y)
	case "release":
		in.InjectRelease(st.X, st.Y)
	case "click":
		in.InjectClick(st.X, st.Y)
	case "drag":
		in.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "leave":
		in.InjectLeave()
	case "scroll":
		in.InjectScroll(st.DY)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	case "resize":
		p.resizeWindow(st.Width, st.Height)
	case "screenshot":
		p.Screenshot(st.Label)
	case "quit":
		r.cursor = len(r.steps)
		r.QuitWhenDone = true
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && in.Pending() == 0 {
		r.finish(p)
	}
}

func (r *ScriptRunner) finish(p *Page) {
	r.done = true
	logger.Info("script finished", zap.Int("steps", len(r.steps)))
	if r.QuitWhenDone {
		p.CloseAfterDraw()
	}
}
