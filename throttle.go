package drift

import "time"

// shouldProcess reports whether a throttled frame body should run given the
// time since the last processed frame. A non-positive interval never
// throttles.
func shouldProcess(elapsed, interval time.Duration) bool {
	if interval <= 0 {
		return true
	}
	return elapsed >= interval
}

// FrameThrottle limits a frame body to a target interval independent of the
// tick rate. The zero value never throttles.
type FrameThrottle struct {
	Interval time.Duration
	last     time.Time
}

// NewFrameThrottle returns a throttle targeting fps frames per second.
// fps <= 0 disables throttling.
func NewFrameThrottle(fps float64) FrameThrottle {
	if fps <= 0 {
		return FrameThrottle{}
	}
	return FrameThrottle{Interval: time.Duration(float64(time.Second) / fps)}
}

// Ready reports whether the body should run at now. When it returns true the
// last processed time is advanced to now, aligned down to the interval grid
// so the average rate does not drift below the target.
func (t *FrameThrottle) Ready(now time.Time) bool {
	if t.last.IsZero() {
		t.last = now
		return true
	}
	elapsed := now.Sub(t.last)
	if !shouldProcess(elapsed, t.Interval) {
		return false
	}
	if t.Interval > 0 {
		t.last = now.Add(-(elapsed % t.Interval))
	} else {
		t.last = now
	}
	return true
}

// Reset forgets the last processed time so the next Ready call runs.
func (t *FrameThrottle) Reset() {
	t.last = time.Time{}
}
