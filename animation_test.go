package drift

import (
	"math"
	"testing"
)

func TestPulseZeroValueAtRest(t *testing.T) {
	var p pulse
	if p.value() != 1 {
		t.Errorf("value = %v, want 1", p.value())
	}
	p.update(0.1)
	if p.value() != 1 {
		t.Errorf("value after update = %v, want 1", p.value())
	}
}

func TestPulseStartsAtFromAndSettles(t *testing.T) {
	var p pulse
	p.start(1.25, 0.3)
	if p.value() != 1.25 {
		t.Errorf("value = %v, want 1.25", p.value())
	}
	p.update(0.1)
	if p.value() == 1.25 || p.value() == 1 {
		t.Errorf("mid-pulse value = %v, want in motion", p.value())
	}
	p.update(0.1)
	p.update(0.1)
	p.update(0.1)
	if p.value() != 1 {
		t.Errorf("value = %v, want exactly 1 once finished", p.value())
	}
	if p.tween != nil {
		t.Error("finished pulse kept its tween")
	}
}

func TestPulseRestartOverrides(t *testing.T) {
	var p pulse
	p.start(1.25, 0.3)
	p.update(0.2)
	p.start(1.5, 0.3)
	if p.value() != 1.5 {
		t.Errorf("value = %v, want 1.5", p.value())
	}
}

func TestFollowerHoldsWithoutTarget(t *testing.T) {
	f := newFollower(1, 0.35)
	if got := f.update(0.5); got != 1 {
		t.Errorf("update = %v, want 1", got)
	}
}

func TestFollowerEasesToTarget(t *testing.T) {
	f := newFollower(1, 0.35)
	f.retarget(2)
	prev := 1.0
	for i := 0; i < 10; i++ {
		v := f.update(0.05)
		if v < prev {
			t.Fatalf("step %d: %v < %v, want monotonic rise", i, v, prev)
		}
		prev = v
	}
	if prev != 2 {
		t.Errorf("final = %v, want 2", prev)
	}
}

func TestFollowerIgnoresTinyMoves(t *testing.T) {
	f := newFollower(1, 0.35)
	f.retarget(1 + followThreshold/2)
	if f.tween != nil {
		t.Error("sub-threshold retarget started a tween")
	}
	if f.target != 1 {
		t.Errorf("target = %v, want 1", f.target)
	}
}

func TestFollowerRetargetMidFlightStartsFromCurrent(t *testing.T) {
	f := newFollower(1, 0.4)
	f.retarget(2)
	mid := f.update(0.2)
	f.retarget(0.5)
	next := f.update(0.001)
	if math.Abs(next-mid) > 0.05 {
		t.Errorf("retarget jumped from %v to %v", mid, next)
	}
	for i := 0; i < 20; i++ {
		f.update(0.05)
	}
	if f.value != 0.5 {
		t.Errorf("value = %v, want 0.5", f.value)
	}
}
