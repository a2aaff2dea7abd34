package core

import (
	"testing"
	"time"
)

func TestInputFrame(t *testing.T) {
	f := NewInputFrame(ActionFlap)
	if !f.Has(ActionFlap) {
		t.Error("frame should contain Flap")
	}
	if f.Has(ActionRestart) {
		t.Error("frame should not contain Restart")
	}

	f.Clear()
	if !f.Empty() {
		t.Error("cleared frame should be empty")
	}

	var zero InputFrame
	if zero.Has(ActionFlap) || !zero.Empty() {
		t.Error("zero frame should report no actions")
	}
	zero.Set(ActionRestart)
	if !zero.Has(ActionRestart) {
		t.Error("Set on zero frame should allocate")
	}
}

func TestInputFrameList(t *testing.T) {
	f := NewInputFrame(ActionRestart, ActionFlap)
	got := f.List()
	if len(got) != 2 || got[0] != ActionFlap || got[1] != ActionRestart {
		t.Errorf("List() = %v, expected [Flap Restart]", got)
	}
}

func TestParseAction(t *testing.T) {
	for a := ActionNone; a <= ActionQuit; a++ {
		if got := ParseAction(a.String()); got != a {
			t.Errorf("ParseAction(%q) = %v, expected %v", a.String(), got, a)
		}
	}
	if got := ParseAction("Dive"); got != ActionNone {
		t.Errorf("unknown name should parse to None, got %v", got)
	}
}

func TestFrameClock(t *testing.T) {
	c := NewFrameClock(60)
	if c.Now() != 0 {
		t.Errorf("new clock should start at 0, got %v", c.Now())
	}

	for i := 0; i < 60; i++ {
		c.Advance()
	}
	if c.Ticks() != 60 {
		t.Errorf("Ticks() = %d, expected 60", c.Ticks())
	}
	if c.Now() != time.Second {
		t.Errorf("60 ticks at 60Hz should be 1s, got %v", c.Now())
	}

	if NewFrameClock(0).Frame() != time.Second/60 {
		t.Error("non-positive tick rate should fall back to 60")
	}
}

func TestTickTimeExact(t *testing.T) {
	// 108 ticks at 60Hz is exactly 1.8s; a per-tick rounded duration would drift.
	if got := TickTime(108, 60); got != 1800*time.Millisecond {
		t.Errorf("TickTime(108, 60) = %v, expected 1.8s", got)
	}
}
