package clock

import (
	"sync"
	"testing"

	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

func TestFrameCounter_Frame(t *testing.T) {
	fc := NewFrameCounter(42)
	if got := fc.Frame(); got != 42 {
		t.Errorf("Frame() = %d, want 42", got)
	}
}

func TestFrameCounter_TickAndAdvance(t *testing.T) {
	fc := NewFrameCounter(0)
	if got := fc.Tick(); got != 1 {
		t.Errorf("Tick() = %d, want 1", got)
	}
	if got := fc.Advance(9); got != 10 {
		t.Errorf("Advance(9) = %d, want 10", got)
	}
	if got := fc.Frame(); got != 10 {
		t.Errorf("Frame() after advance = %d, want 10", got)
	}
}

func TestFrameCounter_Set(t *testing.T) {
	fc := NewFrameCounter(5)
	fc.Set(5)
	fc.Set(500)
	if got := fc.Frame(); got != 500 {
		t.Errorf("Frame() after Set = %d, want 500", got)
	}
}

func TestFrameCounter_SetPastPanics(t *testing.T) {
	fc := NewFrameCounter(10)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on setting frame to the past")
		}
	}()
	fc.Set(9)
}

func TestFrameCounter_ConcurrentAccess(t *testing.T) {
	fc := NewFrameCounter(0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = fc.Frame()
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			fc.Tick()
		}
	}()
	wg.Wait()

	if got := fc.Frame(); got != 100 {
		t.Errorf("after concurrent ops, Frame() = %d, want 100", got)
	}
}

func TestAnchor_Relative(t *testing.T) {
	fc := NewFrameCounter(500)
	a := NewAnchor(fc)

	if got := a.Start(); got != 500 {
		t.Errorf("Start() = %d, want 500", got)
	}
	if got := a.Relative(); got != 0 {
		t.Errorf("Relative() at start = %d, want 0", got)
	}

	fc.Advance(3)
	if got := a.Relative(); got != 3 {
		t.Errorf("Relative() after 3 frames = %d, want 3", got)
	}
}

func TestAnchor_ReadsClockEveryCall(t *testing.T) {
	var frame timeline.FrameIndex = 7
	a := NewAnchor(FrameFunc(func() timeline.FrameIndex { return frame }))

	frame = 12
	if got := a.Relative(); got != 5 {
		t.Errorf("Relative() = %d, want 5", got)
	}
	frame = 20
	if got := a.Relative(); got != 13 {
		t.Errorf("Relative() = %d, want 13", got)
	}
}

func TestAnchor_BackwardsPanics(t *testing.T) {
	var frame timeline.FrameIndex = 100
	a := NewAnchor(FrameFunc(func() timeline.FrameIndex { return frame }))
	frame = 99

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic when the host counter moves behind the anchor")
		}
	}()
	a.Relative()
}

func TestFrameCounter_Implements_FrameClock(t *testing.T) {
	var _ FrameClock = NewFrameCounter(0)
}
