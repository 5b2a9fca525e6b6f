package clock

import (
	"fmt"

	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

// FrameClock exposes the host's frame counter. Frame is read on every call
// and never cached.
//
// Implementations must be monotonically non-decreasing for the life of a
// session. A counter that resets or moves backwards is a precondition
// violation; Anchor panics when it observes one.
type FrameClock interface {
	Frame() timeline.FrameIndex
}

// FrameFunc adapts a plain function to a FrameClock.
type FrameFunc func() timeline.FrameIndex

func (f FrameFunc) Frame() timeline.FrameIndex {
	return f()
}

// Anchor translates host frames into session-relative frames.
// The offset is fixed once, when the anchor is created.
type Anchor struct {
	clock FrameClock
	start timeline.FrameIndex
}

// NewAnchor fixes the session offset at the clock's current frame.
func NewAnchor(c FrameClock) Anchor {
	return Anchor{clock: c, start: c.Frame()}
}

// Start returns the host frame the session started at.
func (a Anchor) Start() timeline.FrameIndex {
	return a.start
}

// Relative returns the number of frames elapsed since the anchor was fixed.
// Panics if the host counter reads below the anchor.
func (a Anchor) Relative() timeline.FrameIndex {
	now := a.clock.Frame()
	if now < a.start {
		panic(fmt.Sprintf("clock: frame counter moved backwards (frame %d is before session start %d)", now, a.start))
	}
	return now - a.start
}
