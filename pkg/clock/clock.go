// Package clock exposes the frame clock abstractions used by capture and
// playback.
package clock

import (
	internalclock "github.com/SmitUplenchwar2687/Rewind/internal/clock"
	"github.com/SmitUplenchwar2687/Rewind/pkg/timeline"
)

// FrameClock reports the host's current frame.
type FrameClock = internalclock.FrameClock

// FrameFunc adapts a function to FrameClock.
type FrameFunc = internalclock.FrameFunc

// Anchor converts host frames into frames relative to a session start.
type Anchor = internalclock.Anchor

// FrameCounter is a manually advanced FrameClock.
type FrameCounter = internalclock.FrameCounter

// NewAnchor fixes the current frame of c as relative frame 0.
func NewAnchor(c FrameClock) Anchor {
	return internalclock.NewAnchor(c)
}

// NewFrameCounter creates a counter starting at start.
func NewFrameCounter(start timeline.FrameIndex) *FrameCounter {
	return internalclock.NewFrameCounter(start)
}
