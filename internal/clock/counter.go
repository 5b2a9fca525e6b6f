package clock

import (
	"sync"

	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

// FrameCounter is a controllable frame counter for hosts without one of
// their own and for deterministic tests.
//
// Thread-safe for concurrent use.
type FrameCounter struct {
	mu      sync.RWMutex
	current timeline.FrameIndex
}

// NewFrameCounter creates a FrameCounter starting at the given frame.
func NewFrameCounter(start timeline.FrameIndex) *FrameCounter {
	return &FrameCounter{current: start}
}

// Frame returns the current frame.
func (c *FrameCounter) Frame() timeline.FrameIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Tick advances the counter by one frame and returns the new value.
func (c *FrameCounter) Tick() timeline.FrameIndex {
	return c.Advance(1)
}

// Advance moves the counter forward by n frames and returns the new value.
func (c *FrameCounter) Advance(n uint64) timeline.FrameIndex {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current += timeline.FrameIndex(n)
	return c.current
}

// Set moves the counter to an exact frame.
// Panics if f is before the current frame.
func (c *FrameCounter) Set(f timeline.FrameIndex) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f < c.current {
		panic("clock: cannot set frame counter to the past")
	}
	c.current = f
}
