package host

import (
	"github.com/SmitUplenchwar2687/Rewind/internal/clock"
	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

// Injection is an event a playback engine pushed into a Synthetic host,
// tagged with the host frame it arrived on.
type Injection struct {
	Frame timeline.FrameIndex
	Event timeline.InputEvent
}

// Synthetic is an in-memory host with its own frame counter. It serves as
// input source, sink, exit signal and exiter at once.
//
// Not safe for concurrent use, like the update loop it stands in for.
type Synthetic struct {
	counter      *clock.FrameCounter
	pending      []timeline.InputEvent
	exitRaised   bool
	injected     []Injection
	exitRequests []timeline.FrameIndex
}

// NewSynthetic creates a host whose frame counter starts at start.
func NewSynthetic(start timeline.FrameIndex) *Synthetic {
	return &Synthetic{counter: clock.NewFrameCounter(start)}
}

// Clock returns the host frame counter.
func (s *Synthetic) Clock() *clock.FrameCounter {
	return s.counter
}

// Frame implements clock.FrameClock.
func (s *Synthetic) Frame() timeline.FrameIndex {
	return s.counter.Frame()
}

// Step ends the current tick by advancing the frame counter.
func (s *Synthetic) Step() timeline.FrameIndex {
	return s.counter.Tick()
}

// Queue buffers live events for the next Drain.
func (s *Synthetic) Queue(events ...timeline.InputEvent) {
	s.pending = append(s.pending, events...)
}

// RaiseExit marks that the application was asked to exit.
func (s *Synthetic) RaiseExit() {
	s.exitRaised = true
}

func (s *Synthetic) Drain() []timeline.InputEvent {
	out := s.pending
	s.pending = nil
	return out
}

func (s *Synthetic) ExitRequested() bool {
	return s.exitRaised
}

func (s *Synthetic) Inject(ev timeline.InputEvent) {
	s.injected = append(s.injected, Injection{Frame: s.counter.Frame(), Event: ev})
}

func (s *Synthetic) RequestExit() {
	s.exitRequests = append(s.exitRequests, s.counter.Frame())
}

// Injected returns a copy of every injected event so far.
func (s *Synthetic) Injected() []Injection {
	return append([]Injection(nil), s.injected...)
}

// InjectedAt returns the events injected while the host was at frame f.
func (s *Synthetic) InjectedAt(f timeline.FrameIndex) []timeline.InputEvent {
	var out []timeline.InputEvent
	for _, in := range s.injected {
		if in.Frame == f {
			out = append(out, in.Event)
		}
	}
	return out
}

// ExitRequests returns the host frames on which an exit was requested.
func (s *Synthetic) ExitRequests() []timeline.FrameIndex {
	return append([]timeline.FrameIndex(nil), s.exitRequests...)
}
