package host

import (
	"github.com/pkg/errors"

	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

// ErrFrameBackwards is returned by Remote.Begin when the reported frame is
// lower than the previous one.
var ErrFrameBackwards = errors.New("host: frame counter moved backwards")

// Remote is a host whose frames and input arrive over a connection, one
// tick at a time. Its frame counter is whatever the peer last reported.
//
// Not safe for concurrent use.
type Remote struct {
	frame    timeline.FrameIndex
	pending  []timeline.InputEvent
	exit     bool
	injected []timeline.InputEvent
	exitReq  bool
}

// NewRemote creates a remote host positioned at frame.
func NewRemote(frame timeline.FrameIndex) *Remote {
	return &Remote{frame: frame}
}

// Begin starts a tick reported by the peer. Frames may repeat but never go
// backwards.
func (r *Remote) Begin(frame timeline.FrameIndex, events []timeline.InputEvent, exit bool) error {
	if frame < r.frame {
		return errors.Wrapf(ErrFrameBackwards, "got %d after %d", frame, r.frame)
	}
	r.frame = frame
	r.pending = append(r.pending, events...)
	if exit {
		r.exit = true
	}
	return nil
}

// Collect returns what playback pushed during the tick and whether it asked
// the host to exit, then clears both.
func (r *Remote) Collect() ([]timeline.InputEvent, bool) {
	out, exit := r.injected, r.exitReq
	r.injected, r.exitReq = nil, false
	return out, exit
}

// Frame implements clock.FrameClock.
func (r *Remote) Frame() timeline.FrameIndex {
	return r.frame
}

func (r *Remote) Drain() []timeline.InputEvent {
	out := r.pending
	r.pending = nil
	return out
}

// ExitRequested stays true once the peer reported an exit.
func (r *Remote) ExitRequested() bool {
	return r.exit
}

func (r *Remote) Inject(ev timeline.InputEvent) {
	r.injected = append(r.injected, ev)
}

func (r *Remote) RequestExit() {
	r.exitReq = true
}
