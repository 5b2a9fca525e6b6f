// Package capture buckets live input into a frame-aligned Timeline.
package capture

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Rewind/internal/clock"
	"github.com/SmitUplenchwar2687/Rewind/internal/host"
	"github.com/SmitUplenchwar2687/Rewind/internal/logging"
	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

var (
	// ErrAlreadyRecording is returned by Start while a recording is active.
	ErrAlreadyRecording = errors.New("capture: already recording")
	// ErrNoActiveRecording is returned by Stop when nothing is being recorded.
	ErrNoActiveRecording = errors.New("capture: no active recording")
	// ErrRecorderStopped is returned by Start once the recorder has stopped.
	// A new Recorder is needed for a new session.
	ErrRecorderStopped = errors.New("capture: recorder already stopped")
)

// State is the lifecycle position of a Recorder.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithModes restricts which modalities are captured. Default AllModes.
func WithModes(m Modes) Option {
	return func(r *Recorder) { r.modes = m }
}

// WithLogger sets the logger used to report misuse and lifecycle changes.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.log = l
		}
	}
}

// Recorder captures input once per host tick. It is not safe for
// concurrent use: every call is expected from the host's update loop.
type Recorder struct {
	clock  clock.FrameClock
	source host.InputSource
	exit   host.ExitSignal
	modes  Modes
	log    logrus.FieldLogger

	state   State
	anchor  clock.Anchor
	tl      timeline.Timeline
	ticks   int
	dropped int
}

// New creates an idle Recorder. exit may be nil if the host never reports
// termination.
func New(c clock.FrameClock, src host.InputSource, exit host.ExitSignal, opts ...Option) *Recorder {
	r := &Recorder{
		clock:  c,
		source: src,
		exit:   exit,
		modes:  AllModes,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	return r.state
}

// Ticks returns how many ticks were observed while recording.
func (r *Recorder) Ticks() int {
	return r.ticks
}

// Start begins a recording with an empty timeline and fixes the frame
// offset at the current host frame.
func (r *Recorder) Start() error {
	switch r.state {
	case StateRecording:
		r.log.WithField("start_frame", r.anchor.Start()).Warn("start called while already recording")
		return ErrAlreadyRecording
	case StateStopped:
		r.log.Warn("start called on a stopped recorder")
		return ErrRecorderStopped
	}

	r.anchor = clock.NewAnchor(r.clock)
	r.tl = timeline.Timeline{}
	r.ticks = 0
	r.dropped = 0
	r.state = StateRecording
	r.log.WithField("start_frame", r.anchor.Start()).Debug("recording started")
	return nil
}

// Tick drains this tick's input and appends it to the timeline.
// It does nothing unless recording.
//
// Panics if the host frame counter moved backwards.
func (r *Recorder) Tick() {
	if r.state != StateRecording {
		return
	}
	r.ticks++

	frame := r.anchor.Relative()
	events := r.filter(frame, r.source.Drain())

	if r.exit != nil && r.exit.ExitRequested() && !r.tl.Terminated {
		r.tl.Terminated = true
		r.log.WithField("frame", frame).Debug("host termination observed")
	}

	if len(events) == 0 {
		return
	}

	n := len(r.tl.Slots)
	if n > 0 {
		last := &r.tl.Slots[n-1]
		if frame < last.Frame {
			panic(fmt.Sprintf("capture: frame counter moved backwards (frame %d after %d)", frame, last.Frame))
		}
		if frame == last.Frame {
			// Host ticked twice within one frame; the frame's slot is still open.
			last.Events = append(last.Events, events...)
			return
		}
	}
	r.tl.Slots = append(r.tl.Slots, timeline.FrameSlot{Frame: frame, Events: events})
}

// filter keeps events of enabled modalities that a timeline can hold.
// Malformed events are dropped one by one so the rest of the recording
// stays encodable.
func (r *Recorder) filter(frame timeline.FrameIndex, events []timeline.InputEvent) []timeline.InputEvent {
	if len(events) == 0 {
		return nil
	}
	out := make([]timeline.InputEvent, 0, len(events))
	for i, e := range events {
		if err := timeline.ValidateEvent(e); err != nil {
			r.dropped++
			r.log.WithFields(logrus.Fields{
				"frame": frame,
				"index": i,
				"event": fmt.Sprintf("%#v", e),
			}).WithError(err).Warn("dropping malformed input event")
			continue
		}
		if r.modes.Allows(e.Kind()) {
			out = append(out, e)
		}
	}
	return out
}

// Dropped returns the number of malformed events discarded so far.
func (r *Recorder) Dropped() int {
	return r.dropped
}

// Stop ends the recording and hands over the captured timeline. The
// recorder keeps no reference to it.
func (r *Recorder) Stop() (timeline.Timeline, error) {
	if r.state != StateRecording {
		r.log.WithField("state", r.state.String()).Warn("stop called without an active recording")
		return timeline.Timeline{}, ErrNoActiveRecording
	}

	tl := r.tl
	r.tl = timeline.Timeline{}
	r.state = StateStopped

	entry := r.log.WithFields(logrus.Fields{
		"slots":      tl.Len(),
		"events":     tl.EventCount(),
		"ticks":      r.ticks,
		"dropped":    r.dropped,
		"terminated": tl.Terminated,
	})
	if err := tl.Lint(); err != nil {
		entry.WithError(err).Warn("recording stopped")
	} else {
		entry.Debug("recording stopped")
	}
	return tl, nil
}
