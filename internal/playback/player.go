// Package playback re-emits a recorded Timeline in lockstep with the host's
// frame clock.
package playback

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Rewind/internal/clock"
	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/host"
	"github.com/SmitUplenchwar2687/Rewind/internal/logging"
	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

var (
	// ErrNotLoaded is returned by Start before a timeline was loaded.
	ErrNotLoaded = errors.New("playback: no timeline loaded")
	// ErrAlreadyLoaded is returned by Load once a timeline is held.
	ErrAlreadyLoaded = errors.New("playback: timeline already loaded")
	// ErrAlreadyStarted is returned by Start after playback began.
	ErrAlreadyStarted = errors.New("playback: already started")
)

// State is the lifecycle position of a Player.
type State int

const (
	StateIdle State = iota
	StateLoaded
	StatePlaying
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Player) {
		if l != nil {
			p.log = l
		}
	}
}

// Player is a pass-through replayer: it does not interpret input, it only
// injects previously captured events at the matching relative frame.
// Not safe for concurrent use.
type Player struct {
	clock  clock.FrameClock
	sink   host.InputSink
	exiter host.Exiter
	log    logrus.FieldLogger

	state   State
	tl      timeline.Timeline
	anchor  clock.Anchor
	cursor  int
	emitted int
}

// New creates an idle Player. exiter may be nil if the host cannot be asked
// to exit; a recorded termination is then dropped.
func New(c clock.FrameClock, sink host.InputSink, exiter host.Exiter, opts ...Option) *Player {
	p := &Player{
		clock:  c,
		sink:   sink,
		exiter: exiter,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current lifecycle state.
func (p *Player) State() State {
	return p.state
}

// Load decodes data and holds the resulting timeline. A decode failure
// leaves the player idle.
func (p *Player) Load(data []byte) error {
	if p.state != StateIdle {
		return ErrAlreadyLoaded
	}
	tl, err := codec.Decode(data)
	if err != nil {
		return errors.Wrap(err, "loading timeline")
	}
	p.hold(tl)
	return nil
}

// LoadTimeline holds a copy of an in-memory timeline.
func (p *Player) LoadTimeline(tl timeline.Timeline) error {
	if p.state != StateIdle {
		return ErrAlreadyLoaded
	}
	if err := tl.Validate(); err != nil {
		return errors.Wrap(err, "loading timeline")
	}
	p.hold(tl.Clone())
	return nil
}

func (p *Player) hold(tl timeline.Timeline) {
	p.tl = tl
	p.cursor = 0
	p.state = StateLoaded

	entry := p.log.WithFields(logrus.Fields{
		"slots":      tl.Len(),
		"events":     tl.EventCount(),
		"terminated": tl.Terminated,
	})
	if err := tl.Lint(); err != nil {
		entry.WithError(err).Warn("timeline loaded")
	} else {
		entry.Debug("timeline loaded")
	}
}

// Start begins playback. Frame 0 of the timeline lines up with the host
// frame at the moment Start is called.
func (p *Player) Start() error {
	switch p.state {
	case StateIdle:
		return ErrNotLoaded
	case StatePlaying, StateFinished:
		return ErrAlreadyStarted
	}
	p.anchor = clock.NewAnchor(p.clock)
	p.state = StatePlaying
	p.log.WithField("start_frame", p.anchor.Start()).Debug("playback started")
	return nil
}

// Tick injects every not-yet-emitted slot whose frame has been reached and
// returns the number of events injected. Slots skipped over by a jump in
// the host clock are delivered late rather than dropped.
//
// Once every slot is consumed, a terminated timeline requests host exit
// exactly once and the player finishes. Otherwise the player stays in
// StatePlaying and emits nothing further.
func (p *Player) Tick() int {
	if p.state != StatePlaying {
		return 0
	}

	frame := p.anchor.Relative()
	n := 0
	for p.cursor < len(p.tl.Slots) && p.tl.Slots[p.cursor].Frame <= frame {
		for _, ev := range p.tl.Slots[p.cursor].Events {
			p.sink.Inject(ev)
			n++
		}
		p.cursor++
	}
	p.emitted += n

	if p.cursor == len(p.tl.Slots) && p.tl.Terminated {
		if p.exiter != nil {
			p.exiter.RequestExit()
		}
		p.state = StateFinished
		p.log.WithFields(logrus.Fields{
			"frame":   frame,
			"emitted": p.emitted,
		}).Debug("playback finished with host exit")
	}
	return n
}

// Remaining returns the number of slots not yet emitted.
func (p *Player) Remaining() int {
	return len(p.tl.Slots) - p.cursor
}

// Exhausted reports whether every slot has been emitted.
func (p *Player) Exhausted() bool {
	return p.state >= StatePlaying && p.cursor == len(p.tl.Slots)
}

// Emitted returns the total number of events injected so far.
func (p *Player) Emitted() int {
	return p.emitted
}

// Timeline returns a copy of the loaded timeline.
func (p *Player) Timeline() timeline.Timeline {
	return p.tl.Clone()
}
