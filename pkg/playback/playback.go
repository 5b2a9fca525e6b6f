// Package playback re-emits a recorded timeline in lockstep with a host's
// frame clock.
package playback

import (
	"github.com/sirupsen/logrus"

	internalplayback "github.com/SmitUplenchwar2687/Rewind/internal/playback"
	"github.com/SmitUplenchwar2687/Rewind/pkg/clock"
	"github.com/SmitUplenchwar2687/Rewind/pkg/host"
)

// Player injects recorded events at their relative frame.
type Player = internalplayback.Player

// Option configures a Player.
type Option = internalplayback.Option

// State is the lifecycle position of a Player.
type State = internalplayback.State

const (
	StateIdle     = internalplayback.StateIdle
	StateLoaded   = internalplayback.StateLoaded
	StatePlaying  = internalplayback.StatePlaying
	StateFinished = internalplayback.StateFinished
)

var (
	ErrNotLoaded      = internalplayback.ErrNotLoaded
	ErrAlreadyLoaded  = internalplayback.ErrAlreadyLoaded
	ErrAlreadyStarted = internalplayback.ErrAlreadyStarted
)

// New creates an idle Player. exiter may be nil.
func New(c clock.FrameClock, sink host.InputSink, exiter host.Exiter, opts ...Option) *Player {
	return internalplayback.New(c, sink, exiter, opts...)
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l logrus.FieldLogger) Option {
	return internalplayback.WithLogger(l)
}
