// Package capture records a host's per-frame input into a timeline.
package capture

import (
	"github.com/sirupsen/logrus"

	internalcapture "github.com/SmitUplenchwar2687/Rewind/internal/capture"
	"github.com/SmitUplenchwar2687/Rewind/pkg/clock"
	"github.com/SmitUplenchwar2687/Rewind/pkg/host"
)

// Recorder captures input once per host update.
type Recorder = internalcapture.Recorder

// Option configures a Recorder.
type Option = internalcapture.Option

// Modes selects which input modalities are kept.
type Modes = internalcapture.Modes

// State is the lifecycle position of a Recorder.
type State = internalcapture.State

const (
	StateIdle      = internalcapture.StateIdle
	StateRecording = internalcapture.StateRecording
	StateStopped   = internalcapture.StateStopped
)

var (
	AllModes = internalcapture.AllModes
	NoModes  = internalcapture.NoModes

	ErrAlreadyRecording  = internalcapture.ErrAlreadyRecording
	ErrNoActiveRecording = internalcapture.ErrNoActiveRecording
	ErrRecorderStopped   = internalcapture.ErrRecorderStopped
)

// New creates an idle Recorder.
func New(c clock.FrameClock, src host.InputSource, exit host.ExitSignal, opts ...Option) *Recorder {
	return internalcapture.New(c, src, exit, opts...)
}

// WithModes restricts capture to the given modalities.
func WithModes(m Modes) Option {
	return internalcapture.WithModes(m)
}

// ParseModes reads a comma-separated list of mode names.
func ParseModes(s string) (Modes, error) {
	return internalcapture.ParseModes(s)
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l logrus.FieldLogger) Option {
	return internalcapture.WithLogger(l)
}
