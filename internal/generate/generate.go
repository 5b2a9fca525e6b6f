// Package generate produces synthetic timelines by driving a real capture
// session against an in-memory host.
package generate

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/SmitUplenchwar2687/Rewind/internal/capture"
	"github.com/SmitUplenchwar2687/Rewind/internal/host"
	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

const (
	// PatternTyping presses and releases keyboard keys.
	PatternTyping = "typing"
	// PatternPointer moves the pointer with occasional clicks and scrolls.
	PatternPointer = "pointer"
	// PatternController sweeps sticks and taps controller buttons.
	PatternController = "controller"
	// PatternMixed picks one of the other patterns on every active tick.
	PatternMixed = "mixed"
)

// Patterns lists the accepted pattern names.
var Patterns = []string{PatternTyping, PatternPointer, PatternController, PatternMixed}

var (
	keyPool        = []string{"KeyW", "KeyA", "KeyS", "KeyD", "Space", "ShiftLeft", "KeyE", "Enter"}
	pointerButtons = []string{"left", "right", "middle"}
	padButtons     = []string{"south", "east", "west", "north", "start"}
	padAxes        = []string{"left_stick_x", "left_stick_y", "right_stick_x", "right_stick_y"}
)

// Options controls how a synthetic timeline is generated.
type Options struct {
	Ticks      int
	Pattern    string
	Activity   float64
	Seed       int64
	Terminate  bool
	StartFrame timeline.FrameIndex
	Devices    int
}

// DefaultOptions returns ten seconds of mixed input at 60 ticks per second.
func DefaultOptions() Options {
	return Options{
		Ticks:     600,
		Pattern:   PatternMixed,
		Activity:  0.25,
		Terminate: true,
		Devices:   1,
	}
}

// Timeline records opts.Ticks host updates of synthetic input and returns
// the captured timeline. A fixed non-zero seed yields the same timeline on
// every run.
func Timeline(opts Options) (timeline.Timeline, error) {
	if opts.Ticks <= 0 {
		return timeline.Timeline{}, errors.Errorf("ticks must be positive, got %d", opts.Ticks)
	}
	if opts.Activity <= 0 || opts.Activity > 1 {
		return timeline.Timeline{}, errors.Errorf("activity must be in (0, 1], got %g", opts.Activity)
	}
	if opts.Pattern == "" {
		opts.Pattern = PatternMixed
	}
	if opts.Devices <= 0 {
		opts.Devices = 1
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	h := host.NewSynthetic(opts.StartFrame)
	rec := capture.New(h, h, h)
	if err := rec.Start(); err != nil {
		return timeline.Timeline{}, err
	}

	src := newSource(rand.New(rand.NewSource(opts.Seed)), opts.Pattern, opts.Devices)
	for i := 0; i < opts.Ticks; i++ {
		last := i == opts.Ticks-1
		if last {
			h.Queue(src.releaseAll()...)
			if opts.Terminate {
				h.RaiseExit()
			}
		} else if src.rng.Float64() < opts.Activity {
			h.Queue(src.next()...)
		}
		rec.Tick()
		h.Step()
	}

	return rec.Stop()
}

// source keeps track of held buttons so every press is eventually released.
type source struct {
	rng     *rand.Rand
	pattern string
	devices int

	keys    []string
	buttons []string
	pads    []timeline.ControllerButton
}

func newSource(rng *rand.Rand, pattern string, devices int) *source {
	return &source{rng: rng, pattern: pattern, devices: devices}
}

func (s *source) next() []timeline.InputEvent {
	switch s.pattern {
	case PatternTyping:
		return s.typing()
	case PatternPointer:
		return s.pointer()
	case PatternController:
		return s.controller()
	default: // mixed and unknown patterns default to mixed behavior.
		switch s.rng.Intn(3) {
		case 0:
			return s.typing()
		case 1:
			return s.pointer()
		default:
			return s.controller()
		}
	}
}

func (s *source) typing() []timeline.InputEvent {
	if len(s.keys) > 0 && s.rng.Intn(2) == 0 {
		var code string
		code, s.keys = take(s.rng, s.keys)
		return []timeline.InputEvent{timeline.Keyboard{Code: code, State: timeline.Released}}
	}
	code := keyPool[s.rng.Intn(len(keyPool))]
	if contains(s.keys, code) {
		s.keys = remove(s.keys, code)
		return []timeline.InputEvent{timeline.Keyboard{Code: code, State: timeline.Released}}
	}
	s.keys = append(s.keys, code)
	return []timeline.InputEvent{timeline.Keyboard{Code: code, State: timeline.Pressed}}
}

func (s *source) pointer() []timeline.InputEvent {
	events := []timeline.InputEvent{timeline.PointerMotion{
		DX: round(s.rng.NormFloat64() * 6),
		DY: round(s.rng.NormFloat64() * 6),
	}}
	switch n := s.rng.Intn(10); {
	case n < 2:
		b := pointerButtons[s.rng.Intn(len(pointerButtons))]
		state := timeline.Pressed
		if contains(s.buttons, b) {
			s.buttons = remove(s.buttons, b)
			state = timeline.Released
		} else {
			s.buttons = append(s.buttons, b)
		}
		events = append(events, timeline.PointerButton{Button: b, State: state})
	case n == 2:
		events = append(events, timeline.PointerWheel{DY: float64(s.rng.Intn(3) - 1)})
	}
	return events
}

func (s *source) controller() []timeline.InputEvent {
	device := uint32(s.rng.Intn(s.devices))
	if s.rng.Intn(3) == 0 {
		b := timeline.ControllerButton{DeviceID: device, Button: padButtons[s.rng.Intn(len(padButtons))]}
		for i, held := range s.pads {
			if held.DeviceID == b.DeviceID && held.Button == b.Button {
				s.pads = append(s.pads[:i], s.pads[i+1:]...)
				b.State = timeline.Released
				return []timeline.InputEvent{b}
			}
		}
		b.State = timeline.Pressed
		s.pads = append(s.pads, b)
		return []timeline.InputEvent{b}
	}
	return []timeline.InputEvent{timeline.ControllerAxis{
		DeviceID: device,
		Axis:     padAxes[s.rng.Intn(len(padAxes))],
		Value:    round(s.rng.Float64()*2 - 1),
	}}
}

// releaseAll releases everything still held, in press order.
func (s *source) releaseAll() []timeline.InputEvent {
	var events []timeline.InputEvent
	for _, k := range s.keys {
		events = append(events, timeline.Keyboard{Code: k, State: timeline.Released})
	}
	for _, b := range s.buttons {
		events = append(events, timeline.PointerButton{Button: b, State: timeline.Released})
	}
	for _, p := range s.pads {
		p.State = timeline.Released
		events = append(events, p)
	}
	s.keys, s.buttons, s.pads = nil, nil, nil
	return events
}

func take(rng *rand.Rand, list []string) (string, []string) {
	i := rng.Intn(len(list))
	v := list[i]
	return v, append(list[:i:i], list[i+1:]...)
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// round keeps generated values short in the text encoding.
func round(v float64) float64 {
	return float64(int64(v*1000)) / 1000
}
