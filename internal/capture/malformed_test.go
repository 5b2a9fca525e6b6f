package capture

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/host"
	"github.com/SmitUplenchwar2687/Rewind/internal/logging"
	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

func TestRecorder_DropsMalformedEvents(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(&buf, logging.Options{Level: "warn"})
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}

	h := host.NewSynthetic(0)
	r := newRecorder(h, WithLogger(l))
	if err := r.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	tick(h, r, pressA)
	tick(h, r, timeline.ControllerAxis{DeviceID: 1, Axis: "left_stick_x", Value: math.NaN()})
	tick(h, r,
		timeline.Keyboard{State: timeline.Pressed},
		releaseA,
		timeline.PointerMotion{DX: math.Inf(-1)},
	)

	tl, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	want := timeline.Timeline{Slots: []timeline.FrameSlot{
		{Frame: 0, Events: []timeline.InputEvent{pressA}},
		{Frame: 2, Events: []timeline.InputEvent{releaseA}},
	}}
	if !want.Equal(tl) {
		t.Fatalf("Stop() = %+v, want %+v", tl, want)
	}
	if got := r.Dropped(); got != 3 {
		t.Errorf("Dropped() = %d, want 3", got)
	}

	if _, err := codec.Encode(tl); err != nil {
		t.Fatalf("Encode() error = %v, want the remaining recording to encode", err)
	}

	if got := strings.Count(buf.String(), "dropping malformed input event"); got != 3 {
		t.Errorf("logged %d drop warnings, want 3:\n%s", got, buf.String())
	}
}

func TestRecorder_DroppedResetsOnStart(t *testing.T) {
	h := host.NewSynthetic(0)
	r := newRecorder(h)
	if got := r.Dropped(); got != 0 {
		t.Fatalf("Dropped() = %d before start, want 0", got)
	}
	if err := r.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	tick(h, r, nil, pressA)

	if got := r.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1 for a nil event", got)
	}
}
