package timeline

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Timeline {
	return Timeline{
		Slots: []FrameSlot{
			{Frame: 1, Events: []InputEvent{Keyboard{Code: "KeyA", State: Pressed}}},
			{Frame: 4, Events: []InputEvent{
				PointerMotion{DX: 1.5, DY: -2},
				PointerButton{Button: "left", State: Pressed},
			}},
			{Frame: 9, Events: []InputEvent{
				ControllerAxis{DeviceID: 1, Axis: "left_stick_x", Value: 0.25},
				ControllerButton{DeviceID: 1, Button: "south", State: Released},
				PointerWheel{DY: 3},
			}},
		},
		Terminated: true,
	}
}

func TestTimeline_Counts(t *testing.T) {
	tl := sample()

	assert.Equal(t, 3, tl.Len())
	assert.Equal(t, 6, tl.EventCount())
	assert.False(t, tl.Empty())

	first, last, ok := tl.FrameRange()
	require.True(t, ok)
	assert.Equal(t, FrameIndex(1), first)
	assert.Equal(t, FrameIndex(9), last)
	assert.Equal(t, FrameIndex(9), tl.LastFrame())

	counts := tl.CountByKind()
	assert.Equal(t, 1, counts[KindKeyboard])
	assert.Equal(t, 1, counts[KindControllerAxis])
	assert.Equal(t, 1, counts[KindPointerMotion])
}

func TestTimeline_EmptyLint(t *testing.T) {
	var tl Timeline
	assert.True(t, tl.Empty())
	assert.True(t, errors.Is(tl.Lint(), ErrEmptyTimeline))
	assert.NoError(t, tl.Validate(), "an empty timeline is structurally valid")

	_, _, ok := tl.FrameRange()
	assert.False(t, ok)

	tl.Terminated = true
	assert.False(t, tl.Empty())
	assert.NoError(t, tl.Lint())
}

func TestTimeline_Validate(t *testing.T) {
	require.NoError(t, sample().Validate())

	tests := []struct {
		name string
		tl   Timeline
	}{
		{
			name: "duplicate frame",
			tl: Timeline{Slots: []FrameSlot{
				{Frame: 2, Events: []InputEvent{Keyboard{Code: "KeyA", State: Pressed}}},
				{Frame: 2, Events: []InputEvent{Keyboard{Code: "KeyA", State: Released}}},
			}},
		},
		{
			name: "descending frame",
			tl: Timeline{Slots: []FrameSlot{
				{Frame: 5, Events: []InputEvent{Keyboard{Code: "KeyA", State: Pressed}}},
				{Frame: 3, Events: []InputEvent{Keyboard{Code: "KeyA", State: Released}}},
			}},
		},
		{
			name: "empty slot",
			tl:   Timeline{Slots: []FrameSlot{{Frame: 1}}},
		},
		{
			name: "nil event",
			tl:   Timeline{Slots: []FrameSlot{{Frame: 1, Events: []InputEvent{nil}}}},
		},
		{
			name: "bad state",
			tl:   Timeline{Slots: []FrameSlot{{Frame: 1, Events: []InputEvent{Keyboard{Code: "KeyA"}}}}},
		},
		{
			name: "nan axis",
			tl: Timeline{Slots: []FrameSlot{{Frame: 1, Events: []InputEvent{
				ControllerAxis{Axis: "x", Value: math.NaN()},
			}}}},
		},
		{
			name: "empty key code",
			tl:   Timeline{Slots: []FrameSlot{{Frame: 1, Events: []InputEvent{Keyboard{State: Pressed}}}}},
		},
		{
			name: "empty pointer button",
			tl:   Timeline{Slots: []FrameSlot{{Frame: 1, Events: []InputEvent{PointerButton{State: Pressed}}}}},
		},
		{
			name: "empty controller button",
			tl:   Timeline{Slots: []FrameSlot{{Frame: 1, Events: []InputEvent{ControllerButton{DeviceID: 1, State: Released}}}}},
		},
		{
			name: "empty axis",
			tl:   Timeline{Slots: []FrameSlot{{Frame: 1, Events: []InputEvent{ControllerAxis{Value: 0.5}}}}},
		},
		{
			name: "invalid utf8 code",
			tl:   Timeline{Slots: []FrameSlot{{Frame: 1, Events: []InputEvent{Keyboard{Code: "\xff", State: Pressed}}}}},
		},
		{
			name: "invalid utf8 axis",
			tl:   Timeline{Slots: []FrameSlot{{Frame: 1, Events: []InputEvent{ControllerAxis{Axis: "x\xfe", Value: 0}}}}},
		},
		{
			name: "infinite motion",
			tl: Timeline{Slots: []FrameSlot{{Frame: 1, Events: []InputEvent{
				PointerMotion{DX: math.Inf(1)},
			}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.tl.Validate())
		})
	}
}

func TestTimeline_Equal(t *testing.T) {
	a, b := sample(), sample()
	assert.True(t, a.Equal(b))

	b.Terminated = false
	assert.False(t, a.Equal(b))

	c := sample()
	c.Slots[1].Events[0], c.Slots[1].Events[1] = c.Slots[1].Events[1], c.Slots[1].Events[0]
	assert.False(t, a.Equal(c), "event order within a slot is significant")

	d := sample()
	d.Slots[2].Frame = 10
	assert.False(t, a.Equal(d))

	assert.True(t, Timeline{}.Equal(Timeline{Slots: []FrameSlot{}}), "nil and empty slot lists are equal")
}

func TestTimeline_CloneIsDeep(t *testing.T) {
	orig := sample()
	cp := orig.Clone()
	require.True(t, orig.Equal(cp))

	cp.Slots[0].Events[0] = Keyboard{Code: "KeyB", State: Pressed}
	cp.Slots = append(cp.Slots, FrameSlot{Frame: 20, Events: []InputEvent{PointerWheel{DX: 1}}})

	assert.Equal(t, Keyboard{Code: "KeyA", State: Pressed}, orig.Slots[0].Events[0])
	assert.Equal(t, 3, orig.Len())
}

func TestParseButtonState(t *testing.T) {
	s, err := ParseButtonState("pressed")
	require.NoError(t, err)
	assert.Equal(t, Pressed, s)
	assert.Equal(t, "pressed", s.String())

	s, err = ParseButtonState("released")
	require.NoError(t, err)
	assert.Equal(t, Released, s)

	_, err = ParseButtonState("held")
	assert.Error(t, err)
	assert.False(t, ButtonState(0).Valid())
}
