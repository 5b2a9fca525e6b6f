// Package timeline exposes the recorded input model: events, frame slots
// and timelines.
package timeline

import internaltimeline "github.com/SmitUplenchwar2687/Rewind/internal/timeline"

// FrameIndex counts frame ticks relative to the start of a session.
type FrameIndex = internaltimeline.FrameIndex

// InputEvent is one captured input occurrence.
type InputEvent = internaltimeline.InputEvent

// Kind names the modality of an InputEvent.
type Kind = internaltimeline.Kind

// ButtonState is the press state of button-like events.
type ButtonState = internaltimeline.ButtonState

type (
	Keyboard         = internaltimeline.Keyboard
	PointerMotion    = internaltimeline.PointerMotion
	PointerButton    = internaltimeline.PointerButton
	PointerWheel     = internaltimeline.PointerWheel
	ControllerButton = internaltimeline.ControllerButton
	ControllerAxis   = internaltimeline.ControllerAxis
)

// FrameSlot holds the events captured on one frame.
type FrameSlot = internaltimeline.FrameSlot

// Timeline is an ordered, sparse log of frame slots.
type Timeline = internaltimeline.Timeline

const (
	Pressed  = internaltimeline.Pressed
	Released = internaltimeline.Released
)

const (
	KindKeyboard         = internaltimeline.KindKeyboard
	KindPointerMotion    = internaltimeline.KindPointerMotion
	KindPointerButton    = internaltimeline.KindPointerButton
	KindPointerWheel     = internaltimeline.KindPointerWheel
	KindControllerButton = internaltimeline.KindControllerButton
	KindControllerAxis   = internaltimeline.KindControllerAxis
)

// Kinds lists every supported modality in a stable order.
var Kinds = internaltimeline.Kinds

// ParseButtonState converts "pressed" or "released" into a ButtonState.
func ParseButtonState(s string) (ButtonState, error) {
	return internaltimeline.ParseButtonState(s)
}
