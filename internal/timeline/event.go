package timeline

import (
	"fmt"

	"github.com/pkg/errors"
)

// FrameIndex counts frame ticks relative to the start of a session.
type FrameIndex uint64

// ButtonState is the press state carried by button-like events.
type ButtonState uint8

const (
	Pressed ButtonState = iota + 1
	Released
)

func (s ButtonState) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("ButtonState(%d)", uint8(s))
	}
}

// Valid reports whether s is Pressed or Released.
func (s ButtonState) Valid() bool {
	return s == Pressed || s == Released
}

// ParseButtonState converts "pressed" or "released" into a ButtonState.
func ParseButtonState(s string) (ButtonState, error) {
	switch s {
	case "pressed":
		return Pressed, nil
	case "released":
		return Released, nil
	default:
		return 0, errors.Errorf("unknown button state %q", s)
	}
}

// Kind identifies the input modality of an event.
type Kind string

const (
	KindKeyboard         Kind = "keyboard"
	KindPointerMotion    Kind = "pointer_motion"
	KindPointerButton    Kind = "pointer_button"
	KindPointerWheel     Kind = "pointer_wheel"
	KindControllerButton Kind = "controller_button"
	KindControllerAxis   Kind = "controller_axis"
)

// Kinds lists every supported modality in a stable order.
var Kinds = []Kind{
	KindKeyboard,
	KindPointerMotion,
	KindPointerButton,
	KindPointerWheel,
	KindControllerButton,
	KindControllerAxis,
}

// InputEvent is one raw input occurrence. The set of implementations is
// closed; each is a comparable value type with no frame information.
type InputEvent interface {
	Kind() Kind
	isInputEvent()
}

// Keyboard is a key press or release.
type Keyboard struct {
	Code  string
	State ButtonState
}

// PointerMotion is a relative pointer movement.
type PointerMotion struct {
	DX, DY float64
}

// PointerButton is a pointer button press or release.
type PointerButton struct {
	Button string
	State  ButtonState
}

// PointerWheel is a scroll wheel movement.
type PointerWheel struct {
	DX, DY float64
}

// ControllerButton is a gamepad button press or release.
type ControllerButton struct {
	DeviceID uint32
	Button   string
	State    ButtonState
}

// ControllerAxis is an analog axis reading from a gamepad.
type ControllerAxis struct {
	DeviceID uint32
	Axis     string
	Value    float64
}

func (Keyboard) Kind() Kind         { return KindKeyboard }
func (PointerMotion) Kind() Kind    { return KindPointerMotion }
func (PointerButton) Kind() Kind    { return KindPointerButton }
func (PointerWheel) Kind() Kind     { return KindPointerWheel }
func (ControllerButton) Kind() Kind { return KindControllerButton }
func (ControllerAxis) Kind() Kind   { return KindControllerAxis }

func (Keyboard) isInputEvent()         {}
func (PointerMotion) isInputEvent()    {}
func (PointerButton) isInputEvent()    {}
func (PointerWheel) isInputEvent()     {}
func (ControllerButton) isInputEvent() {}
func (ControllerAxis) isInputEvent()   {}

func (e Keyboard) String() string { return fmt.Sprintf("keyboard %s %s", e.Code, e.State) }
func (e PointerMotion) String() string {
	return fmt.Sprintf("pointer_motion dx=%g dy=%g", e.DX, e.DY)
}
func (e PointerButton) String() string {
	return fmt.Sprintf("pointer_button %s %s", e.Button, e.State)
}
func (e PointerWheel) String() string { return fmt.Sprintf("pointer_wheel dx=%g dy=%g", e.DX, e.DY) }
func (e ControllerButton) String() string {
	return fmt.Sprintf("controller_button #%d %s %s", e.DeviceID, e.Button, e.State)
}
func (e ControllerAxis) String() string {
	return fmt.Sprintf("controller_axis #%d %s=%g", e.DeviceID, e.Axis, e.Value)
}
