package codec

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

// Event is the wire shape of one input event: a flat object tagged by
// kind. Fields a kind does not use are omitted, and fields a reader does not
// know are ignored, so new variants and attributes can be added without
// breaking older readers of existing kinds.
type Event struct {
	Kind   string   `json:"kind" cbor:"kind"`
	Code   string   `json:"code,omitempty" cbor:"code,omitempty"`
	Button string   `json:"button,omitempty" cbor:"button,omitempty"`
	State  string   `json:"state,omitempty" cbor:"state,omitempty"`
	Device *uint32  `json:"device,omitempty" cbor:"device,omitempty"`
	Axis   string   `json:"axis,omitempty" cbor:"axis,omitempty"`
	Value  *float64 `json:"value,omitempty" cbor:"value,omitempty"`
	DX     *float64 `json:"dx,omitempty" cbor:"dx,omitempty"`
	DY     *float64 `json:"dy,omitempty" cbor:"dy,omitempty"`
}

// EventFromInput converts a model event into its wire shape.
func EventFromInput(ev timeline.InputEvent) (Event, error) {
	switch e := ev.(type) {
	case timeline.Keyboard:
		return Event{Kind: string(timeline.KindKeyboard), Code: e.Code, State: e.State.String()}, nil
	case timeline.PointerMotion:
		return Event{Kind: string(timeline.KindPointerMotion), DX: f64(e.DX), DY: f64(e.DY)}, nil
	case timeline.PointerButton:
		return Event{Kind: string(timeline.KindPointerButton), Button: e.Button, State: e.State.String()}, nil
	case timeline.PointerWheel:
		return Event{Kind: string(timeline.KindPointerWheel), DX: f64(e.DX), DY: f64(e.DY)}, nil
	case timeline.ControllerButton:
		return Event{
			Kind:   string(timeline.KindControllerButton),
			Device: u32(e.DeviceID),
			Button: e.Button,
			State:  e.State.String(),
		}, nil
	case timeline.ControllerAxis:
		return Event{
			Kind:   string(timeline.KindControllerAxis),
			Device: u32(e.DeviceID),
			Axis:   e.Axis,
			Value:  f64(e.Value),
		}, nil
	default:
		return Event{}, errors.Errorf("unsupported event type %T", ev)
	}
}

// Input converts the wire shape back into a model event.
func (e Event) Input() (timeline.InputEvent, error) {
	switch timeline.Kind(e.Kind) {
	case timeline.KindKeyboard:
		if e.Code == "" {
			return nil, missing(e.Kind, "code")
		}
		st, err := e.state()
		if err != nil {
			return nil, err
		}
		return timeline.Keyboard{Code: e.Code, State: st}, nil

	case timeline.KindPointerMotion, timeline.KindPointerWheel:
		if e.DX == nil {
			return nil, missing(e.Kind, "dx")
		}
		if e.DY == nil {
			return nil, missing(e.Kind, "dy")
		}
		if timeline.Kind(e.Kind) == timeline.KindPointerWheel {
			return timeline.PointerWheel{DX: *e.DX, DY: *e.DY}, nil
		}
		return timeline.PointerMotion{DX: *e.DX, DY: *e.DY}, nil

	case timeline.KindPointerButton:
		if e.Button == "" {
			return nil, missing(e.Kind, "button")
		}
		st, err := e.state()
		if err != nil {
			return nil, err
		}
		return timeline.PointerButton{Button: e.Button, State: st}, nil

	case timeline.KindControllerButton:
		if e.Device == nil {
			return nil, missing(e.Kind, "device")
		}
		if e.Button == "" {
			return nil, missing(e.Kind, "button")
		}
		st, err := e.state()
		if err != nil {
			return nil, err
		}
		return timeline.ControllerButton{DeviceID: *e.Device, Button: e.Button, State: st}, nil

	case timeline.KindControllerAxis:
		if e.Device == nil {
			return nil, missing(e.Kind, "device")
		}
		if e.Axis == "" {
			return nil, missing(e.Kind, "axis")
		}
		if e.Value == nil {
			return nil, missing(e.Kind, "value")
		}
		return timeline.ControllerAxis{DeviceID: *e.Device, Axis: e.Axis, Value: *e.Value}, nil

	case "":
		return nil, errors.New("event has no kind")
	default:
		return nil, errors.Errorf("unknown event kind %q", e.Kind)
	}
}

func (e Event) state() (timeline.ButtonState, error) {
	if e.State == "" {
		return 0, missing(e.Kind, "state")
	}
	return timeline.ParseButtonState(e.State)
}

func missing(kind, field string) error {
	return errors.Errorf("%s event is missing %q", kind, field)
}

func f64(v float64) *float64 { return &v }
func u32(v uint32) *uint32   { return &v }

// EncodeEvents converts a batch of model events into wire events.
func EncodeEvents(events []timeline.InputEvent) ([]Event, error) {
	out := make([]Event, 0, len(events))
	for i, ev := range events {
		we, err := EventFromInput(ev)
		if err != nil {
			return nil, errors.Wrapf(err, "event %d", i)
		}
		out = append(out, we)
	}
	return out, nil
}

// DecodeEvents converts wire events back into model events. Any event that
// would not survive in a timeline is reported as a *MalformedError.
func DecodeEvents(events []Event) ([]timeline.InputEvent, error) {
	out := make([]timeline.InputEvent, 0, len(events))
	for i, we := range events {
		ev, err := we.Input()
		if err != nil {
			return nil, malformed(fmt.Sprintf("event %d", i), err)
		}
		out = append(out, ev)
	}
	if len(out) > 0 {
		batch := timeline.Timeline{Slots: []timeline.FrameSlot{{Events: out}}}
		if err := batch.Validate(); err != nil {
			return nil, malformed("invalid event", err)
		}
	}
	return out, nil
}
