// Package timeline holds the in-memory model of a recorded input session.
package timeline

import (
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrEmptyTimeline flags a timeline with no slots and no termination.
// Such a timeline is valid but replays as a no-op.
var ErrEmptyTimeline = errors.New("timeline has no input and no termination")

// FrameSlot groups the events that arrived during one frame, in arrival order.
type FrameSlot struct {
	Frame  FrameIndex
	Events []InputEvent
}

// Timeline is a sparse, frame-ordered log of input. Frames without
// activity have no slot.
type Timeline struct {
	Slots      []FrameSlot
	Terminated bool
}

// Len returns the number of slots.
func (t Timeline) Len() int {
	return len(t.Slots)
}

// EventCount returns the total number of events across all slots.
func (t Timeline) EventCount() int {
	n := 0
	for _, s := range t.Slots {
		n += len(s.Events)
	}
	return n
}

// Empty reports whether the timeline would replay nothing at all.
func (t Timeline) Empty() bool {
	return len(t.Slots) == 0 && !t.Terminated
}

// Lint returns ErrEmptyTimeline for timelines callers should treat as
// likely useless. It never reports structural problems; see Validate.
func (t Timeline) Lint() error {
	if t.Empty() {
		return ErrEmptyTimeline
	}
	return nil
}

// FrameRange returns the first and last recorded frame.
// ok is false when there are no slots.
func (t Timeline) FrameRange() (first, last FrameIndex, ok bool) {
	if len(t.Slots) == 0 {
		return 0, 0, false
	}
	return t.Slots[0].Frame, t.Slots[len(t.Slots)-1].Frame, true
}

// LastFrame returns the frame of the last slot, or 0 with no slots.
func (t Timeline) LastFrame() FrameIndex {
	_, last, _ := t.FrameRange()
	return last
}

// CountByKind tallies events per modality.
func (t Timeline) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, s := range t.Slots {
		for _, e := range s.Events {
			counts[e.Kind()]++
		}
	}
	return counts
}

// Validate checks the structural invariants: strictly ascending frames,
// no empty slots, and well-formed events.
func (t Timeline) Validate() error {
	for i, s := range t.Slots {
		if i > 0 && s.Frame <= t.Slots[i-1].Frame {
			return errors.Errorf("slot %d: frame %d does not follow frame %d", i, s.Frame, t.Slots[i-1].Frame)
		}
		if len(s.Events) == 0 {
			return errors.Errorf("slot %d (frame %d) has no events", i, s.Frame)
		}
		for j, e := range s.Events {
			if err := ValidateEvent(e); err != nil {
				return errors.Wrapf(err, "slot %d (frame %d) event %d", i, s.Frame, j)
			}
		}
	}
	return nil
}

// ValidateEvent checks a single event: known variant, valid button state,
// non-empty valid UTF-8 names and finite values.
func ValidateEvent(e InputEvent) error {
	switch ev := e.(type) {
	case nil:
		return errors.New("nil event")
	case Keyboard:
		if err := validateName("code", ev.Code); err != nil {
			return err
		}
		return validateState(ev.State)
	case PointerButton:
		if err := validateName("button", ev.Button); err != nil {
			return err
		}
		return validateState(ev.State)
	case ControllerButton:
		if err := validateName("button", ev.Button); err != nil {
			return err
		}
		return validateState(ev.State)
	case PointerMotion:
		return validateFinite(ev.DX, ev.DY)
	case PointerWheel:
		return validateFinite(ev.DX, ev.DY)
	case ControllerAxis:
		if err := validateName("axis", ev.Axis); err != nil {
			return err
		}
		return validateFinite(ev.Value)
	default:
		return errors.Errorf("unsupported event type %T", e)
	}
}

func validateName(field, v string) error {
	if v == "" {
		return errors.Errorf("empty %s", field)
	}
	if !utf8.ValidString(v) {
		return errors.Errorf("%s %q is not valid UTF-8", field, v)
	}
	return nil
}

func validateState(s ButtonState) error {
	if !s.Valid() {
		return errors.Errorf("invalid button state %d", s)
	}
	return nil
}

func validateFinite(vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("non-finite value %v", v)
		}
	}
	return nil
}

// Equal reports structural equality: same slots in the same order, same
// events in the same order within each slot, same termination flag.
func (t Timeline) Equal(other Timeline) bool {
	if t.Terminated != other.Terminated || len(t.Slots) != len(other.Slots) {
		return false
	}
	for i := range t.Slots {
		a, b := t.Slots[i], other.Slots[i]
		if a.Frame != b.Frame || len(a.Events) != len(b.Events) {
			return false
		}
		for j := range a.Events {
			if a.Events[j] != b.Events[j] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy that shares no slices with t.
func (t Timeline) Clone() Timeline {
	out := Timeline{Terminated: t.Terminated}
	if t.Slots != nil {
		out.Slots = make([]FrameSlot, len(t.Slots))
		for i, s := range t.Slots {
			out.Slots[i] = FrameSlot{
				Frame:  s.Frame,
				Events: append([]InputEvent(nil), s.Events...),
			}
		}
	}
	return out
}
