package capture

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

// Modes selects which input modalities a Recorder keeps.
// Events of a disabled modality are drained and dropped.
type Modes struct {
	Keyboard bool
	// PointerButtons covers pointer buttons and the scroll wheel.
	PointerButtons bool
	PointerMotion  bool
	Controller     bool
}

var (
	// AllModes captures every supported modality.
	AllModes = Modes{Keyboard: true, PointerButtons: true, PointerMotion: true, Controller: true}
	// NoModes captures nothing.
	NoModes = Modes{}
)

// Mode names accepted by ParseModes.
const (
	ModeKeyboard       = "keyboard"
	ModePointerButtons = "pointer_buttons"
	ModePointerMotion  = "pointer_motion"
	ModeController     = "controller"
	ModeAll            = "all"
	ModeNone           = "none"
)

// Allows reports whether events of kind k are captured.
func (m Modes) Allows(k timeline.Kind) bool {
	switch k {
	case timeline.KindKeyboard:
		return m.Keyboard
	case timeline.KindPointerButton, timeline.KindPointerWheel:
		return m.PointerButtons
	case timeline.KindPointerMotion:
		return m.PointerMotion
	case timeline.KindControllerButton, timeline.KindControllerAxis:
		return m.Controller
	default:
		return false
	}
}

// String renders the enabled modes in ParseModes syntax.
func (m Modes) String() string {
	if m == AllModes {
		return ModeAll
	}
	var names []string
	if m.Keyboard {
		names = append(names, ModeKeyboard)
	}
	if m.PointerButtons {
		names = append(names, ModePointerButtons)
	}
	if m.PointerMotion {
		names = append(names, ModePointerMotion)
	}
	if m.Controller {
		names = append(names, ModeController)
	}
	if len(names) == 0 {
		return ModeNone
	}
	return strings.Join(names, ",")
}

// ParseModes reads a comma-separated list of mode names.
// An empty string means all modes.
func ParseModes(s string) (Modes, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AllModes, nil
	}

	var m Modes
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(part) {
		case ModeAll:
			m = AllModes
		case ModeNone:
		case ModeKeyboard:
			m.Keyboard = true
		case ModePointerButtons:
			m.PointerButtons = true
		case ModePointerMotion:
			m.PointerMotion = true
		case ModeController:
			m.Controller = true
		default:
			return Modes{}, errors.Errorf("unknown capture mode %q, must be one of: keyboard, pointer_buttons, pointer_motion, controller, all, none", part)
		}
	}
	return m, nil
}
