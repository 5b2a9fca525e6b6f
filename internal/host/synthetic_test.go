package host

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

func TestSynthetic_DrainClearsPending(t *testing.T) {
	h := NewSynthetic(0)
	press := timeline.Keyboard{Code: "KeyA", State: timeline.Pressed}
	release := timeline.Keyboard{Code: "KeyA", State: timeline.Released}

	h.Queue(press)
	h.Queue(release)

	assert.Equal(t, []timeline.InputEvent{press, release}, h.Drain())
	assert.Empty(t, h.Drain())
}

func TestSynthetic_InjectTagsFrame(t *testing.T) {
	h := NewSynthetic(10)
	ev := timeline.PointerButton{Button: "left", State: timeline.Pressed}

	h.Inject(ev)
	h.Step()
	h.RequestExit()

	assert.Equal(t, []Injection{{Frame: 10, Event: ev}}, h.Injected())
	assert.Equal(t, []timeline.InputEvent{ev}, h.InjectedAt(10))
	assert.Empty(t, h.InjectedAt(11))
	assert.Equal(t, []timeline.FrameIndex{11}, h.ExitRequests())
}

func TestSynthetic_ExitSignal(t *testing.T) {
	h := NewSynthetic(0)
	assert.False(t, h.ExitRequested())
	h.RaiseExit()
	assert.True(t, h.ExitRequested())
}

func TestSynthetic_Implements(t *testing.T) {
	var (
		_ InputSource = (*Synthetic)(nil)
		_ InputSink   = (*Synthetic)(nil)
		_ ExitSignal  = (*Synthetic)(nil)
		_ Exiter      = (*Synthetic)(nil)
	)
}
