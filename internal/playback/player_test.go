package playback

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmitUplenchwar2687/Rewind/internal/capture"
	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/host"
	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

var (
	pressA   = timeline.Keyboard{Code: "KeyA", State: timeline.Pressed}
	releaseA = timeline.Keyboard{Code: "KeyA", State: timeline.Released}
)

func scenario() timeline.Timeline {
	return timeline.Timeline{
		Slots: []timeline.FrameSlot{
			{Frame: 1, Events: []timeline.InputEvent{pressA}},
			{Frame: 2, Events: []timeline.InputEvent{releaseA}},
		},
		Terminated: true,
	}
}

func newPlayer(t *testing.T, h *host.Synthetic, tl timeline.Timeline) *Player {
	t.Helper()
	data, err := codec.Encode(tl)
	require.NoError(t, err)

	p := New(h, h, h)
	require.NoError(t, p.Load(data))
	return p
}

func TestPlayer_ThreeTickScenario(t *testing.T) {
	h := host.NewSynthetic(0)
	p := newPlayer(t, h, scenario())
	require.NoError(t, p.Start())

	for i := 0; i < 6; i++ {
		p.Tick()
		h.Step()
	}

	assert.Empty(t, h.InjectedAt(0))
	assert.Equal(t, []timeline.InputEvent{pressA}, h.InjectedAt(1))
	assert.Equal(t, []timeline.InputEvent{releaseA}, h.InjectedAt(2))
	assert.Len(t, h.Injected(), 2)
	assert.Equal(t, []timeline.FrameIndex{2}, h.ExitRequests(), "exit exactly once, on the last slot's frame")
	assert.Equal(t, StateFinished, p.State())
}

func TestPlayer_OffsetIndependence(t *testing.T) {
	rec := host.NewSynthetic(500)
	r := capture.New(rec, rec, rec)
	require.NoError(t, r.Start())

	script := map[int][]timeline.InputEvent{
		2: {pressA},
		3: {timeline.PointerMotion{DX: 4, DY: -1}, timeline.PointerButton{Button: "left", State: timeline.Pressed}},
		7: {releaseA},
	}
	for i := 0; i < 10; i++ {
		rec.Queue(script[i]...)
		if i == 9 {
			rec.RaiseExit()
		}
		r.Tick()
		rec.Step()
	}
	tl, err := r.Stop()
	require.NoError(t, err)

	data, err := codec.Encode(tl)
	require.NoError(t, err)

	for _, start := range []timeline.FrameIndex{0, 17, 500, 9000} {
		play := host.NewSynthetic(start)
		p := New(play, play, play)
		require.NoError(t, p.Load(data))
		require.NoError(t, p.Start())

		for i := 0; i < 12; i++ {
			p.Tick()
			play.Step()
		}

		for i := 0; i < 12; i++ {
			assert.Equal(t, script[i], play.InjectedAt(start+timeline.FrameIndex(i)), "start %d tick %d", start, i)
		}
		assert.Equal(t, []timeline.FrameIndex{start + 7}, play.ExitRequests(), "exit follows the last slot, start %d", start)
	}
}

func TestPlayer_StartFixesOffsetNotLoad(t *testing.T) {
	h := host.NewSynthetic(0)
	p := newPlayer(t, h, scenario())

	h.Clock().Advance(100)
	require.NoError(t, p.Start())
	p.Tick()
	h.Step()
	p.Tick()

	assert.Equal(t, []timeline.InputEvent{pressA}, h.InjectedAt(101))
}

func TestPlayer_DroppedTicksDeliverLate(t *testing.T) {
	tl := timeline.Timeline{Slots: []timeline.FrameSlot{
		{Frame: 1, Events: []timeline.InputEvent{pressA}},
		{Frame: 3, Events: []timeline.InputEvent{releaseA}},
		{Frame: 10, Events: []timeline.InputEvent{timeline.PointerWheel{DY: 1}}},
	}}
	h := host.NewSynthetic(0)
	p := newPlayer(t, h, tl)
	require.NoError(t, p.Start())

	p.Tick()
	h.Clock().Advance(5)
	n := p.Tick()

	assert.Equal(t, 2, n)
	assert.Equal(t, []timeline.InputEvent{pressA, releaseA}, h.InjectedAt(5), "skipped slots arrive in order on the next tick")
	assert.Equal(t, 1, p.Remaining())

	h.Clock().Advance(5)
	p.Tick()
	assert.Equal(t, 0, p.Remaining())
	assert.Len(t, h.Injected(), 3, "each slot is emitted exactly once")
}

func TestPlayer_NoTerminationIdles(t *testing.T) {
	tl := scenario()
	tl.Terminated = false

	h := host.NewSynthetic(0)
	p := newPlayer(t, h, tl)
	require.NoError(t, p.Start())

	for i := 0; i < 20; i++ {
		p.Tick()
		h.Step()
	}

	assert.Len(t, h.Injected(), 2)
	assert.Empty(t, h.ExitRequests())
	assert.Equal(t, StatePlaying, p.State())
	assert.True(t, p.Exhausted())
}

func TestPlayer_TerminatedEmptyTimelineExitsOnFirstTick(t *testing.T) {
	h := host.NewSynthetic(3)
	p := newPlayer(t, h, timeline.Timeline{Terminated: true})
	require.NoError(t, p.Start())

	p.Tick()
	h.Step()
	p.Tick()

	assert.Equal(t, []timeline.FrameIndex{3}, h.ExitRequests())
	assert.Equal(t, StateFinished, p.State())
}

func TestPlayer_NeverExitsEarly(t *testing.T) {
	h := host.NewSynthetic(0)
	p := newPlayer(t, h, scenario())
	require.NoError(t, p.Start())

	p.Tick()
	h.Step()
	p.Tick()
	assert.Empty(t, h.ExitRequests())
	assert.Equal(t, StatePlaying, p.State())
}

func TestPlayer_StartWithoutLoad(t *testing.T) {
	h := host.NewSynthetic(0)
	p := New(h, h, h)

	assert.True(t, errors.Is(p.Start(), ErrNotLoaded))
	assert.Equal(t, 0, p.Tick())
	assert.Equal(t, StateIdle, p.State())
}

func TestPlayer_LoadMalformedStaysIdle(t *testing.T) {
	h := host.NewSynthetic(0)
	p := New(h, h, h)

	err := p.Load([]byte(`{"format":"rewind.timeline","version":1,"slots":[{"frame":`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrMalformedTimeline))
	assert.Equal(t, StateIdle, p.State())

	data, err := codec.Encode(scenario())
	require.NoError(t, err)
	assert.NoError(t, p.Load(data), "a failed load can be retried")
}

func TestPlayer_LifecycleErrors(t *testing.T) {
	h := host.NewSynthetic(0)
	p := newPlayer(t, h, scenario())

	assert.True(t, errors.Is(p.LoadTimeline(scenario()), ErrAlreadyLoaded))
	require.NoError(t, p.Start())
	assert.True(t, errors.Is(p.Start(), ErrAlreadyStarted))
}

func TestPlayer_LoadTimelineCopies(t *testing.T) {
	tl := scenario()
	h := host.NewSynthetic(0)
	p := New(h, h, nil)
	require.NoError(t, p.LoadTimeline(tl))

	tl.Slots[0].Events[0] = releaseA
	assert.Equal(t, pressA, p.Timeline().Slots[0].Events[0])

	invalid := timeline.Timeline{Slots: []timeline.FrameSlot{{Frame: 1}}}
	assert.Error(t, New(h, h, nil).LoadTimeline(invalid))
}

func TestPlayer_NilExiterStillFinishes(t *testing.T) {
	h := host.NewSynthetic(0)
	p := New(h, h, nil)
	require.NoError(t, p.LoadTimeline(scenario()))
	require.NoError(t, p.Start())

	for i := 0; i < 3; i++ {
		p.Tick()
		h.Step()
	}
	assert.Equal(t, StateFinished, p.State())
	assert.Equal(t, 2, p.Emitted())
}

func TestPlayer_TickAfterFinishIsNoop(t *testing.T) {
	h := host.NewSynthetic(0)
	p := newPlayer(t, h, scenario())
	require.NoError(t, p.Start())
	h.Clock().Advance(2)
	p.Tick()
	require.Equal(t, StateFinished, p.State())

	h.Step()
	assert.Equal(t, 0, p.Tick())
	assert.Len(t, h.ExitRequests(), 1)
}
