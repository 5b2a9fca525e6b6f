// Package host defines the capabilities the capture and playback engines
// need from the application they are embedded in.
package host

import "github.com/SmitUplenchwar2687/Rewind/internal/timeline"

// InputSource reports the raw input that occurred since the previous tick.
type InputSource interface {
	// Drain returns every event since the last call, in arrival order.
	Drain() []timeline.InputEvent
}

// InputSink injects events into the host so that downstream consumers
// cannot tell them apart from live input.
type InputSink interface {
	Inject(ev timeline.InputEvent)
}

// ExitSignal reports whether the host was asked to exit.
type ExitSignal interface {
	ExitRequested() bool
}

// Exiter asks the host to exit.
type Exiter interface {
	RequestExit()
}
