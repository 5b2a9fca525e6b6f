// Package host exposes the interfaces a host application implements to be
// recorded or replayed, plus in-memory hosts for tests and tooling.
package host

import (
	internalhost "github.com/SmitUplenchwar2687/Rewind/internal/host"
	"github.com/SmitUplenchwar2687/Rewind/pkg/timeline"
)

type (
	InputSource = internalhost.InputSource
	InputSink   = internalhost.InputSink
	ExitSignal  = internalhost.ExitSignal
	Exiter      = internalhost.Exiter
)

// Synthetic is an in-memory host driven by the caller.
type Synthetic = internalhost.Synthetic

// Injection is an event injected into a Synthetic host.
type Injection = internalhost.Injection

// Remote bridges a host on the other side of a connection.
type Remote = internalhost.Remote

// ErrFrameBackwards is returned when a remote host reports an earlier frame.
var ErrFrameBackwards = internalhost.ErrFrameBackwards

// NewSynthetic creates a Synthetic host whose clock starts at start.
func NewSynthetic(start timeline.FrameIndex) *Synthetic {
	return internalhost.NewSynthetic(start)
}

// NewRemote creates a Remote bridge at the given host frame.
func NewRemote(frame timeline.FrameIndex) *Remote {
	return internalhost.NewRemote(frame)
}
