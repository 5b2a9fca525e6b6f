// Package generate produces synthetic timelines.
package generate

import (
	internalgenerate "github.com/SmitUplenchwar2687/Rewind/internal/generate"
	"github.com/SmitUplenchwar2687/Rewind/pkg/timeline"
)

// Options controls how a synthetic timeline is generated.
type Options = internalgenerate.Options

const (
	PatternTyping     = internalgenerate.PatternTyping
	PatternPointer    = internalgenerate.PatternPointer
	PatternController = internalgenerate.PatternController
	PatternMixed      = internalgenerate.PatternMixed
)

// Patterns lists the accepted pattern names.
var Patterns = internalgenerate.Patterns

// DefaultOptions returns ten seconds of mixed input at 60 ticks per second.
func DefaultOptions() Options {
	return internalgenerate.DefaultOptions()
}

// Timeline records a synthetic input session.
func Timeline(opts Options) (timeline.Timeline, error) {
	return internalgenerate.Timeline(opts)
}
