// Package codec serializes timelines as JSON or CBOR documents.
package codec

import (
	internalcodec "github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/pkg/timeline"
)

// Format is the byte encoding of a timeline document.
type Format = internalcodec.Format

// Event is the wire shape of one input event.
type Event = internalcodec.Event

// MalformedError describes why a document could not be decoded.
type MalformedError = internalcodec.MalformedError

const (
	FormatJSON = internalcodec.FormatJSON
	FormatCBOR = internalcodec.FormatCBOR
)

// ErrMalformedTimeline matches every decode failure under errors.Is.
var ErrMalformedTimeline = internalcodec.ErrMalformedTimeline

// Encode writes t as JSON.
func Encode(t timeline.Timeline) ([]byte, error) {
	return internalcodec.Encode(t)
}

// EncodeFormat writes t in the given format.
func EncodeFormat(t timeline.Timeline, f Format) ([]byte, error) {
	return internalcodec.EncodeFormat(t, f)
}

// Decode parses a document in either format.
func Decode(data []byte) (timeline.Timeline, error) {
	return internalcodec.Decode(data)
}

// DetectFormat reports which encoding data uses.
func DetectFormat(data []byte) (Format, error) {
	return internalcodec.DetectFormat(data)
}

// ParseFormat converts "json" or "cbor" into a Format.
func ParseFormat(s string) (Format, error) {
	return internalcodec.ParseFormat(s)
}
