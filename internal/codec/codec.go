// Package codec serializes timelines to a versioned, self-describing
// document and back. Every valid timeline survives Decode(Encode(t)).
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

const (
	// FormatMarker identifies a timeline document.
	FormatMarker = "rewind.timeline"
	// Version is the only document version this package reads and writes.
	Version = 1
)

// Format is the byte encoding of a timeline document.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// cborMagic is the self-describe tag 55799 that starts every CBOR document
// this package writes.
var cborMagic = []byte{0xd9, 0xd9, 0xf7}

var cborEnc = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("codec: cbor encoder options: %v", err))
	}
	return em
}

// ParseFormat converts "json" or "cbor" into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatCBOR:
		return FormatCBOR, nil
	default:
		return "", errors.Errorf("unknown timeline format %q, must be one of: json, cbor", s)
	}
}

// FormatFromPath picks a format from a file extension: ".cbor" is CBOR,
// anything else JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		return FormatCBOR
	}
	return FormatJSON
}

// Extension returns the file extension conventionally used for f.
func (f Format) Extension() string {
	if f == FormatCBOR {
		return ".cbor"
	}
	return ".json"
}

type document struct {
	Format     string `json:"format" cbor:"format"`
	Version    int    `json:"version" cbor:"version"`
	Terminated bool   `json:"terminated" cbor:"terminated"`
	Slots      []slot `json:"slots" cbor:"slots"`
}

type slot struct {
	Frame  timeline.FrameIndex `json:"frame" cbor:"frame"`
	Events []Event             `json:"events" cbor:"events"`
}

// Encode writes t as an indented JSON document.
func Encode(t timeline.Timeline) ([]byte, error) {
	return EncodeFormat(t, FormatJSON)
}

// EncodeFormat writes t in the given format. Timelines that fail
// Validate are refused.
func EncodeFormat(t timeline.Timeline, f Format) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "encoding invalid timeline")
	}

	doc := document{
		Format:     FormatMarker,
		Version:    Version,
		Terminated: t.Terminated,
		Slots:      make([]slot, len(t.Slots)),
	}
	for i, s := range t.Slots {
		events := make([]Event, len(s.Events))
		for j, ev := range s.Events {
			we, err := EventFromInput(ev)
			if err != nil {
				return nil, errors.Wrapf(err, "slot %d event %d", i, j)
			}
			events[j] = we
		}
		doc.Slots[i] = slot{Frame: s.Frame, Events: events}
	}

	switch f {
	case FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "marshal json timeline")
		}
		return append(data, '\n'), nil
	case FormatCBOR:
		data, err := cborEnc.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, "marshal cbor timeline")
		}
		return append(append([]byte(nil), cborMagic...), data...), nil
	default:
		return nil, errors.Errorf("unknown timeline format %q", f)
	}
}

// Decode parses a timeline document in either format. It never returns a
// partial timeline: any problem yields a *MalformedError.
func Decode(data []byte) (timeline.Timeline, error) {
	f, payload, err := sniff(data)
	if err != nil {
		return timeline.Timeline{}, err
	}

	var doc document
	switch f {
	case FormatCBOR:
		err = cbor.Unmarshal(payload, &doc)
	default:
		err = json.Unmarshal(payload, &doc)
	}
	if err != nil {
		return timeline.Timeline{}, malformed("parse "+string(f), err)
	}

	if doc.Format != FormatMarker {
		return timeline.Timeline{}, malformed(fmt.Sprintf("format marker is %q, want %q", doc.Format, FormatMarker), nil)
	}
	if doc.Version != Version {
		return timeline.Timeline{}, malformed(fmt.Sprintf("unsupported version %d", doc.Version), nil)
	}

	t := timeline.Timeline{Terminated: doc.Terminated}
	if len(doc.Slots) > 0 {
		t.Slots = make([]timeline.FrameSlot, len(doc.Slots))
	}
	for i, s := range doc.Slots {
		events := make([]timeline.InputEvent, len(s.Events))
		for j, we := range s.Events {
			ev, err := we.Input()
			if err != nil {
				return timeline.Timeline{}, malformed(fmt.Sprintf("slot %d (frame %d) event %d", i, s.Frame, j), err)
			}
			events[j] = ev
		}
		t.Slots[i] = timeline.FrameSlot{Frame: s.Frame, Events: events}
	}

	if err := t.Validate(); err != nil {
		return timeline.Timeline{}, malformed("invalid structure", err)
	}
	return t, nil
}

// DetectFormat reports which encoding data uses without decoding it.
func DetectFormat(data []byte) (Format, error) {
	f, _, err := sniff(data)
	return f, err
}

// sniff detects the encoding and strips the CBOR magic if present.
func sniff(data []byte) (Format, []byte, error) {
	if len(data) == 0 {
		return "", nil, malformed("empty input", nil)
	}
	if bytes.HasPrefix(data, cborMagic) {
		return FormatCBOR, data[len(cborMagic):], nil
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON, data, nil
	}
	return "", nil, malformed("unrecognized encoding", nil)
}
