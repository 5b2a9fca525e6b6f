package codec

import "github.com/pkg/errors"

// ErrMalformedTimeline matches every decode failure via errors.Is.
var ErrMalformedTimeline = errors.New("malformed timeline")

// MalformedError describes why a byte stream is not a timeline.
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return "malformed timeline: " + e.Reason + ": " + e.Err.Error()
	}
	return "malformed timeline: " + e.Reason
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMalformedTimeline) hold for every MalformedError.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedTimeline
}

func malformed(reason string, err error) error {
	return &MalformedError{Reason: reason, Err: err}
}
