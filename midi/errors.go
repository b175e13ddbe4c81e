package midi

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrStartTimes is returned when a transformation leaves note start times out
// of order. It indicates a bug in the transformation, not bad input.
var ErrStartTimes = errors.New("midi: note start times not in increasing order")

// FormatError reports malformed or truncated MIDI data at a byte offset.
type FormatError struct {
	Msg       string
	Offset    int
	truncated bool
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("midi: %s (offset %d)", e.Msg, e.Offset)
}

// Truncated reports whether the error came from running out of data.
func (e *FormatError) Truncated() bool {
	return e.truncated
}

func formatErrorf(offset int, format string, args ...interface{}) error {
	return &FormatError{Msg: fmt.Sprintf(format, args...), Offset: offset}
}

// IsTruncated reports whether err (or its cause) is a truncation FormatError.
func IsTruncated(err error) bool {
	fe, ok := errors.Cause(err).(*FormatError)
	return ok && fe.truncated
}
