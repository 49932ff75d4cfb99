package clock

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyActive indicates the employee already has an open session.
	ErrAlreadyActive = errors.New("employee already clocked in")
	// ErrNoActiveSession indicates there is no open session to close.
	ErrNoActiveSession = errors.New("no active session")
	// ErrMalformedRecord indicates a stored event whose instants cannot be parsed.
	ErrMalformedRecord = errors.New("malformed clock record")
	// ErrInvalidInput indicates invalid clock input.
	ErrInvalidInput = errors.New("invalid clock input")
	// ErrUnknownEmployee indicates a clock-in for an id the directory doesn't know.
	ErrUnknownEmployee = errors.New("unknown employee")
)

// AlreadyActiveError is returned by a rejected clock-in and carries the
// session that is still open.
type AlreadyActiveError struct {
	Event *Event
}

func (e *AlreadyActiveError) Error() string {
	if e.Event == nil || e.Event.ClockIn.IsZero() {
		return ErrAlreadyActive.Error()
	}
	return fmt.Sprintf("%s since %s (event %s)", ErrAlreadyActive, FormatInstant(e.Event.ClockIn), e.Event.ID)
}

func (e *AlreadyActiveError) Is(target error) bool {
	return target == ErrAlreadyActive
}
