package clock

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-day format stored on every event.
	DateLayout = "2006-01-02"
	// InstantLayout is the fixed-width UTC format used for stored instants.
	// It sorts lexically in time order.
	InstantLayout = "2006-01-02T15:04:05.000Z"
)

// Event is one clock-in/clock-out session of an employee.
// A zero ClockIn means the clock-in time is absent. A nil ClockOut means
// the session is still open.
type Event struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Date       string     `json:"date"`
	ClockIn    time.Time  `json:"clockIn,omitzero"`
	ClockOut   *time.Time `json:"clockOut"`
}

// Open reports whether the event has a clock-in and no clock-out.
func (e Event) Open() bool {
	return !e.ClockIn.IsZero() && e.ClockOut == nil
}

// Complete reports whether both endpoints are present.
func (e Event) Complete() bool {
	return !e.ClockIn.IsZero() && e.ClockOut != nil && !e.ClockOut.IsZero()
}

// Raw encodes the event into its stored shape.
func (e Event) Raw() RawEvent {
	raw := RawEvent{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Date:       e.Date,
	}
	if !e.ClockIn.IsZero() {
		raw.ClockIn = FormatInstant(e.ClockIn)
	}
	if e.ClockOut != nil {
		out := FormatInstant(*e.ClockOut)
		raw.ClockOut = &out
	}
	return raw
}

// RawEvent is the stored and wire shape of an event. Every field is a
// string; ClockOut is nil while the session is open.
type RawEvent struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	ClockIn    string  `json:"clockIn"`
	ClockOut   *string `json:"clockOut"`
}

// Decode parses the raw instants. On failure it returns the identity
// fields only, together with an error wrapping ErrMalformedRecord.
// An empty clockIn decodes to an absent clock-in; an empty clockOut
// decodes to an open session.
func (r RawEvent) Decode() (Event, error) {
	ev := Event{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
	}
	partial := ev

	if in := strings.TrimSpace(r.ClockIn); in != "" {
		t, err := ParseInstant(in)
		if err != nil {
			return partial, fmt.Errorf("%w: event %q clockIn: %v", ErrMalformedRecord, r.ID, err)
		}
		ev.ClockIn = t
	}
	if r.ClockOut != nil {
		if out := strings.TrimSpace(*r.ClockOut); out != "" {
			t, err := ParseInstant(out)
			if err != nil {
				return partial, fmt.Errorf("%w: event %q clockOut: %v", ErrMalformedRecord, r.ID, err)
			}
			ev.ClockOut = &t
		}
	}
	return ev, nil
}

// DecodeAll decodes every raw event, keeping list order. Malformed records
// are returned as partial events and their errors are joined.
func DecodeAll(raws []RawEvent) ([]Event, error) {
	events := make([]Event, 0, len(raws))
	var errs []error
	for _, raw := range raws {
		ev, err := raw.Decode()
		if err != nil {
			errs = append(errs, err)
		}
		events = append(events, ev)
	}
	return events, errors.Join(errs...)
}

// FormatInstant renders t in InstantLayout.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// ParseInstant accepts RFC 3339 instants with or without fractional seconds.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Filter narrows an event listing. From and To are inclusive calendar days
// in DateLayout.
type Filter struct {
	EmployeeID string
	From       string
	To         string
	OpenOnly   bool
	Limit      int
}
