package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// NoClockTime is rendered when a clock time is absent.
const NoClockTime = "--:-- --"

// ZeroDuration is the rendering of an empty span.
const ZeroDuration = "0h 0m"

// MissingPolicy selects what FormatDuration renders when an endpoint is absent.
type MissingPolicy string

const (
	// MissingZero renders "0h 0m" (live activity view).
	MissingZero MissingPolicy = "zero"
	// MissingDash renders "--" (time history view).
	MissingDash MissingPolicy = "dash"
)

// Sentinel returns the string rendered for a missing endpoint.
func (p MissingPolicy) Sentinel() string {
	if p == MissingDash {
		return "--"
	}
	return ZeroDuration
}

// ParseMissingPolicy parses a policy name. Empty input selects MissingZero.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MissingZero:
		return MissingZero, nil
	case MissingDash:
		return MissingDash, nil
	default:
		return "", fmt.Errorf("unknown missing duration policy %q", s)
	}
}

// FormatClockTime renders t as "H:MM AM/PM" using the hour and minute of t in
// its own location. The zero time renders as NoClockTime.
func FormatClockTime(t time.Time) string {
	if t.IsZero() {
		return NoClockTime
	}
	hour := t.Hour()
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), ampm)
}

// FormatDuration renders end-start as "{h}h {m}m". Hours and minutes use
// truncating division, so a negative span renders negative components.
// A zero start or end renders the policy's sentinel.
func FormatDuration(start, end time.Time, policy MissingPolicy) string {
	if start.IsZero() || end.IsZero() {
		return policy.Sentinel()
	}
	ms := end.Sub(start).Milliseconds()
	hours := ms / int64(time.Hour/time.Millisecond)
	minutes := (ms % int64(time.Hour/time.Millisecond)) / int64(time.Minute/time.Millisecond)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
