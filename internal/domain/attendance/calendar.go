package attendance

import (
	"strings"
	"time"

	"github.com/rpggio/punchclock/internal/domain/clock"
)

// Calendar decides day membership in one explicit time zone.
type Calendar struct {
	Location *time.Location
}

// NewCalendar returns a calendar for loc. A nil loc means time.Local.
func NewCalendar(loc *time.Location) Calendar {
	return Calendar{Location: loc}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// In converts t into the calendar's zone.
func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.location())
}

// Day returns the calendar day of t as YYYY-MM-DD.
func (c Calendar) Day(t time.Time) string {
	return c.In(t).Format(clock.DateLayout)
}

// ParseDay resolves a stored date to a calendar day. A plain YYYY-MM-DD
// is taken as-is; an RFC 3339 instant is converted into the calendar's zone.
func (c Calendar) ParseDay(date string) (string, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", false
	}
	if day, err := time.Parse(clock.DateLayout, date); err == nil {
		return day.Format(clock.DateLayout), true
	}
	if instant, err := time.Parse(time.RFC3339Nano, date); err == nil {
		return c.Day(instant), true
	}
	return "", false
}

// SameDay reports whether date falls on the calendar day containing now.
// Unparseable dates never match.
func (c Calendar) SameDay(date string, now time.Time) bool {
	day, ok := c.ParseDay(date)
	return ok && day == c.Day(now)
}
