package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeClockIn            ActivityType = "clock_in"
	TypeClockOut           ActivityType = "clock_out"
	TypeClockInRejected    ActivityType = "clock_in_rejected"
	TypeClockOutRejected   ActivityType = "clock_out_rejected"
	TypeEmployeeRegistered ActivityType = "employee_registered"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeClockIn, TypeClockOut, TypeClockInRejected, TypeClockOutRejected, TypeEmployeeRegistered:
		return true
	}
	return false
}

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	EmployeeID   string       `json:"employeeId"`
	EventID      *string      `json:"eventId,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"createdAt"`
}
