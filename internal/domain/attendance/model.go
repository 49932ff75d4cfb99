package attendance

// Status is the derived presence of an employee.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

const (
	// NotClockedIn is displayed when the employee has no session today.
	NotClockedIn = "Not clocked in"
	// ClockedOutPrefix precedes the clock-out time of a finished session.
	ClockedOutPrefix = "Clocked out at "
)

// Snapshot is the derived state of one employee at a given instant.
type Snapshot struct {
	EmployeeID    string `json:"employeeId"`
	Name          string `json:"name"`
	Status        Status `json:"status"`
	DisplayTime   string `json:"displayTime"`
	Duration      string `json:"duration"`
	SessionsToday int    `json:"sessionsToday"`
}
