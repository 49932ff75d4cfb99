package mcp

import (
	"time"

	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"github.com/rpggio/punchclock/internal/timefmt"
)

type EmployeeParams struct {
	EmployeeID string `json:"employee_id" jsonschema:"employee identifier, e.g. EMP001"`
}

type ClockHistoryParams struct {
	EmployeeID string `json:"employee_id" jsonschema:"employee identifier"`
	From       string `json:"from,omitempty" jsonschema:"first calendar day (YYYY-MM-DD), inclusive"`
	To         string `json:"to,omitempty" jsonschema:"last calendar day (YYYY-MM-DD), inclusive"`
	OpenOnly   bool   `json:"open_only,omitempty" jsonschema:"only sessions without a clock-out"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of events"`
}

type RecentActivityParams struct {
	EmployeeID string `json:"employee_id,omitempty" jsonschema:"filter by employee"`
	Type       string `json:"type,omitempty" jsonschema:"filter by type: clock_in, clock_out, clock_in_rejected, clock_out_rejected, employee_registered"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of entries (default 50)"`
	Offset     int    `json:"offset,omitempty" jsonschema:"entries to skip"`
}

type EmptyParams struct{}

type EventResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	Date            string `json:"date"`
	ClockIn         string `json:"clock_in,omitempty"`
	ClockOut        string `json:"clock_out,omitempty"`
	ClockInDisplay  string `json:"clock_in_display"`
	ClockOutDisplay string `json:"clock_out_display"`
	Duration        string `json:"duration"`
	Open            bool   `json:"open"`
}

type ClockEventResult struct {
	Event EventResponse `json:"event"`
}

type SnapshotResponse struct {
	EmployeeID    string `json:"employee_id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	DisplayTime   string `json:"display_time"`
	Duration      string `json:"duration"`
	SessionsToday int    `json:"sessions_today"`
}

type EmployeeStatusResult struct {
	Snapshot SnapshotResponse `json:"snapshot"`
	// OpenSession is set whenever a session is open, including one started
	// on an earlier day that the snapshot no longer counts.
	OpenSession *EventResponse `json:"open_session,omitempty" jsonschema:"the open session, if any, from any day"`
}

type LiveActivityResult struct {
	Timestamp string             `json:"timestamp"`
	Active    int                `json:"active"`
	Employees []SnapshotResponse `json:"employees"`
}

type EmployeeResponse struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Position   string `json:"position,omitempty"`
	Role       string `json:"role,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type ListEmployeesResult struct {
	Total     int                `json:"total"`
	Employees []EmployeeResponse `json:"employees"`
}

type ClockHistoryResult struct {
	Events []EventResponse `json:"events"`
}

type ActivityResponse struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	EventID    string `json:"event_id,omitempty"`
	Type       string `json:"type"`
	Summary    string `json:"summary"`
	Details    string `json:"details,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type RecentActivityResult struct {
	Entries []ActivityResponse `json:"entries"`
}

func toEventResponse(ev clock.Event, cal attendance.Calendar, policy timefmt.MissingPolicy) EventResponse {
	resp := EventResponse{
		ID:              ev.ID,
		EmployeeID:      ev.EmployeeID,
		Date:            ev.Date,
		ClockInDisplay:  timefmt.NoClockTime,
		ClockOutDisplay: timefmt.NoClockTime,
		Open:            ev.Open(),
	}
	var end time.Time
	if !ev.ClockIn.IsZero() {
		resp.ClockIn = clock.FormatInstant(ev.ClockIn)
		resp.ClockInDisplay = timefmt.FormatClockTime(cal.In(ev.ClockIn))
	}
	if ev.ClockOut != nil {
		end = *ev.ClockOut
		resp.ClockOut = clock.FormatInstant(end)
		resp.ClockOutDisplay = timefmt.FormatClockTime(cal.In(end))
	}
	resp.Duration = timefmt.FormatDuration(ev.ClockIn, end, policy)
	return resp
}

func toSnapshotResponse(snap attendance.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		EmployeeID:    snap.EmployeeID,
		Name:          snap.Name,
		Status:        string(snap.Status),
		DisplayTime:   snap.DisplayTime,
		Duration:      snap.Duration,
		SessionsToday: snap.SessionsToday,
	}
}

func toEmployeeResponse(emp employee.Employee, i int) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID: attendance.EffectiveID(emp, i),
		Name:       emp.Name,
		Email:      emp.Email,
		Position:   emp.Position,
		Role:       emp.Role,
		CreatedAt:  emp.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toActivityResponse(entry activity.ActivityEntry) ActivityResponse {
	resp := ActivityResponse{
		ID:         entry.ID,
		EmployeeID: entry.EmployeeID,
		Type:       string(entry.ActivityType),
		Summary:    entry.Summary,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt.UTC().Format(time.RFC3339),
	}
	if entry.EventID != nil {
		resp.EventID = *entry.EventID
	}
	return resp
}
