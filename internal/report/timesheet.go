// Package report renders attendance data as XLSX workbooks.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"github.com/rpggio/punchclock/internal/timefmt"
	"github.com/xuri/excelize/v2"
)

const (
	TimesheetSheet    = "Timesheet"
	LiveActivitySheet = "Live Activity"
)

var (
	timesheetHeader = []any{"Employee ID", "Name", "Date", "Clock In", "Clock Out", "Duration"}
	liveHeader      = []any{"Employee ID", "Name", "Status", "Time", "Duration", "Sessions Today"}
)

// Timesheet is the input of WriteTimesheet.
type Timesheet struct {
	Employees []employee.Employee
	Events    []clock.Event
	Snapshots []attendance.Snapshot
	Calendar  attendance.Calendar
	// Policy renders the duration of sessions missing an endpoint.
	Policy timefmt.MissingPolicy
}

// FileName returns the download name of the workbook for day (YYYY-MM-DD).
func FileName(day string) string {
	return "timesheet-" + day + ".xlsx"
}

// FromBoard builds a timesheet from a loaded board.
func FromBoard(board *attendance.Board, cal attendance.Calendar, policy timefmt.MissingPolicy) Timesheet {
	return Timesheet{
		Employees: board.Employees,
		Events:    board.Events,
		Snapshots: board.Snapshots,
		Calendar:  cal,
		Policy:    policy,
	}
}

// WriteTimesheet writes the workbook to w.
func WriteTimesheet(w io.Writer, ts Timesheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), TimesheetSheet); err != nil {
		return fmt.Errorf("naming timesheet sheet: %w", err)
	}
	if err := writeRows(f, TimesheetSheet, timesheetHeader, timesheetRows(ts)); err != nil {
		return err
	}

	if _, err := f.NewSheet(LiveActivitySheet); err != nil {
		return fmt.Errorf("creating live activity sheet: %w", err)
	}
	if err := writeRows(f, LiveActivitySheet, liveHeader, liveRows(ts.Snapshots)); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	all := append([][]any{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// timesheetRows lists events oldest first. Events without a clock-in sort last.
func timesheetRows(ts Timesheet) [][]any {
	names := make(map[string]string, len(ts.Employees))
	for i, emp := range ts.Employees {
		names[attendance.EffectiveID(emp, i)] = emp.Name
	}

	events := append([]clock.Event(nil), ts.Events...)
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].ClockIn, events[j].ClockIn
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})

	rows := make([][]any, 0, len(events))
	for _, ev := range events {
		clockIn := timefmt.NoClockTime
		if !ev.ClockIn.IsZero() {
			clockIn = timefmt.FormatClockTime(ts.Calendar.In(ev.ClockIn))
		}
		clockOut := timefmt.NoClockTime
		var end time.Time
		if ev.ClockOut != nil {
			clockOut = timefmt.FormatClockTime(ts.Calendar.In(*ev.ClockOut))
			end = *ev.ClockOut
		}
		date, ok := ts.Calendar.ParseDay(ev.Date)
		if !ok {
			date = ev.Date
		}
		rows = append(rows, []any{
			ev.EmployeeID,
			names[ev.EmployeeID],
			date,
			clockIn,
			clockOut,
			timefmt.FormatDuration(ev.ClockIn, end, ts.Policy),
		})
	}
	return rows
}

func liveRows(snaps []attendance.Snapshot) [][]any {
	rows := make([][]any, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, []any{
			snap.EmployeeID,
			snap.Name,
			string(snap.Status),
			snap.DisplayTime,
			snap.Duration,
			snap.SessionsToday,
		})
	}
	return rows
}
