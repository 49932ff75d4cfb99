package attendance

import (
	"time"

	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"github.com/rpggio/punchclock/internal/timefmt"
)

// Reconciler derives snapshots from the raw event log. It holds no state
// beyond its calendar and is safe for concurrent use.
type Reconciler struct {
	Calendar Calendar
}

// NewReconciler returns a reconciler over cal.
func NewReconciler(cal Calendar) *Reconciler {
	return &Reconciler{Calendar: cal}
}

// Reconcile computes one employee's snapshot from events in any order.
// Only events dated today count. The first open event in list order is the
// active session; otherwise the latest completed session is reported.
func (r *Reconciler) Reconcile(employeeID string, events []clock.Event, now time.Time) Snapshot {
	snap := Snapshot{
		EmployeeID:  employeeID,
		Status:      StatusInactive,
		DisplayTime: NotClockedIn,
		Duration:    timefmt.ZeroDuration,
	}

	var (
		active *clock.Event
		last   *clock.Event
	)
	for i := range events {
		ev := &events[i]
		if ev.EmployeeID != employeeID || !r.Calendar.SameDay(ev.Date, now) {
			continue
		}
		if ev.ClockIn.IsZero() {
			continue
		}
		snap.SessionsToday++
		if ev.Open() {
			if active == nil {
				active = ev
			}
			continue
		}
		if ev.Complete() && (last == nil || !completedBefore(ev, last)) {
			last = ev
		}
	}

	switch {
	case active != nil:
		snap.Status = StatusActive
		snap.DisplayTime = timefmt.FormatClockTime(r.Calendar.In(active.ClockIn))
		snap.Duration = timefmt.FormatDuration(active.ClockIn, now, timefmt.MissingZero)
	case last != nil:
		snap.DisplayTime = ClockedOutPrefix + timefmt.FormatClockTime(r.Calendar.In(*last.ClockOut))
		snap.Duration = timefmt.FormatDuration(last.ClockIn, *last.ClockOut, timefmt.MissingZero)
	}
	return snap
}

// completedBefore orders completed sessions by clock-out then clock-in.
// Equal sessions are not before one another, so a later list position wins.
func completedBefore(a, b *clock.Event) bool {
	if !a.ClockOut.Equal(*b.ClockOut) {
		return a.ClockOut.Before(*b.ClockOut)
	}
	return a.ClockIn.Before(b.ClockIn)
}

// Aggregate reconciles every employee in input order. Employees without an
// identifier get EMP%03d from their 1-based position.
func (r *Reconciler) Aggregate(employees []employee.Employee, events []clock.Event, now time.Time) []Snapshot {
	snaps := make([]Snapshot, 0, len(employees))
	for i, emp := range employees {
		snap := r.Reconcile(EffectiveID(emp, i), events, now)
		snap.Name = emp.Name
		snaps = append(snaps, snap)
	}
	return snaps
}

// EffectiveID returns the employee's identifier, or the synthetic one for
// zero-based list position i.
func EffectiveID(emp employee.Employee, i int) string {
	return employee.EffectiveID(emp, i)
}

// SyntheticID renders a 1-based position as EMP001, EMP002, ...
func SyntheticID(position int) string {
	return employee.SyntheticID(position)
}
