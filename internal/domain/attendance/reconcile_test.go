package attendance_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return today.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func ptr(t time.Time) *time.Time { return &t }

func open(id, emp string, in time.Time) clock.Event {
	return clock.Event{ID: id, EmployeeID: emp, Date: in.Format(clock.DateLayout), ClockIn: in}
}

func done(id, emp string, in, out time.Time) clock.Event {
	ev := open(id, emp, in)
	ev.ClockOut = ptr(out)
	return ev
}

func newReconciler() *attendance.Reconciler {
	return attendance.NewReconciler(attendance.NewCalendar(time.UTC))
}

func TestReconcile_ActiveSession(t *testing.T) {
	events := []clock.Event{open("1", "EMP001", at(9, 0))}
	snap := newReconciler().Reconcile("EMP001", events, at(11, 30))

	require.Equal(t, attendance.StatusActive, snap.Status)
	require.Equal(t, "9:00 AM", snap.DisplayTime)
	require.Equal(t, "2h 30m", snap.Duration)
	require.Equal(t, 1, snap.SessionsToday)
}

func TestReconcile_CompletedSession(t *testing.T) {
	events := []clock.Event{done("1", "EMP001", at(9, 0), at(17, 0))}
	snap := newReconciler().Reconcile("EMP001", events, at(18, 0))

	require.Equal(t, attendance.StatusInactive, snap.Status)
	require.Equal(t, "Clocked out at 5:00 PM", snap.DisplayTime)
	require.Equal(t, "8h 0m", snap.Duration)
}

func TestReconcile_NoSession(t *testing.T) {
	snap := newReconciler().Reconcile("EMP001", nil, at(10, 0))
	require.Equal(t, attendance.Snapshot{
		EmployeeID:  "EMP001",
		Status:      attendance.StatusInactive,
		DisplayTime: "Not clocked in",
		Duration:    "0h 0m",
	}, snap)
}

func TestReconcile_IgnoresOtherDaysAndEmployees(t *testing.T) {
	yesterday := today.Add(-24 * time.Hour)
	events := []clock.Event{
		open("1", "EMP001", yesterday.Add(9*time.Hour)),
		done("2", "EMP002", at(8, 0), at(12, 0)),
		open("3", "EMP002", at(13, 0)),
	}
	snap := newReconciler().Reconcile("EMP001", events, at(10, 0))
	require.Equal(t, attendance.StatusInactive, snap.Status)
	require.Equal(t, "Not clocked in", snap.DisplayTime)
	require.Zero(t, snap.SessionsToday)
}

func TestReconcile_MultipleSessionsPicksLatestClockOut(t *testing.T) {
	events := []clock.Event{
		done("late", "EMP001", at(13, 0), at(17, 30)),
		done("early", "EMP001", at(9, 0), at(12, 0)),
	}
	snap := newReconciler().Reconcile("EMP001", events, at(18, 0))
	require.Equal(t, "Clocked out at 5:30 PM", snap.DisplayTime)
	require.Equal(t, "4h 30m", snap.Duration)
	require.Equal(t, 2, snap.SessionsToday)
}

func TestReconcile_ClockOutTieBreaksOnClockInThenPosition(t *testing.T) {
	events := []clock.Event{
		done("a", "EMP001", at(9, 0), at(17, 0)),
		done("b", "EMP001", at(10, 0), at(17, 0)),
		done("c", "EMP001", at(8, 0), at(17, 0)),
	}
	snap := newReconciler().Reconcile("EMP001", events, at(18, 0))
	require.Equal(t, "7h 0m", snap.Duration)

	events = []clock.Event{
		done("a", "EMP001", at(9, 0), at(17, 0)),
		done("b", "EMP001", at(9, 0), at(17, 0)),
	}
	snap = newReconciler().Reconcile("EMP001", events, at(18, 0))
	require.Equal(t, "8h 0m", snap.Duration)
}

func TestReconcile_ActiveWinsOverCompleted(t *testing.T) {
	events := []clock.Event{
		done("1", "EMP001", at(8, 0), at(12, 0)),
		open("2", "EMP001", at(13, 0)),
	}
	snap := newReconciler().Reconcile("EMP001", events, at(14, 15))
	require.Equal(t, attendance.StatusActive, snap.Status)
	require.Equal(t, "1:00 PM", snap.DisplayTime)
	require.Equal(t, "1h 15m", snap.Duration)
}

func TestReconcile_MultipleOpenFirstInListOrderWins(t *testing.T) {
	events := []clock.Event{
		open("second", "EMP001", at(10, 0)),
		open("first", "EMP001", at(9, 0)),
	}
	snap := newReconciler().Reconcile("EMP001", events, at(11, 0))
	require.Equal(t, "10:00 AM", snap.DisplayTime)
	require.Equal(t, "1h 0m", snap.Duration)
}

func TestReconcile_MalformedEventsAreIgnored(t *testing.T) {
	events := []clock.Event{
		{ID: "bad", EmployeeID: "EMP001", Date: "2024-01-15"},
		{ID: "bad-date", EmployeeID: "EMP001", Date: "invalid-date", ClockIn: at(9, 0)},
	}
	snap := newReconciler().Reconcile("EMP001", events, at(10, 0))
	require.Equal(t, attendance.StatusInactive, snap.Status)
	require.Equal(t, "Not clocked in", snap.DisplayTime)
	require.Equal(t, "0h 0m", snap.Duration)
	require.Zero(t, snap.SessionsToday)
}

func TestReconcile_SessionsTodaySkipsEventsWithoutClockIn(t *testing.T) {
	events := []clock.Event{
		done("1", "EMP001", at(8, 0), at(9, 0)),
		{ID: "partial", EmployeeID: "EMP001", Date: "2024-01-15", ClockOut: ptr(at(12, 0))},
		open("2", "EMP001", at(13, 0)),
	}
	snap := newReconciler().Reconcile("EMP001", events, at(14, 0))
	require.Equal(t, attendance.StatusActive, snap.Status)
	require.Equal(t, 2, snap.SessionsToday)
}

func TestReconcile_OvernightSessionNotVisibleNextDay(t *testing.T) {
	in := today.Add(-time.Hour) // 23:00 the day before
	events := []clock.Event{open("1", "EMP001", in)}
	snap := newReconciler().Reconcile("EMP001", events, at(7, 0))
	require.Equal(t, attendance.StatusInactive, snap.Status)
	require.Equal(t, "Not clocked in", snap.DisplayTime)
}

func TestReconcile_DisplaysInCalendarZone(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	r := attendance.NewReconciler(attendance.NewCalendar(zone))
	in := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	events := []clock.Event{{ID: "1", EmployeeID: "EMP001", Date: "2024-01-15", ClockIn: in}}

	snap := r.Reconcile("EMP001", events, in.Add(time.Hour))
	require.Equal(t, "9:00 AM", snap.DisplayTime)
}

func TestReconcile_IdempotentAndOrderInsensitiveForSingleOpen(t *testing.T) {
	events := []clock.Event{
		done("1", "EMP001", at(7, 0), at(9, 0)),
		open("2", "EMP001", at(10, 0)),
		done("3", "EMP002", at(8, 0), at(16, 0)),
		done("4", "EMP001", at(9, 30), at(9, 45)),
	}
	r := newReconciler()
	now := at(12, 0)
	want := r.Reconcile("EMP001", events, now)
	require.Equal(t, want, r.Reconcile("EMP001", events, now))

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		shuffled := append([]clock.Event(nil), events...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		require.Equal(t, want, r.Reconcile("EMP001", shuffled, now))
	}
}

func TestAggregate_OrderAndSyntheticIDs(t *testing.T) {
	employees := []employee.Employee{
		{Name: "Alice"},
		{ID: "X42", Name: "Bob"},
		{Name: "Carol"},
	}
	events := []clock.Event{
		open("1", "EMP001", at(9, 0)),
		done("2", "X42", at(8, 0), at(12, 0)),
		open("3", "EMP002", at(9, 0)),
	}
	snaps := newReconciler().Aggregate(employees, events, at(10, 0))

	require.Len(t, snaps, 3)
	require.Equal(t, []string{"EMP001", "X42", "EMP003"}, []string{snaps[0].EmployeeID, snaps[1].EmployeeID, snaps[2].EmployeeID})
	require.Equal(t, []string{"Alice", "Bob", "Carol"}, []string{snaps[0].Name, snaps[1].Name, snaps[2].Name})
	require.Equal(t, attendance.StatusActive, snaps[0].Status)
	require.Equal(t, "Clocked out at 12:00 PM", snaps[1].DisplayTime)
	require.Equal(t, "Not clocked in", snaps[2].DisplayTime)
}

func TestAggregate_Empty(t *testing.T) {
	snaps := newReconciler().Aggregate(nil, []clock.Event{open("1", "EMP001", at(9, 0))}, at(10, 0))
	require.NotNil(t, snaps)
	require.Empty(t, snaps)
}

func TestAggregate_MatchesReconcilePerEmployee(t *testing.T) {
	employees := []employee.Employee{{Name: "A"}, {Name: "B"}, {ID: "EMP001", Name: "C"}}
	events := []clock.Event{
		open("1", "EMP001", at(9, 0)),
		done("2", "EMP002", at(8, 0), at(9, 0)),
	}
	r := newReconciler()
	now := at(10, 0)
	snaps := r.Aggregate(employees, events, now)
	for i, emp := range employees {
		want := r.Reconcile(attendance.EffectiveID(emp, i), events, now)
		want.Name = emp.Name
		require.Equal(t, want, snaps[i])
	}
}

func TestSyntheticID(t *testing.T) {
	require.Equal(t, "EMP001", attendance.SyntheticID(1))
	require.Equal(t, "EMP045", attendance.SyntheticID(45))
	require.Equal(t, "EMP1000", attendance.SyntheticID(1000))
}
