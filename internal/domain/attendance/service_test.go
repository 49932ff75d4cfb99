package attendance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"github.com/rpggio/punchclock/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(emps *mocks.EmployeeRepository, events *mocks.ClockRepository, now time.Time) *attendance.Service {
	return attendance.NewService(emps, events, attendance.NewCalendar(time.UTC), nil,
		attendance.WithClock(func() time.Time { return now }))
}

func TestService_LiveActivity(t *testing.T) {
	emps := &mocks.EmployeeRepository{}
	events := &mocks.ClockRepository{}
	emps.On("List", mock.Anything).Return([]employee.Employee{{Name: "Alice"}, {Name: "Bob"}}, nil)
	events.On("ListAll", mock.Anything).Return([]clock.RawEvent{
		{ID: "1", EmployeeID: "EMP001", Date: "2024-01-15", ClockIn: "2024-01-15T09:00:00.000Z"},
		{ID: "2", EmployeeID: "EMP002", Date: "2024-01-15", ClockIn: "not a time"},
	}, nil)

	svc := newService(emps, events, at(10, 45))
	snaps, err := svc.LiveActivity(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	require.Equal(t, attendance.StatusActive, snaps[0].Status)
	require.Equal(t, "1h 45m", snaps[0].Duration)
	require.Equal(t, "Not clocked in", snaps[1].DisplayTime)

	board, err := svc.Board(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, board.Malformed)
}

func TestService_EmployeeStatus(t *testing.T) {
	emps := &mocks.EmployeeRepository{}
	events := &mocks.ClockRepository{}
	emps.On("List", mock.Anything).Return([]employee.Employee{{Name: "Alice"}, {ID: "X42", Name: "Bob"}}, nil)
	events.On("ListAll", mock.Anything).Return([]clock.RawEvent{}, nil)

	svc := newService(emps, events, at(10, 0))
	snap, err := svc.EmployeeStatus(context.Background(), "X42")
	require.NoError(t, err)
	require.Equal(t, "Bob", snap.Name)

	snap, err = svc.EmployeeStatus(context.Background(), "EMP001")
	require.NoError(t, err)
	require.Equal(t, "Alice", snap.Name)

	_, err = svc.EmployeeStatus(context.Background(), "EMP999")
	require.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}

func TestService_LoadFailure(t *testing.T) {
	boom := errors.New("no such table: users")
	emps := &mocks.EmployeeRepository{}
	events := &mocks.ClockRepository{}
	emps.On("List", mock.Anything).Return(nil, boom)
	events.On("ListAll", mock.Anything).Return([]clock.RawEvent{}, nil).Maybe()

	svc := newService(emps, events, at(10, 0))
	_, err := svc.LiveActivity(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestService_NoEmployees(t *testing.T) {
	emps := &mocks.EmployeeRepository{}
	events := &mocks.ClockRepository{}
	emps.On("List", mock.Anything).Return([]employee.Employee{}, nil)
	events.On("ListAll", mock.Anything).Return([]clock.RawEvent{}, nil)

	snaps, err := newService(emps, events, at(10, 0)).LiveActivity(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snaps)
	require.Empty(t, snaps)
}
