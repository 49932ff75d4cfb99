package mocks

import (
	"context"

	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"github.com/stretchr/testify/mock"
)

// EmployeeRepository is a mock for employee.Repository.
type EmployeeRepository struct {
	mock.Mock
}

func (m *EmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	args := m.Called(ctx, emp)
	return args.Error(0)
}

func (m *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]employee.Employee); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmployeeRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *EmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*employee.Employee, error) {
	args := m.Called(ctx, employeeID)
	if emp, ok := args.Get(0).(*employee.Employee); ok {
		return emp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmployeeRepository) GetByName(ctx context.Context, name string) (*employee.Employee, error) {
	args := m.Called(ctx, name)
	if emp, ok := args.Get(0).(*employee.Employee); ok {
		return emp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	args := m.Called(ctx, email)
	if emp, ok := args.Get(0).(*employee.Employee); ok {
		return emp, args.Error(1)
	}
	return nil, args.Error(1)
}

// ClockRepository is a mock for clock.Repository.
type ClockRepository struct {
	mock.Mock
}

func (m *ClockRepository) FindOpen(ctx context.Context, employeeID string) (*clock.RawEvent, error) {
	args := m.Called(ctx, employeeID)
	if ev, ok := args.Get(0).(*clock.RawEvent); ok {
		return ev, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClockRepository) Append(ctx context.Context, ev clock.RawEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *ClockRepository) Close(ctx context.Context, id, clockOut string) error {
	args := m.Called(ctx, id, clockOut)
	return args.Error(0)
}

func (m *ClockRepository) ListAll(ctx context.Context) ([]clock.RawEvent, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]clock.RawEvent); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClockRepository) List(ctx context.Context, filter clock.Filter) ([]clock.RawEvent, error) {
	args := m.Called(ctx, filter)
	if list, ok := args.Get(0).([]clock.RawEvent); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityLogger is a mock for the clock and employee activity loggers.
type ActivityLogger struct {
	mock.Mock
}

func (m *ActivityLogger) LogActivity(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
