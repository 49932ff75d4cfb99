package attendance

import (
	"context"

	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
)

// EmployeeLister provides the user table in insertion order.
type EmployeeLister interface {
	List(ctx context.Context) ([]employee.Employee, error)
}

// EventLister provides the full clock event log in insertion order.
type EventLister interface {
	ListAll(ctx context.Context) ([]clock.RawEvent, error)
}
