package clock

import (
	"context"

	"github.com/rpggio/punchclock/internal/domain/activity"
)

// Repository provides persistence for clock events. Implementations must
// reject a second open event for one employee with repository.ErrConflict.
type Repository interface {
	// FindOpen returns the employee's open event or repository.ErrNotFound.
	FindOpen(ctx context.Context, employeeID string) (*RawEvent, error)
	Append(ctx context.Context, ev RawEvent) error
	// Close sets clockOut on an open event or returns repository.ErrNotFound.
	Close(ctx context.Context, id, clockOut string) error
	// ListAll returns every event in insertion order.
	ListAll(ctx context.Context) ([]RawEvent, error)
	// List returns matching events newest clock-in first.
	List(ctx context.Context, filter Filter) ([]RawEvent, error)
}

// Directory confirms that an employee id is registered.
type Directory interface {
	Exists(ctx context.Context, employeeID string) (bool, error)
}

// ActivityLogger records clock transitions.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
