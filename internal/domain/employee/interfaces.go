package employee

import (
	"context"

	"github.com/rpggio/punchclock/internal/domain/activity"
)

// Repository provides persistence for the user table.
type Repository interface {
	// Create inserts the employee or returns repository.ErrConflict.
	Create(ctx context.Context, emp *Employee) error
	// List returns employees in insertion order.
	List(ctx context.Context) ([]Employee, error)
	Count(ctx context.Context) (int, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*Employee, error)
	// GetByName matches names case-insensitively.
	GetByName(ctx context.Context, name string) (*Employee, error)
	GetByEmail(ctx context.Context, email string) (*Employee, error)
}

// ActivityLogger records registrations.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
