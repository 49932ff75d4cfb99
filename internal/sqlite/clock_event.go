package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/repository"
)

var clockEventColumns = []string{"id", "employee_id", "date", "clock_in", "clock_out"}

// ClockEventRepository implements clock.Repository for SQLite
type ClockEventRepository struct {
	db *DB
}

// NewClockEventRepository creates a new ClockEventRepository
func NewClockEventRepository(db *DB) *ClockEventRepository {
	return &ClockEventRepository{db: db}
}

// FindOpen returns the employee's open event
func (r *ClockEventRepository) FindOpen(ctx context.Context, employeeID string) (*clock.RawEvent, error) {
	events, err := r.query(ctx, sq.Select(clockEventColumns...).
		From("clock_events").
		Where(sq.Eq{"employee_id": employeeID, "clock_out": nil}).
		OrderBy("seq ASC").
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, repository.ErrNotFound
	}
	return &events[0], nil
}

// Append inserts a new event. A second open event for one employee violates
// idx_clock_events_one_open and is reported as repository.ErrConflict.
func (r *ClockEventRepository) Append(ctx context.Context, ev clock.RawEvent) error {
	if ev.ID == "" || ev.EmployeeID == "" {
		return repository.ErrInvalidInput
	}
	var clockOut sql.NullString
	if ev.ClockOut != nil {
		clockOut = nullString(*ev.ClockOut)
	}

	query, args, err := sq.Insert("clock_events").
		Columns(clockEventColumns...).
		Values(ev.ID, ev.EmployeeID, ev.Date, ev.ClockIn, clockOut).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append clock event: %w", translateError(err))
	}
	return nil
}

// Close sets clock_out on an open event
func (r *ClockEventRepository) Close(ctx context.Context, id, clockOut string) error {
	query, args, err := sq.Update("clock_events").
		Set("clock_out", clockOut).
		Where(sq.Eq{"id": id, "clock_out": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to close clock event: %w", translateError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListAll returns every event in insertion order
func (r *ClockEventRepository) ListAll(ctx context.Context) ([]clock.RawEvent, error) {
	return r.query(ctx, sq.Select(clockEventColumns...).From("clock_events").OrderBy("seq ASC"))
}

// List returns matching events, newest clock-in first
func (r *ClockEventRepository) List(ctx context.Context, filter clock.Filter) ([]clock.RawEvent, error) {
	builder := sq.Select(clockEventColumns...).From("clock_events")
	if filter.EmployeeID != "" {
		builder = builder.Where(sq.Eq{"employee_id": filter.EmployeeID})
	}
	if filter.OpenOnly {
		builder = builder.Where(sq.Eq{"clock_out": nil})
	}
	if filter.From != "" {
		builder = builder.Where(sq.GtOrEq{"substr(date, 1, 10)": filter.From})
	}
	if filter.To != "" {
		builder = builder.Where(sq.LtOrEq{"substr(date, 1, 10)": filter.To})
	}
	builder = builder.OrderBy("clock_in DESC", "seq DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	return r.query(ctx, builder)
}

func (r *ClockEventRepository) query(ctx context.Context, builder sq.SelectBuilder) ([]clock.RawEvent, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clock events: %w", err)
	}
	defer rows.Close()

	events := []clock.RawEvent{}
	for rows.Next() {
		var (
			ev       clock.RawEvent
			clockOut sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.Date, &ev.ClockIn, &clockOut); err != nil {
			return nil, fmt.Errorf("failed to scan clock event: %w", err)
		}
		if clockOut.Valid {
			ev.ClockOut = &clockOut.String
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clock event rows: %w", err)
	}
	return events, nil
}
