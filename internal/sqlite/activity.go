package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rpggio/punchclock/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var eventID sql.NullString
	if entry.EventID != nil {
		eventID = nullString(*entry.EventID)
	}

	query, args, err := sq.Insert("activity_log").
		Columns("employee_id", "event_id", "activity_type", "summary", "details", "created_at").
		Values(entry.EmployeeID, eventID, entry.ActivityType, entry.Summary, entry.Details, formatTime(createdAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", translateError(err))
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt.UTC()

	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	builder := sq.Select("id", "employee_id", "event_id", "activity_type", "summary", "details", "created_at").
		From("activity_log")

	if opts.EmployeeID != "" {
		builder = builder.Where(sq.Eq{"employee_id": opts.EmployeeID})
	}
	if opts.EventID != nil {
		builder = builder.Where(sq.Eq{"event_id": *opts.EventID})
	}
	if opts.ActivityType != nil {
		builder = builder.Where(sq.Eq{"activity_type": string(*opts.ActivityType)})
	}

	builder = builder.OrderBy("id DESC")
	if opts.Limit > 0 {
		builder = builder.Limit(uint64(opts.Limit))
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			// SQLite only accepts OFFSET after LIMIT.
			builder = builder.Limit(math.MaxInt64)
		}
		builder = builder.Offset(uint64(opts.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.ActivityEntry{}
	for rows.Next() {
		var (
			entry     activity.ActivityEntry
			eventID   sql.NullString
			createdAt string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.EmployeeID,
			&eventID,
			&entry.ActivityType,
			&entry.Summary,
			&entry.Details,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if eventID.Valid {
			entry.EventID = &eventID.String
		}
		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
