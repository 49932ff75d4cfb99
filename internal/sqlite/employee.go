package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rpggio/punchclock/internal/domain/employee"
)

var employeeColumns = []string{
	"employee_id", "name", "email", "phone", "position", "role", "password", "created_at",
}

// EmployeeRepository implements employee.Repository for SQLite
type EmployeeRepository struct {
	db *DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts a new user row
func (r *EmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query, args, err := sq.Insert("users").
		Columns(employeeColumns...).
		Values(
			nullString(emp.ID),
			emp.Name,
			nullString(emp.Email),
			emp.Phone,
			emp.Position,
			emp.Role,
			emp.PasswordHash,
			formatTime(createdAt),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create employee: %w", translateError(err))
	}
	emp.CreatedAt = createdAt.UTC()
	return nil
}

// List returns all users in insertion order
func (r *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	return r.query(ctx, sq.Select(employeeColumns...).From("users").OrderBy("id ASC"))
}

// Count returns the number of users
func (r *EmployeeRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

// GetByEmployeeID loads a user by stable employee identifier
func (r *EmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*employee.Employee, error) {
	return r.get(ctx, sq.Eq{"employee_id": employeeID})
}

// GetByName loads a user by name, ignoring case
func (r *EmployeeRepository) GetByName(ctx context.Context, name string) (*employee.Employee, error) {
	return r.get(ctx, sq.Eq{"name": strings.TrimSpace(name)})
}

// GetByEmail loads a user by email, ignoring case
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return r.get(ctx, sq.Eq{"email": strings.TrimSpace(email)})
}

func (r *EmployeeRepository) get(ctx context.Context, where sq.Eq) (*employee.Employee, error) {
	emps, err := r.query(ctx, sq.Select(employeeColumns...).From("users").Where(where).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(emps) == 0 {
		return nil, translateError(sql.ErrNoRows)
	}
	return &emps[0], nil
}

func (r *EmployeeRepository) query(ctx context.Context, builder sq.SelectBuilder) ([]employee.Employee, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	emps := []employee.Employee{}
	for rows.Next() {
		var (
			emp        employee.Employee
			employeeID sql.NullString
			email      sql.NullString
			createdAt  string
		)
		if err := rows.Scan(
			&employeeID,
			&emp.Name,
			&email,
			&emp.Phone,
			&emp.Position,
			&emp.Role,
			&emp.PasswordHash,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		emp.ID = employeeID.String
		emp.Email = email.String
		if emp.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		emps = append(emps, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee rows: %w", err)
	}
	return emps, nil
}
