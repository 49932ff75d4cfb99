// Package memstore keeps the user table, event log and activity log in
// memory. It enforces the same uniqueness rules as the SQLite store.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"github.com/rpggio/punchclock/internal/repository"
)

// Store is a goroutine-safe in-memory store.
type Store struct {
	mu        sync.Mutex
	employees []employee.Employee
	events    []clock.RawEvent
	entries   []activity.ActivityEntry
	nextEntry int64
}

// New returns an empty store.
func New() *Store {
	return &Store{nextEntry: 1}
}

// Employees returns the store's employee.Repository.
func (s *Store) Employees() *EmployeeRepository { return &EmployeeRepository{s: s} }

// Events returns the store's clock.Repository.
func (s *Store) Events() *EventRepository { return &EventRepository{s: s} }

// Activity returns the store's activity.Repository.
func (s *Store) Activity() *ActivityRepository { return &ActivityRepository{s: s} }

// EmployeeRepository implements employee.Repository.
type EmployeeRepository struct{ s *Store }

func (r *EmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	if emp == nil || emp.Name == "" {
		return repository.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.employees {
		if strings.EqualFold(existing.Name, emp.Name) ||
			(emp.Email != "" && strings.EqualFold(existing.Email, emp.Email)) ||
			(emp.ID != "" && existing.ID == emp.ID) {
			return repository.ErrConflict
		}
	}
	r.s.employees = append(r.s.employees, *emp)
	return nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]employee.Employee, len(r.s.employees))
	copy(out, r.s.employees)
	return out, nil
}

func (r *EmployeeRepository) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.employees), nil
}

func (r *EmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*employee.Employee, error) {
	return r.find(func(e employee.Employee) bool { return employeeID != "" && e.ID == employeeID })
}

func (r *EmployeeRepository) GetByName(ctx context.Context, name string) (*employee.Employee, error) {
	return r.find(func(e employee.Employee) bool { return strings.EqualFold(e.Name, name) })
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return r.find(func(e employee.Employee) bool { return email != "" && strings.EqualFold(e.Email, email) })
}

func (r *EmployeeRepository) find(match func(employee.Employee) bool) (*employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employees {
		if match(e) {
			found := e
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

// EventRepository implements clock.Repository.
type EventRepository struct{ s *Store }

func isOpen(ev clock.RawEvent) bool {
	return ev.ClockOut == nil
}

func cloneEvent(ev clock.RawEvent) clock.RawEvent {
	if ev.ClockOut != nil {
		out := *ev.ClockOut
		ev.ClockOut = &out
	}
	return ev
}

func (r *EventRepository) FindOpen(ctx context.Context, employeeID string) (*clock.RawEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ev := range r.s.events {
		if ev.EmployeeID == employeeID && isOpen(ev) {
			found := cloneEvent(ev)
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *EventRepository) Append(ctx context.Context, ev clock.RawEvent) error {
	if ev.ID == "" || ev.EmployeeID == "" {
		return repository.ErrInvalidInput
	}
	if ev.ClockOut != nil && *ev.ClockOut == "" {
		ev.ClockOut = nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.events {
		if existing.ID == ev.ID {
			return repository.ErrConflict
		}
		if isOpen(ev) && existing.EmployeeID == ev.EmployeeID && isOpen(existing) {
			return repository.ErrConflict
		}
	}
	r.s.events = append(r.s.events, cloneEvent(ev))
	return nil
}

func (r *EventRepository) Close(ctx context.Context, id, clockOut string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.events {
		if r.s.events[i].ID == id && isOpen(r.s.events[i]) {
			out := clockOut
			r.s.events[i].ClockOut = &out
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *EventRepository) ListAll(ctx context.Context) ([]clock.RawEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]clock.RawEvent, 0, len(r.s.events))
	for _, ev := range r.s.events {
		out = append(out, cloneEvent(ev))
	}
	return out, nil
}

func (r *EventRepository) List(ctx context.Context, filter clock.Filter) ([]clock.RawEvent, error) {
	r.s.mu.Lock()
	out := make([]clock.RawEvent, 0)
	for i := len(r.s.events) - 1; i >= 0; i-- {
		ev := r.s.events[i]
		if filter.EmployeeID != "" && ev.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.OpenOnly && !isOpen(ev) {
			continue
		}
		if filter.From != "" && dayPrefix(ev.Date) < filter.From {
			continue
		}
		if filter.To != "" && dayPrefix(ev.Date) > filter.To {
			continue
		}
		out = append(out, cloneEvent(ev))
	}
	r.s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].ClockIn > out[j].ClockIn })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func dayPrefix(date string) string {
	if len(date) > len(clock.DateLayout) {
		return date[:len(clock.DateLayout)]
	}
	return date
}

// ActivityRepository implements activity.Repository.
type ActivityRepository struct{ s *Store }

func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	if entry == nil {
		return repository.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = r.s.nextEntry
	r.s.nextEntry++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.s.entries = append(r.s.entries, *entry)
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]activity.ActivityEntry, 0)
	for i := len(r.s.entries) - 1; i >= 0; i-- {
		e := r.s.entries[i]
		if opts.EmployeeID != "" && e.EmployeeID != opts.EmployeeID {
			continue
		}
		if opts.EventID != nil && (e.EventID == nil || *e.EventID != *opts.EventID) {
			continue
		}
		if opts.ActivityType != nil && e.ActivityType != *opts.ActivityType {
			continue
		}
		out = append(out, e)
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []activity.ActivityEntry{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}
