package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

// Service loads the user table and event log and reconciles them.
type Service struct {
	employees  EmployeeLister
	events     EventLister
	reconciler *Reconciler
	logger     *slog.Logger
	now        func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an attendance service. logger may be nil.
func NewService(employees EmployeeLister, events EventLister, cal Calendar, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		employees:  employees,
		events:     events,
		reconciler: NewReconciler(cal),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calendar returns the calendar snapshots are computed in.
func (s *Service) Calendar() Calendar {
	return s.reconciler.Calendar
}

// Board is everything needed to render the admin view at one instant.
type Board struct {
	Now       time.Time
	Employees []employee.Employee
	Events    []clock.Event
	Snapshots []Snapshot
	Malformed int
}

// Board loads employees and events concurrently and reconciles them.
func (s *Service) Board(ctx context.Context) (*Board, error) {
	var (
		emps []employee.Employee
		raws []clock.RawEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		emps, err = s.employees.List(gctx)
		if err != nil {
			return fmt.Errorf("loading employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		raws, err = s.events.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("loading clock events: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	events, decodeErr := clock.DecodeAll(raws)
	malformed := 0
	if decodeErr != nil {
		if joined, ok := decodeErr.(interface{ Unwrap() []error }); ok {
			malformed = len(joined.Unwrap())
		}
		s.logger.Warn("ignoring malformed clock records", "count", malformed, "error", decodeErr)
	}

	now := s.now()
	return &Board{
		Now:       now,
		Employees: emps,
		Events:    events,
		Snapshots: s.reconciler.Aggregate(emps, events, now),
		Malformed: malformed,
	}, nil
}

// LiveActivity returns one snapshot per employee in user table order.
func (s *Service) LiveActivity(ctx context.Context) ([]Snapshot, error) {
	board, err := s.Board(ctx)
	if err != nil {
		return nil, err
	}
	return board.Snapshots, nil
}

// EmployeeStatus returns the snapshot of one employee, matched by stored or
// synthetic identifier.
func (s *Service) EmployeeStatus(ctx context.Context, employeeID string) (*Snapshot, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, ErrEmployeeNotFound
	}
	board, err := s.Board(ctx)
	if err != nil {
		return nil, err
	}
	for i := range board.Snapshots {
		if board.Snapshots[i].EmployeeID == employeeID {
			snap := board.Snapshots[i]
			return &snap, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
}
