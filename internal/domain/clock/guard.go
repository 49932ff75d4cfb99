package clock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/repository"
)

// Guard enforces at most one open session per employee. Clock-in and
// clock-out for the same employee are serialized; different employees
// never contend.
type Guard struct {
	repo       Repository
	activities ActivityLogger
	directory  Directory
	logger     *slog.Logger
	now        func() time.Time
	location   *time.Location
	locks      *keyedMutex
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithClock overrides the time source.
func WithClock(now func() time.Time) GuardOption {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLocation sets the zone used to stamp the calendar day of new events.
func WithLocation(loc *time.Location) GuardOption {
	return func(g *Guard) {
		if loc != nil {
			g.location = loc
		}
	}
}

// WithDirectory makes ClockIn reject employee ids the directory doesn't know.
// Imports are not checked.
func WithDirectory(d Directory) GuardOption {
	return func(g *Guard) {
		g.directory = d
	}
}

// NewGuard creates a guard. activities and logger may be nil.
func NewGuard(repo Repository, activities ActivityLogger, logger *slog.Logger, opts ...GuardOption) *Guard {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &Guard{
		repo:       repo,
		activities: activities,
		logger:     logger,
		now:        time.Now,
		location:   time.Local,
		locks:      newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ClockIn opens a session for the employee. If one is already open the
// call returns an *AlreadyActiveError and nothing is written.
func (g *Guard) ClockIn(ctx context.Context, employeeID string) (*Event, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, ErrInvalidInput
	}
	if g.directory != nil {
		ok, err := g.directory.Exists(ctx, employeeID)
		if err != nil {
			return nil, fmt.Errorf("checking employee: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEmployee, employeeID)
		}
	}

	unlock := g.locks.Lock(employeeID)
	defer unlock()

	open, err := g.findOpen(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		g.record(ctx, employeeID, open.ID, activity.TypeClockInRejected, "clock-in rejected: session already active")
		return nil, &AlreadyActiveError{Event: open}
	}

	now := g.now().UTC().Truncate(time.Millisecond)
	ev := &Event{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Date:       now.In(g.location).Format(DateLayout),
		ClockIn:    now,
	}
	if err := g.repo.Append(ctx, ev.Raw()); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Another writer outside this process got there first.
			open, findErr := g.findOpen(ctx, employeeID)
			if findErr != nil {
				g.logger.Warn("reloading open session after conflict", "employee_id", employeeID, "error", findErr)
			}
			g.record(ctx, employeeID, "", activity.TypeClockInRejected, "clock-in rejected: session already active")
			return nil, &AlreadyActiveError{Event: open}
		}
		return nil, fmt.Errorf("appending clock event: %w", err)
	}

	g.logger.Info("clocked in", "employee_id", employeeID, "event_id", ev.ID)
	g.record(ctx, employeeID, ev.ID, activity.TypeClockIn, "clocked in")
	return ev, nil
}

// ClockOut closes the employee's open session and returns the updated
// event, or ErrNoActiveSession.
func (g *Guard) ClockOut(ctx context.Context, employeeID string) (*Event, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, ErrInvalidInput
	}

	unlock := g.locks.Lock(employeeID)
	defer unlock()

	open, err := g.findOpen(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		g.record(ctx, employeeID, "", activity.TypeClockOutRejected, "clock-out rejected: no active session")
		return nil, ErrNoActiveSession
	}

	now := g.now().UTC().Truncate(time.Millisecond)
	if err := g.repo.Close(ctx, open.ID, FormatInstant(now)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("closing clock event: %w", err)
	}
	open.ClockOut = &now

	g.logger.Info("clocked out", "employee_id", employeeID, "event_id", open.ID)
	g.record(ctx, employeeID, open.ID, activity.TypeClockOut, "clocked out")
	return open, nil
}

// Active returns the employee's open session from any day, or nil.
func (g *Guard) Active(ctx context.Context, employeeID string) (*Event, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, ErrInvalidInput
	}
	return g.findOpen(ctx, employeeID)
}

// History lists events newest clock-in first. Malformed records are
// returned as partial events.
func (g *Guard) History(ctx context.Context, filter Filter) ([]Event, error) {
	if filter.Limit < 0 {
		return nil, ErrInvalidInput
	}
	for _, day := range []string{filter.From, filter.To} {
		if day == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, day); err != nil {
			return nil, fmt.Errorf("%w: date %q", ErrInvalidInput, day)
		}
	}

	raws, err := g.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing clock events: %w", err)
	}
	events, err := DecodeAll(raws)
	if err != nil {
		g.logger.Warn("skipping malformed clock records", "error", err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].ClockIn.After(events[j].ClockIn)
	})
	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[:filter.Limit]
	}
	return events, nil
}

func (g *Guard) findOpen(ctx context.Context, employeeID string) (*Event, error) {
	raw, err := g.repo.FindOpen(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading open session: %w", err)
	}
	ev, err := raw.Decode()
	if err != nil {
		g.logger.Warn("open session is malformed", "employee_id", employeeID, "error", err)
	}
	return &ev, nil
}

func (g *Guard) record(ctx context.Context, employeeID, eventID string, typ activity.ActivityType, summary string) {
	if g.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		EmployeeID:   employeeID,
		ActivityType: typ,
		Summary:      summary,
	}
	if eventID != "" {
		entry.EventID = &eventID
	}
	if err := g.activities.LogActivity(ctx, entry); err != nil {
		g.logger.Warn("logging clock activity", "employee_id", employeeID, "type", typ, "error", err)
	}
}
