package clock_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/memstore"
	"github.com/rpggio/punchclock/internal/repository"
	"github.com/rpggio/punchclock/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newGuard(t *testing.T, start time.Time) (*clock.Guard, *memstore.Store, *fakeClock) {
	t.Helper()
	store := memstore.New()
	fc := &fakeClock{now: start}
	acts := activity.NewService(store.Activity(), nil)
	guard := clock.NewGuard(store.Events(), acts, nil, clock.WithClock(fc.Now), clock.WithLocation(time.UTC))
	return guard, store, fc
}

func TestGuard_ClockInOutCycle(t *testing.T) {
	ctx := context.Background()
	guard, store, fc := newGuard(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))

	ev, err := guard.ClockIn(ctx, "EMP001")
	require.NoError(t, err)
	require.NotEmpty(t, ev.ID)
	require.Equal(t, "2024-01-15", ev.Date)
	require.True(t, ev.Open())

	fc.Advance(30 * time.Minute)
	_, err = guard.ClockIn(ctx, "EMP001")
	require.ErrorIs(t, err, clock.ErrAlreadyActive)
	var active *clock.AlreadyActiveError
	require.ErrorAs(t, err, &active)
	require.Equal(t, ev.ID, active.Event.ID)

	fc.Advance(8 * time.Hour)
	closed, err := guard.ClockOut(ctx, "EMP001")
	require.NoError(t, err)
	require.Equal(t, ev.ID, closed.ID)
	require.True(t, closed.ClockOut.Equal(time.Date(2024, 1, 15, 17, 30, 0, 0, time.UTC)))

	_, err = guard.ClockOut(ctx, "EMP001")
	require.ErrorIs(t, err, clock.ErrNoActiveSession)

	all, err := store.Events().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	entries, err := store.Activity().List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	types := make([]activity.ActivityType, 0, len(entries))
	for _, e := range entries {
		types = append(types, e.ActivityType)
	}
	require.Equal(t, []activity.ActivityType{
		activity.TypeClockOutRejected,
		activity.TypeClockOut,
		activity.TypeClockInRejected,
		activity.TypeClockIn,
	}, types)
}

func TestGuard_ClockInAfterClockOutOpensNewSession(t *testing.T) {
	ctx := context.Background()
	guard, _, fc := newGuard(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))

	first, err := guard.ClockIn(ctx, "EMP001")
	require.NoError(t, err)
	fc.Advance(4 * time.Hour)
	_, err = guard.ClockOut(ctx, "EMP001")
	require.NoError(t, err)
	fc.Advance(time.Hour)
	second, err := guard.ClockIn(ctx, "EMP001")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestGuard_OvernightOpenSessionBlocksClockIn(t *testing.T) {
	ctx := context.Background()
	guard, _, fc := newGuard(t, time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC))

	yesterday, err := guard.ClockIn(ctx, "EMP001")
	require.NoError(t, err)

	fc.Advance(8 * time.Hour)
	_, err = guard.ClockIn(ctx, "EMP001")
	require.ErrorIs(t, err, clock.ErrAlreadyActive)

	closed, err := guard.ClockOut(ctx, "EMP001")
	require.NoError(t, err)
	require.Equal(t, yesterday.ID, closed.ID)
	require.Equal(t, "2024-01-15", closed.Date)
}

func TestGuard_StampsDateInConfiguredZone(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	zone := time.FixedZone("UTC-5", -5*60*60)
	now := func() time.Time { return time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC) }
	guard := clock.NewGuard(store.Events(), nil, nil, clock.WithClock(now), clock.WithLocation(zone))

	ev, err := guard.ClockIn(ctx, "EMP001")
	require.NoError(t, err)
	require.Equal(t, "2024-01-15", ev.Date)
}

func TestGuard_ConcurrentClockInSingleWinner(t *testing.T) {
	ctx := context.Background()
	guard, store, _ := newGuard(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))

	const attempts = 50
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		rejected  atomic.Int32
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := guard.ClockIn(ctx, "EMP001")
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, clock.ErrAlreadyActive):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), successes.Load())
	require.Equal(t, int32(attempts-1), rejected.Load())

	open, err := store.Events().List(ctx, clock.Filter{EmployeeID: "EMP001", OpenOnly: true})
	require.NoError(t, err)
	require.Len(t, open, 1)
}

func TestGuard_DifferentEmployeesDoNotContend(t *testing.T) {
	ctx := context.Background()
	guard, _, _ := newGuard(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := guard.ClockIn(ctx, fmtID(i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func fmtID(i int) string {
	return "EMP" + string(rune('A'+i))
}

func TestGuard_BlankEmployee(t *testing.T) {
	ctx := context.Background()
	guard, _, _ := newGuard(t, time.Now())

	_, err := guard.ClockIn(ctx, "  ")
	require.ErrorIs(t, err, clock.ErrInvalidInput)
	_, err = guard.ClockOut(ctx, "")
	require.ErrorIs(t, err, clock.ErrInvalidInput)
	_, err = guard.Active(ctx, "")
	require.ErrorIs(t, err, clock.ErrInvalidInput)
}

func TestGuard_StoreConflictMapsToAlreadyActive(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ClockRepository{}
	existing := &clock.RawEvent{ID: "other", EmployeeID: "EMP001", Date: "2024-01-15", ClockIn: "2024-01-15T08:00:00.000Z"}

	repo.On("FindOpen", ctx, "EMP001").Return(nil, repository.ErrNotFound).Once()
	repo.On("Append", ctx, mock.AnythingOfType("clock.RawEvent")).Return(repository.ErrConflict)
	repo.On("FindOpen", ctx, "EMP001").Return(existing, nil).Once()

	guard := clock.NewGuard(repo, nil, nil)
	_, err := guard.ClockIn(ctx, "EMP001")
	var active *clock.AlreadyActiveError
	require.ErrorAs(t, err, &active)
	require.Equal(t, "other", active.Event.ID)
	repo.AssertExpectations(t)
}

func TestGuard_StoreFailuresAreWrapped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("database is locked")

	repo := &mocks.ClockRepository{}
	repo.On("FindOpen", ctx, "EMP001").Return(nil, boom)

	guard := clock.NewGuard(repo, nil, nil)
	_, err := guard.ClockIn(ctx, "EMP001")
	require.ErrorIs(t, err, boom)
	_, err = guard.ClockOut(ctx, "EMP001")
	require.ErrorIs(t, err, boom)
}

func TestGuard_ActivityFailureDoesNotFailClockIn(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	logger := &mocks.ActivityLogger{}
	logger.On("LogActivity", ctx, mock.Anything).Return(errors.New("activity table missing"))

	guard := clock.NewGuard(store.Events(), logger, nil)
	_, err := guard.ClockIn(ctx, "EMP001")
	require.NoError(t, err)
	logger.AssertNumberOfCalls(t, "LogActivity", 1)
}

func TestGuard_HistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	guard, store, fc := newGuard(t, time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC))

	for day := 0; day < 3; day++ {
		_, err := guard.ClockIn(ctx, "EMP001")
		require.NoError(t, err)
		fc.Advance(8 * time.Hour)
		_, err = guard.ClockOut(ctx, "EMP001")
		require.NoError(t, err)
		fc.Advance(16 * time.Hour)
	}
	require.NoError(t, store.Events().Append(ctx, clock.RawEvent{ID: "bad", EmployeeID: "EMP001", Date: "2024-01-15", ClockIn: "nope", ClockOut: strPtr("nope")}))

	events, err := guard.History(ctx, clock.Filter{EmployeeID: "EMP001"})
	require.NoError(t, err)
	require.Len(t, events, 4)
	require.Equal(t, "2024-01-16", events[0].Date)
	require.Equal(t, "2024-01-15", events[1].Date)
	require.Equal(t, "2024-01-14", events[2].Date)
	require.Equal(t, "bad", events[3].ID)

	events, err = guard.History(ctx, clock.Filter{EmployeeID: "EMP001", From: "2024-01-15", To: "2024-01-15", Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)

	_, err = guard.History(ctx, clock.Filter{From: "01/15/2024"})
	require.ErrorIs(t, err, clock.ErrInvalidInput)
}

type directory map[string]bool

func (d directory) Exists(_ context.Context, employeeID string) (bool, error) {
	return d[employeeID], nil
}

type failingDirectory struct{ err error }

func (d failingDirectory) Exists(context.Context, string) (bool, error) {
	return false, d.err
}

func TestGuard_DirectoryRejectsUnknownEmployee(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	guard := clock.NewGuard(store.Events(), nil, nil,
		clock.WithLocation(time.UTC),
		clock.WithDirectory(directory{"EMP001": true}))

	_, err := guard.ClockIn(ctx, "EMP999-nobody")
	require.ErrorIs(t, err, clock.ErrUnknownEmployee)
	all, err := store.Events().ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	_, err = guard.ClockIn(ctx, "EMP001")
	require.NoError(t, err)

	report, err := guard.Import(ctx, []clock.RawEvent{
		{ID: "legacy", EmployeeID: "EMP999-nobody", ClockIn: "2024-01-10T09:00:00Z"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Imported)
}

func TestGuard_DirectoryFailureIsWrapped(t *testing.T) {
	boom := errors.New("directory offline")
	guard := clock.NewGuard(memstore.New().Events(), nil, nil, clock.WithDirectory(failingDirectory{err: boom}))

	_, err := guard.ClockIn(context.Background(), "EMP001")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, clock.ErrUnknownEmployee)
}

func TestGuard_ActiveSpansDays(t *testing.T) {
	ctx := context.Background()
	guard, _, fc := newGuard(t, time.Date(2024, 1, 15, 22, 0, 0, 0, time.UTC))

	none, err := guard.Active(ctx, "EMP001")
	require.NoError(t, err)
	require.Nil(t, none)

	opened, err := guard.ClockIn(ctx, "EMP001")
	require.NoError(t, err)
	fc.Advance(4 * time.Hour)

	active, err := guard.Active(ctx, "EMP001")
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, opened.ID, active.ID)
	require.Equal(t, "2024-01-15", active.Date)

	_, err = guard.Active(ctx, " ")
	require.ErrorIs(t, err, clock.ErrInvalidInput)
}
