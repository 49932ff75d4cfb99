package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpggio/punchclock/internal/config"
	"github.com/rpggio/punchclock/internal/domain/employee"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DB.Path = filepath.Join(t.TempDir(), "data", "punchclock.db")
	cfg.Attendance.Timezone = "UTC"
	return cfg
}

func TestOpen_WiresServices(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	a, err := Open(ctx, testConfig(t), nil, WithClock(func() time.Time { return now }), WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Employees.Register(ctx, employee.RegisterRequest{Name: "Alice", Password: "secret"})
	require.NoError(t, err)

	ev, err := a.Clock.ClockIn(ctx, "EMP001")
	require.NoError(t, err)
	require.Equal(t, "2024-01-15", ev.Date)

	snap, err := a.Attendance.EmployeeStatus(ctx, "EMP001")
	require.NoError(t, err)
	require.Equal(t, "9:00 AM", snap.DisplayTime)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := Open(ctx, cfg, nil, WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	_, err = a.Employees.Register(ctx, employee.RegisterRequest{Name: "Alice", Password: "secret"})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	a, err = Open(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	count, err := a.Employees.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestOpen_BadTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Attendance.Timezone = "Mars/Olympus"
	_, err := Open(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestHandler_Auth(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, a.Keys.Add(ctx, "kiosk-key", "kiosk"))

	server := httptest.NewServer(a.Handler())
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/api/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/users")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/users", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer kiosk-key")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
