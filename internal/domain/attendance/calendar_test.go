package attendance_test

import (
	"testing"
	"time"

	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/stretchr/testify/require"
)

func TestCalendar_SameDay(t *testing.T) {
	cal := attendance.NewCalendar(time.UTC)
	now := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

	require.True(t, cal.SameDay("2024-01-15", now))
	require.True(t, cal.SameDay("2024-01-15T03:00:00Z", now))
	require.False(t, cal.SameDay("2024-01-14", now))
	require.False(t, cal.SameDay("invalid-date", now))
	require.False(t, cal.SameDay("", now))
}

func TestCalendar_UsesExplicitZone(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	cal := attendance.NewCalendar(zone)
	now := time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC)

	require.Equal(t, "2024-01-15", cal.Day(now))
	require.True(t, cal.SameDay("2024-01-15", now))
	require.True(t, cal.SameDay("2024-01-16T01:00:00Z", now))
	require.False(t, cal.SameDay("2024-01-16", now))
}

func TestCalendar_NilLocationIsLocal(t *testing.T) {
	var cal attendance.Calendar
	now := time.Now()
	require.Equal(t, now.In(time.Local).Format("2006-01-02"), cal.Day(now))
}
