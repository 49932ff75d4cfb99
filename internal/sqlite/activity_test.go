package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogAndList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	eventID := "e1"
	entries := []*activity.ActivityEntry{
		{EmployeeID: "EMP001", EventID: &eventID, ActivityType: activity.TypeClockIn, Summary: "clocked in"},
		{EmployeeID: "EMP001", ActivityType: activity.TypeClockInRejected, Summary: "rejected"},
		{EmployeeID: "EMP002", ActivityType: activity.TypeEmployeeRegistered, Summary: "registered", Details: `{"email":"b@example.com"}`},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Log(ctx, entry))
		require.NotZero(t, entry.ID)
		require.False(t, entry.CreatedAt.IsZero())
	}

	all, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, activity.TypeEmployeeRegistered, all[0].ActivityType)

	mine, err := repo.List(ctx, activity.ListActivityOptions{EmployeeID: "EMP001"})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	byEvent, err := repo.List(ctx, activity.ListActivityOptions{EventID: &eventID})
	require.NoError(t, err)
	require.Len(t, byEvent, 1)
	require.Equal(t, "e1", *byEvent[0].EventID)

	rejected := activity.TypeClockInRejected
	byType, err := repo.List(ctx, activity.ListActivityOptions{ActivityType: &rejected})
	require.NoError(t, err)
	require.Len(t, byType, 1)

	page, err := repo.List(ctx, activity.ListActivityOptions{Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)

	page, err = repo.List(ctx, activity.ListActivityOptions{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, activity.TypeClockIn, page[0].ActivityType)
}
