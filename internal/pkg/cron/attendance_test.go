package cron_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worktally/attendance-backend-go/internal/domain/attendance"
	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
	"github.com/worktally/attendance-backend-go/internal/pkg/cron"
	"github.com/worktally/attendance-backend-go/internal/repository/memory"
	archivesvc "github.com/worktally/attendance-backend-go/internal/service/archive"
)

func TestArchivePreviousDay(t *testing.T) {
	ctx := context.Background()
	yesterday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, repo *memory.AttendanceRepository) {
		t.Helper()
		checkout := yesterday.Add(17 * time.Hour)
		_, _, err := repo.CreateIfAbsent(ctx, attendance.Record{
			EmployeeID:         "EMP-001",
			Date:               yesterday,
			CheckinTime:        yesterday.Add(9 * time.Hour),
			CurrentCheckinTime: yesterday.Add(9 * time.Hour),
			CheckoutTime:       &checkout,
			Status:             attendance.StatusOut,
			WorkingHours:       8,
		})
		require.NoError(t, err)
	}

	t.Run("runs in the midnight hour", func(t *testing.T) {
		repo := memory.NewAttendanceRepository()
		history := memory.NewHistoryRepository()
		clk := &clock.Fixed{Current: time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC)}
		seed(t, repo)

		jobs := cron.NewAttendanceJobs(archivesvc.NewArchiveService(repo, history, nil, nil), clk)
		require.NoError(t, jobs.ArchivePreviousDay(ctx))

		remaining, err := repo.ListByDate(ctx, yesterday)
		require.NoError(t, err)
		assert.Empty(t, remaining)

		archived, err := history.ListByRange(ctx, yesterday, yesterday)
		require.NoError(t, err)
		assert.Len(t, archived, 1)
	})

	t.Run("skips outside the midnight hour", func(t *testing.T) {
		repo := memory.NewAttendanceRepository()
		history := memory.NewHistoryRepository()
		clk := &clock.Fixed{Current: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)}
		seed(t, repo)

		jobs := cron.NewAttendanceJobs(archivesvc.NewArchiveService(repo, history, nil, nil), clk)
		require.NoError(t, jobs.ArchivePreviousDay(ctx))

		remaining, err := repo.ListByDate(ctx, yesterday)
		require.NoError(t, err)
		assert.Len(t, remaining, 1, "archiving must not happen outside the midnight hour")
	})
}
